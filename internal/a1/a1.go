// Package a1 converts between A1 notation and zero-based row/column
// indexes, and extracts cell ranges from sheet documents. The only formula
// it understands is SUM over a range; everything else stays literal text.
package a1

import (
	"strings"

	"github.com/gridbase/sheets-backend/internal/errs"
)

// ColumnToLetters converts a zero-based column index to letters: 0 → "A",
// 25 → "Z", 26 → "AA".
func ColumnToLetters(col int) string {
	if col < 0 {
		return ""
	}
	var b [8]byte
	i := len(b)
	for {
		i--
		b[i] = byte('A' + col%26)
		col = col/26 - 1
		if col < 0 {
			break
		}
	}
	return string(b[i:])
}

// LettersToColumn converts column letters to a zero-based index.
func LettersToColumn(letters string) (int, error) {
	if letters == "" {
		return 0, errs.NewValidationError("empty column letters")
	}
	col := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0, errs.NewValidationError("invalid column letters: " + letters)
		}
		col = col*26 + int(r-'A') + 1
	}
	return col - 1, nil
}

// Ref is a zero-based cell address.
type Ref struct {
	Row int
	Col int
}

func (r Ref) String() string {
	return ColumnToLetters(r.Col) + itoa(r.Row+1)
}

// ParseRef parses a single cell reference like "B2" into zero-based
// coordinates (row 1, col 1).
func ParseRef(ref string) (Ref, error) {
	ref = strings.TrimSpace(ref)
	split := 0
	for split < len(ref) && !isDigit(ref[split]) {
		split++
	}
	if split == 0 || split == len(ref) {
		return Ref{}, errs.NewValidationError("invalid cell reference: " + ref)
	}
	col, err := LettersToColumn(ref[:split])
	if err != nil {
		return Ref{}, err
	}
	row, ok := atoi(ref[split:])
	if !ok || row < 1 {
		return Ref{}, errs.NewValidationError("invalid cell reference: " + ref)
	}
	return Ref{Row: row - 1, Col: col}, nil
}

// Range is an inclusive rectangular range.
type Range struct {
	Start Ref
	End   Ref
}

func (r Range) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// ParseRange parses "A1:C3" or a single cell "B2" (start == end). The
// corners are normalized so Start is the top-left.
func ParseRange(rng string) (Range, error) {
	first, rest, found := strings.Cut(strings.TrimSpace(rng), ":")
	start, err := ParseRef(first)
	if err != nil {
		return Range{}, err
	}
	end := start
	if found {
		if end, err = ParseRef(rest); err != nil {
			return Range{}, err
		}
	}
	if end.Row < start.Row {
		start.Row, end.Row = end.Row, start.Row
	}
	if end.Col < start.Col {
		start.Col, end.Col = end.Col, start.Col
	}
	return Range{Start: start, End: end}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [12]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
