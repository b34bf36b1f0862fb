package sheetdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef addresses one cell. It round-trips the widget's "row_col" map
// key through TextMarshaler so the sparse grid can stay typed.
type CellRef struct {
	Row int
	Col int
}

func (r CellRef) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d_%d", r.Row, r.Col)), nil
}

func (r *CellRef) UnmarshalText(b []byte) error {
	row, col, ok := strings.Cut(string(b), "_")
	if !ok {
		return fmt.Errorf("invalid cell key %q", b)
	}
	var err error
	if r.Row, err = strconv.Atoi(row); err != nil {
		return fmt.Errorf("invalid cell key %q", b)
	}
	if r.Col, err = strconv.Atoi(col); err != nil {
		return fmt.Errorf("invalid cell key %q", b)
	}
	return nil
}

// Cell is a single populated cell. Style indexes into the sheet's style
// table, which this backend never interprets.
type Cell struct {
	Text  string `json:"text"`
	Style *int   `json:"style,omitempty"`
}

// Grid is the sparse cell map of one sheet.
type Grid map[CellRef]Cell

// Text returns the trimmed text at (row, col), or "" for an empty cell.
func (g Grid) Text(row, col int) string {
	return strings.TrimSpace(g[CellRef{Row: row, Col: col}].Text)
}

// Set writes text at (row, col). Empty text deletes the cell so the grid
// stays sparse.
func (g Grid) Set(row, col int, text string) {
	ref := CellRef{Row: row, Col: col}
	if text == "" {
		delete(g, ref)
		return
	}
	g[ref] = Cell{Text: text}
}

// Number parses the cell at (row, col) as a float. Thousands separators
// and a leading currency sign are tolerated since imported data often
// carries them.
func (g Grid) Number(row, col int) (float64, bool) {
	return parseNumber(g.Text(row, col))
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Bounds returns the inclusive bounding rectangle of all populated cells.
// ok is false for an empty sheet.
func (s *Sheet) Bounds() (maxRow, maxCol int, ok bool) {
	for ref, cell := range s.Cells {
		if strings.TrimSpace(cell.Text) == "" {
			continue
		}
		if !ok || ref.Row > maxRow {
			maxRow = ref.Row
		}
		if !ok || ref.Col > maxCol {
			maxCol = ref.Col
		}
		ok = true
	}
	return maxRow, maxCol, ok
}

// NextAvailableRow returns the first row index after the last row that
// contains any non-whitespace cell. Rows whose every cell is blank do not
// count as used, so a sheet with content only in row 5 yields 6.
func (s *Sheet) NextAvailableRow() int {
	next := 0
	for ref, cell := range s.Cells {
		if strings.TrimSpace(cell.Text) == "" {
			continue
		}
		if ref.Row+1 > next {
			next = ref.Row + 1
		}
	}
	return next
}

// AppendRows writes the given rows starting at the next available row and
// grows the sheet's row extent if needed. Returns the row index written to.
func (s *Sheet) AppendRows(rows [][]string) int {
	start := s.NextAvailableRow()
	for i, row := range rows {
		for j, text := range row {
			s.Cells.Set(start+i, j, text)
		}
	}
	if end := start + len(rows); end > s.Rows.Len {
		s.Rows.Len = end
	}
	return start
}
