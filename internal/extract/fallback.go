package extract

import (
	"regexp"
	"strings"
)

var (
	pageMarker    = regexp.MustCompile(`(?mi)^\s*-{2,}\s*page\s+(\d+)\s*-*\s*$|\f`)
	pageNumber    = regexp.MustCompile(`(?i)page\s+(\d+)`)
	columnSplit   = regexp.MustCompile(`\s{2,}|\t+`)
	idToken       = regexp.MustCompile(`^[A-Za-z]*[-_]?\d+[A-Za-z0-9-]*$`)
	dateToken     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$|^\d{1,2}[/.]\d{1,2}[/.]\d{2,4}$`)
	durationToken = regexp.MustCompile(`^\d+(\.\d+)?\s*(s|sec|secs|m|min|mins|h|hr|hrs|hours)?$`)
)

var headerKeywords = []string{
	"id", "date", "time", "name", "user", "device", "location", "feature",
	"duration", "type", "count", "status", "amount", "category", "page",
}

var deviceWords = map[string]bool{
	"mobile": true, "desktop": true, "tablet": true, "ios": true,
	"android": true, "web": true, "watch": true, "tv": true,
}

// Fallback is the heuristic table parser used when the model path fails.
// It splits the input on page markers, picks a header line per page, then
// assigns data-line tokens to the header's columns.
func Fallback(text string) []Table {
	var tables []Table
	for _, page := range splitPages(text) {
		if t, ok := parsePage(page.number, page.text); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

type page struct {
	number int
	text   string
}

func splitPages(text string) []page {
	markers := pageMarker.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		return []page{{number: 1, text: text}}
	}

	var pages []page
	if head := strings.TrimSpace(text[:markers[0][0]]); head != "" {
		pages = append(pages, page{number: 1, text: head})
	}
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		n := len(pages) + 1
		if nm := pageNumber.FindStringSubmatch(text[m[0]:m[1]]); nm != nil {
			n = atoiOr(nm[1], n)
		}
		pages = append(pages, page{number: n, text: text[m[1]:end]})
	}
	return pages
}

func parsePage(number int, text string) (Table, bool) {
	lines := strings.Split(text, "\n")

	headerIdx := -1
	bestScore := 0
	for i, line := range lines {
		if score := scoreHeaderLine(line); score > bestScore {
			bestScore = score
			headerIdx = i
		}
	}
	if headerIdx < 0 || bestScore < 3 {
		return Table{}, false
	}

	headers := splitColumns(lines[headerIdx])
	rows := [][]string{headers}
	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, assignTokens(headers, line))
	}
	if len(rows) < 2 {
		return Table{}, false
	}
	return Table{Page: number, Rows: rows}, true
}

// scoreHeaderLine rewards lines that look like column headers: several
// 2+-space-separated fields, capitalized words, known column keywords.
func scoreHeaderLine(line string) int {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0
	}
	cols := splitColumns(trimmed)
	if len(cols) < 2 {
		return 0
	}

	score := len(cols)
	for _, col := range cols {
		lc := strings.ToLower(col)
		for _, kw := range headerKeywords {
			if strings.Contains(lc, kw) {
				score += 2
				break
			}
		}
		if col[0] >= 'A' && col[0] <= 'Z' {
			score++
		}
		// Numbers rarely appear in header fields.
		if idToken.MatchString(col) || dateToken.MatchString(col) {
			score -= 2
		}
	}
	return score
}

func splitColumns(line string) []string {
	parts := columnSplit.Split(strings.TrimSpace(line), -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// assignTokens maps one data line onto the header's columns. When the
// aligned split already matches the column count it is used as is;
// otherwise tokens are claimed by per-header heuristics with an even split
// of whatever remains.
func assignTokens(headers []string, line string) []string {
	cols := splitColumns(line)
	if len(cols) == len(headers) {
		return cols
	}

	tokens := strings.Fields(line)
	row := make([]string, len(headers))
	used := make([]bool, len(tokens))

	claim := func(col int, match func(string) bool) {
		for i, tok := range tokens {
			if !used[i] && match(tok) {
				row[col] = tok
				used[i] = true
				return
			}
		}
	}

	for col, h := range headers {
		lh := strings.ToLower(h)
		switch {
		case strings.Contains(lh, "id"):
			claim(col, idToken.MatchString)
		case strings.Contains(lh, "date"):
			claim(col, dateToken.MatchString)
		case strings.Contains(lh, "duration") || strings.Contains(lh, "time"):
			claim(col, durationToken.MatchString)
		case strings.Contains(lh, "device"):
			claim(col, func(t string) bool { return deviceWords[strings.ToLower(t)] })
		}
	}

	// Remaining tokens are split evenly across unfilled columns; feature
	// and location columns tend to hold multi-word phrases.
	var rest []string
	for i, tok := range tokens {
		if !used[i] {
			rest = append(rest, tok)
		}
	}
	var open []int
	for col := range row {
		if row[col] == "" {
			open = append(open, col)
		}
	}
	if len(open) > 0 && len(rest) > 0 {
		per := len(rest) / len(open)
		if per == 0 {
			per = 1
		}
		for i, col := range open {
			start := i * per
			if start >= len(rest) {
				break
			}
			end := start + per
			if i == len(open)-1 || end > len(rest) {
				end = len(rest)
			}
			row[col] = strings.Join(rest[start:end], " ")
		}
	}
	return row
}

func atoiOr(s string, fallback int) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fallback
		}
		n = n*10 + int(s[i]-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}
