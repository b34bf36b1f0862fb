package sheetdoc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/gridbase/sheets-backend/internal/errs"
)

// headerScanRows limits how deep the header search looks; real tables
// carry their header within the first few rows.
const headerScanRows = 10

// ColumnStats is the aggregate over one matched column.
type ColumnStats struct {
	Column    string  `json:"column"`
	SheetName string  `json:"sheetName"`
	HeaderRow int     `json:"headerRow"`
	HeaderCol int     `json:"headerCol"`
	Sum       float64 `json:"sum"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

type headerCandidate struct {
	sheet    *Sheet
	sheetIdx int
	ref      CellRef
	text     string
}

// Stats locates the column whose header best matches name and aggregates
// the numeric cells below it. Exact matches win over substring matches,
// which win over fuzzy ranking. Non-numeric and blank cells are skipped.
func (d *Document) Stats(name string) (*ColumnStats, error) {
	target := strings.TrimSpace(name)
	if target == "" {
		return nil, errs.NewValidationError("column name is required")
	}

	match := d.findHeader(target)
	if match == nil {
		return nil, errs.NewNotFoundError("column not found: " + target)
	}

	stats := &ColumnStats{
		Column:    match.text,
		SheetName: match.sheet.Name,
		HeaderRow: match.ref.Row,
		HeaderCol: match.ref.Col,
	}
	maxRow, _, _ := match.sheet.Bounds()
	for row := match.ref.Row + 1; row <= maxRow; row++ {
		v, ok := match.sheet.Cells.Number(row, match.ref.Col)
		if !ok {
			continue
		}
		if stats.Count == 0 || v < stats.Min {
			stats.Min = v
		}
		if stats.Count == 0 || v > stats.Max {
			stats.Max = v
		}
		stats.Sum += v
		stats.Count++
	}
	if stats.Count == 0 {
		return nil, errs.NewValidationError("no numeric values in column: " + match.text)
	}
	stats.Average = stats.Sum / float64(stats.Count)
	return stats, nil
}

// findHeader scans header-looking cells (non-numeric text in the top rows)
// across all sheets.
func (d *Document) findHeader(target string) *headerCandidate {
	lowered := strings.ToLower(target)

	var candidates []headerCandidate
	for idx, sheet := range d.Sheets {
		for ref, cell := range sheet.Cells {
			text := strings.TrimSpace(cell.Text)
			if text == "" || ref.Row >= headerScanRows {
				continue
			}
			if _, numeric := parseNumber(text); numeric {
				continue
			}
			candidates = append(candidates, headerCandidate{sheet: sheet, sheetIdx: idx, ref: ref, text: text})
		}
	}
	// Cell map iteration order is random; ties between equally good headers
	// must resolve to the same column on every call.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.sheetIdx != b.sheetIdx {
			return a.sheetIdx < b.sheetIdx
		}
		if a.ref.Row != b.ref.Row {
			return a.ref.Row < b.ref.Row
		}
		return a.ref.Col < b.ref.Col
	})

	// Pass 1: exact (case-insensitive).
	for i := range candidates {
		if strings.EqualFold(candidates[i].text, target) {
			return &candidates[i]
		}
	}
	// Pass 2: substring either direction.
	for i := range candidates {
		lc := strings.ToLower(candidates[i].text)
		if strings.Contains(lc, lowered) || strings.Contains(lowered, lc) {
			return &candidates[i]
		}
	}
	// Pass 3: fuzzy rank.
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.text
	}
	if matches := fuzzy.Find(target, texts); len(matches) > 0 {
		return &candidates[matches[0].Index]
	}
	return nil
}

// AppendStatsRow writes a labeled result row for stats at the sheet's next
// available row and returns the row index.
func AppendStatsRow(sheet *Sheet, stats *ColumnStats) int {
	row := [][]string{{
		stats.Column + " stats",
		"sum=" + formatNumber(stats.Sum),
		"avg=" + formatNumber(stats.Average),
		"count=" + strconv.Itoa(stats.Count),
		"min=" + formatNumber(stats.Min),
		"max=" + formatNumber(stats.Max),
	}}
	return sheet.AppendRows(row)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
