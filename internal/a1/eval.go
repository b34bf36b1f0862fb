package a1

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gridbase/sheets-backend/internal/sheetdoc"
)

// sumDepthLimit caps recursive SUM resolution so self-referencing formulas
// terminate.
const sumDepthLimit = 16

var sumPattern = regexp.MustCompile(`(?i)^=\s*SUM\(\s*([A-Za-z]+[0-9]+(?::[A-Za-z]+[0-9]+)?)\s*\)$`)

// RangeValues extracts the 2D text values of a range from a sheet. Cells
// holding a SUM formula are resolved to their computed value; other
// formulas pass through as literal text.
func RangeValues(sheet *sheetdoc.Sheet, rng Range) [][]string {
	rows := make([][]string, 0, rng.End.Row-rng.Start.Row+1)
	for r := rng.Start.Row; r <= rng.End.Row; r++ {
		row := make([]string, 0, rng.End.Col-rng.Start.Col+1)
		for c := rng.Start.Col; c <= rng.End.Col; c++ {
			row = append(row, cellValue(sheet, r, c, sumDepthLimit))
		}
		rows = append(rows, row)
	}
	return rows
}

// EvalSum computes the sum of all numeric values in the range, resolving
// nested SUM formulas.
func EvalSum(sheet *sheetdoc.Sheet, rng Range) float64 {
	return evalSum(sheet, rng, sumDepthLimit)
}

func cellValue(sheet *sheetdoc.Sheet, row, col, depth int) string {
	text := sheet.Cells.Text(row, col)
	m := sumPattern.FindStringSubmatch(text)
	if m == nil || depth <= 0 {
		return text
	}
	inner, err := ParseRange(m[1])
	if err != nil {
		return text
	}
	return strconv.FormatFloat(evalSum(sheet, inner, depth-1), 'f', -1, 64)
}

func evalSum(sheet *sheetdoc.Sheet, rng Range, depth int) float64 {
	var total float64
	for r := rng.Start.Row; r <= rng.End.Row; r++ {
		for c := rng.Start.Col; c <= rng.End.Col; c++ {
			text := cellValue(sheet, r, c, depth)
			text = strings.TrimPrefix(strings.TrimSpace(text), "$")
			text = strings.ReplaceAll(text, ",", "")
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				total += v
			}
		}
	}
	return total
}
