package sheetdoc

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gridbase/sheets-backend/internal/errs"
)

// ExportCSV renders the sheet's bounding rectangle as CSV. Fields with
// commas, quotes or newlines are quoted with embedded quotes doubled, per
// RFC 4180. An empty sheet yields an empty string.
func ExportCSV(s *Sheet) (string, error) {
	maxRow, maxCol, ok := s.Bounds()
	if !ok {
		return "", nil
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	record := make([]string, maxCol+1)
	for row := 0; row <= maxRow; row++ {
		for col := 0; col <= maxCol; col++ {
			record[col] = s.Cells.Text(row, col)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// ImportCSV builds a single-sheet document from CSV input. Ragged rows are
// accepted; quoting follows the standard reader.
func ImportCSV(sheetName string, r io.Reader) (*Document, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	sheet := NewSheet(sheetName)
	row := 0
	maxCol := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.NewValidationError("malformed CSV: " + err.Error())
		}
		for col, text := range record {
			sheet.Cells.Set(row, col, strings.TrimSpace(text))
			if col > maxCol {
				maxCol = col
			}
		}
		row++
	}

	if row > sheet.Rows.Len {
		sheet.Rows.Len = row
	}
	if maxCol+1 > sheet.Cols.Len {
		sheet.Cols.Len = maxCol + 1
	}
	return &Document{Sheets: []*Sheet{sheet}}, nil
}
