// Package sheetdoc implements pure transformations over the persisted
// spreadsheet document: a JSON array of sheets, each holding a sparse
// "row_col"-keyed cell map. The schema is owned by the embedded editor
// widget; this package is the only place the backend reaches into it.
package sheetdoc

import (
	"encoding/json"
	"strings"

	"github.com/gridbase/sheets-backend/internal/errs"
)

const DefaultSheetName = "Sheet1"

// Document is the parsed form of a spreadsheet's `data` blob.
type Document struct {
	Sheets []*Sheet
}

// Sheet mirrors one element of the persisted JSON array.
type Sheet struct {
	Name   string            `json:"name"`
	Freeze string            `json:"freeze,omitempty"`
	Styles []json.RawMessage `json:"styles,omitempty"`
	Merges []string          `json:"merges,omitempty"`
	Cols   Axis              `json:"cols,omitempty"`
	Rows   Axis              `json:"rows,omitempty"`
	Cells  Grid              `json:"cells"`
}

// Axis carries the editor's row/column extent hint.
type Axis struct {
	Len int `json:"len,omitempty"`
}

// Parse decodes a document blob. An empty blob yields a single default
// sheet, matching what the editor widget produces for a new spreadsheet.
func Parse(data string) (*Document, error) {
	if strings.TrimSpace(data) == "" {
		return New(DefaultSheetName), nil
	}

	var sheets []*Sheet
	if err := json.Unmarshal([]byte(data), &sheets); err != nil {
		return nil, errs.NewValidationError("malformed spreadsheet data: " + err.Error())
	}
	if len(sheets) == 0 {
		return New(DefaultSheetName), nil
	}
	for _, s := range sheets {
		if s.Cells == nil {
			s.Cells = Grid{}
		}
	}
	return &Document{Sheets: sheets}, nil
}

// New creates a document with one empty sheet.
func New(name string) *Document {
	return &Document{Sheets: []*Sheet{NewSheet(name)}}
}

func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:  name,
		Cols:  Axis{Len: 26},
		Rows:  Axis{Len: 100},
		Cells: Grid{},
	}
}

// Encode serializes the document back to the persisted blob form.
func (d *Document) Encode() (string, error) {
	b, err := json.Marshal(d.Sheets)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Sheet returns the sheet with the given name, or nil. An empty name
// selects the first sheet.
func (d *Document) Sheet(name string) *Sheet {
	if len(d.Sheets) == 0 {
		return nil
	}
	if name == "" {
		return d.Sheets[0]
	}
	for _, s := range d.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// AddSheet appends a sheet, replacing any existing sheet with the same name.
func (d *Document) AddSheet(sheet *Sheet) {
	for i, s := range d.Sheets {
		if s.Name == sheet.Name {
			d.Sheets[i] = sheet
			return
		}
	}
	d.Sheets = append(d.Sheets, sheet)
}
