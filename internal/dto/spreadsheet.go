package dto

import "github.com/gridbase/sheets-backend/internal/sheetdoc"

type CreateSpreadsheetRequest struct {
	Name      string `json:"name"`
	ProjectID string `json:"projectId,omitempty"`
	Data      string `json:"data,omitempty"`
}

type UpdateSpreadsheetRequest struct {
	Name *string `json:"name,omitempty"`
	Data *string `json:"data,omitempty"`
}

type ImportCSVRequest struct {
	SheetName string `json:"sheetName,omitempty"`
	CSV       string `json:"csv"`
}

type ColumnStatsRequest struct {
	Column string `json:"column"`
}

type ColumnStatsResponse struct {
	Stats       sheetdoc.ColumnStats `json:"stats"`
	ResultRow   int                  `json:"resultRow"`
	Spreadsheet string               `json:"spreadsheetId"`
}

type GenerateTableRequest struct {
	SheetName string   `json:"sheetName,omitempty"`
	Headers   []string `json:"headers"`
	Rows      int      `json:"rows"`
}

type AppendRowsRequest struct {
	SheetName string     `json:"sheetName,omitempty"`
	Rows      [][]string `json:"rows"`
}

type AppendRowsResponse struct {
	StartRow int `json:"startRow"`
	Rows     int `json:"rows"`
}

type RangeValuesResponse struct {
	SheetName string     `json:"sheetName"`
	Range     string     `json:"range"`
	Values    [][]string `json:"values"`
}
