package dto

import "github.com/gridbase/sheets-backend/internal/models"

type CreateConnectionRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type CreateImportRequest struct {
	ConnectionID  string `json:"connectionId"`
	SpreadsheetID string `json:"spreadsheetId"`
	BaseID        string `json:"baseId"`
	TableID       string `json:"tableId"`
	TableName     string `json:"tableName,omitempty"`
}

type SyncResult struct {
	ImportID    string `json:"importId"`
	RecordCount int    `json:"recordCount"`
	RowsWritten int    `json:"rowsWritten"`
	SheetName   string `json:"sheetName"`
}

// AirtableTable is one table of a base, from the metadata API.
type AirtableTable struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// AirtableRecordPage is one page from the list-records endpoint.
type AirtableRecordPage struct {
	Records []AirtableRecord
	Offset  string
}

type AirtableRecord struct {
	ID     string
	Fields map[string]any
}

type ImportWithConnection struct {
	Import     *models.AirtableImport     `json:"import"`
	Connection *models.AirtableConnection `json:"connection,omitempty"`
}
