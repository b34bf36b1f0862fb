package dto

import "github.com/gridbase/sheets-backend/internal/extract"

type ExtractTablesRequest struct {
	Text string `json:"text"`
}

// ExtractTablesResponse always carries a tables array; Error is set when
// the pipeline gave up but the route still answered 200.
type ExtractTablesResponse struct {
	Tables []extract.Table `json:"tables"`
	Error  string          `json:"error,omitempty"`
}
