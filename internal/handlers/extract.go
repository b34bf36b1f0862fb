package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/response"
)

type ExtractService interface {
	ExtractTables(ctx context.Context, text string) dto.ExtractTablesResponse
}

type extractHandlers struct {
	ResponseHandler response.ResponseHandler
	ExtractSvc      ExtractService
}

func NewExtractHandlers(deps *Deps) *extractHandlers {
	return &extractHandlers{
		ResponseHandler: deps.ResponseHandler,
		ExtractSvc:      deps.ExtractSvc,
	}
}

// ExtractTables is deliberately forgiving: the only client error is a
// missing text field. Everything downstream degrades to an empty table
// list with a 200 so the editor's import dialog never breaks.
func (h *extractHandlers) ExtractTables(w http.ResponseWriter, r *http.Request) {
	var req dto.ExtractTablesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.WriteError(w, r, http.StatusBadRequest, "invalid_input", "text is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.ResponseHandler.WriteError(w, r, http.StatusBadRequest, "invalid_input", "text is required")
		return
	}

	resp := h.ExtractSvc.ExtractTables(r.Context(), req.Text)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
