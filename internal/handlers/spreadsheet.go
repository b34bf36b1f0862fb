package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/middleware"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/internal/realtime"
	"github.com/gridbase/sheets-backend/internal/response"
)

type SpreadsheetService interface {
	CreateSpreadsheet(ctx context.Context, uid string, req dto.CreateSpreadsheetRequest) (*models.Spreadsheet, error)
	GetSpreadsheet(ctx context.Context, uid, spreadsheetID string) (*models.Spreadsheet, error)
	ListSpreadsheets(ctx context.Context, uid, projectID string) ([]*models.Spreadsheet, error)
	UpdateSpreadsheet(ctx context.Context, uid, spreadsheetID string, req dto.UpdateSpreadsheetRequest) (*models.Spreadsheet, error)
	DeleteSpreadsheet(ctx context.Context, uid, spreadsheetID string) error
	ImportCSV(ctx context.Context, uid, spreadsheetID string, req dto.ImportCSVRequest) (*models.Spreadsheet, error)
	ExportCSV(ctx context.Context, uid, spreadsheetID, sheetName string) (string, error)
	ColumnStats(ctx context.Context, uid, spreadsheetID string, req dto.ColumnStatsRequest) (*dto.ColumnStatsResponse, error)
	GenerateTable(ctx context.Context, uid, spreadsheetID string, req dto.GenerateTableRequest) (*models.Spreadsheet, error)
	AppendRows(ctx context.Context, uid, spreadsheetID string, req dto.AppendRowsRequest) (*dto.AppendRowsResponse, error)
	RangeValues(ctx context.Context, uid, spreadsheetID, sheetName, rangeStr string) (*dto.RangeValuesResponse, error)
}

type spreadsheetHandlers struct {
	ResponseHandler response.ResponseHandler
	SpreadsheetSvc  SpreadsheetService
	Hub             *realtime.Hub
}

func NewSpreadsheetHandlers(deps *Deps) *spreadsheetHandlers {
	return &spreadsheetHandlers{
		ResponseHandler: deps.ResponseHandler,
		SpreadsheetSvc:  deps.SpreadsheetSvc,
		Hub:             deps.Hub,
	}
}

func (h *spreadsheetHandlers) SpreadsheetRoutes(charts *chartHandlers) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateSpreadsheet)
	r.Get("/", h.ListSpreadsheets)
	r.Route("/{spreadsheetId}", func(r chi.Router) {
		r.Get("/", h.GetSpreadsheet)
		r.Put("/", h.UpdateSpreadsheet)
		r.Delete("/", h.DeleteSpreadsheet)
		r.Post("/csv", h.ImportCSV)
		r.Get("/csv", h.ExportCSV)
		r.Post("/stats", h.ColumnStats)
		r.Post("/generate", h.GenerateTable)
		r.Post("/rows", h.AppendRows)
		r.Get("/range", h.RangeValues)
		r.Get("/ws", h.Subscribe)
		r.Mount("/charts", charts.ChartRoutes())
	})
	return r
}

func (h *spreadsheetHandlers) CreateSpreadsheet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSpreadsheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	sheet, err := h.SpreadsheetSvc.CreateSpreadsheet(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, sheet)
}

func (h *spreadsheetHandlers) ListSpreadsheets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	sheets, err := h.SpreadsheetSvc.ListSpreadsheets(r.Context(), uid, r.URL.Query().Get("projectId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sheets)
}

func (h *spreadsheetHandlers) GetSpreadsheet(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	sheet, err := h.SpreadsheetSvc.GetSpreadsheet(r.Context(), uid, chi.URLParam(r, "spreadsheetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sheet)
}

func (h *spreadsheetHandlers) UpdateSpreadsheet(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSpreadsheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	sheet, err := h.SpreadsheetSvc.UpdateSpreadsheet(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sheet)
}

func (h *spreadsheetHandlers) DeleteSpreadsheet(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.SpreadsheetSvc.DeleteSpreadsheet(r.Context(), uid, chi.URLParam(r, "spreadsheetId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *spreadsheetHandlers) ImportCSV(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportCSVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	sheet, err := h.SpreadsheetSvc.ImportCSV(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sheet)
}

// ExportCSV answers raw CSV rather than the JSON envelope so browsers can
// download it directly.
func (h *spreadsheetHandlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	csvText, err := h.SpreadsheetSvc.ExportCSV(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), r.URL.Query().Get("sheet"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csvText))
}

func (h *spreadsheetHandlers) ColumnStats(w http.ResponseWriter, r *http.Request) {
	var req dto.ColumnStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	stats, err := h.SpreadsheetSvc.ColumnStats(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func (h *spreadsheetHandlers) GenerateTable(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	sheet, err := h.SpreadsheetSvc.GenerateTable(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sheet)
}

func (h *spreadsheetHandlers) AppendRows(w http.ResponseWriter, r *http.Request) {
	var req dto.AppendRowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	resp, err := h.SpreadsheetSvc.AppendRows(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *spreadsheetHandlers) RangeValues(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	q := r.URL.Query()
	resp, err := h.SpreadsheetSvc.RangeValues(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), q.Get("sheet"), q.Get("range"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

// Subscribe upgrades to a websocket that receives change events for this
// spreadsheet. Ownership is checked before the upgrade.
func (h *spreadsheetHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	spreadsheetID := chi.URLParam(r, "spreadsheetId")
	if _, err := h.SpreadsheetSvc.GetSpreadsheet(r.Context(), uid, spreadsheetID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.Hub.ServeWS(w, r, spreadsheetID)
}
