package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/middleware"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/internal/response"
)

type ChartService interface {
	CreateChart(ctx context.Context, uid, spreadsheetID string, req dto.CreateChartRequest) (*models.Chart, error)
	GetChart(ctx context.Context, uid, chartID string) (*models.Chart, error)
	ListCharts(ctx context.Context, uid, spreadsheetID string) ([]*models.Chart, error)
	UpdateChart(ctx context.Context, uid, chartID string, req dto.UpdateChartRequest) (*models.Chart, error)
	DeleteChart(ctx context.Context, uid, chartID string) error
}

type chartHandlers struct {
	ResponseHandler response.ResponseHandler
	ChartSvc        ChartService
}

func NewChartHandlers(deps *Deps) *chartHandlers {
	return &chartHandlers{
		ResponseHandler: deps.ResponseHandler,
		ChartSvc:        deps.ChartSvc,
	}
}

// ChartRoutes mounts under /spreadsheets/{spreadsheetId}/charts.
func (h *chartHandlers) ChartRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateChart)
	r.Get("/", h.ListCharts)
	r.Get("/{chartId}", h.GetChart)
	r.Put("/{chartId}", h.UpdateChart)
	r.Delete("/{chartId}", h.DeleteChart)
	return r
}

func (h *chartHandlers) CreateChart(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	chart, err := h.ChartSvc.CreateChart(r.Context(), uid, chi.URLParam(r, "spreadsheetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, chart)
}

func (h *chartHandlers) ListCharts(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	charts, err := h.ChartSvc.ListCharts(r.Context(), uid, chi.URLParam(r, "spreadsheetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, charts)
}

func (h *chartHandlers) GetChart(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	chart, err := h.ChartSvc.GetChart(r.Context(), uid, chi.URLParam(r, "chartId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, chart)
}

func (h *chartHandlers) UpdateChart(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	chart, err := h.ChartSvc.UpdateChart(r.Context(), uid, chi.URLParam(r, "chartId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, chart)
}

func (h *chartHandlers) DeleteChart(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.ChartSvc.DeleteChart(r.Context(), uid, chi.URLParam(r, "chartId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
