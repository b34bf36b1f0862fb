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

type DashboardService interface {
	CreateDashboard(ctx context.Context, uid string, req dto.CreateDashboardRequest) (*models.Dashboard, error)
	GetDashboard(ctx context.Context, uid, dashboardID string) (*models.Dashboard, error)
	ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error)
	UpdateDashboard(ctx context.Context, uid, dashboardID string, req dto.UpdateDashboardRequest) (*models.Dashboard, error)
	DeleteDashboard(ctx context.Context, uid, dashboardID string) error
	CreateWidget(ctx context.Context, uid, dashboardID string, req dto.CreateWidgetRequest) (*models.Widget, error)
	ListWidgets(ctx context.Context, uid, dashboardID string) ([]*models.Widget, error)
	UpdateWidget(ctx context.Context, uid, dashboardID, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error)
	DeleteWidget(ctx context.Context, uid, dashboardID, widgetID string) error
	ReorderWidgets(ctx context.Context, uid, dashboardID string, req dto.ReorderWidgetsRequest) error
	GetWidgetData(ctx context.Context, uid, dashboardID, widgetID string) (*dto.WidgetDataResponse, error)
	GetDashboardData(ctx context.Context, uid, dashboardID string) (*dto.DashboardDataResponse, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateDashboard)
	r.Get("/", h.ListDashboards)
	r.Route("/{dashboardId}", func(r chi.Router) {
		r.Get("/", h.GetDashboard)
		r.Put("/", h.UpdateDashboard)
		r.Delete("/", h.DeleteDashboard)
		r.Get("/data", h.GetDashboardData)
		r.Post("/widgets", h.CreateWidget)
		r.Get("/widgets", h.ListWidgets)
		r.Put("/widgets/reorder", h.ReorderWidgets) // must be before /{widgetId}
		r.Put("/widgets/{widgetId}", h.UpdateWidget)
		r.Delete("/widgets/{widgetId}", h.DeleteWidget)
		r.Get("/widgets/{widgetId}/data", h.GetWidgetData)
	})
	return r
}

func (h *dashboardHandlers) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	dashboard, err := h.DashboardSvc.CreateDashboard(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dashboard)
}

func (h *dashboardHandlers) ListDashboards(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	dashboards, err := h.DashboardSvc.ListDashboards(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dashboards)
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	dashboard, err := h.DashboardSvc.GetDashboard(r.Context(), uid, chi.URLParam(r, "dashboardId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dashboard)
}

func (h *dashboardHandlers) UpdateDashboard(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	dashboard, err := h.DashboardSvc.UpdateDashboard(r.Context(), uid, chi.URLParam(r, "dashboardId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dashboard)
}

func (h *dashboardHandlers) DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.DeleteDashboard(r.Context(), uid, chi.URLParam(r, "dashboardId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.CreateWidget(r.Context(), uid, chi.URLParam(r, "dashboardId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, widget)
}

func (h *dashboardHandlers) ListWidgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	widgets, err := h.DashboardSvc.ListWidgets(r.Context(), uid, chi.URLParam(r, "dashboardId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widgets)
}

func (h *dashboardHandlers) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.UpdateWidget(r.Context(), uid, chi.URLParam(r, "dashboardId"), chi.URLParam(r, "widgetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *dashboardHandlers) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.DeleteWidget(r.Context(), uid, chi.URLParam(r, "dashboardId"), chi.URLParam(r, "widgetId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) ReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderWidgetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.ReorderWidgets(r.Context(), uid, chi.URLParam(r, "dashboardId"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) GetWidgetData(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	data, err := h.DashboardSvc.GetWidgetData(r.Context(), uid, chi.URLParam(r, "dashboardId"), chi.URLParam(r, "widgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *dashboardHandlers) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	data, err := h.DashboardSvc.GetDashboardData(r.Context(), uid, chi.URLParam(r, "dashboardId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}
