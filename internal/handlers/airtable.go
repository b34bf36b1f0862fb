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

type AirtableService interface {
	CreateConnection(ctx context.Context, uid string, req dto.CreateConnectionRequest) (*models.AirtableConnection, error)
	ListConnections(ctx context.Context, uid string) ([]*models.AirtableConnection, error)
	DeleteConnection(ctx context.Context, uid, connectionID string) error
	ListTables(ctx context.Context, uid, connectionID, baseID string) ([]dto.AirtableTable, error)
	CreateImport(ctx context.Context, uid string, req dto.CreateImportRequest) (*models.AirtableImport, error)
	ListImports(ctx context.Context, uid string) ([]*models.AirtableImport, error)
	DeleteImport(ctx context.Context, uid, importID string) error
	Sync(ctx context.Context, uid, importID string) (*dto.SyncResult, error)
}

type airtableHandlers struct {
	ResponseHandler response.ResponseHandler
	AirtableSvc     AirtableService
}

func NewAirtableHandlers(deps *Deps) *airtableHandlers {
	return &airtableHandlers{
		ResponseHandler: deps.ResponseHandler,
		AirtableSvc:     deps.AirtableSvc,
	}
}

func (h *airtableHandlers) AirtableRoutes() chi.Router {
	r := chi.NewRouter()
	r.Route("/connections", func(r chi.Router) {
		r.Post("/", h.CreateConnection)
		r.Get("/", h.ListConnections)
		r.Delete("/{connectionId}", h.DeleteConnection)
		r.Get("/{connectionId}/bases/{baseId}/tables", h.ListTables)
	})
	r.Route("/imports", func(r chi.Router) {
		r.Post("/", h.CreateImport)
		r.Get("/", h.ListImports)
		r.Delete("/{importId}", h.DeleteImport)
		r.Post("/{importId}/sync", h.Sync)
	})
	return r
}

func (h *airtableHandlers) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	conn, err := h.AirtableSvc.CreateConnection(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, conn)
}

func (h *airtableHandlers) ListConnections(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	conns, err := h.AirtableSvc.ListConnections(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, conns)
}

func (h *airtableHandlers) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.AirtableSvc.DeleteConnection(r.Context(), uid, chi.URLParam(r, "connectionId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *airtableHandlers) ListTables(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	tables, err := h.AirtableSvc.ListTables(r.Context(), uid, chi.URLParam(r, "connectionId"), chi.URLParam(r, "baseId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tables)
}

func (h *airtableHandlers) CreateImport(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	imp, err := h.AirtableSvc.CreateImport(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, imp)
}

func (h *airtableHandlers) ListImports(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	imports, err := h.AirtableSvc.ListImports(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, imports)
}

func (h *airtableHandlers) DeleteImport(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.AirtableSvc.DeleteImport(r.Context(), uid, chi.URLParam(r, "importId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *airtableHandlers) Sync(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	result, err := h.AirtableSvc.Sync(r.Context(), uid, chi.URLParam(r, "importId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
