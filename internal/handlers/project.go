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

type ProjectService interface {
	CreateProject(ctx context.Context, uid string, req dto.CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, uid, projectID string) (*models.Project, error)
	ListProjects(ctx context.Context, uid string) ([]*models.Project, error)
	UpdateProject(ctx context.Context, uid, projectID string, req dto.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, uid, projectID string) error
}

type projectHandlers struct {
	ResponseHandler response.ResponseHandler
	ProjectSvc      ProjectService
}

func NewProjectHandlers(deps *Deps) *projectHandlers {
	return &projectHandlers{
		ResponseHandler: deps.ResponseHandler,
		ProjectSvc:      deps.ProjectSvc,
	}
}

func (h *projectHandlers) ProjectRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateProject)
	r.Get("/", h.ListProjects)
	r.Get("/{projectId}", h.GetProject)
	r.Put("/{projectId}", h.UpdateProject)
	r.Delete("/{projectId}", h.DeleteProject)
	return r
}

func (h *projectHandlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	project, err := h.ProjectSvc.CreateProject(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, project)
}

func (h *projectHandlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	projects, err := h.ProjectSvc.ListProjects(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, projects)
}

func (h *projectHandlers) GetProject(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	project, err := h.ProjectSvc.GetProject(r.Context(), uid, chi.URLParam(r, "projectId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, project)
}

func (h *projectHandlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	project, err := h.ProjectSvc.UpdateProject(r.Context(), uid, chi.URLParam(r, "projectId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, project)
}

func (h *projectHandlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.ProjectSvc.DeleteProject(r.Context(), uid, chi.URLParam(r, "projectId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
