package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
)

type stubProjectService struct {
	project *models.Project
	lastUID string
	lastID  string
	err     error
}

func (s *stubProjectService) CreateProject(_ context.Context, uid string, req dto.CreateProjectRequest) (*models.Project, error) {
	s.lastUID = uid
	if s.err != nil {
		return nil, s.err
	}
	return &models.Project{ProjectID: "p1", OwnerUID: uid, Name: req.Name}, nil
}

func (s *stubProjectService) GetProject(_ context.Context, uid, projectID string) (*models.Project, error) {
	s.lastUID, s.lastID = uid, projectID
	return s.project, s.err
}

func (s *stubProjectService) ListProjects(_ context.Context, uid string) ([]*models.Project, error) {
	s.lastUID = uid
	return []*models.Project{s.project}, s.err
}

func (s *stubProjectService) UpdateProject(_ context.Context, uid, projectID string, _ dto.UpdateProjectRequest) (*models.Project, error) {
	s.lastUID, s.lastID = uid, projectID
	return s.project, s.err
}

func (s *stubProjectService) DeleteProject(_ context.Context, uid, projectID string) error {
	s.lastUID, s.lastID = uid, projectID
	return s.err
}

func TestCreateProject(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubProjectService{}
	h := &projectHandlers{ResponseHandler: rh, ProjectSvc: svc}

	w := httptest.NewRecorder()
	r := withUID(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Q3"}`)), "u1")
	h.CreateProject(w, r)

	if rh.status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rh.status)
	}
	if svc.lastUID != "u1" {
		t.Fatalf("service saw uid %q", svc.lastUID)
	}
	p, ok := rh.data.(*models.Project)
	if !ok || p.Name != "Q3" {
		t.Fatalf("data = %#v", rh.data)
	}
}

func TestUpdateProjectRoutesIDAndUID(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubProjectService{project: &models.Project{ProjectID: "p1", OwnerUID: "u1"}}
	h := &projectHandlers{ResponseHandler: rh, ProjectSvc: svc}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/p1", strings.NewReader(`{"name":"Renamed"}`))
	r = withUID(r, "u1")
	r = withChiParam(r, "projectId", "p1")
	h.UpdateProject(w, r)

	if rh.status != http.StatusOK {
		t.Fatalf("status = %d, want 200", rh.status)
	}
	if svc.lastUID != "u1" || svc.lastID != "p1" {
		t.Fatalf("service saw uid=%q id=%q", svc.lastUID, svc.lastID)
	}
}

func TestUpdateProjectNotAuthorized(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubProjectService{err: errs.NewNotAuthorizedError()}
	h := &projectHandlers{ResponseHandler: rh, ProjectSvc: svc}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/p1", strings.NewReader(`{"name":"x"}`))
	r = withUID(r, "intruder")
	r = withChiParam(r, "projectId", "p1")
	h.UpdateProject(w, r)

	var authErr *errs.NotAuthorizedError
	if !errors.As(rh.err, &authErr) {
		t.Fatalf("err = %v, want not-authorized", rh.err)
	}
}
