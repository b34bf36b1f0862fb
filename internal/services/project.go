package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

type projectPSStore interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, projectID string) (*models.Project, error)
	ListByOwner(ctx context.Context, uid string) ([]*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, projectID string) error
}

type userPSStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type projectService struct {
	projects projectPSStore
	users    userPSStore
}

func NewProjectService(projects projectPSStore, users userPSStore) *projectService {
	return &projectService{
		projects: projects,
		users:    users,
	}
}

// ownedProject loads a project after verifying the caller exists and owns
// it. Every mutation and read goes through here.
func (s *projectService) ownedProject(ctx context.Context, uid, projectID string) (*models.Project, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerUID != user.UID {
		return nil, errs.NewNotAuthorizedError()
	}
	return p, nil
}

func (s *projectService) CreateProject(ctx context.Context, uid string, req dto.CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	p := &models.Project{
		ProjectID: uuid.NewString(),
		OwnerUID:  user.UID,
		Name:      req.Name,
		Color:     req.Color,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("project created", "project_id", p.ProjectID)
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, uid, projectID string) (*models.Project, error) {
	return s.ownedProject(ctx, uid, projectID)
}

func (s *projectService) ListProjects(ctx context.Context, uid string) ([]*models.Project, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.projects.ListByOwner(ctx, user.UID)
}

func (s *projectService) UpdateProject(ctx context.Context, uid, projectID string, req dto.UpdateProjectRequest) (*models.Project, error) {
	p, err := s.ownedProject(ctx, uid, projectID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		p.Name = *req.Name
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, uid, projectID string) error {
	if _, err := s.ownedProject(ctx, uid, projectID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("project deleted", "project_id", projectID)
	return nil
}
