package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
)

type projectStore struct {
	client *firestore.Client
}

func NewProjectStore(client *firestore.Client) *projectStore {
	return &projectStore{client: client}
}

func (s *projectStore) collection() *firestore.CollectionRef {
	return s.client.Collection("projects")
}

func (s *projectStore) Create(ctx context.Context, p *models.Project) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := s.collection().Doc(p.ProjectID).Set(ctx, p)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create project", err)
	}
	return nil
}

func (s *projectStore) Get(ctx context.Context, projectID string) (*models.Project, error) {
	doc, err := s.collection().Doc(projectID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Project not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get project", err)
	}
	var p models.Project
	if err := doc.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse project data", err)
	}
	return &p, nil
}

func (s *projectStore) ListByOwner(ctx context.Context, uid string) ([]*models.Project, error) {
	docs, err := s.collection().Where("ownerUid", "==", uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list projects", err)
	}
	projects := make([]*models.Project, 0, len(docs))
	for _, d := range docs {
		var p models.Project
		if err := d.DataTo(&p); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse project data", err)
		}
		projects = append(projects, &p)
	}
	return projects, nil
}

func (s *projectStore) Update(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = time.Now()
	_, err := s.collection().Doc(p.ProjectID).Set(ctx, p)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update project", err)
	}
	return nil
}

func (s *projectStore) Delete(ctx context.Context, projectID string) error {
	_, err := s.collection().Doc(projectID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete project", err)
	}
	return nil
}
