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

type airtableStore struct {
	client *firestore.Client
}

func NewAirtableStore(client *firestore.Client) *airtableStore {
	return &airtableStore{client: client}
}

func (s *airtableStore) connections() *firestore.CollectionRef {
	return s.client.Collection("airtable_connections")
}

func (s *airtableStore) imports() *firestore.CollectionRef {
	return s.client.Collection("airtable_imports")
}

func (s *airtableStore) CreateConnection(ctx context.Context, c *models.AirtableConnection) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	_, err := s.connections().Doc(c.ConnectionID).Set(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create airtable connection", err)
	}
	return nil
}

func (s *airtableStore) GetConnection(ctx context.Context, connectionID string) (*models.AirtableConnection, error) {
	doc, err := s.connections().Doc(connectionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Connection not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get airtable connection", err)
	}
	var c models.AirtableConnection
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse airtable connection data", err)
	}
	return &c, nil
}

func (s *airtableStore) ListConnections(ctx context.Context, uid string) ([]*models.AirtableConnection, error) {
	docs, err := s.connections().Where("ownerUid", "==", uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list airtable connections", err)
	}
	out := make([]*models.AirtableConnection, 0, len(docs))
	for _, d := range docs {
		var c models.AirtableConnection
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse airtable connection data", err)
		}
		out = append(out, &c)
	}
	return out, nil
}

func (s *airtableStore) DeleteConnection(ctx context.Context, connectionID string) error {
	_, err := s.connections().Doc(connectionID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete airtable connection", err)
	}
	return nil
}

func (s *airtableStore) CreateImport(ctx context.Context, imp *models.AirtableImport) error {
	now := time.Now()
	if imp.CreatedAt.IsZero() {
		imp.CreatedAt = now
	}
	imp.UpdatedAt = now
	_, err := s.imports().Doc(imp.ImportID).Set(ctx, imp)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create airtable import", err)
	}
	return nil
}

func (s *airtableStore) GetImport(ctx context.Context, importID string) (*models.AirtableImport, error) {
	doc, err := s.imports().Doc(importID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Import not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get airtable import", err)
	}
	var imp models.AirtableImport
	if err := doc.DataTo(&imp); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse airtable import data", err)
	}
	return &imp, nil
}

func (s *airtableStore) ListImports(ctx context.Context, uid string) ([]*models.AirtableImport, error) {
	docs, err := s.imports().Where("ownerUid", "==", uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list airtable imports", err)
	}
	out := make([]*models.AirtableImport, 0, len(docs))
	for _, d := range docs {
		var imp models.AirtableImport
		if err := d.DataTo(&imp); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse airtable import data", err)
		}
		out = append(out, &imp)
	}
	return out, nil
}

func (s *airtableStore) UpdateImport(ctx context.Context, imp *models.AirtableImport) error {
	imp.UpdatedAt = time.Now()
	_, err := s.imports().Doc(imp.ImportID).Set(ctx, imp)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update airtable import", err)
	}
	return nil
}

func (s *airtableStore) DeleteImport(ctx context.Context, importID string) error {
	_, err := s.imports().Doc(importID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete airtable import", err)
	}
	return nil
}
