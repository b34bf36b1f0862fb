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

type chartStore struct {
	client *firestore.Client
}

func NewChartStore(client *firestore.Client) *chartStore {
	return &chartStore{client: client}
}

func (s *chartStore) collection() *firestore.CollectionRef {
	return s.client.Collection("charts")
}

func (s *chartStore) Create(ctx context.Context, c *models.Chart) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	_, err := s.collection().Doc(c.ChartID).Set(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create chart", err)
	}
	return nil
}

func (s *chartStore) Get(ctx context.Context, chartID string) (*models.Chart, error) {
	doc, err := s.collection().Doc(chartID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Chart not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get chart", err)
	}
	var c models.Chart
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse chart data", err)
	}
	return &c, nil
}

func (s *chartStore) ListBySpreadsheet(ctx context.Context, spreadsheetID string) ([]*models.Chart, error) {
	docs, err := s.collection().Where("spreadsheetId", "==", spreadsheetID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list charts", err)
	}
	charts := make([]*models.Chart, 0, len(docs))
	for _, d := range docs {
		var c models.Chart
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse chart data", err)
		}
		charts = append(charts, &c)
	}
	return charts, nil
}

func (s *chartStore) Update(ctx context.Context, c *models.Chart) error {
	c.UpdatedAt = time.Now()
	_, err := s.collection().Doc(c.ChartID).Set(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update chart", err)
	}
	return nil
}

func (s *chartStore) Delete(ctx context.Context, chartID string) error {
	_, err := s.collection().Doc(chartID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete chart", err)
	}
	return nil
}
