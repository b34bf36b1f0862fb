package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
)

type dashboardStore struct {
	client *firestore.Client
}

func NewDashboardStore(client *firestore.Client) *dashboardStore {
	return &dashboardStore{client: client}
}

func (s *dashboardStore) dashboards() *firestore.CollectionRef {
	return s.client.Collection("dashboards")
}

func (s *dashboardStore) widgets() *firestore.CollectionRef {
	return s.client.Collection("dashboard_widgets")
}

func (s *dashboardStore) Create(ctx context.Context, d *models.Dashboard) error {
	now := time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	_, err := s.dashboards().Doc(d.DashboardID).Set(ctx, d)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create dashboard", err)
	}
	return nil
}

func (s *dashboardStore) Get(ctx context.Context, dashboardID string) (*models.Dashboard, error) {
	doc, err := s.dashboards().Doc(dashboardID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Dashboard not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get dashboard", err)
	}
	var d models.Dashboard
	if err := doc.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse dashboard data", err)
	}
	return &d, nil
}

func (s *dashboardStore) ListByOwner(ctx context.Context, uid string) ([]*models.Dashboard, error) {
	docs, err := s.dashboards().Where("ownerUid", "==", uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list dashboards", err)
	}
	out := make([]*models.Dashboard, 0, len(docs))
	for _, d := range docs {
		var dash models.Dashboard
		if err := d.DataTo(&dash); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse dashboard data", err)
		}
		out = append(out, &dash)
	}
	return out, nil
}

func (s *dashboardStore) Update(ctx context.Context, d *models.Dashboard) error {
	d.UpdatedAt = time.Now()
	_, err := s.dashboards().Doc(d.DashboardID).Set(ctx, d)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update dashboard", err)
	}
	return nil
}

// Touch bumps only updatedAt, used when a widget changed.
func (s *dashboardStore) Touch(ctx context.Context, dashboardID string) error {
	_, err := s.dashboards().Doc(dashboardID).Update(ctx, []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to touch dashboard", err)
	}
	return nil
}

// Delete removes a dashboard together with its widgets.
func (s *dashboardStore) Delete(ctx context.Context, dashboardID string) error {
	widgetDocs, err := s.widgets().Where("dashboardId", "==", dashboardID).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to list dashboard widgets", err)
	}

	bw := s.client.BulkWriter(ctx)
	for _, d := range widgetDocs {
		if _, err := bw.Delete(d.Ref); err != nil {
			return errs.NewDatabaseError("delete", "failed to queue widget delete", err)
		}
	}
	if _, err := bw.Delete(s.dashboards().Doc(dashboardID)); err != nil {
		return errs.NewDatabaseError("delete", "failed to queue dashboard delete", err)
	}
	bw.End()
	return nil
}

func (s *dashboardStore) CreateWidget(ctx context.Context, w *models.Widget) error {
	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	_, err := s.widgets().Doc(w.WidgetID).Set(ctx, w)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create widget", err)
	}
	return nil
}

func (s *dashboardStore) GetWidget(ctx context.Context, widgetID string) (*models.Widget, error) {
	doc, err := s.widgets().Doc(widgetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Widget not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get widget", err)
	}
	var w models.Widget
	if err := doc.DataTo(&w); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse widget data", err)
	}
	return &w, nil
}

func (s *dashboardStore) ListWidgets(ctx context.Context, dashboardID string) ([]*models.Widget, error) {
	iter := s.widgets().Where("dashboardId", "==", dashboardID).Documents(ctx)
	defer iter.Stop()

	var out []*models.Widget
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list widgets", err)
		}
		var w models.Widget
		if err := doc.DataTo(&w); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse widget data", err)
		}
		out = append(out, &w)
	}
	return out, nil
}

func (s *dashboardStore) UpdateWidget(ctx context.Context, w *models.Widget) error {
	w.UpdatedAt = time.Now()
	_, err := s.widgets().Doc(w.WidgetID).Set(ctx, w)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update widget", err)
	}
	return nil
}

func (s *dashboardStore) DeleteWidget(ctx context.Context, widgetID string) error {
	_, err := s.widgets().Doc(widgetID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete widget", err)
	}
	return nil
}

// BulkUpdatePositions writes new grid placements for a set of widgets in
// one BulkWriter batch.
func (s *dashboardStore) BulkUpdatePositions(ctx context.Context, positions map[string]models.WidgetPosition) error {
	now := time.Now()
	bw := s.client.BulkWriter(ctx)
	for widgetID, pos := range positions {
		_, err := bw.Update(s.widgets().Doc(widgetID), []firestore.Update{
			{Path: "position", Value: pos},
			{Path: "updatedAt", Value: now},
		})
		if err != nil {
			return errs.NewDatabaseError("update", "failed to queue widget position update", err)
		}
	}
	bw.End()
	return nil
}
