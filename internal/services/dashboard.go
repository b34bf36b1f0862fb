package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gridbase/sheets-backend/internal/a1"
	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/internal/sheetdoc"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

// widgetHydrateConcurrency caps parallel widget hydration per dashboard
// request.
const widgetHydrateConcurrency = 4

type dashboardDSStore interface {
	Create(ctx context.Context, d *models.Dashboard) error
	Get(ctx context.Context, dashboardID string) (*models.Dashboard, error)
	ListByOwner(ctx context.Context, uid string) ([]*models.Dashboard, error)
	Update(ctx context.Context, d *models.Dashboard) error
	Touch(ctx context.Context, dashboardID string) error
	Delete(ctx context.Context, dashboardID string) error
	CreateWidget(ctx context.Context, w *models.Widget) error
	GetWidget(ctx context.Context, widgetID string) (*models.Widget, error)
	ListWidgets(ctx context.Context, dashboardID string) ([]*models.Widget, error)
	UpdateWidget(ctx context.Context, w *models.Widget) error
	DeleteWidget(ctx context.Context, widgetID string) error
	BulkUpdatePositions(ctx context.Context, positions map[string]models.WidgetPosition) error
}

type chartDSStore interface {
	Get(ctx context.Context, chartID string) (*models.Chart, error)
}

type spreadsheetDSStore interface {
	Get(ctx context.Context, spreadsheetID string) (*models.Spreadsheet, error)
}

type userDSStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type dashboardService struct {
	dashboards dashboardDSStore
	charts     chartDSStore
	sheets     spreadsheetDSStore
	users      userDSStore
	clockNow   func() time.Time
}

func NewDashboardService(dashboards dashboardDSStore, charts chartDSStore, sheets spreadsheetDSStore, users userDSStore) *dashboardService {
	return &dashboardService{
		dashboards: dashboards,
		charts:     charts,
		sheets:     sheets,
		users:      users,
		clockNow:   time.Now,
	}
}

func (s *dashboardService) ownedDashboard(ctx context.Context, uid, dashboardID string) (*models.Dashboard, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	d, err := s.dashboards.Get(ctx, dashboardID)
	if err != nil {
		return nil, err
	}
	if d.OwnerUID != user.UID {
		return nil, errs.NewNotAuthorizedError()
	}
	return d, nil
}

func (s *dashboardService) CreateDashboard(ctx context.Context, uid string, req dto.CreateDashboardRequest) (*models.Dashboard, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if req.SpreadsheetID == "" {
		return nil, errs.NewValidationError("spreadsheetId is required")
	}
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	sheet, err := s.sheets.Get(ctx, req.SpreadsheetID)
	if err != nil {
		return nil, err
	}
	if sheet.OwnerUID != user.UID {
		return nil, errs.NewNotAuthorizedError()
	}

	d := &models.Dashboard{
		DashboardID:   uuid.NewString(),
		OwnerUID:      user.UID,
		SpreadsheetID: req.SpreadsheetID,
		Name:          req.Name,
	}
	if err := s.dashboards.Create(ctx, d); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("dashboard created", "dashboard_id", d.DashboardID)
	return d, nil
}

func (s *dashboardService) GetDashboard(ctx context.Context, uid, dashboardID string) (*models.Dashboard, error) {
	return s.ownedDashboard(ctx, uid, dashboardID)
}

func (s *dashboardService) ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.dashboards.ListByOwner(ctx, user.UID)
}

func (s *dashboardService) UpdateDashboard(ctx context.Context, uid, dashboardID string, req dto.UpdateDashboardRequest) (*models.Dashboard, error) {
	d, err := s.ownedDashboard(ctx, uid, dashboardID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		d.Name = *req.Name
	}
	if err := s.dashboards.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *dashboardService) DeleteDashboard(ctx context.Context, uid, dashboardID string) error {
	if _, err := s.ownedDashboard(ctx, uid, dashboardID); err != nil {
		return err
	}
	if err := s.dashboards.Delete(ctx, dashboardID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("dashboard deleted", "dashboard_id", dashboardID)
	return nil
}

// validateWidget enforces per-type field rules. The chart lookup also
// checks that a referenced chart belongs to the same owner.
func (s *dashboardService) validateWidget(ctx context.Context, w *models.Widget) error {
	switch w.Type {
	case dto.WidgetTypeChart:
		if w.ChartID == "" {
			return errs.NewValidationError("chart widgets require chartId")
		}
		c, err := s.charts.Get(ctx, w.ChartID)
		if err != nil {
			return err
		}
		if c.OwnerUID != w.OwnerUID {
			return errs.NewNotAuthorizedError()
		}
	case dto.WidgetTypeMetric:
		if w.Column == "" {
			return errs.NewValidationError("metric widgets require column")
		}
		switch w.Aggregate {
		case dto.AggSum, dto.AggAverage, dto.AggCount, dto.AggMin, dto.AggMax:
		default:
			return errs.NewValidationError("invalid aggregate: " + w.Aggregate)
		}
	case dto.WidgetTypeTable:
		if w.Range == "" {
			return errs.NewValidationError("table widgets require range")
		}
		if _, err := a1.ParseRange(w.Range); err != nil {
			return err
		}
	case dto.WidgetTypeText:
		if w.Text == "" {
			return errs.NewValidationError("text widgets require text")
		}
	default:
		return errs.NewValidationError("invalid widget type: " + w.Type)
	}
	return nil
}

func (s *dashboardService) CreateWidget(ctx context.Context, uid, dashboardID string, req dto.CreateWidgetRequest) (*models.Widget, error) {
	d, err := s.ownedDashboard(ctx, uid, dashboardID)
	if err != nil {
		return nil, err
	}

	w := &models.Widget{
		WidgetID:    uuid.NewString(),
		DashboardID: d.DashboardID,
		OwnerUID:    d.OwnerUID,
		Type:        req.Type,
		Title:       req.Title,
		Position:    req.Position,
		ChartID:     req.ChartID,
		Column:      req.Column,
		Aggregate:   req.Aggregate,
		SheetName:   req.SheetName,
		Range:       req.Range,
		Text:        req.Text,
	}
	if err := s.validateWidget(ctx, w); err != nil {
		return nil, err
	}
	if err := s.dashboards.CreateWidget(ctx, w); err != nil {
		return nil, err
	}
	if err := s.dashboards.Touch(ctx, dashboardID); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("widget created", "widget_id", w.WidgetID, "type", w.Type)
	return w, nil
}

func (s *dashboardService) ownedWidget(ctx context.Context, uid, dashboardID, widgetID string) (*models.Widget, error) {
	if _, err := s.ownedDashboard(ctx, uid, dashboardID); err != nil {
		return nil, err
	}
	w, err := s.dashboards.GetWidget(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	if w.DashboardID != dashboardID {
		return nil, errs.NewNotFoundError("Widget not found")
	}
	return w, nil
}

func (s *dashboardService) ListWidgets(ctx context.Context, uid, dashboardID string) ([]*models.Widget, error) {
	if _, err := s.ownedDashboard(ctx, uid, dashboardID); err != nil {
		return nil, err
	}
	return s.dashboards.ListWidgets(ctx, dashboardID)
}

func (s *dashboardService) UpdateWidget(ctx context.Context, uid, dashboardID, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error) {
	w, err := s.ownedWidget(ctx, uid, dashboardID, widgetID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		w.Title = *req.Title
	}
	if req.Position != nil {
		w.Position = *req.Position
	}
	if req.ChartID != nil {
		w.ChartID = *req.ChartID
	}
	if req.Column != nil {
		w.Column = *req.Column
	}
	if req.Aggregate != nil {
		w.Aggregate = *req.Aggregate
	}
	if req.SheetName != nil {
		w.SheetName = *req.SheetName
	}
	if req.Range != nil {
		w.Range = *req.Range
	}
	if req.Text != nil {
		w.Text = *req.Text
	}
	if err := s.validateWidget(ctx, w); err != nil {
		return nil, err
	}
	if err := s.dashboards.UpdateWidget(ctx, w); err != nil {
		return nil, err
	}
	if err := s.dashboards.Touch(ctx, dashboardID); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *dashboardService) DeleteWidget(ctx context.Context, uid, dashboardID, widgetID string) error {
	if _, err := s.ownedWidget(ctx, uid, dashboardID, widgetID); err != nil {
		return err
	}
	if err := s.dashboards.DeleteWidget(ctx, widgetID); err != nil {
		return err
	}
	return s.dashboards.Touch(ctx, dashboardID)
}

// ReorderWidgets writes new grid placements in one batch. Every widget
// must belong to the dashboard or the whole request is rejected.
func (s *dashboardService) ReorderWidgets(ctx context.Context, uid, dashboardID string, req dto.ReorderWidgetsRequest) error {
	if len(req.Widgets) == 0 {
		return errs.NewValidationError("widgets are required")
	}
	if _, err := s.ownedDashboard(ctx, uid, dashboardID); err != nil {
		return err
	}
	existing, err := s.dashboards.ListWidgets(ctx, dashboardID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, w := range existing {
		known[w.WidgetID] = true
	}

	positions := make(map[string]models.WidgetPosition, len(req.Widgets))
	for _, p := range req.Widgets {
		if !known[p.WidgetID] {
			return errs.NewNotFoundError("Widget not found: " + p.WidgetID)
		}
		positions[p.WidgetID] = p.Position
	}
	if err := s.dashboards.BulkUpdatePositions(ctx, positions); err != nil {
		return err
	}
	return s.dashboards.Touch(ctx, dashboardID)
}

// GetWidgetData hydrates one widget with live spreadsheet values.
func (s *dashboardService) GetWidgetData(ctx context.Context, uid, dashboardID, widgetID string) (*dto.WidgetDataResponse, error) {
	d, err := s.ownedDashboard(ctx, uid, dashboardID)
	if err != nil {
		return nil, err
	}
	w, err := s.dashboards.GetWidget(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	if w.DashboardID != dashboardID {
		return nil, errs.NewNotFoundError("Widget not found")
	}
	return s.hydrateWidget(ctx, d, w)
}

// GetDashboardData hydrates every widget of a dashboard concurrently.
func (s *dashboardService) GetDashboardData(ctx context.Context, uid, dashboardID string) (*dto.DashboardDataResponse, error) {
	d, err := s.ownedDashboard(ctx, uid, dashboardID)
	if err != nil {
		return nil, err
	}
	widgets, err := s.dashboards.ListWidgets(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	results := make([]dto.WidgetDataResponse, len(widgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(widgetHydrateConcurrency)
	for i, w := range widgets {
		g.Go(func() error {
			data, err := s.hydrateWidget(gctx, d, w)
			if err != nil {
				return err
			}
			results[i] = *data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardDataResponse{
		DashboardID: dashboardID,
		Widgets:     results,
	}, nil
}

func (s *dashboardService) hydrateWidget(ctx context.Context, d *models.Dashboard, w *models.Widget) (*dto.WidgetDataResponse, error) {
	resp := &dto.WidgetDataResponse{
		WidgetID:    w.WidgetID,
		Type:        w.Type,
		LastUpdated: s.clockNow(),
	}

	switch w.Type {
	case dto.WidgetTypeText:
		resp.Data = dto.TextWidgetData{Text: w.Text}
		return resp, nil

	case dto.WidgetTypeChart:
		c, err := s.charts.Get(ctx, w.ChartID)
		if err != nil {
			return nil, err
		}
		ws, err := s.loadSheet(ctx, c.SpreadsheetID, c.SheetName)
		if err != nil {
			return nil, err
		}
		rng, err := a1.ParseRange(c.Range)
		if err != nil {
			return nil, err
		}
		resp.Data = dto.ChartWidgetData{
			ChartType: c.Type,
			Title:     c.Title,
			Values:    a1.RangeValues(ws, rng),
		}
		return resp, nil

	case dto.WidgetTypeMetric:
		doc, err := s.loadDocument(ctx, d.SpreadsheetID)
		if err != nil {
			return nil, err
		}
		stats, err := doc.Stats(w.Column)
		if err != nil {
			return nil, err
		}
		var value float64
		switch w.Aggregate {
		case dto.AggSum:
			value = stats.Sum
		case dto.AggAverage:
			value = stats.Average
		case dto.AggCount:
			value = float64(stats.Count)
		case dto.AggMin:
			value = stats.Min
		case dto.AggMax:
			value = stats.Max
		}
		resp.Data = dto.MetricWidgetData{
			Column:    stats.Column,
			Aggregate: w.Aggregate,
			Value:     value,
		}
		return resp, nil

	case dto.WidgetTypeTable:
		ws, err := s.loadSheet(ctx, d.SpreadsheetID, w.SheetName)
		if err != nil {
			return nil, err
		}
		rng, err := a1.ParseRange(w.Range)
		if err != nil {
			return nil, err
		}
		resp.Data = dto.TableWidgetData{Values: a1.RangeValues(ws, rng)}
		return resp, nil
	}
	return nil, errs.NewValidationError("invalid widget type: " + w.Type)
}

func (s *dashboardService) loadDocument(ctx context.Context, spreadsheetID string) (*sheetdoc.Document, error) {
	sheet, err := s.sheets.Get(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}
	return sheetdoc.Parse(sheet.Data)
}

func (s *dashboardService) loadSheet(ctx context.Context, spreadsheetID, sheetName string) (*sheetdoc.Sheet, error) {
	doc, err := s.loadDocument(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}
	ws := doc.Sheet(sheetName)
	if ws == nil {
		return nil, errs.NewNotFoundError("Sheet not found: " + sheetName)
	}
	return ws, nil
}
