package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/gridbase/sheets-backend/internal/a1"
	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

var chartTypes = map[string]bool{
	"line": true, "bar": true, "area": true, "pie": true,
}

type chartCSStore interface {
	Create(ctx context.Context, c *models.Chart) error
	Get(ctx context.Context, chartID string) (*models.Chart, error)
	ListBySpreadsheet(ctx context.Context, spreadsheetID string) ([]*models.Chart, error)
	Update(ctx context.Context, c *models.Chart) error
	Delete(ctx context.Context, chartID string) error
}

type spreadsheetCSStore interface {
	Get(ctx context.Context, spreadsheetID string) (*models.Spreadsheet, error)
	Touch(ctx context.Context, spreadsheetID string) error
}

type userCSStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type chartService struct {
	charts chartCSStore
	sheets spreadsheetCSStore
	users  userCSStore
}

func NewChartService(charts chartCSStore, sheets spreadsheetCSStore, users userCSStore) *chartService {
	return &chartService{
		charts: charts,
		sheets: sheets,
		users:  users,
	}
}

func (s *chartService) ownedSpreadsheet(ctx context.Context, uid, spreadsheetID string) (*models.Spreadsheet, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	sheet, err := s.sheets.Get(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}
	if sheet.OwnerUID != user.UID {
		return nil, errs.NewNotAuthorizedError()
	}
	return sheet, nil
}

func (s *chartService) ownedChart(ctx context.Context, uid, chartID string) (*models.Chart, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	c, err := s.charts.Get(ctx, chartID)
	if err != nil {
		return nil, err
	}
	if c.OwnerUID != user.UID {
		return nil, errs.NewNotAuthorizedError()
	}
	return c, nil
}

func validateChartRange(rangeStr string) error {
	if rangeStr == "" {
		return errs.NewValidationError("range is required")
	}
	_, err := a1.ParseRange(rangeStr)
	return err
}

func (s *chartService) CreateChart(ctx context.Context, uid, spreadsheetID string, req dto.CreateChartRequest) (*models.Chart, error) {
	if !chartTypes[req.Type] {
		return nil, errs.NewValidationError("invalid chart type: " + req.Type)
	}
	if err := validateChartRange(req.Range); err != nil {
		return nil, err
	}
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return nil, err
	}

	c := &models.Chart{
		ChartID:       uuid.NewString(),
		SpreadsheetID: sheet.SpreadsheetID,
		OwnerUID:      sheet.OwnerUID,
		Type:          req.Type,
		Title:         req.Title,
		SheetName:     req.SheetName,
		Range:         req.Range,
	}
	if err := s.charts.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.sheets.Touch(ctx, spreadsheetID); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("chart created", "chart_id", c.ChartID, "spreadsheet_id", spreadsheetID)
	return c, nil
}

func (s *chartService) GetChart(ctx context.Context, uid, chartID string) (*models.Chart, error) {
	return s.ownedChart(ctx, uid, chartID)
}

func (s *chartService) ListCharts(ctx context.Context, uid, spreadsheetID string) ([]*models.Chart, error) {
	if _, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID); err != nil {
		return nil, err
	}
	return s.charts.ListBySpreadsheet(ctx, spreadsheetID)
}

func (s *chartService) UpdateChart(ctx context.Context, uid, chartID string, req dto.UpdateChartRequest) (*models.Chart, error) {
	c, err := s.ownedChart(ctx, uid, chartID)
	if err != nil {
		return nil, err
	}
	if req.Type != nil {
		if !chartTypes[*req.Type] {
			return nil, errs.NewValidationError("invalid chart type: " + *req.Type)
		}
		c.Type = *req.Type
	}
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.SheetName != nil {
		c.SheetName = *req.SheetName
	}
	if req.Range != nil {
		if err := validateChartRange(*req.Range); err != nil {
			return nil, err
		}
		c.Range = *req.Range
	}

	if err := s.charts.Update(ctx, c); err != nil {
		return nil, err
	}
	if err := s.sheets.Touch(ctx, c.SpreadsheetID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *chartService) DeleteChart(ctx context.Context, uid, chartID string) error {
	c, err := s.ownedChart(ctx, uid, chartID)
	if err != nil {
		return err
	}
	if err := s.charts.Delete(ctx, chartID); err != nil {
		return err
	}
	if err := s.sheets.Touch(ctx, c.SpreadsheetID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("chart deleted", "chart_id", chartID)
	return nil
}
