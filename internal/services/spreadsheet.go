package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gridbase/sheets-backend/internal/a1"
	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/internal/sheetdoc"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

type spreadsheetSSStore interface {
	Create(ctx context.Context, sheet *models.Spreadsheet) error
	Get(ctx context.Context, spreadsheetID string) (*models.Spreadsheet, error)
	List(ctx context.Context, uid, projectID string) ([]*models.Spreadsheet, error)
	Update(ctx context.Context, sheet *models.Spreadsheet) error
	Delete(ctx context.Context, spreadsheetID string) error
}

type projectSSStore interface {
	Get(ctx context.Context, projectID string) (*models.Project, error)
}

type userSSStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// spreadsheetNotifier pushes change events to connected editors. The
// realtime hub satisfies it; a nil notifier disables pushes.
type spreadsheetNotifier interface {
	SpreadsheetUpdated(spreadsheetID string)
}

type spreadsheetService struct {
	sheets   spreadsheetSSStore
	projects projectSSStore
	users    userSSStore
	notify   spreadsheetNotifier
}

func NewSpreadsheetService(sheets spreadsheetSSStore, projects projectSSStore, users userSSStore, notify spreadsheetNotifier) *spreadsheetService {
	return &spreadsheetService{
		sheets:   sheets,
		projects: projects,
		users:    users,
		notify:   notify,
	}
}

func (s *spreadsheetService) ownedSpreadsheet(ctx context.Context, uid, spreadsheetID string) (*models.Spreadsheet, error) {
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

func (s *spreadsheetService) save(ctx context.Context, sheet *models.Spreadsheet) error {
	if err := s.sheets.Update(ctx, sheet); err != nil {
		return err
	}
	if s.notify != nil {
		s.notify.SpreadsheetUpdated(sheet.SpreadsheetID)
	}
	return nil
}

func (s *spreadsheetService) CreateSpreadsheet(ctx context.Context, uid string, req dto.CreateSpreadsheetRequest) (*models.Spreadsheet, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if req.ProjectID != "" {
		project, err := s.projects.Get(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		if project.OwnerUID != user.UID {
			return nil, errs.NewNotAuthorizedError()
		}
	}

	data := req.Data
	if data == "" {
		data, err = sheetdoc.New(sheetdoc.DefaultSheetName).Encode()
		if err != nil {
			return nil, err
		}
	} else if _, err := sheetdoc.Parse(data); err != nil {
		return nil, err
	}

	sheet := &models.Spreadsheet{
		SpreadsheetID: uuid.NewString(),
		OwnerUID:      user.UID,
		ProjectID:     req.ProjectID,
		Name:          req.Name,
		Data:          data,
	}
	if err := s.sheets.Create(ctx, sheet); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("spreadsheet created", "spreadsheet_id", sheet.SpreadsheetID)
	return sheet, nil
}

func (s *spreadsheetService) GetSpreadsheet(ctx context.Context, uid, spreadsheetID string) (*models.Spreadsheet, error) {
	return s.ownedSpreadsheet(ctx, uid, spreadsheetID)
}

func (s *spreadsheetService) ListSpreadsheets(ctx context.Context, uid, projectID string) ([]*models.Spreadsheet, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.sheets.List(ctx, user.UID, projectID)
}

// UpdateSpreadsheet writes whatever document blob the client sent.
// Concurrent editors race and the last save wins; the blob is still parsed
// so a corrupt document never lands in the store.
func (s *spreadsheetService) UpdateSpreadsheet(ctx context.Context, uid, spreadsheetID string, req dto.UpdateSpreadsheetRequest) (*models.Spreadsheet, error) {
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		sheet.Name = *req.Name
	}
	if req.Data != nil {
		if _, err := sheetdoc.Parse(*req.Data); err != nil {
			return nil, err
		}
		sheet.Data = *req.Data
	}
	if err := s.save(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func (s *spreadsheetService) DeleteSpreadsheet(ctx context.Context, uid, spreadsheetID string) error {
	if _, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID); err != nil {
		return err
	}
	if err := s.sheets.Delete(ctx, spreadsheetID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("spreadsheet deleted", "spreadsheet_id", spreadsheetID)
	return nil
}

// ImportCSV replaces the spreadsheet's document with one built from the
// CSV text.
func (s *spreadsheetService) ImportCSV(ctx context.Context, uid, spreadsheetID string, req dto.ImportCSVRequest) (*models.Spreadsheet, error) {
	if strings.TrimSpace(req.CSV) == "" {
		return nil, errs.NewValidationError("csv is required")
	}
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return nil, err
	}

	doc, err := sheetdoc.ImportCSV(req.SheetName, strings.NewReader(req.CSV))
	if err != nil {
		return nil, err
	}
	if sheet.Data, err = doc.Encode(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sheet); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("csv imported", "spreadsheet_id", spreadsheetID)
	return sheet, nil
}

func (s *spreadsheetService) ExportCSV(ctx context.Context, uid, spreadsheetID, sheetName string) (string, error) {
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return "", err
	}
	doc, err := sheetdoc.Parse(sheet.Data)
	if err != nil {
		return "", err
	}
	ws := doc.Sheet(sheetName)
	if ws == nil {
		return "", errs.NewNotFoundError("Sheet not found: " + sheetName)
	}
	return sheetdoc.ExportCSV(ws)
}

// ColumnStats computes stats for a fuzzily matched column and appends the
// result row beneath the sheet's content.
func (s *spreadsheetService) ColumnStats(ctx context.Context, uid, spreadsheetID string, req dto.ColumnStatsRequest) (*dto.ColumnStatsResponse, error) {
	if req.Column == "" {
		return nil, errs.NewValidationError("column is required")
	}
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return nil, err
	}
	doc, err := sheetdoc.Parse(sheet.Data)
	if err != nil {
		return nil, err
	}

	stats, err := doc.Stats(req.Column)
	if err != nil {
		return nil, err
	}
	ws := doc.Sheet(stats.SheetName)
	row := sheetdoc.AppendStatsRow(ws, stats)

	if sheet.Data, err = doc.Encode(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sheet); err != nil {
		return nil, err
	}

	return &dto.ColumnStatsResponse{
		Stats:       *stats,
		ResultRow:   row,
		Spreadsheet: spreadsheetID,
	}, nil
}

// GenerateTable synthesizes a sample table sheet and stores it, replacing
// any sheet of the same name.
func (s *spreadsheetService) GenerateTable(ctx context.Context, uid, spreadsheetID string, req dto.GenerateTableRequest) (*models.Spreadsheet, error) {
	if len(req.Headers) == 0 {
		return nil, errs.NewValidationError("headers are required")
	}
	if req.Rows <= 0 {
		return nil, errs.NewValidationError("rows must be positive")
	}
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return nil, err
	}
	doc, err := sheetdoc.Parse(sheet.Data)
	if err != nil {
		return nil, err
	}

	doc.AddSheet(sheetdoc.SampleTable(req.SheetName, req.Headers, req.Rows))
	if sheet.Data, err = doc.Encode(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sheet); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("sample table generated", "spreadsheet_id", spreadsheetID, "rows", req.Rows)
	return sheet, nil
}

// AppendRows writes rows starting at the first row below existing content.
func (s *spreadsheetService) AppendRows(ctx context.Context, uid, spreadsheetID string, req dto.AppendRowsRequest) (*dto.AppendRowsResponse, error) {
	if len(req.Rows) == 0 {
		return nil, errs.NewValidationError("rows are required")
	}
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return nil, err
	}
	doc, err := sheetdoc.Parse(sheet.Data)
	if err != nil {
		return nil, err
	}
	ws := doc.Sheet(req.SheetName)
	if ws == nil {
		return nil, errs.NewNotFoundError("Sheet not found: " + req.SheetName)
	}

	start := ws.AppendRows(req.Rows)
	if sheet.Data, err = doc.Encode(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sheet); err != nil {
		return nil, err
	}

	return &dto.AppendRowsResponse{StartRow: start, Rows: len(req.Rows)}, nil
}

// RangeValues reads the values of an A1 range, resolving SUM formulas.
func (s *spreadsheetService) RangeValues(ctx context.Context, uid, spreadsheetID, sheetName, rangeStr string) (*dto.RangeValuesResponse, error) {
	if rangeStr == "" {
		return nil, errs.NewValidationError("range is required")
	}
	sheet, err := s.ownedSpreadsheet(ctx, uid, spreadsheetID)
	if err != nil {
		return nil, err
	}
	doc, err := sheetdoc.Parse(sheet.Data)
	if err != nil {
		return nil, err
	}
	ws := doc.Sheet(sheetName)
	if ws == nil {
		return nil, errs.NewNotFoundError("Sheet not found: " + sheetName)
	}
	rng, err := a1.ParseRange(rangeStr)
	if err != nil {
		return nil, err
	}

	return &dto.RangeValuesResponse{
		SheetName: ws.Name,
		Range:     rng.String(),
		Values:    a1.RangeValues(ws, rng),
	}, nil
}
