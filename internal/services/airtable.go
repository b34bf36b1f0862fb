package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/internal/sheetdoc"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

// syncPageLimit bounds how many record pages one sync pulls.
const syncPageLimit = 50

type airtableASStore interface {
	CreateConnection(ctx context.Context, c *models.AirtableConnection) error
	GetConnection(ctx context.Context, connectionID string) (*models.AirtableConnection, error)
	ListConnections(ctx context.Context, uid string) ([]*models.AirtableConnection, error)
	DeleteConnection(ctx context.Context, connectionID string) error
	CreateImport(ctx context.Context, imp *models.AirtableImport) error
	GetImport(ctx context.Context, importID string) (*models.AirtableImport, error)
	ListImports(ctx context.Context, uid string) ([]*models.AirtableImport, error)
	UpdateImport(ctx context.Context, imp *models.AirtableImport) error
	DeleteImport(ctx context.Context, importID string) error
}

type spreadsheetASStore interface {
	Get(ctx context.Context, spreadsheetID string) (*models.Spreadsheet, error)
	Update(ctx context.Context, sheet *models.Spreadsheet) error
}

type userASStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type airtableTokenCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type airtableAPI interface {
	ListTables(ctx context.Context, token, baseID string) ([]dto.AirtableTable, error)
	ListRecords(ctx context.Context, token, baseID, tableID, offset string) (dto.AirtableRecordPage, error)
}

type airtableService struct {
	store    airtableASStore
	sheets   spreadsheetASStore
	users    userASStore
	cipher   airtableTokenCipher
	api      airtableAPI
	clockNow func() time.Time
}

func NewAirtableService(store airtableASStore, sheets spreadsheetASStore, users userASStore, cipher airtableTokenCipher, api airtableAPI) *airtableService {
	return &airtableService{
		store:    store,
		sheets:   sheets,
		users:    users,
		cipher:   cipher,
		api:      api,
		clockNow: time.Now,
	}
}

func (s *airtableService) ownedConnection(ctx context.Context, uid, connectionID string) (*models.AirtableConnection, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if c.OwnerUID != user.UID {
		return nil, errs.NewNotAuthorizedError()
	}
	return c, nil
}

func (s *airtableService) ownedImport(ctx context.Context, uid, importID string) (*models.AirtableImport, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	imp, err := s.store.GetImport(ctx, importID)
	if err != nil {
		return nil, err
	}
	if imp.OwnerUID != user.UID {
		return nil, errs.NewNotAuthorizedError()
	}
	return imp, nil
}

// CreateConnection stores a personal access token encrypted with KMS. The
// plaintext never lands in the store.
func (s *airtableService) CreateConnection(ctx context.Context, uid string, req dto.CreateConnectionRequest) (*models.AirtableConnection, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if req.Token == "" {
		return nil, errs.NewValidationError("token is required")
	}
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.cipher.Encrypt(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	c := &models.AirtableConnection{
		ConnectionID:    uuid.NewString(),
		OwnerUID:        user.UID,
		Name:            req.Name,
		TokenCiphertext: ciphertext,
	}
	if err := s.store.CreateConnection(ctx, c); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("airtable connection created", "connection_id", c.ConnectionID)
	return c, nil
}

func (s *airtableService) ListConnections(ctx context.Context, uid string) ([]*models.AirtableConnection, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.store.ListConnections(ctx, user.UID)
}

func (s *airtableService) DeleteConnection(ctx context.Context, uid, connectionID string) error {
	if _, err := s.ownedConnection(ctx, uid, connectionID); err != nil {
		return err
	}
	return s.store.DeleteConnection(ctx, connectionID)
}

func (s *airtableService) ListTables(ctx context.Context, uid, connectionID, baseID string) ([]dto.AirtableTable, error) {
	if baseID == "" {
		return nil, errs.NewValidationError("baseId is required")
	}
	c, err := s.ownedConnection(ctx, uid, connectionID)
	if err != nil {
		return nil, err
	}
	token, err := s.cipher.Decrypt(ctx, c.TokenCiphertext)
	if err != nil {
		return nil, err
	}
	return s.api.ListTables(ctx, token, baseID)
}

func (s *airtableService) CreateImport(ctx context.Context, uid string, req dto.CreateImportRequest) (*models.AirtableImport, error) {
	if req.BaseID == "" || req.TableID == "" {
		return nil, errs.NewValidationError("baseId and tableId are required")
	}
	c, err := s.ownedConnection(ctx, uid, req.ConnectionID)
	if err != nil {
		return nil, err
	}
	sheet, err := s.sheets.Get(ctx, req.SpreadsheetID)
	if err != nil {
		return nil, err
	}
	if sheet.OwnerUID != c.OwnerUID {
		return nil, errs.NewNotAuthorizedError()
	}

	imp := &models.AirtableImport{
		ImportID:      uuid.NewString(),
		OwnerUID:      c.OwnerUID,
		ConnectionID:  c.ConnectionID,
		SpreadsheetID: sheet.SpreadsheetID,
		BaseID:        req.BaseID,
		TableID:       req.TableID,
		TableName:     req.TableName,
	}
	if err := s.store.CreateImport(ctx, imp); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("airtable import created", "import_id", imp.ImportID)
	return imp, nil
}

func (s *airtableService) ListImports(ctx context.Context, uid string) ([]*models.AirtableImport, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.store.ListImports(ctx, user.UID)
}

func (s *airtableService) DeleteImport(ctx context.Context, uid, importID string) error {
	if _, err := s.ownedImport(ctx, uid, importID); err != nil {
		return err
	}
	return s.store.DeleteImport(ctx, importID)
}

// Sync pulls every record of the linked Airtable table and rewrites the
// target sheet of the spreadsheet with a header row plus one row per
// record.
func (s *airtableService) Sync(ctx context.Context, uid, importID string) (*dto.SyncResult, error) {
	log := logger.FromContext(ctx)

	imp, err := s.ownedImport(ctx, uid, importID)
	if err != nil {
		return nil, err
	}
	conn, err := s.store.GetConnection(ctx, imp.ConnectionID)
	if err != nil {
		return nil, err
	}
	token, err := s.cipher.Decrypt(ctx, conn.TokenCiphertext)
	if err != nil {
		return nil, err
	}

	headers, err := s.tableHeaders(ctx, token, imp)
	if err != nil {
		return nil, err
	}

	var records []dto.AirtableRecord
	offset := ""
	for page := 0; page < syncPageLimit; page++ {
		batch, err := s.api.ListRecords(ctx, token, imp.BaseID, imp.TableID, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, batch.Records...)
		if batch.Offset == "" {
			break
		}
		offset = batch.Offset
	}

	if len(headers) == 0 {
		headers = collectFieldNames(records)
	}
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, headers)
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = fieldString(rec.Fields[h])
		}
		rows = append(rows, row)
	}

	sheet, err := s.sheets.Get(ctx, imp.SpreadsheetID)
	if err != nil {
		return nil, err
	}
	doc, err := sheetdoc.Parse(sheet.Data)
	if err != nil {
		return nil, err
	}

	sheetName := imp.TableName
	if sheetName == "" {
		sheetName = imp.TableID
	}
	ws := sheetdoc.NewSheet(sheetName)
	ws.AppendRows(rows)
	doc.AddSheet(ws)

	if sheet.Data, err = doc.Encode(); err != nil {
		return nil, err
	}
	if err := s.sheets.Update(ctx, sheet); err != nil {
		return nil, err
	}

	imp.RecordCount = len(records)
	imp.LastSyncedAt = s.clockNow()
	if err := s.store.UpdateImport(ctx, imp); err != nil {
		return nil, err
	}

	log.Info("airtable import synced", "import_id", importID, "records", len(records))
	return &dto.SyncResult{
		ImportID:    importID,
		RecordCount: len(records),
		RowsWritten: len(rows),
		SheetName:   sheetName,
	}, nil
}

// tableHeaders asks the metadata API for the table's field order so sheet
// columns match the Airtable view. A metadata failure is not fatal; the
// caller falls back to sorted field names.
func (s *airtableService) tableHeaders(ctx context.Context, token string, imp *models.AirtableImport) ([]string, error) {
	tables, err := s.api.ListTables(ctx, token, imp.BaseID)
	if err != nil {
		var ext *errs.ExternalServiceError
		if errors.As(err, &ext) {
			logger.FromContext(ctx).Warn("airtable metadata unavailable, using record field names", "error", err)
			return nil, nil
		}
		return nil, err
	}
	for _, t := range tables {
		if t.ID == imp.TableID || t.Name == imp.TableName {
			if imp.TableName == "" {
				imp.TableName = t.Name
			}
			return t.Fields, nil
		}
	}
	return nil, nil
}

func collectFieldNames(records []dto.AirtableRecord) []string {
	seen := map[string]bool{}
	var names []string
	for _, rec := range records {
		for name := range rec.Fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// fieldString flattens an Airtable field value to cell text.
func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fieldString(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return name
		}
		if url, ok := t["url"].(string); ok {
			return url
		}
		return ""
	default:
		return ""
	}
}
