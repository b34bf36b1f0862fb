package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/internal/sheetdoc"
)

type fakeAirtableStore struct {
	connections map[string]*models.AirtableConnection
	imports     map[string]*models.AirtableImport
}

func newFakeAirtableStore() *fakeAirtableStore {
	return &fakeAirtableStore{
		connections: map[string]*models.AirtableConnection{},
		imports:     map[string]*models.AirtableImport{},
	}
}

func (f *fakeAirtableStore) CreateConnection(_ context.Context, c *models.AirtableConnection) error {
	f.connections[c.ConnectionID] = c
	return nil
}

func (f *fakeAirtableStore) GetConnection(_ context.Context, connectionID string) (*models.AirtableConnection, error) {
	c, ok := f.connections[connectionID]
	if !ok {
		return nil, errs.NewNotFoundError("Connection not found")
	}
	return c, nil
}

func (f *fakeAirtableStore) ListConnections(_ context.Context, uid string) ([]*models.AirtableConnection, error) {
	var out []*models.AirtableConnection
	for _, c := range f.connections {
		if c.OwnerUID == uid {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAirtableStore) DeleteConnection(_ context.Context, connectionID string) error {
	delete(f.connections, connectionID)
	return nil
}

func (f *fakeAirtableStore) CreateImport(_ context.Context, imp *models.AirtableImport) error {
	f.imports[imp.ImportID] = imp
	return nil
}

func (f *fakeAirtableStore) GetImport(_ context.Context, importID string) (*models.AirtableImport, error) {
	imp, ok := f.imports[importID]
	if !ok {
		return nil, errs.NewNotFoundError("Import not found")
	}
	return imp, nil
}

func (f *fakeAirtableStore) ListImports(_ context.Context, uid string) ([]*models.AirtableImport, error) {
	var out []*models.AirtableImport
	for _, imp := range f.imports {
		if imp.OwnerUID == uid {
			out = append(out, imp)
		}
	}
	return out, nil
}

func (f *fakeAirtableStore) UpdateImport(_ context.Context, imp *models.AirtableImport) error {
	f.imports[imp.ImportID] = imp
	return nil
}

func (f *fakeAirtableStore) DeleteImport(_ context.Context, importID string) error {
	delete(f.imports, importID)
	return nil
}

// fakeCipher prefixes instead of encrypting so tests can see both sides.
type fakeCipher struct{}

func (fakeCipher) Encrypt(_ context.Context, plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(_ context.Context, ciphertext string) (string, error) {
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type fakeAirtableAPI struct {
	tables      []dto.AirtableTable
	pages       []dto.AirtableRecordPage
	lastToken   string
	pagesServed int
}

func (f *fakeAirtableAPI) ListTables(_ context.Context, token, baseID string) ([]dto.AirtableTable, error) {
	f.lastToken = token
	return f.tables, nil
}

func (f *fakeAirtableAPI) ListRecords(_ context.Context, token, baseID, tableID, offset string) (dto.AirtableRecordPage, error) {
	f.lastToken = token
	if f.pagesServed >= len(f.pages) {
		return dto.AirtableRecordPage{}, nil
	}
	page := f.pages[f.pagesServed]
	f.pagesServed++
	return page, nil
}

func airtableFixture(t *testing.T) (*airtableService, *fakeAirtableStore, *fakeSpreadsheetStore, *fakeAirtableAPI) {
	t.Helper()
	_, sheetStore, _ := spreadsheetFixture(t)
	users := newFakeUserStore(&models.User{UID: "owner"}, &models.User{UID: "intruder"})
	store := newFakeAirtableStore()
	api := &fakeAirtableAPI{
		tables: []dto.AirtableTable{
			{ID: "tbl1", Name: "Inventory", Fields: []string{"Name", "Qty", "InStock"}},
		},
		pages: []dto.AirtableRecordPage{
			{
				Records: []dto.AirtableRecord{
					{ID: "r1", Fields: map[string]any{"Name": "Widget", "Qty": float64(4), "InStock": true}},
				},
				Offset: "page2",
			},
			{
				Records: []dto.AirtableRecord{
					{ID: "r2", Fields: map[string]any{"Name": "Gadget", "Qty": float64(9), "InStock": false}},
				},
			},
		},
	}

	svc := NewAirtableService(store, sheetStore, users, fakeCipher{}, api)
	svc.clockNow = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store, sheetStore, api
}

func TestAirtableServiceCreateConnectionEncryptsToken(t *testing.T) {
	svc, store, _, _ := airtableFixture(t)

	conn, err := svc.CreateConnection(testCtx(), "owner", dto.CreateConnectionRequest{
		Name:  "Personal",
		Token: "pat-secret",
	})
	if err != nil {
		t.Fatalf("CreateConnection returned error: %v", err)
	}
	stored := store.connections[conn.ConnectionID]
	if stored.TokenCiphertext != "enc:pat-secret" {
		t.Fatalf("token not encrypted at rest: %q", stored.TokenCiphertext)
	}

	if _, err := svc.CreateConnection(testCtx(), "owner", dto.CreateConnectionRequest{Name: "x"}); err == nil {
		t.Fatal("missing token should fail validation")
	}
}

func TestAirtableServiceSync(t *testing.T) {
	svc, store, sheetStore, api := airtableFixture(t)
	store.connections["conn1"] = &models.AirtableConnection{
		ConnectionID:    "conn1",
		OwnerUID:        "owner",
		TokenCiphertext: "enc:pat-secret",
	}
	store.imports["imp1"] = &models.AirtableImport{
		ImportID:      "imp1",
		OwnerUID:      "owner",
		ConnectionID:  "conn1",
		SpreadsheetID: "s1",
		BaseID:        "base1",
		TableID:       "tbl1",
	}

	result, err := svc.Sync(testCtx(), "owner", "imp1")
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if result.RecordCount != 2 {
		t.Fatalf("RecordCount = %d, want 2", result.RecordCount)
	}
	if result.RowsWritten != 3 {
		t.Fatalf("RowsWritten = %d, want 3 (header plus records)", result.RowsWritten)
	}
	if result.SheetName != "Inventory" {
		t.Fatalf("SheetName = %q, want table name from metadata", result.SheetName)
	}
	if api.lastToken != "pat-secret" {
		t.Fatalf("api saw token %q, want decrypted plaintext", api.lastToken)
	}

	doc, _ := sheetdoc.Parse(sheetStore.sheets["s1"].Data)
	ws := doc.Sheet("Inventory")
	if ws == nil {
		t.Fatal("synced sheet missing")
	}
	if got := ws.Cells.Text(0, 1); got != "Qty" {
		t.Fatalf("header cell = %q", got)
	}
	if got := ws.Cells.Text(2, 0); got != "Gadget" {
		t.Fatalf("second record cell = %q", got)
	}
	if got := ws.Cells.Text(1, 2); got != "true" {
		t.Fatalf("boolean field = %q", got)
	}

	imp := store.imports["imp1"]
	if imp.RecordCount != 2 || imp.LastSyncedAt.IsZero() {
		t.Fatalf("import not updated: %+v", imp)
	}
	if imp.TableName != "Inventory" {
		t.Fatalf("table name not backfilled: %q", imp.TableName)
	}
}

func TestAirtableServiceSyncOwnershipGate(t *testing.T) {
	svc, store, _, _ := airtableFixture(t)
	store.imports["imp1"] = &models.AirtableImport{
		ImportID: "imp1",
		OwnerUID: "owner",
	}

	_, err := svc.Sync(testCtx(), "intruder", "imp1")
	var authErr *errs.NotAuthorizedError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected not-authorized error, got %v", err)
	}
}

func TestFieldString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{float64(3.5), "3.5"},
		{true, "true"},
		{[]any{"a", "b"}, "a, b"},
		{map[string]any{"name": "attachment.png"}, "attachment.png"},
		{map[string]any{"url": "https://example.com/f.png"}, "https://example.com/f.png"},
	}
	for _, tc := range cases {
		if got := fieldString(tc.in); got != tc.want {
			t.Fatalf("fieldString(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
