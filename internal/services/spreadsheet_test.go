package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/internal/sheetdoc"
	"github.com/gridbase/sheets-backend/pkg/helpers"
)

type fakeSpreadsheetStore struct {
	sheets  map[string]*models.Spreadsheet
	updates int
	touches []string
}

func newFakeSpreadsheetStore(sheets ...*models.Spreadsheet) *fakeSpreadsheetStore {
	f := &fakeSpreadsheetStore{sheets: map[string]*models.Spreadsheet{}}
	for _, s := range sheets {
		f.sheets[s.SpreadsheetID] = s
	}
	return f
}

func (f *fakeSpreadsheetStore) Create(_ context.Context, sheet *models.Spreadsheet) error {
	f.sheets[sheet.SpreadsheetID] = sheet
	return nil
}

func (f *fakeSpreadsheetStore) Get(_ context.Context, spreadsheetID string) (*models.Spreadsheet, error) {
	s, ok := f.sheets[spreadsheetID]
	if !ok {
		return nil, errs.NewNotFoundError("Spreadsheet not found")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSpreadsheetStore) List(_ context.Context, uid, projectID string) ([]*models.Spreadsheet, error) {
	var out []*models.Spreadsheet
	for _, s := range f.sheets {
		if s.OwnerUID != uid {
			continue
		}
		if projectID != "" && s.ProjectID != projectID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSpreadsheetStore) Update(_ context.Context, sheet *models.Spreadsheet) error {
	f.updates++
	f.sheets[sheet.SpreadsheetID] = sheet
	return nil
}

func (f *fakeSpreadsheetStore) Touch(_ context.Context, spreadsheetID string) error {
	f.touches = append(f.touches, spreadsheetID)
	return nil
}

func (f *fakeSpreadsheetStore) Delete(_ context.Context, spreadsheetID string) error {
	delete(f.sheets, spreadsheetID)
	return nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) SpreadsheetUpdated(spreadsheetID string) {
	f.events = append(f.events, spreadsheetID)
}

func encodeDoc(t *testing.T, doc *sheetdoc.Document) string {
	t.Helper()
	data, err := doc.Encode()
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	return data
}

func spreadsheetFixture(t *testing.T) (*spreadsheetService, *fakeSpreadsheetStore, *fakeNotifier) {
	t.Helper()
	doc := sheetdoc.New("Sheet1")
	s := doc.Sheets[0]
	s.Cells.Set(0, 0, "Item")
	s.Cells.Set(0, 1, "Price")
	s.Cells.Set(1, 0, "Coffee")
	s.Cells.Set(1, 1, "10")
	s.Cells.Set(2, 0, "Lunch")
	s.Cells.Set(2, 1, "20")
	s.Cells.Set(3, 1, "abc")
	s.Cells.Set(4, 1, "30")

	users := newFakeUserStore(&models.User{UID: "owner"}, &models.User{UID: "intruder"})
	store := newFakeSpreadsheetStore(&models.Spreadsheet{
		SpreadsheetID: "s1",
		OwnerUID:      "owner",
		Name:          "Budget",
		Data:          encodeDoc(t, doc),
	})
	notify := &fakeNotifier{}
	svc := NewSpreadsheetService(store, newFakeProjectStore(), users, notify)
	return svc, store, notify
}

func TestSpreadsheetServiceNonOwnerCannotMutate(t *testing.T) {
	svc, store, notify := spreadsheetFixture(t)

	_, err := svc.UpdateSpreadsheet(testCtx(), "intruder", "s1", dto.UpdateSpreadsheetRequest{Data: helpers.Ptr("[]")})
	var authErr *errs.NotAuthorizedError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected not-authorized error, got %v", err)
	}
	if store.updates != 0 {
		t.Fatal("store must not be mutated on authorization failure")
	}
	if len(notify.events) != 0 {
		t.Fatal("no events should fire on failed update")
	}
}

func TestSpreadsheetServiceUpdateNotifies(t *testing.T) {
	svc, store, notify := spreadsheetFixture(t)

	sheet, err := svc.UpdateSpreadsheet(testCtx(), "owner", "s1", dto.UpdateSpreadsheetRequest{Name: helpers.Ptr("Renamed")})
	if err != nil {
		t.Fatalf("UpdateSpreadsheet returned error: %v", err)
	}
	if sheet.Name != "Renamed" || store.updates != 1 {
		t.Fatalf("update not applied: %+v, updates=%d", sheet, store.updates)
	}
	if len(notify.events) != 1 || notify.events[0] != "s1" {
		t.Fatalf("unexpected events: %#v", notify.events)
	}

	if _, err := svc.UpdateSpreadsheet(testCtx(), "owner", "s1", dto.UpdateSpreadsheetRequest{Data: helpers.Ptr("{corrupt")}); err == nil {
		t.Fatal("corrupt data blob must be rejected")
	}
}

func TestSpreadsheetServiceCreateDefaultsDocument(t *testing.T) {
	svc, store, _ := spreadsheetFixture(t)

	sheet, err := svc.CreateSpreadsheet(testCtx(), "owner", dto.CreateSpreadsheetRequest{Name: "Fresh"})
	if err != nil {
		t.Fatalf("CreateSpreadsheet returned error: %v", err)
	}
	doc, err := sheetdoc.Parse(store.sheets[sheet.SpreadsheetID].Data)
	if err != nil {
		t.Fatalf("stored data does not parse: %v", err)
	}
	if len(doc.Sheets) != 1 || doc.Sheets[0].Name != sheetdoc.DefaultSheetName {
		t.Fatalf("unexpected default document: %#v", doc.Sheets)
	}
}

func TestSpreadsheetServiceImportAndExportCSV(t *testing.T) {
	svc, store, _ := spreadsheetFixture(t)

	csvText := "Name,Qty\nWidget,4\nGadget,9\n"
	if _, err := svc.ImportCSV(testCtx(), "owner", "s1", dto.ImportCSVRequest{SheetName: "Imported", CSV: csvText}); err != nil {
		t.Fatalf("ImportCSV returned error: %v", err)
	}
	doc, _ := sheetdoc.Parse(store.sheets["s1"].Data)
	if doc.Sheet("Imported") == nil {
		t.Fatal("imported sheet missing")
	}
	if got := doc.Sheet("Imported").Cells.Text(2, 1); got != "9" {
		t.Fatalf("imported cell (2,1) = %q", got)
	}

	out, err := svc.ExportCSV(testCtx(), "owner", "s1", "Imported")
	if err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}
	if !strings.HasPrefix(out, "Name,Qty\n") {
		t.Fatalf("exported CSV = %q", out)
	}

	if _, err := svc.ExportCSV(testCtx(), "owner", "s1", "Nope"); err == nil {
		t.Fatal("unknown sheet name should fail")
	}
}

func TestSpreadsheetServiceColumnStats(t *testing.T) {
	svc, store, _ := spreadsheetFixture(t)

	resp, err := svc.ColumnStats(testCtx(), "owner", "s1", dto.ColumnStatsRequest{Column: "price"})
	if err != nil {
		t.Fatalf("ColumnStats returned error: %v", err)
	}
	if resp.Stats.Sum != 60 || resp.Stats.Count != 3 || resp.Stats.Average != 20 {
		t.Fatalf("stats = %+v", resp.Stats)
	}
	if resp.ResultRow != 5 {
		t.Fatalf("ResultRow = %d, want 5", resp.ResultRow)
	}

	doc, _ := sheetdoc.Parse(store.sheets["s1"].Data)
	if got := doc.Sheets[0].Cells.Text(5, 0); got != "Price stats" {
		t.Fatalf("result row not persisted, cell = %q", got)
	}
}

func TestSpreadsheetServiceGenerateTable(t *testing.T) {
	svc, store, _ := spreadsheetFixture(t)

	_, err := svc.GenerateTable(testCtx(), "owner", "s1", dto.GenerateTableRequest{
		SheetName: "Samples",
		Headers:   []string{"OrderID", "Price"},
		Rows:      3,
	})
	if err != nil {
		t.Fatalf("GenerateTable returned error: %v", err)
	}
	doc, _ := sheetdoc.Parse(store.sheets["s1"].Data)
	sample := doc.Sheet("Samples")
	if sample == nil {
		t.Fatal("sample sheet missing")
	}
	if got := sample.Cells.Text(1, 0); got != "1001" {
		t.Fatalf("sample id = %q", got)
	}

	if _, err := svc.GenerateTable(testCtx(), "owner", "s1", dto.GenerateTableRequest{Headers: nil, Rows: 3}); err == nil {
		t.Fatal("missing headers should fail validation")
	}
	if _, err := svc.GenerateTable(testCtx(), "owner", "s1", dto.GenerateTableRequest{Headers: []string{"A"}, Rows: 0}); err == nil {
		t.Fatal("non-positive row count should fail validation")
	}
}

func TestSpreadsheetServiceAppendRows(t *testing.T) {
	svc, store, _ := spreadsheetFixture(t)

	resp, err := svc.AppendRows(testCtx(), "owner", "s1", dto.AppendRowsRequest{
		Rows: [][]string{{"Tea", "5"}},
	})
	if err != nil {
		t.Fatalf("AppendRows returned error: %v", err)
	}
	if resp.StartRow != 5 || resp.Rows != 1 {
		t.Fatalf("AppendRows response = %+v", resp)
	}
	doc, _ := sheetdoc.Parse(store.sheets["s1"].Data)
	if got := doc.Sheets[0].Cells.Text(5, 0); got != "Tea" {
		t.Fatalf("appended cell = %q", got)
	}
}

func TestSpreadsheetServiceRangeValues(t *testing.T) {
	svc, _, _ := spreadsheetFixture(t)

	resp, err := svc.RangeValues(testCtx(), "owner", "s1", "", "B2:B3")
	if err != nil {
		t.Fatalf("RangeValues returned error: %v", err)
	}
	if len(resp.Values) != 2 || resp.Values[0][0] != "10" || resp.Values[1][0] != "20" {
		t.Fatalf("values = %#v", resp.Values)
	}
	if resp.Range != "B2:B3" {
		t.Fatalf("range echo = %q", resp.Range)
	}

	if _, err := svc.RangeValues(testCtx(), "owner", "s1", "", "not-a-range"); err == nil {
		t.Fatal("invalid range should fail")
	}
}
