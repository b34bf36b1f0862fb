package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/pkg/helpers"
)

type fakeDashboardStore struct {
	dashboards map[string]*models.Dashboard
	widgets    map[string]*models.Widget
	positions  map[string]models.WidgetPosition
	touches    []string
}

func newFakeDashboardStore() *fakeDashboardStore {
	return &fakeDashboardStore{
		dashboards: map[string]*models.Dashboard{},
		widgets:    map[string]*models.Widget{},
		positions:  map[string]models.WidgetPosition{},
	}
}

func (f *fakeDashboardStore) Create(_ context.Context, d *models.Dashboard) error {
	f.dashboards[d.DashboardID] = d
	return nil
}

func (f *fakeDashboardStore) Get(_ context.Context, dashboardID string) (*models.Dashboard, error) {
	d, ok := f.dashboards[dashboardID]
	if !ok {
		return nil, errs.NewNotFoundError("Dashboard not found")
	}
	return d, nil
}

func (f *fakeDashboardStore) ListByOwner(_ context.Context, uid string) ([]*models.Dashboard, error) {
	var out []*models.Dashboard
	for _, d := range f.dashboards {
		if d.OwnerUID == uid {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDashboardStore) Update(_ context.Context, d *models.Dashboard) error {
	f.dashboards[d.DashboardID] = d
	return nil
}

func (f *fakeDashboardStore) Touch(_ context.Context, dashboardID string) error {
	f.touches = append(f.touches, dashboardID)
	return nil
}

func (f *fakeDashboardStore) Delete(_ context.Context, dashboardID string) error {
	delete(f.dashboards, dashboardID)
	return nil
}

func (f *fakeDashboardStore) CreateWidget(_ context.Context, w *models.Widget) error {
	f.widgets[w.WidgetID] = w
	return nil
}

func (f *fakeDashboardStore) GetWidget(_ context.Context, widgetID string) (*models.Widget, error) {
	w, ok := f.widgets[widgetID]
	if !ok {
		return nil, errs.NewNotFoundError("Widget not found")
	}
	return w, nil
}

func (f *fakeDashboardStore) ListWidgets(_ context.Context, dashboardID string) ([]*models.Widget, error) {
	var out []*models.Widget
	for _, w := range f.widgets {
		if w.DashboardID == dashboardID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeDashboardStore) UpdateWidget(_ context.Context, w *models.Widget) error {
	f.widgets[w.WidgetID] = w
	return nil
}

func (f *fakeDashboardStore) DeleteWidget(_ context.Context, widgetID string) error {
	delete(f.widgets, widgetID)
	return nil
}

func (f *fakeDashboardStore) BulkUpdatePositions(_ context.Context, positions map[string]models.WidgetPosition) error {
	for id, pos := range positions {
		f.positions[id] = pos
		if w, ok := f.widgets[id]; ok {
			w.Position = pos
		}
	}
	return nil
}

type fakeChartStore struct {
	charts map[string]*models.Chart
}

func (f *fakeChartStore) Get(_ context.Context, chartID string) (*models.Chart, error) {
	c, ok := f.charts[chartID]
	if !ok {
		return nil, errs.NewNotFoundError("Chart not found")
	}
	return c, nil
}

func dashboardFixture(t *testing.T) (*dashboardService, *fakeDashboardStore, *fakeSpreadsheetStore) {
	t.Helper()
	_, sheetStore, _ := spreadsheetFixture(t)

	users := newFakeUserStore(&models.User{UID: "owner"}, &models.User{UID: "intruder"})
	dashStore := newFakeDashboardStore()
	dashStore.dashboards["d1"] = &models.Dashboard{
		DashboardID:   "d1",
		OwnerUID:      "owner",
		SpreadsheetID: "s1",
		Name:          "Ops",
	}
	charts := &fakeChartStore{charts: map[string]*models.Chart{
		"c1": {ChartID: "c1", SpreadsheetID: "s1", OwnerUID: "owner", Type: "bar", Range: "A1:B3"},
	}}

	svc := NewDashboardService(dashStore, charts, sheetStore, users)
	return svc, dashStore, sheetStore
}

func TestDashboardServiceWidgetValidation(t *testing.T) {
	svc, _, _ := dashboardFixture(t)

	cases := []dto.CreateWidgetRequest{
		{Type: "bogus"},
		{Type: dto.WidgetTypeChart},
		{Type: dto.WidgetTypeMetric, Column: "Price"},
		{Type: dto.WidgetTypeMetric, Aggregate: dto.AggSum},
		{Type: dto.WidgetTypeMetric, Column: "Price", Aggregate: "mode"},
		{Type: dto.WidgetTypeTable},
		{Type: dto.WidgetTypeTable, Range: "zzz"},
		{Type: dto.WidgetTypeText},
	}
	for _, req := range cases {
		if _, err := svc.CreateWidget(testCtx(), "owner", "d1", req); err == nil {
			t.Fatalf("request %+v should fail validation", req)
		}
	}

	w, err := svc.CreateWidget(testCtx(), "owner", "d1", dto.CreateWidgetRequest{
		Type:      dto.WidgetTypeMetric,
		Column:    "Price",
		Aggregate: dto.AggSum,
	})
	if err != nil {
		t.Fatalf("valid metric widget rejected: %v", err)
	}
	if w.WidgetID == "" || w.DashboardID != "d1" || w.OwnerUID != "owner" {
		t.Fatalf("created widget = %+v", w)
	}
}

func TestDashboardServiceNonOwnerCannotAddWidgets(t *testing.T) {
	svc, store, _ := dashboardFixture(t)

	_, err := svc.CreateWidget(testCtx(), "intruder", "d1", dto.CreateWidgetRequest{
		Type: dto.WidgetTypeText,
		Text: "hello",
	})
	var authErr *errs.NotAuthorizedError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected not-authorized error, got %v", err)
	}
	if len(store.widgets) != 0 {
		t.Fatal("widget must not be stored")
	}
}

func TestDashboardServiceReorderWidgets(t *testing.T) {
	svc, store, _ := dashboardFixture(t)
	store.widgets["w1"] = &models.Widget{WidgetID: "w1", DashboardID: "d1", OwnerUID: "owner", Type: dto.WidgetTypeText, Text: "a"}
	store.widgets["w2"] = &models.Widget{WidgetID: "w2", DashboardID: "d1", OwnerUID: "owner", Type: dto.WidgetTypeText, Text: "b"}

	err := svc.ReorderWidgets(testCtx(), "owner", "d1", dto.ReorderWidgetsRequest{
		Widgets: []dto.WidgetPlacement{
			{WidgetID: "w1", Position: models.WidgetPosition{X: 0, Y: 0, W: 2, H: 2}},
			{WidgetID: "w2", Position: models.WidgetPosition{X: 2, Y: 0, W: 2, H: 2}},
		},
	})
	if err != nil {
		t.Fatalf("ReorderWidgets returned error: %v", err)
	}
	if store.positions["w2"].X != 2 {
		t.Fatalf("positions not written: %#v", store.positions)
	}

	err = svc.ReorderWidgets(testCtx(), "owner", "d1", dto.ReorderWidgetsRequest{
		Widgets: []dto.WidgetPlacement{{WidgetID: "ghost"}},
	})
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("unknown widget should fail the whole batch, got %v", err)
	}
}

func TestDashboardServiceWidgetMutationsTouchDashboard(t *testing.T) {
	svc, store, _ := dashboardFixture(t)

	w, err := svc.CreateWidget(testCtx(), "owner", "d1", dto.CreateWidgetRequest{
		Type: dto.WidgetTypeText,
		Text: "hello",
	})
	if err != nil {
		t.Fatalf("CreateWidget returned error: %v", err)
	}
	if len(store.touches) != 1 || store.touches[0] != "d1" {
		t.Fatalf("create did not touch dashboard: %#v", store.touches)
	}

	if _, err := svc.UpdateWidget(testCtx(), "owner", "d1", w.WidgetID, dto.UpdateWidgetRequest{
		Text: helpers.Ptr("updated"),
	}); err != nil {
		t.Fatalf("UpdateWidget returned error: %v", err)
	}
	if len(store.touches) != 2 {
		t.Fatalf("update did not touch dashboard: %#v", store.touches)
	}

	if err := svc.ReorderWidgets(testCtx(), "owner", "d1", dto.ReorderWidgetsRequest{
		Widgets: []dto.WidgetPlacement{
			{WidgetID: w.WidgetID, Position: models.WidgetPosition{X: 1, Y: 1, W: 2, H: 2}},
		},
	}); err != nil {
		t.Fatalf("ReorderWidgets returned error: %v", err)
	}
	if len(store.touches) != 3 {
		t.Fatalf("reorder did not touch dashboard: %#v", store.touches)
	}

	if err := svc.DeleteWidget(testCtx(), "owner", "d1", w.WidgetID); err != nil {
		t.Fatalf("DeleteWidget returned error: %v", err)
	}
	if len(store.touches) != 4 {
		t.Fatalf("delete did not touch dashboard: %#v", store.touches)
	}

	// Failed mutations must leave the parent timestamp alone.
	if _, err := svc.CreateWidget(testCtx(), "intruder", "d1", dto.CreateWidgetRequest{
		Type: dto.WidgetTypeText,
		Text: "nope",
	}); err == nil {
		t.Fatal("intruder create should fail")
	}
	if len(store.touches) != 4 {
		t.Fatalf("failed create touched dashboard: %#v", store.touches)
	}
}

func TestDashboardServiceHydrateMetricWidget(t *testing.T) {
	svc, store, _ := dashboardFixture(t)
	store.widgets["w1"] = &models.Widget{
		WidgetID:    "w1",
		DashboardID: "d1",
		OwnerUID:    "owner",
		Type:        dto.WidgetTypeMetric,
		Column:      "Price",
		Aggregate:   dto.AggAverage,
	}

	resp, err := svc.GetWidgetData(testCtx(), "owner", "d1", "w1")
	if err != nil {
		t.Fatalf("GetWidgetData returned error: %v", err)
	}
	data, ok := resp.Data.(dto.MetricWidgetData)
	if !ok {
		t.Fatalf("data type = %T", resp.Data)
	}
	if data.Value != 20 {
		t.Fatalf("average = %v, want 20", data.Value)
	}
}

func TestDashboardServiceHydrateChartWidget(t *testing.T) {
	svc, store, _ := dashboardFixture(t)
	store.widgets["w1"] = &models.Widget{
		WidgetID:    "w1",
		DashboardID: "d1",
		OwnerUID:    "owner",
		Type:        dto.WidgetTypeChart,
		ChartID:     "c1",
	}

	resp, err := svc.GetWidgetData(testCtx(), "owner", "d1", "w1")
	if err != nil {
		t.Fatalf("GetWidgetData returned error: %v", err)
	}
	data, ok := resp.Data.(dto.ChartWidgetData)
	if !ok {
		t.Fatalf("data type = %T", resp.Data)
	}
	if data.ChartType != "bar" {
		t.Fatalf("chart type = %q", data.ChartType)
	}
	if len(data.Values) != 3 || data.Values[1][1] != "10" {
		t.Fatalf("chart values = %#v", data.Values)
	}
}

func TestDashboardServiceGetDashboardData(t *testing.T) {
	svc, store, _ := dashboardFixture(t)
	store.widgets["w1"] = &models.Widget{WidgetID: "w1", DashboardID: "d1", OwnerUID: "owner", Type: dto.WidgetTypeText, Text: "hello"}
	store.widgets["w2"] = &models.Widget{
		WidgetID: "w2", DashboardID: "d1", OwnerUID: "owner",
		Type: dto.WidgetTypeTable, SheetName: "", Range: "A1:B2",
	}

	resp, err := svc.GetDashboardData(testCtx(), "owner", "d1")
	if err != nil {
		t.Fatalf("GetDashboardData returned error: %v", err)
	}
	if resp.DashboardID != "d1" || len(resp.Widgets) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	for _, w := range resp.Widgets {
		if w.Data == nil {
			t.Fatalf("widget %s not hydrated", w.WidgetID)
		}
	}
}
