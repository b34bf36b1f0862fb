package models

import "time"

type Dashboard struct {
	DashboardID   string    `firestore:"dashboardId" json:"dashboardId"`
	OwnerUID      string    `firestore:"ownerUid" json:"ownerUid"`
	SpreadsheetID string    `firestore:"spreadsheetId" json:"spreadsheetId"`
	Name          string    `firestore:"name" json:"name"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Widget is one dashboard tile. Not all fields apply to every type; the
// service layer enforces per-type rules.
type Widget struct {
	WidgetID    string         `firestore:"widgetId" json:"widgetId"`
	DashboardID string         `firestore:"dashboardId" json:"dashboardId"`
	OwnerUID    string         `firestore:"ownerUid" json:"ownerUid"`
	Type        string         `firestore:"type" json:"type"` // "chart","metric","table","text"
	Title       string         `firestore:"title" json:"title,omitempty"`
	Position    WidgetPosition `firestore:"position" json:"position"`
	ChartID     string         `firestore:"chartId,omitempty" json:"chartId,omitempty"`     // chart widgets
	Column      string         `firestore:"column,omitempty" json:"column,omitempty"`       // metric widgets
	Aggregate   string         `firestore:"aggregate,omitempty" json:"aggregate,omitempty"` // "sum","average","count","min","max"
	SheetName   string         `firestore:"sheetName,omitempty" json:"sheetName,omitempty"` // table widgets
	Range       string         `firestore:"range,omitempty" json:"range,omitempty"`         // table widgets
	Text        string         `firestore:"text,omitempty" json:"text,omitempty"`           // text widgets
	CreatedAt   time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

// WidgetPosition is the grid placement the dashboard layout engine uses.
type WidgetPosition struct {
	X int `firestore:"x" json:"x"`
	Y int `firestore:"y" json:"y"`
	W int `firestore:"w" json:"w"`
	H int `firestore:"h" json:"h"`
}
