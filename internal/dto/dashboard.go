package dto

import (
	"time"

	"github.com/gridbase/sheets-backend/internal/models"
)

const (
	WidgetTypeChart  = "chart"
	WidgetTypeMetric = "metric"
	WidgetTypeTable  = "table"
	WidgetTypeText   = "text"
)

const (
	AggSum     = "sum"
	AggAverage = "average"
	AggCount   = "count"
	AggMin     = "min"
	AggMax     = "max"
)

type CreateDashboardRequest struct {
	Name          string `json:"name"`
	SpreadsheetID string `json:"spreadsheetId"`
}

type UpdateDashboardRequest struct {
	Name *string `json:"name,omitempty"`
}

type CreateWidgetRequest struct {
	Type      string                `json:"type"`
	Title     string                `json:"title,omitempty"`
	Position  models.WidgetPosition `json:"position"`
	ChartID   string                `json:"chartId,omitempty"`
	Column    string                `json:"column,omitempty"`
	Aggregate string                `json:"aggregate,omitempty"`
	SheetName string                `json:"sheetName,omitempty"`
	Range     string                `json:"range,omitempty"`
	Text      string                `json:"text,omitempty"`
}

type UpdateWidgetRequest struct {
	Title     *string                `json:"title,omitempty"`
	Position  *models.WidgetPosition `json:"position,omitempty"`
	ChartID   *string                `json:"chartId,omitempty"`
	Column    *string                `json:"column,omitempty"`
	Aggregate *string                `json:"aggregate,omitempty"`
	SheetName *string                `json:"sheetName,omitempty"`
	Range     *string                `json:"range,omitempty"`
	Text      *string                `json:"text,omitempty"`
}

type ReorderWidgetsRequest struct {
	Widgets []WidgetPlacement `json:"widgets"`
}

type WidgetPlacement struct {
	WidgetID string                `json:"widgetId"`
	Position models.WidgetPosition `json:"position"`
}

type WidgetDataResponse struct {
	WidgetID    string    `json:"widgetId"`
	Type        string    `json:"type"`
	Data        any       `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type DashboardDataResponse struct {
	DashboardID string               `json:"dashboardId"`
	Widgets     []WidgetDataResponse `json:"widgets"`
}

// Widget payload shapes.

type ChartWidgetData struct {
	ChartType string     `json:"chartType"`
	Title     string     `json:"title,omitempty"`
	Values    [][]string `json:"values"`
}

type MetricWidgetData struct {
	Column    string  `json:"column"`
	Aggregate string  `json:"aggregate"`
	Value     float64 `json:"value"`
}

type TableWidgetData struct {
	Values [][]string `json:"values"`
}

type TextWidgetData struct {
	Text string `json:"text"`
}
