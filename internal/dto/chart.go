package dto

type CreateChartRequest struct {
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	SheetName string `json:"sheetName,omitempty"`
	Range     string `json:"range"`
}

type UpdateChartRequest struct {
	Type      *string `json:"type,omitempty"`
	Title     *string `json:"title,omitempty"`
	SheetName *string `json:"sheetName,omitempty"`
	Range     *string `json:"range,omitempty"`
}
