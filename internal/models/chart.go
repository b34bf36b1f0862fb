package models

import (
	"time"
)

type Chart struct {
	ChartID       string    `firestore:"chartId" json:"chartId"`
	SpreadsheetID string    `firestore:"spreadsheetId" json:"spreadsheetId"`
	OwnerUID      string    `firestore:"ownerUid" json:"ownerUid"`
	Type          string    `firestore:"type" json:"type"` // "line","bar","area","pie"
	Title         string    `firestore:"title" json:"title,omitempty"`
	SheetName     string    `firestore:"sheetName" json:"sheetName,omitempty"`
	Range         string    `firestore:"range" json:"range"` // A1 notation, e.g. "A1:C10"
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
