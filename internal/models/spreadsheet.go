package models

import (
	"time"
)

// Spreadsheet carries the editor widget's document as an opaque JSON blob
// in Data. Only the sheetdoc package reaches into it.
type Spreadsheet struct {
	SpreadsheetID string    `firestore:"spreadsheetId" json:"spreadsheetId"`
	OwnerUID      string    `firestore:"ownerUid" json:"ownerUid"`
	ProjectID     string    `firestore:"projectId" json:"projectId,omitempty"`
	Name          string    `firestore:"name" json:"name"`
	Data          string    `firestore:"data" json:"data"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
