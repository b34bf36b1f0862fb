package models

import "time"

// AirtableConnection stores a user's personal access token, KMS-encrypted
// at rest.
type AirtableConnection struct {
	ConnectionID    string    `firestore:"connectionId" json:"connectionId"`
	OwnerUID        string    `firestore:"ownerUid" json:"ownerUid"`
	Name            string    `firestore:"name" json:"name"`
	TokenCiphertext string    `firestore:"tokenCiphertext" json:"-"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// AirtableImport links one Airtable table to a sheet of a spreadsheet.
type AirtableImport struct {
	ImportID      string    `firestore:"importId" json:"importId"`
	OwnerUID      string    `firestore:"ownerUid" json:"ownerUid"`
	ConnectionID  string    `firestore:"connectionId" json:"connectionId"`
	SpreadsheetID string    `firestore:"spreadsheetId" json:"spreadsheetId"`
	BaseID        string    `firestore:"baseId" json:"baseId"`
	TableID       string    `firestore:"tableId" json:"tableId"`
	TableName     string    `firestore:"tableName" json:"tableName"`
	RecordCount   int       `firestore:"recordCount" json:"recordCount"`
	LastSyncedAt  time.Time `firestore:"lastSyncedAt" json:"lastSyncedAt"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
