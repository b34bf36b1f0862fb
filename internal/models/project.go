package models

import (
	"time"
)

type Project struct {
	ProjectID string    `firestore:"projectId" json:"projectId"`
	OwnerUID  string    `firestore:"ownerUid" json:"ownerUid"`
	Name      string    `firestore:"name" json:"name"`
	Color     string    `firestore:"color" json:"color,omitempty"` // hex, picked in the UI
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
