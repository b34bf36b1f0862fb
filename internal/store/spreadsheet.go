package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
)

type spreadsheetStore struct {
	client *firestore.Client
}

func NewSpreadsheetStore(client *firestore.Client) *spreadsheetStore {
	return &spreadsheetStore{client: client}
}

func (s *spreadsheetStore) collection() *firestore.CollectionRef {
	return s.client.Collection("spreadsheets")
}

func (s *spreadsheetStore) Create(ctx context.Context, sheet *models.Spreadsheet) error {
	now := time.Now()
	if sheet.CreatedAt.IsZero() {
		sheet.CreatedAt = now
	}
	sheet.UpdatedAt = now
	_, err := s.collection().Doc(sheet.SpreadsheetID).Set(ctx, sheet)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create spreadsheet", err)
	}
	return nil
}

func (s *spreadsheetStore) Get(ctx context.Context, spreadsheetID string) (*models.Spreadsheet, error) {
	doc, err := s.collection().Doc(spreadsheetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Spreadsheet not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get spreadsheet", err)
	}
	var sheet models.Spreadsheet
	if err := doc.DataTo(&sheet); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse spreadsheet data", err)
	}
	return &sheet, nil
}

func (s *spreadsheetStore) List(ctx context.Context, uid, projectID string) ([]*models.Spreadsheet, error) {
	q := s.collection().Where("ownerUid", "==", uid)
	if projectID != "" {
		q = q.Where("projectId", "==", projectID)
	}
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list spreadsheets", err)
	}
	sheets := make([]*models.Spreadsheet, 0, len(docs))
	for _, d := range docs {
		var sheet models.Spreadsheet
		if err := d.DataTo(&sheet); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse spreadsheet data", err)
		}
		sheets = append(sheets, &sheet)
	}
	return sheets, nil
}

func (s *spreadsheetStore) Update(ctx context.Context, sheet *models.Spreadsheet) error {
	sheet.UpdatedAt = time.Now()
	_, err := s.collection().Doc(sheet.SpreadsheetID).Set(ctx, sheet)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update spreadsheet", err)
	}
	return nil
}

// Touch bumps only updatedAt, used when a child record changed.
func (s *spreadsheetStore) Touch(ctx context.Context, spreadsheetID string) error {
	_, err := s.collection().Doc(spreadsheetID).Update(ctx, []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to touch spreadsheet", err)
	}
	return nil
}

func (s *spreadsheetStore) Delete(ctx context.Context, spreadsheetID string) error {
	_, err := s.collection().Doc(spreadsheetID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete spreadsheet", err)
	}
	return nil
}
