package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gridbase/sheets-backend/internal/dto"
)

type fakeModel struct {
	text string
	err  error
}

func (f *fakeModel) GenerateContent(_ context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	if f.err != nil {
		return dto.VertexGenerateResponse{}, f.err
	}
	return dto.VertexGenerateResponse{Text: f.text}, nil
}

const alignedReport = `UserID   Date         Feature   Duration
U-1      2024-01-05   Export    12 min
U-2      2024-01-06   Import    3 min
`

func TestExtractServiceUsesModelOutput(t *testing.T) {
	model := &fakeModel{text: `{"tables":[{"page":1,"rows":[["A"],["1"]]}]}`}
	svc := NewExtractService(model)

	resp := svc.ExtractTables(testCtx(), "whatever")
	if len(resp.Tables) != 1 || resp.Tables[0].Rows[1][0] != "1" {
		t.Fatalf("tables = %#v", resp.Tables)
	}
}

func TestExtractServiceFallsBackOnModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	svc := NewExtractService(model)

	resp := svc.ExtractTables(testCtx(), alignedReport)
	if len(resp.Tables) != 1 {
		t.Fatalf("fallback produced %d tables, want 1", len(resp.Tables))
	}
	if len(resp.Tables[0].Rows) != 3 {
		t.Fatalf("fallback rows = %d, want 3", len(resp.Tables[0].Rows))
	}
}

func TestExtractServiceFallsBackOnUndecodableOutput(t *testing.T) {
	model := &fakeModel{text: "I could not find any tables, sorry!"}
	svc := NewExtractService(model)

	resp := svc.ExtractTables(testCtx(), alignedReport)
	if len(resp.Tables) != 1 {
		t.Fatalf("fallback produced %d tables, want 1", len(resp.Tables))
	}
}

func TestExtractServiceNeverReturnsNilTables(t *testing.T) {
	svc := NewExtractService(nil)

	resp := svc.ExtractTables(testCtx(), "no structure here at all")
	if resp.Tables == nil {
		t.Fatal("tables must be non-nil even when empty")
	}
	if len(resp.Tables) != 0 {
		t.Fatalf("tables = %#v", resp.Tables)
	}
}
