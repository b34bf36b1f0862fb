package sheetdoc

import (
	"errors"
	"testing"

	"github.com/gridbase/sheets-backend/internal/errs"
)

func TestParseEmptyYieldsDefaultSheet(t *testing.T) {
	for _, data := range []string{"", "   ", "[]"} {
		doc, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", data, err)
		}
		if len(doc.Sheets) != 1 || doc.Sheets[0].Name != DefaultSheetName {
			t.Fatalf("Parse(%q) = %#v, want one default sheet", data, doc.Sheets)
		}
		if doc.Sheets[0].Cells == nil {
			t.Fatalf("Parse(%q) produced nil cell grid", data)
		}
	}
}

func TestParseMalformedData(t *testing.T) {
	_, err := Parse("{not json")
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	doc := New("Budget")
	doc.Sheets[0].Cells.Set(0, 0, "Item")
	doc.Sheets[0].Cells.Set(0, 1, "Price")
	doc.Sheets[0].Cells.Set(1, 0, "Coffee")
	doc.Sheets[0].Cells.Set(1, 1, "3.50")

	data, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := back.Sheets[0].Cells.Text(1, 1); got != "3.50" {
		t.Fatalf("round-trip cell (1,1) = %q, want %q", got, "3.50")
	}
	if back.Sheets[0].Name != "Budget" {
		t.Fatalf("round-trip sheet name = %q", back.Sheets[0].Name)
	}
}

func TestSheetLookup(t *testing.T) {
	doc := New("First")
	doc.AddSheet(NewSheet("Second"))

	if s := doc.Sheet(""); s == nil || s.Name != "First" {
		t.Fatalf("Sheet(\"\") = %v, want first sheet", s)
	}
	if s := doc.Sheet("Second"); s == nil || s.Name != "Second" {
		t.Fatalf("Sheet(\"Second\") = %v", s)
	}
	if s := doc.Sheet("Missing"); s != nil {
		t.Fatalf("Sheet(\"Missing\") = %v, want nil", s)
	}
}

func TestAddSheetReplacesByName(t *testing.T) {
	doc := New("Data")
	replacement := NewSheet("Data")
	replacement.Cells.Set(0, 0, "fresh")
	doc.AddSheet(replacement)

	if len(doc.Sheets) != 1 {
		t.Fatalf("expected 1 sheet after replace, got %d", len(doc.Sheets))
	}
	if got := doc.Sheets[0].Cells.Text(0, 0); got != "fresh" {
		t.Fatalf("cell (0,0) = %q, want %q", got, "fresh")
	}
}
