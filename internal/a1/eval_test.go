package a1

import (
	"testing"

	"github.com/gridbase/sheets-backend/internal/sheetdoc"
)

func evalSheet() *sheetdoc.Sheet {
	s := sheetdoc.NewSheet("Sheet1")
	s.Cells.Set(0, 0, "10")
	s.Cells.Set(1, 0, "$1,000.50")
	s.Cells.Set(2, 0, "skip me")
	s.Cells.Set(3, 0, "4.5")
	return s
}

func TestEvalSum(t *testing.T) {
	s := evalSheet()
	rng, _ := ParseRange("A1:A4")
	if got := EvalSum(s, rng); got != 1015 {
		t.Fatalf("EvalSum = %v, want 1015", got)
	}
}

func TestRangeValuesResolvesSum(t *testing.T) {
	s := evalSheet()
	s.Cells.Set(4, 0, "=SUM(A1:A4)")
	s.Cells.Set(4, 1, "= sum( A1 )")
	s.Cells.Set(4, 2, "=AVG(A1:A4)")

	rng, _ := ParseRange("A5:C5")
	values := RangeValues(s, rng)
	if len(values) != 1 || len(values[0]) != 3 {
		t.Fatalf("unexpected shape: %#v", values)
	}
	if values[0][0] != "1015" {
		t.Fatalf("SUM cell = %q, want 1015", values[0][0])
	}
	if values[0][1] != "10" {
		t.Fatalf("single-cell SUM = %q, want 10", values[0][1])
	}
	// Unsupported formulas pass through as literal text.
	if values[0][2] != "=AVG(A1:A4)" {
		t.Fatalf("non-SUM formula = %q", values[0][2])
	}
}

func TestNestedSum(t *testing.T) {
	s := sheetdoc.NewSheet("Sheet1")
	s.Cells.Set(0, 0, "2")
	s.Cells.Set(1, 0, "3")
	s.Cells.Set(2, 0, "=SUM(A1:A2)")
	s.Cells.Set(0, 1, "=SUM(A1:A3)")

	rng, _ := ParseRange("B1")
	values := RangeValues(s, rng)
	// A3 resolves to 5, so B1 = 2 + 3 + 5.
	if values[0][0] != "10" {
		t.Fatalf("nested SUM = %q, want 10", values[0][0])
	}
}

func TestSelfReferencingSumTerminates(t *testing.T) {
	s := sheetdoc.NewSheet("Sheet1")
	s.Cells.Set(0, 0, "=SUM(A1)")

	rng, _ := ParseRange("A1")
	values := RangeValues(s, rng)
	if values[0][0] != "0" {
		t.Fatalf("self-referencing SUM = %q, want 0", values[0][0])
	}
}
