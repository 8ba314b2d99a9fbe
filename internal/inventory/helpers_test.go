package inventory

import (
	"math"
	"testing"
)

func newTestTable(t *testing.T, columns []string, rows ...[]Value) *Table {
	t.Helper()
	tbl := NewTable(columns...)
	for _, r := range rows {
		if err := tbl.AppendRow(r...); err != nil {
			t.Fatalf("AppendRow() error = %v", err)
		}
	}
	return tbl
}

func floatAt(t *testing.T, tbl *Table, i int, col string) float64 {
	t.Helper()
	f, ok := tbl.Get(i, col).Float()
	if !ok {
		t.Fatalf("row %d column %q is not numeric: %q", i, col, tbl.Get(i, col).String())
	}
	return f
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// stockTable builds an Item / Stock Level / Lead Time table.
func stockTable(t *testing.T, rows ...[]Value) *Table {
	t.Helper()
	return newTestTable(t, []string{ColItem, ColStockLevel, ColLeadTime}, rows...)
}
