package inventory

import (
	"errors"
	"testing"
)

func reorderTable(t *testing.T, rows ...[]Value) *Table {
	t.Helper()
	return newTestTable(t, []string{ColItem, ColStockLevel, ColReorderPoint}, rows...)
}

func TestClassifyStockStatus(t *testing.T) {
	testCases := []struct {
		name    string
		stock   Value
		reorder Value
		want    string
	}{
		{"below reorder point", Number(5), Number(10), StatusLow},
		{"above twice reorder point", Number(25), Number(10), StatusOverstock},
		{"between", Number(15), Number(10), StatusNormal},
		{"at reorder point", Number(10), Number(10), StatusNormal},
		{"at twice reorder point", Number(20), Number(10), StatusNormal},
		{"missing reorder point", Number(3), Missing(), StatusNormal},
		{"missing stock", Missing(), Number(1), StatusLow},
		{"zero reorder point with stock", Number(1), Number(0), StatusOverstock},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tbl := reorderTable(t, []Value{Text("a"), tc.stock, tc.reorder})
			out, err := ClassifyStockStatus(tbl)
			if err != nil {
				t.Fatalf("ClassifyStockStatus() error = %v", err)
			}
			if got := out.Get(0, ColStockStatus).String(); got != tc.want {
				t.Errorf("Stock Status = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyStockStatus_MissingReorderColumn(t *testing.T) {
	tbl := newTestTable(t, []string{ColItem, ColStockLevel}, []Value{Text("a"), Number(1)})

	_, err := ClassifyStockStatus(tbl)
	var mcErr *MissingColumnError
	if !errors.As(err, &mcErr) || mcErr.Column != ColReorderPoint {
		t.Fatalf("expected MissingColumnError for %q, got %v", ColReorderPoint, err)
	}
}

func TestComputeStockGaps(t *testing.T) {
	tbl := reorderTable(t,
		[]Value{Text("low"), Number(5), Number(10)},
		[]Value{Text("high"), Number(25), Number(10)},
	)

	out, err := ComputeStockGaps(tbl)
	if err != nil {
		t.Fatalf("ComputeStockGaps() error = %v", err)
	}

	testCases := []struct {
		row   int
		over  float64
		under float64
	}{
		{0, -5, 5},
		{1, 15, -15},
	}
	for _, tc := range testCases {
		if got := floatAt(t, out, tc.row, ColOverstock); got != tc.over {
			t.Errorf("row %d: Overstock = %v, want %v", tc.row, got, tc.over)
		}
		if got := floatAt(t, out, tc.row, ColUnderstock); got != tc.under {
			t.Errorf("row %d: Understock = %v, want %v", tc.row, got, tc.under)
		}
	}
}

func TestWarnings(t *testing.T) {
	tbl := reorderTable(t,
		[]Value{Text("a"), Number(5), Number(10)},
		[]Value{Text("b"), Number(15), Number(10)},
		[]Value{Text("c"), Number(30), Number(10)},
		[]Value{Text("d"), Number(1), Number(10)},
	)

	low, over, err := Warnings(tbl)
	if err != nil {
		t.Fatalf("Warnings() error = %v", err)
	}

	assertItems(t, "low", low, []string{"a", "d"})
	assertItems(t, "overstock", over, []string{"c"})

	if tbl.HasColumn(ColStockStatus) {
		t.Error("input table gained a Stock Status column")
	}
}

func TestWarnings_UsesExistingStatus(t *testing.T) {
	tbl := newTestTable(t, []string{ColItem, ColStockLevel, ColStockStatus},
		[]Value{Text("a"), Number(1), Text(StatusOverstock)},
	)

	low, over, err := Warnings(tbl)
	if err != nil {
		t.Fatalf("Warnings() error = %v", err)
	}
	if low.Len() != 0 || over.Len() != 1 {
		t.Errorf("got %d low and %d overstock, want 0 and 1", low.Len(), over.Len())
	}
}

func assertItems(t *testing.T, label string, tbl *Table, want []string) {
	t.Helper()
	if tbl.Len() != len(want) {
		t.Fatalf("%s: got %d rows, want %d", label, tbl.Len(), len(want))
	}
	for i, item := range want {
		if got := tbl.Get(i, ColItem).String(); got != item {
			t.Errorf("%s row %d: Item = %q, want %q", label, i, got, item)
		}
	}
}
