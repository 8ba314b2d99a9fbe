package inventory

import (
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	tbl := newTestTable(t,
		[]string{ColItem, ColCategory, ColStockLevel, ColReorderPoint, ColStockStatus, ColABCClassification, ColTotalValue},
		[]Value{Text("a"), Text("tools"), Number(10), Number(20), Text(StatusLow), Text(ClassA), Number(100)},
		[]Value{Text("b"), Text("paint"), Number(5), Missing(), Text(StatusNormal), Text(ClassB), Number(30)},
		[]Value{Text("c"), Text("tools"), Missing(), Number(1), Text(StatusOverstock), Text(ClassC), Missing()},
		[]Value{Text("d"), Missing(), Number(2.5), Number(1), Text(StatusOverstock), Missing(), Number(5)},
	)

	ov, err := Summarize(tbl)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	want := Overview{
		Items:         4,
		TotalStock:    17.5,
		Categories:    2,
		ReorderPoints: 3,
		StockByCategory: []CategoryStock{
			{Category: "tools", StockLevel: 10},
			{Category: "paint", StockLevel: 5},
			{Category: "", StockLevel: 2.5},
		},
		LowStockItems:  1,
		OverstockItems: 2,
		ClassCounts:    map[string]int{ClassA: 1, ClassB: 1, ClassC: 1},
		TotalValue:     135,
	}
	if !reflect.DeepEqual(ov, want) {
		t.Errorf("Summarize() =\n%+v\nwant\n%+v", ov, want)
	}
}

func TestSummarize_PlainTable(t *testing.T) {
	tbl := newTestTable(t, []string{ColItem, ColStockLevel}, []Value{Text("a"), Number(3)})

	ov, err := Summarize(tbl)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if ov.ClassCounts != nil || ov.LowStockItems != 0 || ov.TotalValue != 0 {
		t.Errorf("unexpected derived counts: %+v", ov)
	}
	if ov.Categories != 0 {
		t.Errorf("Categories = %d, want 0 for uncategorised rows", ov.Categories)
	}
}
