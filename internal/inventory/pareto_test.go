package inventory

import (
	"errors"
	"testing"
)

func valueTable(t *testing.T, items []string, values []float64) *Table {
	t.Helper()
	tbl := NewTable(ColItem, ColStockLevel, "Value")
	for i := range items {
		if err := tbl.AppendRow(Text(items[i]), Number(1), Number(values[i])); err != nil {
			t.Fatalf("AppendRow() error = %v", err)
		}
	}
	return tbl
}

func TestClassifyPareto_BinBoundaries(t *testing.T) {
	// Input order is shuffled to check the descending rank.
	tbl := valueTable(t, []string{"small", "big", "medium"}, []float64{5, 80, 15})

	out, err := ClassifyPareto(tbl, "Value")
	if err != nil {
		t.Fatalf("ClassifyPareto() error = %v", err)
	}

	want := []struct {
		item  string
		pct   float64
		class string
	}{
		{"big", 80, ClassA},
		{"medium", 95, ClassB},
		{"small", 100, ClassC},
	}
	if out.Len() != len(want) {
		t.Fatalf("got %d rows, want %d", out.Len(), len(want))
	}
	for i, w := range want {
		if got := out.Get(i, ColItem).String(); got != w.item {
			t.Errorf("row %d: Item = %q, want %q", i, got, w.item)
		}
		if got := floatAt(t, out, i, ColCumulativePercentage); got != w.pct {
			t.Errorf("row %d: Cumulative Percentage = %v, want %v", i, got, w.pct)
		}
		if got := out.Get(i, ColABCClassification).String(); got != w.class {
			t.Errorf("row %d: class = %q, want %q", i, got, w.class)
		}
	}
}

func TestClassifyPareto_CumulativeMonotoneAndEndsAt100(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
	}{
		{"thirds", []float64{1, 1, 1}},
		{"decimals", []float64{3.3, 1.1, 7.7, 0, 2.2}},
		{"long tail", []float64{1000, 0.01, 0.02, 0.03, 250, 0.1, 7}},
		{"single", []float64{42}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items := make([]string, len(tc.values))
			for i := range items {
				items[i] = string(rune('a' + i))
			}
			out, err := ClassifyPareto(valueTable(t, items, tc.values), "Value")
			if err != nil {
				t.Fatalf("ClassifyPareto() error = %v", err)
			}

			prev := 0.0
			for i := 0; i < out.Len(); i++ {
				pct := floatAt(t, out, i, ColCumulativePercentage)
				if pct < prev {
					t.Errorf("row %d: %v < previous %v", i, pct, prev)
				}
				prev = pct
			}
			if last := floatAt(t, out, out.Len()-1, ColCumulativePercentage); last != 100 {
				t.Errorf("last Cumulative Percentage = %v, want exactly 100", last)
			}
		})
	}
}

func TestClassifyPareto_StableTies(t *testing.T) {
	out, err := ClassifyPareto(valueTable(t, []string{"x", "y", "z", "w"}, []float64{10, 10, 20, 10}), "Value")
	if err != nil {
		t.Fatalf("ClassifyPareto() error = %v", err)
	}

	want := []string{"z", "x", "y", "w"}
	for i, item := range want {
		if got := out.Get(i, ColItem).String(); got != item {
			t.Errorf("row %d: Item = %q, want %q", i, got, item)
		}
	}
}

func TestClassifyPareto_MissingValuesCountAsZero(t *testing.T) {
	tbl := NewTable(ColItem, "Value")
	_ = tbl.AppendRow(Text("blank"), Missing())
	_ = tbl.AppendRow(Text("full"), Number(50))

	out, err := ClassifyPareto(tbl, "Value")
	if err != nil {
		t.Fatalf("ClassifyPareto() error = %v", err)
	}
	if got := out.Get(1, ColItem).String(); got != "blank" {
		t.Errorf("last row = %q, want blank", got)
	}
	if got := floatAt(t, out, 1, ColTotalValue); got != 0 {
		t.Errorf("blank Total Value = %v, want 0", got)
	}
	if got := out.Get(0, ColABCClassification).String(); got != ClassC {
		// 100% is reached by the first row, which lands in C.
		t.Errorf("first row class = %q, want %q", got, ClassC)
	}
}

func TestClassifyPareto_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		tbl    func(t *testing.T) *Table
		column string
		target error
	}{
		{
			name:   "all zero",
			tbl:    func(t *testing.T) *Table { return valueTable(t, []string{"a", "b"}, []float64{0, 0}) },
			column: "Value",
			target: ErrDegenerateInput,
		},
		{
			name:   "negative total",
			tbl:    func(t *testing.T) *Table { return valueTable(t, []string{"a", "b"}, []float64{-10, 4}) },
			column: "Value",
			target: ErrDegenerateInput,
		},
		{
			name:   "empty table",
			tbl:    func(t *testing.T) *Table { return valueTable(t, nil, nil) },
			column: "Value",
			target: ErrDegenerateInput,
		},
		{
			name:   "absent column",
			tbl:    func(t *testing.T) *Table { return valueTable(t, []string{"a"}, []float64{1}) },
			column: "Nope",
			target: ErrMissingColumn,
		},
		{
			name: "non-numeric",
			tbl: func(t *testing.T) *Table {
				return newTestTable(t, []string{ColItem, "Value"}, []Value{Text("a"), Text("lots")})
			},
			column: "Value",
			target: ErrDataType,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ClassifyPareto(tc.tbl(t), tc.column)
			if out != nil {
				t.Error("expected no table")
			}
			if !errors.Is(err, tc.target) {
				t.Errorf("error = %v, want %v", err, tc.target)
			}
		})
	}
}

func TestComputeTotalValue(t *testing.T) {
	tbl := newTestTable(t,
		[]string{ColItem, ColStockLevel, ColPurchasePrice, ColSellingPrice},
		[]Value{Text("a"), Number(10), Number(2), Number(3)},
		[]Value{Text("b"), Missing(), Number(5), Number(8)},
		[]Value{Text("c"), Number(4), Missing(), Number(1.5)},
	)

	testCases := []struct {
		price string
		want  []float64
	}{
		{ColSellingPrice, []float64{30, 0, 6}},
		{ColPurchasePrice, []float64{20, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.price, func(t *testing.T) {
			out, err := ComputeTotalValue(tbl, tc.price)
			if err != nil {
				t.Fatalf("ComputeTotalValue() error = %v", err)
			}
			for i, w := range tc.want {
				if got := floatAt(t, out, i, ColTotalValue); got != w {
					t.Errorf("row %d: Total Value = %v, want %v", i, got, w)
				}
			}
		})
	}

	if tbl.HasColumn(ColTotalValue) {
		t.Error("input table gained a Total Value column")
	}
}

func TestAbcClass(t *testing.T) {
	testCases := []struct {
		pct  float64
		want string
	}{
		{0, ""},
		{0.5, ClassA},
		{80, ClassA},
		{80 + 1e-12, ClassA},
		{80.01, ClassB},
		{95, ClassB},
		{95.5, ClassC},
		{100, ClassC},
		{100.5, ""},
	}
	for _, tc := range testCases {
		if got := abcClass(tc.pct); got != tc.want {
			t.Errorf("abcClass(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}
