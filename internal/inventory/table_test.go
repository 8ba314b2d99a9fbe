package inventory

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestValueFloat(t *testing.T) {
	testCases := []struct {
		name    string
		value   Value
		want    float64
		ok      bool
		missing bool
	}{
		{"number", Number(3.5), 3.5, true, false},
		{"NaN number", Number(math.NaN()), 0, true, true},
		{"numeric text", Text(" 42 "), 42, true, false},
		{"thousands separator", Text("1,250.5"), 1250.5, true, false},
		{"blank text", Text("   "), 0, true, true},
		{"word", Text("n/a"), 0, false, false},
		{"infinity text", Text("Inf"), 0, false, false},
		{"spelled infinity", Text("-Infinity"), 0, false, false},
		{"NaN text", Text("NaN"), 0, false, false},
		{"overflow", Text("1e999"), 0, false, false},
		{"missing", Missing(), 0, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.value.Float()
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if tc.missing {
				if !math.IsNaN(got) {
					t.Errorf("Float() = %v, want NaN", got)
				}
				return
			}
			if got != tc.want {
				t.Errorf("Float() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTable_AppendRow(t *testing.T) {
	tbl := NewTable("a", "b", "a")
	if got := tbl.Columns(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Columns() = %v", got)
	}
	if err := tbl.AppendRow(Number(1)); err != nil {
		t.Fatalf("short row: %v", err)
	}
	if !tbl.Get(0, "b").IsMissing() {
		t.Error("short row should be padded with Missing")
	}
	if err := tbl.AppendRow(Number(1), Number(2), Number(3)); err == nil {
		t.Error("expected error for a row wider than the table")
	}
}

func TestTable_CloneIsDeep(t *testing.T) {
	tbl := newTestTable(t, []string{"a"}, []Value{Number(1)})
	c := tbl.Clone()
	c.Set(0, "a", Number(2))
	c.Set(0, "b", Text("new"))

	if got := floatAt(t, tbl, 0, "a"); got != 1 {
		t.Errorf("original changed to %v", got)
	}
	if tbl.HasColumn("b") {
		t.Error("original gained column b")
	}
}

func TestTable_SelectAndFilter(t *testing.T) {
	tbl := newTestTable(t, []string{"a", "b"},
		[]Value{Number(1), Text("x")},
		[]Value{Number(2), Text("y")},
	)

	sel := tbl.Select("b", "c")
	if got := sel.Columns(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Select columns = %v", got)
	}
	if got := sel.Get(1, "b").String(); got != "y" {
		t.Errorf("Select value = %q", got)
	}

	f := tbl.Filter(func(i int) bool { return i == 1 })
	if f.Len() != 1 || f.Get(0, "b").String() != "y" {
		t.Errorf("Filter returned %d rows", f.Len())
	}
}

func TestErrorKind(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{&ConfigurationError{Param: "holding cost"}, "configuration"},
		{&DataTypeError{Column: ColStockLevel}, "data_type"},
		{&MissingColumnError{Column: ColItem}, "missing_column"},
		{&DegenerateInputError{Column: ColTotalValue}, "degenerate_input"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range testCases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%T) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
