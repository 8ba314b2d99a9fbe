package inventory

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies what a Value holds.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is a single table cell. The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing returns an empty cell.
func Missing() Value { return Value{} }

// Number returns a numeric cell. NaN is stored as Missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// ParsedNumber returns a numeric cell that remembers the text it was read
// from, so text columns can get the original spelling back.
func ParsedNumber(f float64, raw string) Value {
	v := Number(f)
	if v.kind == KindNumber {
		v.text = raw
	}
	return v
}

// Text returns a string cell. Blank strings are stored as Missing.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Kind reports the kind of the cell.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is empty.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float coerces the cell to a number. Missing cells return (NaN, true).
// Text is parsed after trimming and dropping thousands separators; ok is
// false when it is not numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		return parseNumber(v.text)
	default:
		return math.NaN(), true
	}
}

// String renders the cell for display. Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Raw returns the text a numeric cell was read from, falling back to String.
func (v Value) Raw() string {
	if v.kind == KindNumber && v.text != "" {
		return v.text
	}
	return v.String()
}

// parseNumber accepts finite numbers only; "Inf" and "NaN" are not quantities.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), true
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Table is an ordered set of named columns over rows of cells.
// Operations in this package never mutate their input table.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable creates an empty table with the given columns.
// Duplicate names keep their first position.
func NewTable(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, ok := t.index[c]; ok {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether name is a column of t.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AppendRow adds a row. Values are matched to columns by position.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) > len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	row := make([]Value, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// AppendRecord adds a row from a column->value map. Unknown columns are ignored.
func (t *Table) AppendRecord(record map[string]Value) {
	row := make([]Value, len(t.columns))
	for name, v := range record {
		if i, ok := t.index[name]; ok {
			row[i] = v
		}
	}
	t.rows = append(t.rows, row)
}

// Get returns the cell at row i in column name. Absent columns yield Missing.
func (t *Table) Get(i int, name string) Value {
	c, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return Value{}
	}
	return t.rows[i][c]
}

// Set writes a cell, appending the column when it does not exist yet.
func (t *Table) Set(i int, name string, v Value) {
	c := t.ensureColumn(name)
	t.rows[i][c] = v
}

// Row returns row i as a column->value map.
func (t *Table) Row(i int) map[string]Value {
	out := make(map[string]Value, len(t.columns))
	for c, name := range t.columns {
		out[name] = t.rows[i][c]
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := NewTable(t.columns...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// Select returns a new table with only the named columns, in that order.
// Absent columns are included as Missing.
func (t *Table) Select(columns ...string) *Table {
	out := NewTable(columns...)
	for i := range t.rows {
		row := make([]Value, len(out.columns))
		for c, name := range out.columns {
			row[c] = t.Get(i, name)
		}
		out.rows = append(out.rows, row)
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := NewTable(t.columns...)
	for i, row := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out
}

func (t *Table) ensureColumn(name string) int {
	if c, ok := t.index[name]; ok {
		return c
	}
	c := len(t.columns)
	t.index[name] = c
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Value{})
	}
	return c
}

// asText turns the numeric cells of a column back into the text they were
// read from.
func (t *Table) asText(name string) {
	c, ok := t.index[name]
	if !ok {
		return
	}
	for i, row := range t.rows {
		if row[c].kind == KindNumber {
			t.rows[i][c] = Text(row[c].Raw())
		}
	}
}

func (t *Table) rename(from, to string) {
	c := t.index[from]
	delete(t.index, from)
	t.index[to] = c
	t.columns[c] = to
}

// sortStable reorders rows in place, keeping ties in their original order.
func (t *Table) sortStable(less func(a, b []Value) bool) {
	sort.SliceStable(t.rows, func(i, j int) bool {
		return less(t.rows[i], t.rows[j])
	})
}

// floatColumn coerces every cell of a column. Missing cells come back as NaN.
func (t *Table) floatColumn(name string) ([]float64, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		f, ok := row[c].Float()
		if !ok {
			return nil, &DataTypeError{Column: name, Row: i, Value: row[c].String()}
		}
		out[i] = f
	}
	return out, nil
}

// setFloatColumn overwrites (or appends) a numeric column.
func (t *Table) setFloatColumn(name string, values []float64) {
	c := t.ensureColumn(name)
	for i := range t.rows {
		t.rows[i][c] = Number(values[i])
	}
}
