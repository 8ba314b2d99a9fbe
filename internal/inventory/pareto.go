package inventory

import "math"

// ABC classes.
const (
	ClassA = "A"
	ClassB = "B"
	ClassC = "C"
)

const (
	classAUpper = 80.0
	classBUpper = 95.0
	classCUpper = 100.0

	// percentTolerance absorbs floating-point drift at the bin edges and at 100%.
	percentTolerance = 1e-9
)

// ComputeTotalValue sets Total Value = priceColumn × Stock Level. Missing
// prices and stock count as 0. The price column is explicit because exports
// disagree on whether inventory is valued at selling or purchase price.
func ComputeTotalValue(t *Table, priceColumn string) (*Table, error) {
	price, err := t.floatColumn(priceColumn)
	if err != nil {
		return nil, err
	}
	stock, err := t.floatColumn(ColStockLevel)
	if err != nil {
		return nil, err
	}

	total := make([]float64, t.Len())
	for i := range total {
		total[i] = fillMissing(price[i], 0) * fillMissing(stock[i], 0)
	}

	out := t.Clone()
	out.setFloatColumn(ColTotalValue, total)
	return out, nil
}

// ClassifyPareto ranks rows by valueColumn (descending, stable on ties) and
// assigns Cumulative Percentage and ABC Classification. Bins are right-closed:
// (0,80] is A, (80,95] is B and (95,100] is C. The returned rows are in ranked
// order. Missing values count as 0; a non-positive total is rejected.
func ClassifyPareto(t *Table, valueColumn string) (*Table, error) {
	values, err := t.floatColumn(valueColumn)
	if err != nil {
		return nil, err
	}

	var sum float64
	for i, v := range values {
		values[i] = fillMissing(v, 0)
		sum += values[i]
	}
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, &DegenerateInputError{Column: valueColumn, Reason: "value total must be a positive finite number"}
	}

	out := t.Clone()
	out.setFloatColumn(ColTotalValue, values)
	valueIdx := out.index[ColTotalValue]
	out.sortStable(func(a, b []Value) bool {
		av, _ := a[valueIdx].Float()
		bv, _ := b[valueIdx].Float()
		return av > bv
	})

	n := out.Len()
	cumulative := make([]float64, n)
	var running float64
	for i := 0; i < n; i++ {
		v, _ := out.rows[i][valueIdx].Float()
		running += v
		cumulative[i] = running * 100 / sum
	}
	if n > 0 && math.Abs(cumulative[n-1]-classCUpper) <= percentTolerance {
		cumulative[n-1] = classCUpper
	}
	out.setFloatColumn(ColCumulativePercentage, cumulative)

	classIdx := out.ensureColumn(ColABCClassification)
	for i, pct := range cumulative {
		out.rows[i][classIdx] = Text(abcClass(pct))
	}
	return out, nil
}

// abcClass bins a cumulative percentage. Values outside (0,100] have no class.
func abcClass(pct float64) string {
	switch {
	case pct <= 0:
		return ""
	case pct <= classAUpper+percentTolerance:
		return ClassA
	case pct <= classBUpper+percentTolerance:
		return ClassB
	case pct <= classCUpper+percentTolerance:
		return ClassC
	default:
		return ""
	}
}
