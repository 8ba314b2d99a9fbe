package inventory

// Stock status labels.
const (
	StatusLow       = "Low"
	StatusOverstock = "Overstock"
	StatusNormal    = "Normal"
)

// overstockMultiple is how many reorder points of stock count as overstock.
const overstockMultiple = 2

// ClassifyStockStatus tags each row Low, Overstock or Normal by comparing
// Stock Level to Reorder Point. Missing stock counts as 0; a row with no
// reorder point compares false both ways and stays Normal.
func ClassifyStockStatus(t *Table) (*Table, error) {
	stock, reorder, err := stockAndReorder(t)
	if err != nil {
		return nil, err
	}

	out := t.Clone()
	idx := out.ensureColumn(ColStockStatus)
	for i := range out.rows {
		out.rows[i][idx] = Text(stockStatus(stock[i], reorder[i]))
	}
	return out, nil
}

func stockStatus(stock, reorder float64) string {
	// NaN comparisons are false, so a missing reorder point falls through.
	switch {
	case stock < reorder:
		return StatusLow
	case stock > overstockMultiple*reorder:
		return StatusOverstock
	default:
		return StatusNormal
	}
}

// ComputeStockGaps adds Overstock (stock above the reorder point) and
// Understock (reorder point above stock). Both are signed differences.
func ComputeStockGaps(t *Table) (*Table, error) {
	stock, reorder, err := stockAndReorder(t)
	if err != nil {
		return nil, err
	}

	over := make([]float64, len(stock))
	under := make([]float64, len(stock))
	for i := range stock {
		over[i] = stock[i] - reorder[i]
		under[i] = reorder[i] - stock[i]
	}

	out := t.Clone()
	out.setFloatColumn(ColOverstock, over)
	out.setFloatColumn(ColUnderstock, under)
	return out, nil
}

// Warnings splits a status-tagged table into its Low and Overstock rows.
// The table is classified first when it has no Stock Status column.
func Warnings(t *Table) (low, overstock *Table, err error) {
	tagged := t
	if !t.HasColumn(ColStockStatus) {
		if tagged, err = ClassifyStockStatus(t); err != nil {
			return nil, nil, err
		}
	}

	low = tagged.Filter(func(i int) bool {
		return tagged.Get(i, ColStockStatus).String() == StatusLow
	})
	overstock = tagged.Filter(func(i int) bool {
		return tagged.Get(i, ColStockStatus).String() == StatusOverstock
	})
	return low, overstock, nil
}

func stockAndReorder(t *Table) (stock, reorder []float64, err error) {
	if !t.HasColumn(ColReorderPoint) {
		return nil, nil, &MissingColumnError{Column: ColReorderPoint}
	}
	if stock, err = t.floatColumn(ColStockLevel); err != nil {
		return nil, nil, err
	}
	if reorder, err = t.floatColumn(ColReorderPoint); err != nil {
		return nil, nil, err
	}
	for i := range stock {
		stock[i] = fillMissing(stock[i], 0)
	}
	return stock, reorder, nil
}
