package inventory

// CategoryStock is the stock total for one category.
type CategoryStock struct {
	Category   string  `json:"category"`
	StockLevel float64 `json:"stock_level"`
}

// Overview holds the headline numbers of an inventory table.
type Overview struct {
	Items           int             `json:"items"`
	TotalStock      float64         `json:"total_stock"`
	Categories      int             `json:"categories"`
	ReorderPoints   int             `json:"reorder_points"`
	StockByCategory []CategoryStock `json:"stock_by_category"`
	LowStockItems   int             `json:"low_stock_items"`
	OverstockItems  int             `json:"overstock_items"`
	ClassCounts     map[string]int  `json:"class_counts,omitempty"`
	TotalValue      float64         `json:"total_value"`
}

// Summarize computes the overview numbers. Missing stock counts as 0, rows
// without a category are grouped under "". Categories keep first-seen order.
// Status and class counts are filled only when those columns are present.
func Summarize(t *Table) (Overview, error) {
	stock, err := t.floatColumn(ColStockLevel)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{Items: t.Len()}
	byCategory := make(map[string]int)
	for i, s := range stock {
		s = fillMissing(s, 0)
		ov.TotalStock += s

		cat := t.Get(i, ColCategory).String()
		pos, ok := byCategory[cat]
		if !ok {
			pos = len(ov.StockByCategory)
			byCategory[cat] = pos
			ov.StockByCategory = append(ov.StockByCategory, CategoryStock{Category: cat})
		}
		ov.StockByCategory[pos].StockLevel += s

		if !t.Get(i, ColReorderPoint).IsMissing() {
			ov.ReorderPoints++
		}
		switch t.Get(i, ColStockStatus).String() {
		case StatusLow:
			ov.LowStockItems++
		case StatusOverstock:
			ov.OverstockItems++
		}
		if class := t.Get(i, ColABCClassification).String(); class != "" {
			if ov.ClassCounts == nil {
				ov.ClassCounts = make(map[string]int)
			}
			ov.ClassCounts[class]++
		}
	}

	for _, c := range ov.StockByCategory {
		if c.Category != "" {
			ov.Categories++
		}
	}

	if t.HasColumn(ColTotalValue) {
		values, err := t.floatColumn(ColTotalValue)
		if err != nil {
			return Overview{}, err
		}
		for _, v := range values {
			ov.TotalValue += fillMissing(v, 0)
		}
	}
	return ov, nil
}
