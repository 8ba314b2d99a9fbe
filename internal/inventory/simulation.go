package inventory

import "math"

// Scenario describes a what-if adjustment of prices, demand and cost, all in
// percent.
type Scenario struct {
	PriceAdjustmentPct float64 `json:"price_adjustment_pct"` // 80-150, 100 keeps prices
	DemandGrowthPct    float64 `json:"demand_growth_pct"`    // -20-50
	CostReductionPct   float64 `json:"cost_reduction_pct"`   // 0-20
}

// DefaultScenario keeps prices and cost and assumes 10% demand growth.
func DefaultScenario() Scenario {
	return Scenario{PriceAdjustmentPct: 100, DemandGrowthPct: 10, CostReductionPct: 0}
}

// Validate checks every percentage against its allowed range.
func (s Scenario) Validate() error {
	ranges := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"price adjustment", s.PriceAdjustmentPct, 80, 150},
		{"demand growth", s.DemandGrowthPct, -20, 50},
		{"cost reduction", s.CostReductionPct, 0, 20},
	}
	for _, r := range ranges {
		if math.IsNaN(r.value) || r.value < r.min || r.value > r.max {
			return &ConfigurationError{Param: r.name, Value: r.value, Reason: "out of range"}
		}
	}
	return nil
}

// SimulateProfit applies the scenario to every row:
//
//	Adjusted Selling Price = Selling Price × price%/100
//	Adjusted Demand        = Stock Level × (1 + growth%/100)
//	Adjusted Cost          = Purchase Price × (1 − reduction%/100)
//	Profit                 = (Adjusted Selling Price − Adjusted Cost) × Adjusted Demand
//
// Missing prices and stock count as 0.
func SimulateProfit(t *Table, s Scenario) (*Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	stock, err := t.floatColumn(ColStockLevel)
	if err != nil {
		return nil, err
	}
	selling, err := optionalFloatColumn(t, ColSellingPrice)
	if err != nil {
		return nil, err
	}
	purchase, err := optionalFloatColumn(t, ColPurchasePrice)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	price := make([]float64, n)
	demand := make([]float64, n)
	cost := make([]float64, n)
	profit := make([]float64, n)
	for i := 0; i < n; i++ {
		price[i] = fillMissing(selling[i], 0) * (s.PriceAdjustmentPct / 100)
		demand[i] = fillMissing(stock[i], 0) * (1 + s.DemandGrowthPct/100)
		cost[i] = fillMissing(purchase[i], 0) * (1 - s.CostReductionPct/100)
		profit[i] = (price[i] - cost[i]) * demand[i]
	}

	out := t.Clone()
	out.setFloatColumn(ColAdjustedSellingPrice, price)
	out.setFloatColumn(ColAdjustedDemand, demand)
	out.setFloatColumn(ColAdjustedCost, cost)
	out.setFloatColumn(ColProfit, profit)
	return out, nil
}

// optionalFloatColumn is floatColumn that treats an absent column as all Missing.
func optionalFloatColumn(t *Table, name string) ([]float64, error) {
	if t.HasColumn(name) {
		return t.floatColumn(name)
	}
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = math.NaN()
	}
	return out, nil
}
