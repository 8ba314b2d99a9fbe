package inventory

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// DemandWindowDays converts current stock into a daily demand proxy:
	// stock on hand is treated as one month of throughput.
	DemandWindowDays = 30
	// DefaultLeadTimeDays is used for rows without a lead time.
	DefaultLeadTimeDays = 7
)

// ReplenishmentParams holds the tunables for ComputeReplenishment.
type ReplenishmentParams struct {
	SafetyFactor float64 `json:"safety_factor"` // z-score-like multiplier, typically 0-3
	OrderingCost float64 `json:"ordering_cost"` // cost per order, > 0
	HoldingCost  float64 `json:"holding_cost"`  // holding cost per unit, > 0
}

// DefaultReplenishmentParams returns the dashboard defaults.
func DefaultReplenishmentParams() ReplenishmentParams {
	return ReplenishmentParams{
		SafetyFactor: 1.65,
		OrderingCost: 100,
		HoldingCost:  10,
	}
}

// Validate rejects parameters that would produce meaningless or non-finite results.
func (p ReplenishmentParams) Validate() error {
	checks := []struct {
		name     string
		value    float64
		positive bool
	}{
		{"safety factor", p.SafetyFactor, false},
		{"ordering cost", p.OrderingCost, true},
		{"holding cost", p.HoldingCost, true},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &ConfigurationError{Param: c.name, Value: c.value, Reason: "must be finite"}
		}
		if c.positive && c.value <= 0 {
			return &ConfigurationError{Param: c.name, Value: c.value, Reason: "must be greater than 0"}
		}
		if !c.positive && c.value < 0 {
			return &ConfigurationError{Param: c.name, Value: c.value, Reason: "must not be negative"}
		}
	}
	return nil
}

// ComputeReplenishment derives Average Daily Demand, Lead Time Demand, Safety
// Stock, Reorder Point and EOQ for every row, and writes back the clipped
// Stock Level and Lead Time. Derived columns are overwritten, so running it
// again on its own output gives the same values.
func ComputeReplenishment(t *Table, p ReplenishmentParams) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	stock, err := t.floatColumn(ColStockLevel)
	if err != nil {
		return nil, err
	}

	// An absent Lead Time column is treated like a column of blanks.
	leadTime, err := optionalFloatColumn(t, ColLeadTime)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	var (
		demand       = make([]float64, n)
		leadDemand   = make([]float64, n)
		safetyStock  = make([]float64, n)
		reorderPoint = make([]float64, n)
		eoq          = make([]float64, n)
	)

	for i := 0; i < n; i++ {
		// 1. Stock Level: missing -> 0, negative -> 0
		stock[i] = clipLower(fillMissing(stock[i], 0))

		// 2. Lead Time: missing -> default, negative -> 0
		leadTime[i] = clipLower(fillMissing(leadTime[i], DefaultLeadTimeDays))

		// 3. Average daily demand
		demand[i] = stock[i] / DemandWindowDays

		// 4. Demand over the lead time
		leadDemand[i] = demand[i] * leadTime[i]

		// 5. Safety stock = z × √(lead time) × daily demand
		safetyStock[i] = finiteOrZero(p.SafetyFactor * math.Sqrt(leadTime[i]) * demand[i])

		// 6. Reorder point = lead time demand + safety stock
		reorderPoint[i] = leadDemand[i] + safetyStock[i]

		// 7. EOQ = √(2 × D × S / H), 2 dp
		raw := math.Sqrt((2 * demand[i] * p.OrderingCost) / p.HoldingCost)
		eoq[i] = roundTo(finiteOrZero(raw), 2)
	}

	out := t.Clone()
	out.setFloatColumn(ColStockLevel, stock)
	out.setFloatColumn(ColLeadTime, leadTime)
	out.setFloatColumn(ColAverageDailyDemand, demand)
	out.setFloatColumn(ColLeadTimeDemand, leadDemand)
	out.setFloatColumn(ColSafetyStock, safetyStock)
	out.setFloatColumn(ColReorderPoint, reorderPoint)
	out.setFloatColumn(ColEOQ, eoq)
	return out, nil
}

func fillMissing(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

func clipLower(v float64) float64 {
	return math.Max(0, v)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// roundTo rounds half-to-even at the given number of decimal places.
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
}
