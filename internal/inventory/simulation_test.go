package inventory

import (
	"errors"
	"testing"
)

func TestSimulateProfit(t *testing.T) {
	tbl := newTestTable(t,
		[]string{ColItem, ColStockLevel, ColPurchasePrice, ColSellingPrice},
		[]Value{Text("a"), Number(100), Number(6), Number(10)},
		[]Value{Text("b"), Number(50), Missing(), Number(4)},
	)

	out, err := SimulateProfit(tbl, Scenario{PriceAdjustmentPct: 120, DemandGrowthPct: 10, CostReductionPct: 20})
	if err != nil {
		t.Fatalf("SimulateProfit() error = %v", err)
	}

	testCases := []struct {
		row    int
		price  float64
		demand float64
		cost   float64
		profit float64
	}{
		{0, 12, 110, 4.8, 792},
		{1, 4.8, 55, 0, 264},
	}
	for _, tc := range testCases {
		checks := map[string]float64{
			ColAdjustedSellingPrice: tc.price,
			ColAdjustedDemand:       tc.demand,
			ColAdjustedCost:         tc.cost,
			ColProfit:               tc.profit,
		}
		for col, want := range checks {
			if got := floatAt(t, out, tc.row, col); !approxEqual(got, want, 1e-9) {
				t.Errorf("row %d: %s = %v, want %v", tc.row, col, got, want)
			}
		}
	}
}

func TestSimulateProfit_DefaultScenarioKeepsPrices(t *testing.T) {
	tbl := newTestTable(t, []string{ColItem, ColStockLevel, ColSellingPrice}, []Value{Text("a"), Number(10), Number(7)})

	out, err := SimulateProfit(tbl, DefaultScenario())
	if err != nil {
		t.Fatalf("SimulateProfit() error = %v", err)
	}
	if got := floatAt(t, out, 0, ColAdjustedSellingPrice); got != 7 {
		t.Errorf("Adjusted Selling Price = %v, want 7", got)
	}
	if got := floatAt(t, out, 0, ColAdjustedCost); got != 0 {
		t.Errorf("Adjusted Cost = %v, want 0 without a purchase price", got)
	}
}

func TestScenarioValidate(t *testing.T) {
	testCases := []struct {
		name     string
		scenario Scenario
		wantErr  bool
	}{
		{"default", DefaultScenario(), false},
		{"lower bounds", Scenario{80, -20, 0}, false},
		{"upper bounds", Scenario{150, 50, 20}, false},
		{"price too low", Scenario{79, 0, 0}, true},
		{"growth too high", Scenario{100, 51, 0}, true},
		{"negative cost reduction", Scenario{100, 0, -1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scenario.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("error %v is not a configuration error", err)
			}
		})
	}
}
