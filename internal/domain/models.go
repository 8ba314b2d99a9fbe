package domain

import (
	"math"
	"time"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// UploadedFile is an inventory export received for analysis.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// AnalyzeParams are the optional per-request overrides. Nil fields fall back
// to the configured defaults.
type AnalyzeParams struct {
	SafetyFactor       *float64 `form:"safety_factor" json:"safety_factor,omitempty"`
	OrderingCost       *float64 `form:"ordering_cost" json:"ordering_cost,omitempty"`
	HoldingCost        *float64 `form:"holding_cost" json:"holding_cost,omitempty"`
	ValueBasis         string   `form:"value_basis" json:"value_basis,omitempty"`
	PriceAdjustmentPct *float64 `form:"price_adjustment_pct" json:"price_adjustment_pct,omitempty"`
	DemandGrowthPct    *float64 `form:"demand_growth_pct" json:"demand_growth_pct,omitempty"`
	CostReductionPct   *float64 `form:"cost_reduction_pct" json:"cost_reduction_pct,omitempty"`
}

// Replenishment overlays the request on defaults.
func (p AnalyzeParams) Replenishment(defaults inventory.ReplenishmentParams) inventory.ReplenishmentParams {
	out := defaults
	if p.SafetyFactor != nil {
		out.SafetyFactor = *p.SafetyFactor
	}
	if p.OrderingCost != nil {
		out.OrderingCost = *p.OrderingCost
	}
	if p.HoldingCost != nil {
		out.HoldingCost = *p.HoldingCost
	}
	return out
}

// Scenario overlays the request on the default scenario. ok is false when
// the request sets none of the scenario fields.
func (p AnalyzeParams) Scenario() (s inventory.Scenario, ok bool) {
	s = inventory.DefaultScenario()
	if p.PriceAdjustmentPct != nil {
		s.PriceAdjustmentPct, ok = *p.PriceAdjustmentPct, true
	}
	if p.DemandGrowthPct != nil {
		s.DemandGrowthPct, ok = *p.DemandGrowthPct, true
	}
	if p.CostReductionPct != nil {
		s.CostReductionPct, ok = *p.CostReductionPct, true
	}
	return s, ok
}

// TableData is the JSON form of an inventory table. Cells are numbers,
// strings or null.
type TableData struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// NewTableData copies the given columns of t. Nil columns means all.
func NewTableData(t *inventory.Table, columns []string) TableData {
	if columns == nil {
		columns = t.Columns()
	}
	out := TableData{Columns: columns, Rows: make([][]interface{}, t.Len())}
	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, len(columns))
		for j, c := range columns {
			row[j] = cellJSON(t.Get(i, c))
		}
		out.Rows[i] = row
	}
	return out
}

func cellJSON(v inventory.Value) interface{} {
	switch v.Kind() {
	case inventory.KindNumber:
		f, _ := v.Float()
		if math.IsInf(f, 0) {
			return nil
		}
		return f
	case inventory.KindText:
		return v.String()
	default:
		return nil
	}
}

// Table rebuilds an inventory table, e.g. from a cached result.
func (d TableData) Table() *inventory.Table {
	t := inventory.NewTable(d.Columns...)
	for _, row := range d.Rows {
		values := make([]inventory.Value, 0, len(row))
		for _, cell := range row {
			switch c := cell.(type) {
			case float64:
				values = append(values, inventory.Number(c))
			case string:
				values = append(values, inventory.Text(c))
			default:
				values = append(values, inventory.Missing())
			}
		}
		// Rows come from NewTableData and never exceed the header.
		_ = t.AppendRow(values...)
	}
	return t
}

// AnalysisResult is a complete analysis of one upload.
type AnalysisResult struct {
	Key             string                        `json:"key"`
	Source          string                        `json:"source"`
	Params          inventory.ReplenishmentParams `json:"params"`
	ValueBasis      ValueBasis                    `json:"value_basis"`
	Scenario        *inventory.Scenario           `json:"scenario,omitempty"`
	Overview        inventory.Overview            `json:"overview"`
	ParetoError     string                        `json:"pareto_error,omitempty"`
	ParetoErrorKind string                        `json:"pareto_error_kind,omitempty"`
	Table           TableData                     `json:"table"`
	AnalyzedAt      time.Time                     `json:"analyzed_at"`
	Cached          bool                          `json:"cached"`
}

// ViewResult is one view of an analysis with its overview.
type ViewResult struct {
	Key      string             `json:"key"`
	Overview inventory.Overview `json:"overview"`
	Table    TableData          `json:"table"`
	Cached   bool               `json:"cached"`
}

// WarningsResult splits an analysis into its low and overstock rows.
type WarningsResult struct {
	LowStock  TableData `json:"low_stock"`
	Overstock TableData `json:"overstock"`
}

// SimulationResult is the profit simulation view with its total.
type SimulationResult struct {
	Scenario    inventory.Scenario `json:"scenario"`
	TotalProfit float64            `json:"total_profit"`
	Table       TableData          `json:"table"`
}
