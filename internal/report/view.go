package report

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// View is a named column selection of an analysed table.
type View string

const (
	ViewReplenishment View = "replenishment"
	ViewPareto        View = "pareto"
	ViewWarnings      View = "warnings"
	ViewSimulation    View = "simulation"
	ViewFull          View = "full"
)

var viewColumns = map[View][]string{
	ViewReplenishment: {
		inventory.ColItem,
		inventory.ColCategory,
		inventory.ColStockLevel,
		inventory.ColLeadTime,
		inventory.ColAverageDailyDemand,
		inventory.ColLeadTimeDemand,
		inventory.ColSafetyStock,
		inventory.ColReorderPoint,
		inventory.ColEOQ,
	},
	ViewPareto: {
		inventory.ColItem,
		inventory.ColTotalValue,
		inventory.ColCumulativePercentage,
		inventory.ColABCClassification,
	},
	ViewWarnings: {
		inventory.ColItem,
		inventory.ColStockLevel,
		inventory.ColReorderPoint,
		inventory.ColStockStatus,
		inventory.ColOverstock,
		inventory.ColUnderstock,
	},
	ViewSimulation: {
		inventory.ColItem,
		inventory.ColSellingPrice,
		inventory.ColPurchasePrice,
		inventory.ColAdjustedSellingPrice,
		inventory.ColAdjustedDemand,
		inventory.ColAdjustedCost,
		inventory.ColProfit,
	},
}

// ParseView accepts a view name case-insensitively. Empty means ViewFull.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return ViewFull, nil
	}
	if v == ViewFull {
		return v, nil
	}
	if _, ok := viewColumns[v]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown report view %q", s)
}

// Columns returns the view's columns that t actually has, in view order.
// ViewFull returns every column of t.
func (v View) Columns(t *inventory.Table) []string {
	if v == ViewFull {
		return t.Columns()
	}
	var out []string
	for _, c := range viewColumns[v] {
		if t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Title is a human-readable sheet or document title.
func (v View) Title() string {
	switch v {
	case ViewReplenishment:
		return "Replenishment"
	case ViewPareto:
		return "ABC Analysis"
	case ViewWarnings:
		return "Stock Warnings"
	case ViewSimulation:
		return "Profit Simulation"
	default:
		return "Inventory"
	}
}
