package domain

import (
	"strings"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// ValueBasis selects the price used to value stock for the ABC ranking.
type ValueBasis string

const (
	BasisSelling  ValueBasis = "selling"
	BasisPurchase ValueBasis = "purchase"
	BasisNone     ValueBasis = "none"
)

var valueBasisAliases = map[string]ValueBasis{
	"selling":  BasisSelling,
	"sale":     BasisSelling,
	"retail":   BasisSelling,
	"purchase": BasisPurchase,
	"cost":     BasisPurchase,
	"none":     BasisNone,
	"off":      BasisNone,
}

// ParseValueBasis returns the basis for a label (case-insensitive).
func ParseValueBasis(label string) (ValueBasis, bool) {
	basis, ok := valueBasisAliases[strings.ToLower(strings.TrimSpace(label))]
	return basis, ok
}

// PriceColumn is the canonical column the basis multiplies stock by. BasisNone
// returns "", which skips the ranking.
func (b ValueBasis) PriceColumn() string {
	switch b {
	case BasisSelling:
		return inventory.ColSellingPrice
	case BasisPurchase:
		return inventory.ColPurchasePrice
	default:
		return ""
	}
}
