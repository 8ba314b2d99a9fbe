package inventory

// Canonical column names.
const (
	ColItem                 = "Item"
	ColCategory             = "Category"
	ColStockLevel           = "Stock Level"
	ColPurchasePrice        = "Purchase Price"
	ColSellingPrice         = "Selling Price"
	ColLeadTime             = "Lead Time"
	ColSafetyFactor         = "Safety Factor"
	ColMonthsOfInventory    = "Months of Inventory"
	ColAverageDailyDemand   = "Average Daily Demand"
	ColLeadTimeDemand       = "Lead Time Demand"
	ColSafetyStock          = "Safety Stock"
	ColReorderPoint         = "Reorder Point"
	ColEOQ                  = "EOQ"
	ColTotalValue           = "Total Value"
	ColCumulativePercentage = "Cumulative Percentage"
	ColABCClassification    = "ABC Classification"
	ColStockStatus          = "Stock Status"
	ColOverstock            = "Overstock"
	ColUnderstock           = "Understock"
	ColAdjustedSellingPrice = "Adjusted Selling Price"
	ColAdjustedDemand       = "Adjusted Demand"
	ColAdjustedCost         = "Adjusted Cost"
	ColProfit               = "Profit"
)

// mandatoryColumns are created (filled with Missing) by NormalizeColumns when absent.
var mandatoryColumns = []string{ColItem, ColStockLevel, ColPurchasePrice, ColReorderPoint}

// textColumns hold identifiers and labels, never quantities.
var textColumns = []string{ColItem, ColCategory}

// DefaultColumnMap returns the built-in header localisation map used by the
// Hebrew inventory exports.
func DefaultColumnMap() map[string]string {
	return map[string]string{
		"משפחה":                  ColCategory,
		"תאור פריט":              ColItem,
		"מלאי נוכחי":             ColStockLevel,
		"עלות פריט":              ColPurchasePrice,
		"מחיר מכירה":             ColSellingPrice,
		"זמן אספקה בימים":        ColLeadTime,
		"מקדם בטחון (בין 0 ל-1)": ColSafetyFactor,
		"חודשי מלאי":             ColMonthsOfInventory,
	}
}

// NormalizeColumns renames columns found in columnMap and appends any of the
// mandatory canonical columns that are still absent, filled with Missing.
// Columns not in the map are left unchanged. When two source columns map to
// the same name, the first one wins and the later keeps its original name.
// Item and Category stay text even when they look numeric, keeping SKUs
// such as 000123 intact.
func NormalizeColumns(raw *Table, columnMap map[string]string) *Table {
	out := raw.Clone()
	for _, name := range raw.columns {
		target, ok := columnMap[name]
		if !ok || target == name {
			continue
		}
		if out.HasColumn(target) {
			continue
		}
		out.rename(name, target)
	}
	for _, name := range textColumns {
		out.asText(name)
	}
	for _, name := range mandatoryColumns {
		out.ensureColumn(name)
	}
	return out
}
