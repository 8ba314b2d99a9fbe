package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts a format name case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension is the file extension with its leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// FormatCell renders a cell for text output. Numbers get two decimals,
// missing cells are blank.
func FormatCell(v inventory.Value) string {
	if v.Kind() != inventory.KindNumber {
		return v.String()
	}
	f, _ := v.Float()
	if math.IsInf(f, 0) {
		return v.String()
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

// rounded returns the cell as a float rounded to two decimals, for
// spreadsheet cells that should stay numeric.
func rounded(v inventory.Value) (float64, bool) {
	if v.Kind() != inventory.KindNumber {
		return 0, false
	}
	f, _ := v.Float()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return decimal.NewFromFloat(f).Round(2).InexactFloat64(), true
}
