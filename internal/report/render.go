package report

import (
	"bytes"
	"fmt"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// Render produces a report of t in the given format. A full XLSX export gets
// one extra sheet per view that has data.
func Render(f Format, v View, t *inventory.Table) ([]byte, error) {
	switch f {
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, t, v.Columns(t)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatXLSX:
		return GenerateXLSX(v.Title(), sheetsFor(v, t))
	case FormatPDF:
		return GeneratePDF(v.Title(), t, v.Columns(t))
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

func sheetsFor(v View, t *inventory.Table) []Sheet {
	sheets := []Sheet{{Name: v.Title(), Table: t, Columns: v.Columns(t)}}
	if v != ViewFull {
		return sheets
	}
	for _, sub := range []View{ViewReplenishment, ViewPareto, ViewWarnings, ViewSimulation} {
		// A view is only worth a sheet once its last derived column exists.
		cols := viewColumns[sub]
		if !t.HasColumn(cols[len(cols)-1]) {
			continue
		}
		sheets = append(sheets, Sheet{Name: sub.Title(), Table: t, Columns: sub.Columns(t)})
	}
	return sheets
}

// Filename builds a download name such as "stock-replenishment.xlsx".
func Filename(base string, v View, f Format) string {
	if base == "" {
		base = "inventory"
	}
	return fmt.Sprintf("%s-%s%s", base, v, f.Extension())
}
