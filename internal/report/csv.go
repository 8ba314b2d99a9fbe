package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// WriteCSV writes the header and every row of t restricted to columns.
func WriteCSV(w io.Writer, t *inventory.Table, columns []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range columns {
			record[j] = FormatCell(t.Get(i, c))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
