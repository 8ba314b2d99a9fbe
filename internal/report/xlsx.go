package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// Sheet is one worksheet of a workbook export.
type Sheet struct {
	Name    string
	Table   *inventory.Table
	Columns []string
}

const maxSheetName = 31

// GenerateXLSX builds a workbook with one sheet per entry. Each sheet holds
// a header row followed by the data, so the file can be read back by ingest.
func GenerateXLSX(title string, sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "replenishment"}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	numberStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 4, // #,##0.00
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}

	used := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		name := uniqueSheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("set sheet name: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		if err := writeSheet(f, name, s, headerStyle, numberStyle, textStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, s Sheet, headerStyle, numberStyle, textStyle int) error {
	for j, c := range s.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(name, cell, c)
		f.SetCellStyle(name, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(j + 1)
		f.SetColWidth(name, colName, colName, columnWidth(c))
	}

	for i := 0; i < s.Table.Len(); i++ {
		for j, c := range s.Columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			v := s.Table.Get(i, c)
			if num, ok := rounded(v); ok {
				f.SetCellValue(name, cell, num)
				f.SetCellStyle(name, cell, cell, numberStyle)
				continue
			}
			f.SetCellValue(name, cell, sanitizeExcelCell(v.String()))
			f.SetCellStyle(name, cell, cell, textStyle)
		}
	}

	if len(s.Columns) > 0 {
		if err := f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header of %s: %w", name, err)
		}
	}
	return nil
}

func columnWidth(header string) float64 {
	w := float64(len([]rune(header))) + 4
	if w < 12 {
		return 12
	}
	return w
}

// uniqueSheetName strips characters Excel rejects, truncates to 31 runes and
// suffixes repeats.
func uniqueSheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	base := truncateRunes(name, maxSheetName)
	name = base
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// sanitizeExcelCell prefixes values that a spreadsheet would read as a formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
