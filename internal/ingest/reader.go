package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: must be .csv or .xlsx")
	ErrNoHeader          = errors.New("file has no header row")
	// ErrMalformedFile wraps every parse failure of an otherwise supported file.
	ErrMalformedFile     = errors.New("malformed file")
)

// Supported reports whether name has an extension Read understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string) (*inventory.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(filepath.Base(path), f)
}

// Read picks the parser from the extension of name.
func Read(name string, r io.Reader) (*inventory.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// ReadCSV parses a CSV export. The first record is the header.
func ReadCSV(r io.Reader) (*inventory.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse CSV: %w", ErrMalformedFile, err)
	}
	return buildTable(records)
}

// ReadXLSX parses the first sheet of a workbook. The first row is the header.
func ReadXLSX(r io.Reader) (*inventory.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %w", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedFile)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %w", ErrMalformedFile, sheets[0], err)
	}
	return buildTable(rows)
}

func buildTable(records [][]string) (*inventory.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFile, ErrNoHeader)
	}
	header := uniqueHeaders(records[0])
	t := inventory.NewTable(header...)

	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		values := make([]inventory.Value, 0, len(rec))
		for j, cell := range rec {
			if j >= len(header) {
				if strings.TrimSpace(cell) != "" {
					return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrMalformedFile, i+2, len(rec), len(header))
				}
				continue
			}
			values = append(values, cellValue(cell))
		}
		if err := t.AppendRow(values...); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedFile, i+2, err)
		}
	}
	return t, nil
}

// cellValue maps blanks to Missing and finite numbers to Number. Everything
// else is kept as text; numeric columns are coerced by the engine.
func cellValue(s string) inventory.Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return inventory.Missing()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return inventory.ParsedNumber(f, trimmed)
	}
	return inventory.Text(trimmed)
}

// uniqueHeaders trims header cells, strips a UTF-8 BOM and disambiguates
// blank and repeated names so every column stays addressable.
func uniqueHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			base := h
			for {
				n++
				h = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[h]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
