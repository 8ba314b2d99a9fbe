package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/replenishment/internal/inventory"
	"github.com/andresuchdata/replenishment/internal/report"
)

// ColSource names the file a consolidated row came from.
const ColSource = "Source"

// Aggregator collects analysed tables from the workers and writes them as
// one consolidated CSV.
type Aggregator struct {
	mu            sync.Mutex
	tables        map[string]*inventory.Table
	flushCallback func(ctx context.Context, csvPath string) error
}

// NewAggregator creates an Aggregator. flushCallback, when set, runs after the
// consolidated CSV is written.
func NewAggregator(flushCallback func(ctx context.Context, csvPath string) error) *Aggregator {
	return &Aggregator{
		tables:        make(map[string]*inventory.Table),
		flushCallback: flushCallback,
	}
}

// Add stores the analysed table of source. A second Add for the same source
// replaces the first.
func (a *Aggregator) Add(source string, t *inventory.Table) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tables[source] = t
}

// Len returns the number of buffered sources.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.tables)
}

// Consolidate merges the buffered tables ordered by source. Columns are the
// union in first-seen order behind a leading Source column.
func (a *Aggregator) Consolidate() *inventory.Table {
	a.mu.Lock()
	defer a.mu.Unlock()

	sources := make([]string, 0, len(a.tables))
	for s := range a.tables {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	columns := []string{ColSource}
	seen := map[string]bool{ColSource: true}
	for _, s := range sources {
		for _, c := range a.tables[s].Columns() {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	out := inventory.NewTable(columns...)
	for _, s := range sources {
		t := a.tables[s]
		for i := 0; i < t.Len(); i++ {
			row := make([]inventory.Value, len(columns))
			row[0] = inventory.Text(s)
			for j, c := range columns[1:] {
				if t.HasColumn(c) {
					row[j+1] = t.Get(i, c)
				} else {
					row[j+1] = inventory.Missing()
				}
			}
			// Row width always matches the header built above.
			_ = out.AppendRow(row...)
		}
	}
	return out
}

// Finalize writes the consolidated CSV to path and triggers the callback.
// It returns the number of rows written.
func (a *Aggregator) Finalize(ctx context.Context, path string) (int, error) {
	if a.Len() == 0 {
		log.Info().Msg("pipeline: no data to consolidate")
		return 0, nil
	}

	t := a.Consolidate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := report.WriteCSV(file, t, t.Columns()); err != nil {
		file.Close()
		return 0, fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, err
	}

	log.Info().Int("rows", t.Len()).Str("path", path).Msg("pipeline: consolidated CSV written")

	if a.flushCallback != nil {
		if err := a.flushCallback(ctx, path); err != nil {
			return t.Len(), fmt.Errorf("flush callback failed: %w", err)
		}
	}
	return t.Len(), nil
}
