package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// columnMapFile is the on-disk shape of a header map:
//
//	columns:
//	  "Qty on hand": Stock Level
//	  "Description": Item
type columnMapFile struct {
	Columns map[string]string `yaml:"columns"`
}

// LoadColumnMap reads a YAML header map from path.
func LoadColumnMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column map %s: %w", path, err)
	}

	var file columnMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse column map %s: %w", path, err)
	}

	out := make(map[string]string, len(file.Columns))
	for src, dst := range file.Columns {
		src, dst = strings.TrimSpace(src), strings.TrimSpace(dst)
		if src == "" || dst == "" {
			return nil, fmt.Errorf("column map %s: empty entry %q -> %q", path, src, dst)
		}
		out[src] = dst
	}
	return out, nil
}

// ColumnMap returns the built-in header map with the entries from path laid
// over it. An empty path returns the built-in map alone.
func ColumnMap(path string) (map[string]string, error) {
	merged := inventory.DefaultColumnMap()
	if path == "" {
		return merged, nil
	}
	extra, err := LoadColumnMap(path)
	if err != nil {
		return nil, err
	}
	for src, dst := range extra {
		merged[src] = dst
	}
	return merged, nil
}
