package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// Load reads an upload, maps its headers to canonical names and checks it
// against the inventory schema. Engine errors are returned unwrapped so
// callers can classify them with inventory.ErrorKind.
func Load(name string, r io.Reader, columnMap map[string]string) (*inventory.Table, error) {
	raw, err := Read(name, r)
	if err != nil {
		return nil, err
	}

	t := inventory.NormalizeColumns(raw, columnMap)
	if err := inventory.InventorySchema().Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile is Load for a file on disk.
func LoadFile(path string, columnMap map[string]string) (*inventory.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Load(filepath.Base(path), f, columnMap)
}
