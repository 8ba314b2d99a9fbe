package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/replenishment/internal/storage"
)

type recordingStorage struct {
	storage.ObjectStorage
	key         string
	data        []byte
	contentType string
}

func (r *recordingStorage) UploadObject(ctx context.Context, key string, data []byte, contentType string) error {
	r.key, r.data, r.contentType = key, data, contentType
	return nil
}

func TestPublisher(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run-42")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "consolidated.csv")
	if err := os.WriteFile(csvPath, []byte("Source,Item\na.csv,bolt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &recordingStorage{}
	if err := publisher(rec)(context.Background(), csvPath); err != nil {
		t.Fatalf("publisher() error = %v", err)
	}
	if rec.key != "reports/run-42/consolidated.csv" {
		t.Errorf("key = %q", rec.key)
	}
	if !strings.HasPrefix(rec.contentType, "text/csv") || !bytes.HasPrefix(rec.data, []byte("Source,Item")) {
		t.Errorf("uploaded %q as %q", rec.data, rec.contentType)
	}
}

func TestAnalyzeParams_OnlySetFlags(t *testing.T) {
	var got struct {
		safety, holding bool
		basis           string
	}
	app := &cli.App{
		Flags: paramFlags(),
		Action: func(c *cli.Context) error {
			p := analyzeParams(c)
			got.safety = p.SafetyFactor != nil && *p.SafetyFactor == 2
			got.holding = p.HoldingCost != nil
			got.basis = p.ValueBasis
			return nil
		},
	}
	if err := app.Run([]string{"replenish", "--safety-factor", "2", "--value-basis", "purchase"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !got.safety || got.holding || got.basis != "purchase" {
		t.Errorf("got %+v", got)
	}
}
