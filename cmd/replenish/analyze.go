package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/report"
)

func runAnalyze(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("analyze needs an input file", 2)
	}
	format, err := report.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	view, err := report.ParseView(c.String("view"))
	if err != nil {
		return err
	}

	svc, _, err := newService(c)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	file := domain.UploadedFile{Filename: filepath.Base(path), Data: data}

	out, err := svc.Export(c.Context, file, analyzeParams(c), view, format)
	if err != nil {
		return err
	}

	dest := c.String("out")
	if dest == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		dest = filepath.Join(filepath.Dir(path), report.Filename(base, view, format))
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	result, err := svc.Analyze(c.Context, file, analyzeParams(c))
	if err != nil {
		return err
	}
	ov := result.Overview
	fmt.Fprintf(c.App.Writer, "%s: %d items, %d categories, %d low stock, %d overstock\n",
		file.Filename, ov.Items, ov.Categories, ov.LowStockItems, ov.OverstockItems)
	if result.ParetoError != "" {
		fmt.Fprintf(c.App.Writer, "ABC classification skipped: %s\n", result.ParetoError)
	}
	fmt.Fprintf(c.App.Writer, "report written to %s\n", dest)
	return nil
}

func runColumns(c *cli.Context) error {
	svc, _, err := newService(c)
	if err != nil {
		return err
	}

	// Same shape as the file read by --column-map.
	out, err := yaml.Marshal(map[string]map[string]string{"columns": svc.ColumnMap()})
	if err != nil {
		return fmt.Errorf("encode column map: %w", err)
	}
	_, err = c.App.Writer.Write(out)
	return err
}
