package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	consolidatedName = "consolidated.csv"
	summaryName      = "summary.json"
)

// Orchestrator coordinates a batch run over a set of local files.
type Orchestrator struct {
	analyzer Analyzer
	cfg      Config
	onFlush  func(ctx context.Context, csvPath string) error
	newID    func() string
	now      func() time.Time
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(analyzer Analyzer, cfg Config) *Orchestrator {
	return &Orchestrator{
		analyzer: analyzer,
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// OnFlush registers a callback run after the consolidated CSV is written,
// e.g. to publish it.
func (o *Orchestrator) OnFlush(fn func(ctx context.Context, csvPath string) error) {
	o.onFlush = fn
}

// Run analyses files under a fresh run id. Outputs land in
// OutputDir/<run id>: one report per file, the consolidated CSV and a JSON
// summary. Per-file failures are reported in the summary, not as an error.
func (o *Orchestrator) Run(ctx context.Context, files []string) (*Run, error) {
	run := &Run{
		ID:         o.newID(),
		Status:     StatusProcessing,
		TotalFiles: len(files),
		StartedAt:  o.now(),
	}
	runDir := filepath.Join(o.cfg.OutputDir, run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	log.Info().Str("run", run.ID).Int("files", len(files)).Msg("pipeline: batch started")

	run.Jobs = make([]*FileJob, len(files))
	taken := make(map[string]bool, len(files))
	for i, f := range files {
		run.Jobs[i] = &FileJob{Path: f, Name: uniqueName(filepath.Base(f), taken), Status: FileStatusQueued}
	}

	aggregator := NewAggregator(o.onFlush)
	worker := NewWorker(o.analyzer, o.cfg, aggregator, runDir)
	if err := worker.ProcessFiles(ctx, run, run.Jobs); err != nil {
		o.finish(run, StatusFailed)
		return run, err
	}

	if aggregator.Len() > 0 {
		path := filepath.Join(runDir, consolidatedName)
		if _, err := aggregator.Finalize(ctx, path); err != nil {
			o.finish(run, StatusFailed)
			return run, fmt.Errorf("failed to finalize aggregation: %w", err)
		}
		run.ConsolidatedPath = path
	}

	switch {
	case run.FailedFiles == 0:
		o.finish(run, StatusCompleted)
	case run.ProcessedFiles == 0:
		o.finish(run, StatusFailed)
	default:
		o.finish(run, StatusPartial)
	}

	if err := writeSummary(filepath.Join(runDir, summaryName), run); err != nil {
		return run, err
	}

	log.Info().
		Str("run", run.ID).
		Str("status", string(run.Status)).
		Int("processed", run.ProcessedFiles).
		Int("failed", run.FailedFiles).
		Int("rows", run.TotalRows).
		Msg("pipeline: batch finished")

	return run, nil
}

func (o *Orchestrator) finish(run *Run, status RunStatus) {
	now := o.now()
	run.Status = status
	run.CompletedAt = &now
}

func writeSummary(path string, run *Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}
