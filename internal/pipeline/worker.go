package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/inventory"
	"github.com/andresuchdata/replenishment/internal/report"
)

// Worker analyses files and feeds the aggregator.
type Worker struct {
	analyzer   Analyzer
	config     Config
	aggregator *Aggregator
	reportDir  string
	mu         sync.Mutex
}

// NewWorker creates a new pipeline worker writing reports into reportDir.
func NewWorker(analyzer Analyzer, config Config, aggregator *Aggregator, reportDir string) *Worker {
	return &Worker{
		analyzer:   analyzer,
		config:     config,
		aggregator: aggregator,
		reportDir:  reportDir,
	}
}

// ProcessFiles runs the jobs on a bounded pool. A failed file is recorded on
// its job and does not stop the others; only cancellation aborts the batch.
func (w *Worker) ProcessFiles(ctx context.Context, run *Run, jobs []*FileJob) error {
	workerCount := w.config.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	jobChan := make(chan *FileJob)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				w.processFile(ctx, run, job)
				if job.Status == FileStatusFailed {
					log.Warn().
						Int("worker", workerID).
						Str("file", job.Path).
						Str("kind", job.ErrorKind).
						Msg(job.ErrorMessage)
				}
			}
		}(i)
	}

	var err error
enqueue:
	for _, job := range jobs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break enqueue
		case jobChan <- job:
		}
	}
	close(jobChan)
	wg.Wait()

	return err
}

// processFile analyses a single file and records the outcome on job.
func (w *Worker) processFile(ctx context.Context, run *Run, job *FileJob) {
	startTime := time.Now()
	job.Status = FileStatusProcessing

	if job.Name == "" {
		job.Name = filepath.Base(job.Path)
	}
	result, err := w.analyzeFile(ctx, job.Path)
	if err == nil {
		job.ReportPath, err = w.writeReport(job.Name, result)
	}
	job.Duration = time.Since(startTime)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		job.Status = FileStatusFailed
		job.ErrorKind = inventory.ErrorKind(err)
		job.ErrorMessage = err.Error()
		run.FailedFiles++
		return
	}

	job.Status = FileStatusCompleted
	job.Items = result.Overview.Items
	job.LowStock = result.Overview.LowStockItems
	run.ProcessedFiles++
	run.TotalRows += result.Overview.Items

	w.aggregator.Add(job.Name, result.Table.Table())
	log.Debug().Str("file", job.Path).Dur("duration", job.Duration).Int("rows", job.Items).Msg("pipeline: file completed")
}

func (w *Worker) analyzeFile(ctx context.Context, path string) (*domain.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return w.analyzer.Analyze(ctx, domain.UploadedFile{Filename: filepath.Base(path), Data: data}, w.config.Params)
}

func (w *Worker) writeReport(name string, result *domain.AnalysisResult) (string, error) {
	data, err := report.Render(w.config.Format, w.config.View, result.Table.Table())
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	out := filepath.Join(w.reportDir, report.Filename(base, w.config.View, w.config.Format))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", out, err)
	}
	return out, nil
}
