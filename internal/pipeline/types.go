package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/report"
)

// Analyzer analyses one inventory export. InventoryService satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams) (*domain.AnalysisResult, error)
}

// Config holds configuration for a batch run
type Config struct {
	WorkerCount int                  // Number of concurrent workers
	OutputDir   string               // Root directory for run outputs
	View        report.View          // View rendered for each file
	Format      report.Format        // Format of the per-file reports
	Params      domain.AnalyzeParams // Overrides applied to every file
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		WorkerCount: 4,
		OutputDir:   "data/reports",
		View:        report.ViewFull,
		Format:      report.FormatXLSX,
	}
}

// RunStatus represents the outcome of a batch run
type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusPartial    RunStatus = "partial"
	StatusFailed     RunStatus = "failed"
)

// FileJobStatus represents the state of a single file processing job
type FileJobStatus string

const (
	FileStatusQueued     FileJobStatus = "queued"
	FileStatusProcessing FileJobStatus = "processing"
	FileStatusCompleted  FileJobStatus = "completed"
	FileStatusFailed     FileJobStatus = "failed"
)

// FileJob tracks the processing of a single file
type FileJob struct {
	Path         string        `json:"path"`
	Name         string        `json:"name"` // unique within the run
	Status       FileJobStatus `json:"status"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	ErrorMessage string        `json:"error,omitempty"`
	Items        int           `json:"items"`
	LowStock     int           `json:"low_stock"`
	ReportPath   string        `json:"report,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// Run tracks a single execution of the batch pipeline
type Run struct {
	ID               string     `json:"id"`
	Status           RunStatus  `json:"status"`
	TotalFiles       int        `json:"total_files"`
	ProcessedFiles   int        `json:"processed_files"`
	FailedFiles      int        `json:"failed_files"`
	TotalRows        int        `json:"total_rows"`
	ConsolidatedPath string     `json:"consolidated,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Jobs             []*FileJob `json:"jobs"`
}
