package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/replenishment/internal/config"
	"github.com/andresuchdata/replenishment/internal/drive"
	"github.com/andresuchdata/replenishment/internal/pipeline"
	"github.com/andresuchdata/replenishment/internal/report"
	"github.com/andresuchdata/replenishment/internal/storage"
)

func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "source",
			Usage: "Where the exports come from: local, s3 or drive",
			Value: "local",
		},
		&cli.StringFlag{
			Name:  "input-dir",
			Usage: "Directory of exports for --source local",
			Value: "./data/input",
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "Object key prefix for --source s3",
			EnvVars: []string{"S3_PREFIX"},
		},
		&cli.StringFlag{
			Name:    "drive-folder-id",
			Usage:   "Google Drive folder ID for --source drive",
			EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
		},
		&cli.StringFlag{
			Name:  "download-dir",
			Usage: "Local directory where remote exports are downloaded",
			Value: "./data/tmp/downloads",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Usage:   "Root directory for run outputs",
			EnvVars: []string{"APP_DATA_DIR"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "Number of concurrent workers",
			Value:   runtime.NumCPU(),
			EnvVars: []string{"INGEST_WORKERS"},
		},
		&cli.BoolFlag{
			Name:  "publish",
			Usage: "Upload the consolidated CSV to the S3 bucket under reports/<run id>/",
		},
	}
}

func runBatch(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := report.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	view, err := report.ParseView(c.String("view"))
	if err != nil {
		return err
	}

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}

	source, err := batchSource(ctx, c, cfg)
	if err != nil {
		return err
	}
	files, err := source.Fetch(ctx, c.String("download-dir"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Str("source", c.String("source")).Msg("no CSV or XLSX exports found")
		return nil
	}

	pcfg := pipeline.DefaultConfig()
	pcfg.WorkerCount = c.Int("workers")
	pcfg.Format = format
	pcfg.View = view
	pcfg.Params = analyzeParams(c)
	if dir := c.String("output-dir"); dir != "" {
		pcfg.OutputDir = dir
	} else if cfg.App.DataDir != "" {
		pcfg.OutputDir = cfg.App.DataDir
	}

	orchestrator := pipeline.NewOrchestrator(svc, pcfg)
	if c.Bool("publish") {
		client, err := storage.NewS3Client(cfg.Storage)
		if err != nil {
			return fmt.Errorf("publish needs S3 storage: %w", err)
		}
		orchestrator.OnFlush(publisher(client))
	}

	run, err := orchestrator.Run(ctx, files)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "run %s %s: %d/%d files, %d rows\n",
		run.ID, run.Status, run.ProcessedFiles, run.TotalFiles, run.TotalRows)
	for _, job := range run.Jobs {
		if job.Status == pipeline.FileStatusFailed {
			fmt.Fprintf(c.App.Writer, "  %s: %s\n", job.Name, job.ErrorMessage)
		}
	}
	if run.Status == pipeline.StatusFailed {
		return cli.Exit("every file failed", 1)
	}
	return nil
}

func batchSource(ctx context.Context, c *cli.Context, cfg *config.Config) (pipeline.Source, error) {
	switch c.String("source") {
	case "local":
		return pipeline.LocalSource{Dir: c.String("input-dir")}, nil
	case "s3":
		client, err := storage.NewS3Client(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return pipeline.ObjectSource{Storage: client, Prefix: c.String("prefix")}, nil
	case "drive":
		folderID := c.String("drive-folder-id")
		if folderID == "" {
			return nil, fmt.Errorf("--drive-folder-id is required for --source drive")
		}
		svc, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		return pipeline.DriveSource{Downloader: drive.NewDownloader(svc), FolderID: folderID}, nil
	default:
		return nil, fmt.Errorf("unknown source %q: want local, s3 or drive", c.String("source"))
	}
}

// publisher uploads the consolidated CSV next to the run id it was written
// under.
func publisher(client storage.ObjectStorage) func(ctx context.Context, csvPath string) error {
	return func(ctx context.Context, csvPath string) error {
		data, err := os.ReadFile(csvPath)
		if err != nil {
			return err
		}
		runID := filepath.Base(filepath.Dir(csvPath))
		key := path.Join("reports", runID, filepath.Base(csvPath))
		if err := client.UploadObject(ctx, key, data, report.FormatCSV.ContentType()); err != nil {
			return err
		}
		log.Info().Str("key", key).Msg("consolidated CSV published")
		return nil
	}
}
