package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/replenishment/internal/ingest"
)

// fileSource is the part of Service the downloader needs.
type fileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// DownloadOptions controls how files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader pulls inventory exports out of a Drive folder.
type Downloader struct {
	source fileSource
}

// NewDownloader creates a new Downloader.
func NewDownloader(s *Service) *Downloader {
	return &Downloader{source: s}
}

// DownloadFolder downloads every CSV and XLSX file of the folder into
// DownloadDir and returns the local paths. Other files are skipped.
func (d *Downloader) DownloadFolder(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := d.source.ListFiles(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	taken := make(map[string]bool)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.MimeType == folderMimeType || !ingest.Supported(f.Name) {
			log.Debug().Str("file", f.Name).Msg("drive: skipping unsupported file")
			continue
		}

		localPath := filepath.Join(opts.DownloadDir, localName(f, taken))
		if err := d.download(ctx, f, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}

	log.Info().Str("folder", opts.FolderID).Int("files", len(localPaths)).Msg("drive: folder downloaded")
	return localPaths, nil
}

// localName returns the file name to save f under. Drive allows duplicate
// names in a folder, so a repeated name gets the file id appended.
func localName(f *File, taken map[string]bool) string {
	name := filepath.Base(f.Name)
	key := strings.ToLower(name)
	if taken[key] {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + "-" + f.ID + ext
		key = strings.ToLower(name)
	}
	taken[key] = true
	return name
}

func (d *Downloader) download(ctx context.Context, f *File, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	if err := d.source.DownloadFile(ctx, f.ID, out); err != nil {
		out.Close()
		_ = os.Remove(localPath)
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return out.Close()
}
