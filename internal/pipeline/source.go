package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresuchdata/replenishment/internal/drive"
	"github.com/andresuchdata/replenishment/internal/ingest"
	"github.com/andresuchdata/replenishment/internal/storage"
)

// Source yields local paths of inventory exports, downloading them into
// workDir when they live elsewhere.
type Source interface {
	Fetch(ctx context.Context, workDir string) ([]string, error)
}

// LocalSource lists the supported files of a directory.
type LocalSource struct {
	Dir string
}

func (s LocalSource) Fetch(ctx context.Context, workDir string) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", s.Dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !ingest.Supported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(s.Dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ObjectSource downloads the supported objects under Prefix.
type ObjectSource struct {
	Storage storage.ObjectStorage
	Prefix  string
}

func (s ObjectSource) Fetch(ctx context.Context, workDir string) ([]string, error) {
	objects, err := s.Storage.ListObjects(ctx, strings.TrimSpace(s.Prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list objects for prefix %s: %w", s.Prefix, err)
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if ingest.Supported(obj.Key) {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)

	files := make([]string, 0, len(keys))
	taken := make(map[string]bool, len(keys))
	for _, key := range keys {
		dest := filepath.Join(workDir, uniqueName(objectName(s.Prefix, key), taken))
		if err := s.Storage.DownloadObject(ctx, key, dest); err != nil {
			return nil, err
		}
		files = append(files, dest)
	}
	return files, nil
}

// objectName flattens key below prefix into a single file name, so that
// exports with the same base name under different folders stay apart.
func objectName(prefix, key string) string {
	rel := strings.Trim(strings.TrimPrefix(key, strings.TrimSpace(prefix)), "/")
	if rel == "" {
		rel = path.Base(key)
	}
	return strings.ReplaceAll(rel, "/", "_")
}

// uniqueName returns name, or name with a numeric suffix when its stem is
// already taken. Stems compare case-insensitively, since reports drop the
// extension and not every filesystem is case-sensitive.
func uniqueName(name string, taken map[string]bool) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := stem
	for i := 2; taken[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s-%d", stem, i)
	}
	taken[strings.ToLower(candidate)] = true
	return candidate + ext
}

// DriveSource downloads the supported files of a Drive folder.
type DriveSource struct {
	Downloader *drive.Downloader
	FolderID   string
}

func (s DriveSource) Fetch(ctx context.Context, workDir string) ([]string, error) {
	return s.Downloader.DownloadFolder(ctx, drive.DownloadOptions{FolderID: s.FolderID, DownloadDir: workDir})
}
