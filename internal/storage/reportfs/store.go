// Package reportfs implements the file-based cache for downloaded report
// snapshots. One file per (report type, date), named {YYYY-MM-DD}.xlsx; a
// file's existence is the cache-hit signal. Files are written atomically but
// the store provides no locking: concurrent writers for the same date may
// race, which is an accepted gap for this single-process client.
package reportfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agrisense/agmark/internal/common"
)

// Report-type subdirectories under the downloads root.
const dailyStateDir = "daily_state"

// Store provides dated snapshot files for each report type.
type Store struct {
	basePath string
	dailyDir string
	logger   *common.Logger
}

// NewStore creates the downloads directory tree.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create downloads path %s: %w", path, err)
	}
	dailyDir := filepath.Join(path, dailyStateDir)
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create downloads path %s: %w", dailyDir, err)
	}

	logger.Info().Str("path", path).Msg("Report store opened")
	return &Store{
		basePath: path,
		dailyDir: dailyDir,
		logger:   logger,
	}, nil
}

// DataPath returns the downloads root.
func (s *Store) DataPath() string {
	return s.basePath
}

// DailyReportPath returns the cache file path for a date.
func (s *Store) DailyReportPath(date string) string {
	return filepath.Join(s.dailyDir, sanitizeKey(date)+".xlsx")
}

// HasDailyReport reports whether a snapshot file exists for the date.
func (s *Store) HasDailyReport(date string) bool {
	info, err := os.Stat(s.DailyReportPath(date))
	return err == nil && !info.IsDir()
}

// ReadDailyReport returns the raw snapshot bytes for a date.
func (s *Store) ReadDailyReport(date string) ([]byte, error) {
	data, err := os.ReadFile(s.DailyReportPath(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &common.NotFoundError{Kind: "snapshot", Name: date}
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", date, err)
	}
	return data, nil
}

// WriteDailyReport stores snapshot bytes for a date atomically.
func (s *Store) WriteDailyReport(date string, data []byte) error {
	target := s.DailyReportPath(date)

	tmpFile, err := os.CreateTemp(s.dailyDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Debug().Str("date", date).Int("bytes", len(data)).Msg("Snapshot cached")
	return nil
}

// LatestDailyReports returns the paths of up to n snapshot files ordered by
// file modification time, most recent first. Spreadsheet lock files (~$) and
// in-flight temp files are skipped.
func (s *Store) LatestDailyReports(n int) ([]string, error) {
	entries, err := os.ReadDir(s.dailyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read downloads directory: %w", err)
	}

	type snapshot struct {
		path  string
		mtime int64
	}
	var snapshots []snapshot
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xlsx") {
			continue
		}
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, snapshot{
			path:  filepath.Join(s.dailyDir, name),
			mtime: info.ModTime().UnixNano(),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].mtime > snapshots[j].mtime
	})

	if n > 0 && len(snapshots) > n {
		snapshots = snapshots[:n]
	}
	paths := make([]string, len(snapshots))
	for i, sn := range snapshots {
		paths[i] = sn.path
	}
	return paths, nil
}

// SnapshotDate extracts the date key from a snapshot file path.
func SnapshotDate(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".xlsx")
}

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}
