package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupOldLogs deletes run logs in dir matching pattern whose modification
// time is more than retentionDays old, and returns how many it removed. keep
// (the log of the current run) survives regardless. retentionDays <= 0
// disables pruning.
func CleanupOldLogs(logger *slog.Logger, dir, pattern string, retentionDays int, keep string) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, path := range expiredLogs(matches, cutoff, keep) {
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "could not prune old run log", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check ownership of logging.dir"),
				String(FieldImpact, "the old log stays on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("old run log pruned", String("path", path), Event("log_pruned"))
		}
	}
	return removed
}

func expiredLogs(paths []string, cutoff time.Time, keep string) []string {
	var expired []string
	for _, path := range paths {
		if keep != "" && path == keep {
			continue
		}
		info, err := os.Lstat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			expired = append(expired, path)
		}
	}
	return expired
}
