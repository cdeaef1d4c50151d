package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// OpenLogFile creates a timestamped log file in dir and removes all but the
// newest LogFilesKept files, counting the new one.
func OpenLogFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	if err := pruneLogFiles(dir, LogFilesKept-1); err != nil {
		return nil, err
	}

	name := filepath.Join(dir, LogFilePrefix+now.Format(LogFileLayout)+LogFileSuffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// pruneLogFiles keeps the newest keep log files. Names sort chronologically.
func pruneLogFiles(dir string, keep int) error {
	matches, err := filepath.Glob(filepath.Join(dir, LogFilePrefix+"*"+LogFileSuffix))
	if err != nil {
		return fmt.Errorf("failed to list log files: %w", err)
	}
	if len(matches) <= keep {
		return nil
	}
	slices.Sort(matches)
	for _, old := range matches[:len(matches)-keep] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old log file: %w", err)
		}
	}
	return nil
}
