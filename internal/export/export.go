// Package export writes the job history and the changes of each job as JSON
// documents for a static web UI.
//
// The export directory holds jobs.json, listing the jobs of the recent
// history window, and one <id>.json per listed job with up to twenty rows
// that job created or deleted. Job documents never change once written, so
// only jobs without a file are exported and files of jobs that left the
// window are removed.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/logger"
	"github.com/wpk-/aapi-versioned/internal/syncer"
)

// ErrJobNotFound is returned for job ids outside the recent history.
var ErrJobNotFound = errors.New(ErrMsgJobNotFound)

// Document is the shape of every exported file.
type Document struct {
	Modified time.Time `json:"modified"`
	Fields   []string  `json:"fields"`
	Items    [][]any   `json:"items"`
}

// JobSource lists recent jobs.
type JobSource interface {
	Recent(ctx context.Context, now time.Time) ([]joblog.LogItem, error)
}

// TaskLookup finds the task that ran a job.
type TaskLookup interface {
	Runner(target string) (syncer.Runner, bool)
}

// Exporter builds export documents.
type Exporter struct {
	jobs  JobSource
	tasks TaskLookup
	clock func() time.Time
}

// NewExporter creates an exporter.
func NewExporter(jobs JobSource, tasks TaskLookup) *Exporter {
	return &Exporter{jobs: jobs, tasks: tasks, clock: time.Now}
}

// Jobs returns the recent jobs document.
func (e *Exporter) Jobs(ctx context.Context) (Document, []joblog.LogItem, error) {
	now := e.clock()
	items, err := e.jobs.Recent(ctx, now)
	if err != nil {
		return Document{}, nil, fmt.Errorf("%s: %w", ErrMsgListJobs, err)
	}

	doc := Document{
		Modified: now,
		Fields:   joblog.Fields,
		Items:    make([][]any, 0, len(items)),
	}
	for _, item := range items {
		doc.Items = append(doc.Items, item.Tuple())
	}
	return doc, items, nil
}

// Job returns the changes document of one recent job.
func (e *Exporter) Job(ctx context.Context, id int64) (Document, joblog.LogItem, error) {
	_, items, err := e.Jobs(ctx)
	if err != nil {
		return Document{}, joblog.LogItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			doc, err := e.changes(ctx, item)
			return doc, item, err
		}
	}
	return Document{}, joblog.LogItem{}, fmt.Errorf("%w: %d", ErrJobNotFound, id)
}

func (e *Exporter) changes(ctx context.Context, item joblog.LogItem) (Document, error) {
	runner, ok := e.tasks.Runner(item.Target)
	if !ok {
		return Document{}, fmt.Errorf("%s: %s", ErrMsgUnknownTarget, item.Target)
	}
	rows, err := runner.RecentChanges(ctx, item.Started)
	if err != nil {
		return Document{}, fmt.Errorf("%s %s: %w", ErrMsgRecentChanges, item.Target, err)
	}

	doc := Document{
		Modified: item.Started,
		Fields:   runner.Fields(),
		Items:    make([][]any, 0, len(rows)),
	}
	for _, row := range rows {
		out := make([]any, len(row))
		for i, v := range row {
			out[i] = jsonValue(v)
		}
		doc.Items = append(doc.Items, out)
	}
	return doc, nil
}

// jsonValue renders TIME columns as text; pgx scans them into a struct.
func jsonValue(v any) any {
	switch x := v.(type) {
	case pgtype.Time:
		if !x.Valid {
			return nil
		}
		t := time.Unix(0, 0).UTC().Add(time.Duration(x.Microseconds) * time.Microsecond)
		return t.Format(TimeOfDayLayout)
	default:
		return v
	}
}

// WriteDir writes jobs.json to dir, a job file for every finished job that
// has none yet, and removes job files of jobs no longer listed. Unfinished
// jobs are exported by a later call.
func (e *Exporter) WriteDir(ctx context.Context, dir string) error {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteFile, err)
	}

	doc, items, err := e.Jobs(ctx)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, JobsFile), doc); err != nil {
		return err
	}

	listed := make(map[int64]joblog.LogItem, len(items))
	for _, item := range items {
		listed[item.ID] = item
	}

	existing, err := jobFiles(dir)
	if err != nil {
		return err
	}

	removed := 0
	for id, name := range existing {
		if _, ok := listed[id]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s %s: %w", ErrMsgRemoveFile, name, err)
		}
		log.Debug(LogMsgStaleRemoved, LogFieldFile, name)
		removed++
	}

	written := 0
	for _, item := range items {
		if _, ok := existing[item.ID]; ok || !item.Status.Terminal() {
			continue
		}
		jobDoc, err := e.changes(ctx, item)
		if err != nil {
			return err
		}
		name := jobFileName(item.ID)
		if err := writeJSON(filepath.Join(dir, name), jobDoc); err != nil {
			return err
		}
		log.Debug(LogMsgJobExported, LogFieldFile, name)
		written++
	}

	log.Info(LogMsgExportWritten, LogFieldDir, dir, LogFieldJobs, len(items),
		LogFieldWritten, written, LogFieldRemoved, removed)
	return nil
}

func jobFileName(id int64) string {
	return strconv.FormatInt(id, 10) + JobFileSuffix
}

// jobFiles maps job ids to the names of their files in dir.
func jobFiles(dir string) (map[int64]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgReadDir, err)
	}
	files := make(map[int64]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, JobFileSuffix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, JobFileSuffix), 10, 64)
		if err != nil {
			continue
		}
		files[id] = name
	}
	return files, nil
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgWriteFile, path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FileMode); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgWriteFile, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s %s: %w", ErrMsgWriteFile, path, err)
	}
	return nil
}
