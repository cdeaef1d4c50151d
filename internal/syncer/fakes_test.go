package syncer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/query"
	"github.com/wpk-/aapi-versioned/internal/versioned"
)

type row struct {
	Name string
	N    int64
}

func (r row) Values() []any { return []any{r.Name, r.N} }

// memStore keeps versioned rows in memory. It understands the predicates
// the task issues: "_deleted" = nil and plain equality on "name".
type memStore struct {
	mu      sync.Mutex
	name    string
	records []versioned.Record[row]
	nextID  int64

	addCalls    int
	deleteCalls int
	failAdd     error
	failAll     error
	panicAll    bool
}

func newMemStore(name string) *memStore {
	return &memStore{name: name}
}

func (s *memStore) Name() string     { return s.name }
func (s *memStore) Fields() []string { return []string{"_id", "_created", "_deleted", "name", "n"} }

func (s *memStore) CreateTable(ctx context.Context) error { return nil }

func (s *memStore) Add(ctx context.Context, created time.Time, items []row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCalls++
	if s.failAdd != nil {
		return 0, s.failAdd
	}
	for _, item := range items {
		s.nextID++
		s.records = append(s.records, versioned.Record[row]{ID: s.nextID, Created: created, Data: item})
	}
	return len(items), nil
}

func (s *memStore) Delete(ctx context.Context, deleted time.Time, ids []int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	n := 0
	for i := range s.records {
		if s.records[i].Deleted == nil && slices.Contains(ids, s.records[i].ID) {
			at := deleted
			s.records[i].Deleted = &at
			n++
		}
	}
	return n, nil
}

func (s *memStore) All(ctx context.Context, preds ...query.P) iter.Seq2[versioned.Record[row], error] {
	return func(yield func(versioned.Record[row], error) bool) {
		if s.panicAll {
			panic("store exploded")
		}
		if s.failAll != nil {
			yield(versioned.Record[row]{}, s.failAll)
			return
		}
		s.mu.Lock()
		snapshot := slices.Clone(s.records)
		s.mu.Unlock()
		for _, rec := range snapshot {
			if matches(rec, preds) && !yield(rec, nil) {
				return
			}
		}
	}
}

func matches(rec versioned.Record[row], preds []query.P) bool {
	for _, p := range preds {
		switch p.Key {
		case versioned.ColumnDeleted:
			if rec.Deleted != nil {
				return false
			}
		case "name":
			if rec.Data.Name != p.Value {
				return false
			}
		default:
			panic(fmt.Sprintf("memStore: unsupported predicate %q", p.Key))
		}
	}
	return true
}

func (s *memStore) RecentChanges(ctx context.Context, at time.Time) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out [][]any
	for _, rec := range s.records {
		if rec.Created.Equal(at) || (rec.Deleted != nil && rec.Deleted.Equal(at)) {
			out = append(out, append([]any{rec.ID, rec.Created, rec.Deleted}, rec.Data.Values()...))
		}
	}
	return out, nil
}

func (s *memStore) active() []row {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []row
	for _, rec := range s.records {
		if rec.Active() {
			out = append(out, rec.Data)
		}
	}
	return out
}

// sliceSource yields items, then err if set.
type sliceSource struct {
	items []row
	err   error
}

func (s *sliceSource) Fetch(ctx context.Context) iter.Seq2[row, error] {
	return func(yield func(row, error) bool) {
		for _, item := range s.items {
			if !yield(item, nil) {
				return
			}
		}
		if s.err != nil {
			yield(row{}, s.err)
		}
	}
}

// cancellingSource cancels the run after yielding its items, then reports
// the cancellation as a fetch error.
type cancellingSource struct {
	items  []row
	cancel context.CancelFunc
}

func (s *cancellingSource) Fetch(ctx context.Context) iter.Seq2[row, error] {
	return func(yield func(row, error) bool) {
		for _, item := range s.items {
			if !yield(item, nil) {
				return
			}
		}
		s.cancel()
		yield(row{}, ctx.Err())
	}
}

type transportErr struct{ msg string }

func (e *transportErr) Error() string   { return e.msg }
func (e *transportErr) Transport() bool { return true }

var errBoom = errors.New("boom")

// memJobs records every status transition.
type memJobs struct {
	mu       sync.Mutex
	nextID   int64
	statuses map[int64][]joblog.Status
	items    map[int64]*joblog.LogItem
	failNext bool
	// honourCtx makes Status fail once ctx is done, as a database call would.
	honourCtx bool
}

func newMemJobs() *memJobs {
	return &memJobs{statuses: map[int64][]joblog.Status{}, items: map[int64]*joblog.LogItem{}}
}

func (j *memJobs) CreateTable(ctx context.Context) error { return nil }

func (j *memJobs) Start(ctx context.Context, target string, started time.Time) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failNext {
		return 0, errBoom
	}
	j.nextID++
	j.statuses[j.nextID] = []joblog.Status{joblog.StatusStart}
	j.items[j.nextID] = &joblog.LogItem{ID: j.nextID, Target: target, Status: joblog.StatusStart, Started: started}
	return j.nextID, nil
}

func (j *memJobs) Status(ctx context.Context, jobID int64, status joblog.Status, opts ...joblog.Option) error {
	if j.honourCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	item, ok := j.items[jobID]
	if !ok {
		return fmt.Errorf("job %d not found", jobID)
	}
	u := joblog.NewUpdate(opts...)
	item.Status = status
	if u.Error != nil {
		item.Error = u.Error
	}
	if u.Created != nil {
		item.Created = *u.Created
	}
	if u.Deleted != nil {
		item.Deleted = *u.Deleted
	}
	if u.Finished != nil {
		item.Finished = u.Finished
	}
	j.statuses[jobID] = append(j.statuses[jobID], status)
	return nil
}

func (j *memJobs) Recent(ctx context.Context, now time.Time) ([]joblog.LogItem, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []joblog.LogItem
	for id := int64(1); id <= j.nextID; id++ {
		out = append(out, *j.items[id])
	}
	return out, nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
