package postgres

import (
	"context"
	"fmt"
	"iter"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/query"
	"github.com/wpk-/aapi-versioned/internal/syncer"
	"github.com/wpk-/aapi-versioned/internal/versioned"
)

// measurement has one field of every column type.
type measurement struct {
	ID       pgtype.Text
	Count    pgtype.Int4
	Level    pgtype.Float8
	Active   pgtype.Bool
	Day      pgtype.Date
	At       pgtype.Time
	Local    pgtype.Timestamp
	Seen     pgtype.Timestamptz
	Geometry pgtype.Text
}

func (m measurement) Values() []any {
	return []any{m.ID, m.Count, m.Level, m.Active, m.Day, m.At, m.Local, m.Seen, m.Geometry}
}

func (m *measurement) Targets() []any {
	return []any{&m.ID, &m.Count, &m.Level, &m.Active, &m.Day, &m.At, &m.Local, &m.Seen, &m.Geometry}
}

var measurementFields = []versioned.Field{
	{Name: "id", Type: versioned.Text},
	{Name: "count", Type: versioned.Integer},
	{Name: "level", Type: versioned.Float},
	{Name: "active", Type: versioned.Boolean},
	{Name: "day", Type: versioned.Date},
	{Name: "at", Type: versioned.Time},
	{Name: "local", Type: versioned.Timestamp},
	{Name: "seen", Type: versioned.TimestampTZ},
	{Name: "geometrie", Type: versioned.Geometry},
}

type fixedSource []measurement

func (s fixedSource) Fetch(ctx context.Context) iter.Seq2[measurement, error] {
	return func(yield func(measurement, error) bool) {
		for _, m := range s {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func newMeasurement(id string, level float64) measurement {
	amsterdam := time.FixedZone("CET", 3600)
	return measurement{
		ID:       pgtype.Text{String: id, Valid: true},
		Count:    pgtype.Int4{Int32: 12, Valid: true},
		Level:    pgtype.Float8{Float64: level, Valid: true},
		Active:   pgtype.Bool{Bool: true, Valid: true},
		Day:      pgtype.Date{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		At:       pgtype.Time{Microseconds: int64(8*time.Hour+30*time.Minute+1500*time.Millisecond) / 1000, Valid: true},
		Local:    pgtype.Timestamp{Time: time.Date(2024, 5, 1, 9, 15, 30, 123456000, time.UTC), Valid: true},
		Seen:     pgtype.Timestamptz{Time: time.Date(2024, 5, 1, 9, 15, 30, 654321000, amsterdam), Valid: true},
		Geometry: pgtype.Text{String: "POINT(121000.5 487000.25)", Valid: true},
	}
}

func TestSync_PullTwiceIsStable(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()

	jobs := NewJobLogRepository(pool, joblog.DefaultHistoryDays)
	require.NoError(t, jobs.CreateTable(ctx))

	ep, err := NewEndpoint[measurement](pool, versioned.Schema{
		Table:  fmt.Sprintf("measurements_%d", time.Now().UnixNano()),
		Fields: measurementFields,
	})
	require.NoError(t, err)
	require.NoError(t, ep.CreateTable(ctx))

	// One row of NULLs besides the id so that absent values round-trip too.
	source := fixedSource{
		newMeasurement("a", 0.1),
		newMeasurement("b", -1e-7),
		{ID: pgtype.Text{String: "c", Valid: true}},
	}

	first := time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	res := syncer.NewTask[measurement](ep, source, jobs,
		syncer.WithClock[measurement](func() time.Time { return first })).Pull(ctx)
	require.NoError(t, res.Err)
	require.Equal(t, syncer.Success, res.Outcome)
	assert.Equal(t, 3, res.Created)
	assert.Zero(t, res.Deleted)

	second := first.Add(24 * time.Hour)
	res = syncer.NewTask[measurement](ep, source, jobs,
		syncer.WithClock[measurement](func() time.Time { return second })).Pull(ctx)
	require.NoError(t, res.Err)
	require.Equal(t, syncer.Success, res.Outcome)
	assert.Zero(t, res.Created, "unchanged rows were added again")
	assert.Zero(t, res.Deleted, "unchanged rows were deleted")

	total, err := ep.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	active, err := ep.Count(ctx, query.Pred(versioned.ColumnDeleted, nil))
	require.NoError(t, err)
	assert.Equal(t, 3, active)

	items, err := jobs.Recent(ctx, second)
	require.NoError(t, err)
	var statuses []joblog.Status
	for _, item := range items {
		if item.Target == ep.Name() {
			statuses = append(statuses, item.Status)
		}
	}
	assert.Equal(t, []joblog.Status{joblog.StatusDone, joblog.StatusDone}, statuses)
}
