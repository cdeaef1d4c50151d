// Package datasets declares the mirrored datasets: their models, tables,
// remote collections and the window each one is mirrored over.
package datasets

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wpk-/aapi-versioned/internal/database/postgres"
	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/query"
	"github.com/wpk-/aapi-versioned/internal/syncer"
	"github.com/wpk-/aapi-versioned/internal/versioned"
)

// Window is the first day of the period mirrored by windowed datasets.
// Remote and local filters are derived from the same value so both sides of
// the diff select the same records.
type Window struct {
	Since time.Time
}

// NewWindow returns the window of days days before the date of now.
func NewWindow(now time.Time, days int) Window {
	y, m, d := now.Date()
	return Window{Since: time.Date(y, m, d-days, 0, 0, 0, 0, time.UTC)}
}

// Day formats the first day as an ISO date.
func (w Window) Day() string {
	return w.Since.Format(time.DateOnly)
}

// Midnight formats the start of the first day as a UTC timestamp.
func (w Window) Midnight() string {
	return w.Day() + "T00:00:00Z"
}

// Filter pairs the remote parameters and local predicates of one dataset.
type Filter struct {
	Remote url.Values
	Local  []query.P
}

// SinceDate keeps records whose date field is on or after the first day.
func (w Window) SinceDate(field string) Filter {
	return Filter{
		Remote: url.Values{field + "[gte]": {w.Day()}},
		Local:  []query.P{query.Pred(field+"__gte", pgtype.Date{Time: w.Since, Valid: true})},
	}
}

// AfterMidnight keeps records whose timestamp field is later than the start
// of the first day. It uses the "__gt" filter syntax of the supplier APIs.
func (w Window) AfterMidnight(field string) Filter {
	return Filter{
		Remote: url.Values{field + "__gt": {w.Midnight()}},
		Local:  []query.P{query.Pred(field+"__gt", pgtype.Timestamptz{Time: w.Since, Valid: true})},
	}
}

// Registry builds the task of every dataset, in run order.
type Registry struct {
	DB      *pgxpool.Pool
	Fetcher Fetcher
	Jobs    joblog.Repository
	Clock   syncer.Clock
}

// Runners returns the tasks of all datasets. Windowed datasets cover the
// days days before now.
func (r Registry) Runners(now time.Time, days int) ([]syncer.Runner, error) {
	w := NewWindow(now, days)

	sidcon := w.AfterMidnight(FieldCommunicationDateTime)
	sidcon.Remote.Set(SidconPageSizeParam, strconv.Itoa(SidconPageSize))

	builders := []func() (syncer.Runner, error){
		// Huishoudelijk afval
		func() (syncer.Runner, error) {
			return task[Container](r, ContainerSchema, PathContainers, Filter{})
		},
		func() (syncer.Runner, error) {
			return task[SidconFillLevel](r, SidconFillLevelSchema, PathSidconFillLevels, sidcon)
		},
		func() (syncer.Runner, error) {
			return task[Weging](r, WegingSchema, PathWegingen, w.SinceDate(FieldDatumWeging))
		},
		// Meldingen
		func() (syncer.Runner, error) {
			return task[Melding](r, MeldingSchema, PathMeldingen, w.SinceDate(FieldDatumMelding))
		},
		// Gebieden
		func() (syncer.Runner, error) {
			return task[Buurt](r, BuurtSchema, PathBuurten, Filter{})
		},
		func() (syncer.Runner, error) {
			return task[Stadsdeel](r, StadsdeelSchema, PathStadsdelen, Filter{})
		},
		func() (syncer.Runner, error) {
			return task[Wijk](r, WijkSchema, PathWijken, Filter{})
		},
	}

	runners := make([]syncer.Runner, 0, len(builders))
	for _, build := range builders {
		runner, err := build()
		if err != nil {
			return nil, err
		}
		runners = append(runners, runner)
	}
	return runners, nil
}

func task[T versioned.Model, PT versioned.ModelPtr[T]](r Registry, schema versioned.Schema, path string, f Filter) (syncer.Runner, error) {
	ep, err := postgres.NewEndpoint[T, PT](r.DB, schema)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgCreateDataset, schema.Table, err)
	}

	opts := []syncer.TaskOption[T]{syncer.WithLocalFilter[T](f.Local...)}
	if r.Clock != nil {
		opts = append(opts, syncer.WithClock[T](r.Clock))
	}
	src := NewRemoteSource[T, PT](r.Fetcher, path, f.Remote, schema)
	return syncer.NewTask[T](ep, src, r.Jobs, opts...), nil
}
