package syncer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/query"
)

var t0 = time.Date(2024, 4, 1, 3, 0, 0, 0, time.UTC)

func newTestTask(store *memStore, src *sliceSource, jobs joblog.Repository, at time.Time, opts ...TaskOption[row]) *Task[row] {
	opts = append([]TaskOption[row]{WithClock[row](fixedClock(at))}, opts...)
	return NewTask[row](store, src, jobs, opts...)
}

func TestPull_FirstRunAddsEverything(t *testing.T) {
	store := newMemStore("rows")
	src := &sliceSource{items: []row{{"a", 1}, {"b", 2}}}
	jobs := newMemJobs()

	res := newTestTask(store, src, jobs, t0).Pull(context.Background())

	require.NoError(t, res.Err)
	assert.Equal(t, Success, res.Outcome)
	assert.Equal(t, 2, res.Created)
	assert.Zero(t, res.Deleted)
	assert.ElementsMatch(t, src.items, store.active())
	assert.Equal(t,
		[]joblog.Status{joblog.StatusStart, joblog.StatusFetch, joblog.StatusSync, joblog.StatusCreate, joblog.StatusDone},
		jobs.statuses[res.JobID])
}

func TestPull_SecondRunIsNoop(t *testing.T) {
	store := newMemStore("rows")
	src := &sliceSource{items: []row{{"a", 1}, {"b", 2}}}
	jobs := newMemJobs()

	newTestTask(store, src, jobs, t0).Pull(context.Background())
	res := newTestTask(store, src, jobs, t0.Add(time.Hour)).Pull(context.Background())

	require.NoError(t, res.Err)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Deleted)
	assert.Equal(t, 1, store.addCalls)
	assert.Zero(t, store.deleteCalls)
	assert.Equal(t,
		[]joblog.Status{joblog.StatusStart, joblog.StatusFetch, joblog.StatusSync, joblog.StatusDone},
		jobs.statuses[res.JobID])
}

func TestPull_ChangedRecordIsDeletedAndReAdded(t *testing.T) {
	store := newMemStore("rows")
	jobs := newMemJobs()
	newTestTask(store, &sliceSource{items: []row{{"a", 1}, {"b", 2}}}, jobs, t0).Pull(context.Background())

	src := &sliceSource{items: []row{{"a", 1}, {"b", 3}, {"c", 4}}}
	res := newTestTask(store, src, jobs, t0.Add(time.Hour)).Pull(context.Background())

	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Deleted)
	assert.ElementsMatch(t, src.items, store.active())
	assert.Len(t, store.records, 4)
	assert.Equal(t,
		[]joblog.Status{joblog.StatusStart, joblog.StatusFetch, joblog.StatusSync, joblog.StatusCreate, joblog.StatusDelete, joblog.StatusDone},
		jobs.statuses[res.JobID])

	item := jobs.items[res.JobID]
	assert.Equal(t, 2, item.Created)
	assert.Equal(t, 1, item.Deleted)
	require.NotNil(t, item.Finished)
}

func TestPull_DeletedRecordReturnsWithNewRow(t *testing.T) {
	store := newMemStore("rows")
	jobs := newMemJobs()
	ctx := context.Background()

	newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(ctx)
	newTestTask(store, &sliceSource{}, jobs, t0.Add(time.Hour)).Pull(ctx)
	res := newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0.Add(2*time.Hour)).Pull(ctx)

	assert.Equal(t, 1, res.Created)
	require.Len(t, store.records, 2)
	assert.NotNil(t, store.records[0].Deleted)
	assert.Nil(t, store.records[1].Deleted)
	assert.NotEqual(t, store.records[0].ID, store.records[1].ID)
}

func TestPull_PartialFetchWithholdsDeletions(t *testing.T) {
	store := newMemStore("rows")
	jobs := newMemJobs()
	ctx := context.Background()
	newTestTask(store, &sliceSource{items: []row{{"a", 1}, {"b", 2}, {"c", 3}}}, jobs, t0).Pull(ctx)

	src := &sliceSource{items: []row{{"a", 1}, {"d", 4}}, err: &transportErr{"503 from remote"}}
	res := newTestTask(store, src, jobs, t0.Add(time.Hour)).Pull(ctx)

	assert.Equal(t, Partial, res.Outcome)
	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Created)
	assert.Zero(t, res.Deleted)
	assert.Zero(t, store.deleteCalls)
	assert.ElementsMatch(t, []row{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}}, store.active())

	item := jobs.items[res.JobID]
	assert.Equal(t, joblog.StatusFailed, item.Status)
	require.NotNil(t, item.Error)
	assert.Equal(t, ErrMsgFetchIncomplete, *item.Error)
}

func TestPull_FullFetchAfterPartialAppliesWithheldDeletions(t *testing.T) {
	store := newMemStore("rows")
	jobs := newMemJobs()
	ctx := context.Background()
	newTestTask(store, &sliceSource{items: []row{{"a", 1}, {"b", 2}}}, jobs, t0).Pull(ctx)
	newTestTask(store, &sliceSource{items: []row{{"a", 1}}, err: &transportErr{"timeout"}}, jobs, t0.Add(time.Hour)).Pull(ctx)

	res := newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0.Add(2*time.Hour)).Pull(ctx)

	assert.Equal(t, Success, res.Outcome)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, []row{{"a", 1}}, store.active())
}

func TestPull_NonTransportFetchErrorFails(t *testing.T) {
	store := newMemStore("rows")
	jobs := newMemJobs()
	ctx := context.Background()
	newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(ctx)

	res := newTestTask(store, &sliceSource{items: []row{{"b", 2}}, err: errBoom}, jobs, t0.Add(time.Hour)).Pull(ctx)

	assert.Equal(t, Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, errBoom)
	assert.Equal(t, string(joblog.StatusFetch), res.Phase)
	assert.Equal(t, 1, store.addCalls)
	assert.Equal(t, []row{{"a", 1}}, store.active())

	item := jobs.items[res.JobID]
	assert.Equal(t, joblog.StatusFailed, item.Status)
	require.NotNil(t, item.Error)
	assert.Contains(t, *item.Error, "fetch")
	require.NotNil(t, item.Finished)
}

func TestPull_StorageErrorFailsAtPhase(t *testing.T) {
	store := newMemStore("rows")
	store.failAdd = errBoom
	jobs := newMemJobs()

	res := newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(context.Background())

	assert.Equal(t, Failed, res.Outcome)
	assert.Equal(t, string(joblog.StatusCreate), res.Phase)
	assert.Equal(t,
		[]joblog.Status{joblog.StatusStart, joblog.StatusFetch, joblog.StatusSync, joblog.StatusCreate, joblog.StatusFailed},
		jobs.statuses[res.JobID])
}

func TestPull_DiffErrorFails(t *testing.T) {
	store := newMemStore("rows")
	store.failAll = errBoom
	jobs := newMemJobs()

	res := newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(context.Background())

	assert.Equal(t, Failed, res.Outcome)
	assert.Equal(t, string(joblog.StatusSync), res.Phase)
	assert.Zero(t, store.addCalls)
}

func TestPull_PanicIsContained(t *testing.T) {
	store := newMemStore("rows")
	store.panicAll = true
	jobs := newMemJobs()

	var res Result
	require.NotPanics(t, func() {
		res = newTestTask(store, &sliceSource{}, jobs, t0).Pull(context.Background())
	})

	assert.Equal(t, Failed, res.Outcome)
	assert.Contains(t, res.Err.Error(), ErrMsgPanic)
	assert.Equal(t, joblog.StatusFailed, jobs.items[res.JobID].Status)
}

func TestPull_JobStartFailureHasNoJob(t *testing.T) {
	jobs := new(joblog.MockRepository)
	jobs.On("Start", mock.Anything, "rows", t0).Return(int64(0), errBoom)

	store := newMemStore("rows")
	res := newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(context.Background())

	assert.Equal(t, Failed, res.Outcome)
	assert.Zero(t, res.JobID)
	assert.Zero(t, store.addCalls)
	jobs.AssertExpectations(t)
	jobs.AssertNotCalled(t, "Status", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPull_StatusUpdatesThroughRepository(t *testing.T) {
	jobs := new(joblog.MockRepository)
	jobs.On("Start", mock.Anything, "rows", t0).Return(int64(9), nil)
	jobs.On("Status", mock.Anything, int64(9), joblog.StatusFetch, joblog.Update{}).Return(nil).Once()
	jobs.On("Status", mock.Anything, int64(9), joblog.StatusSync, joblog.Update{}).Return(nil).Once()
	jobs.On("Status", mock.Anything, int64(9), joblog.StatusCreate, joblog.NewUpdate(joblog.WithCreated(1))).Return(nil).Once()
	jobs.On("Status", mock.Anything, int64(9), joblog.StatusDone, joblog.NewUpdate(joblog.WithFinished(t0))).Return(nil).Once()

	res := newTestTask(newMemStore("rows"), &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(context.Background())

	require.NoError(t, res.Err)
	assert.Equal(t, int64(9), res.JobID)
	jobs.AssertExpectations(t)
}

func TestPull_CancelledRunStillEndsFailed(t *testing.T) {
	store := newMemStore("rows")
	jobs := newMemJobs()
	jobs.honourCtx = true
	newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &cancellingSource{items: []row{{"b", 2}}, cancel: cancel}
	task := NewTask[row](store, src, jobs, WithClock[row](fixedClock(t0.Add(time.Hour))))

	res := task.Pull(ctx)

	assert.Equal(t, Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, string(joblog.StatusFetch), res.Phase)
	assert.Equal(t, []row{{"a", 1}}, store.active())

	item := jobs.items[res.JobID]
	assert.Equal(t, joblog.StatusFailed, item.Status)
	require.NotNil(t, item.Finished)
	assert.Equal(t, t0.Add(time.Hour), *item.Finished)
	require.NotNil(t, item.Error)
	assert.Contains(t, *item.Error, string(joblog.StatusFetch))
}

func TestPull_PhaseIsLastRecordedStatus(t *testing.T) {
	jobs := new(joblog.MockRepository)
	jobs.On("Start", mock.Anything, "rows", t0).Return(int64(4), nil)
	jobs.On("Status", mock.Anything, int64(4), joblog.StatusFetch, joblog.Update{}).Return(nil).Once()
	jobs.On("Status", mock.Anything, int64(4), joblog.StatusSync, joblog.Update{}).Return(errBoom).Once()
	jobs.On("Status", mock.Anything, int64(4), joblog.StatusFailed, mock.MatchedBy(func(u joblog.Update) bool {
		return u.Error != nil && *u.Error == "fetch: boom" && u.Finished != nil
	})).Return(nil).Once()

	res := newTestTask(newMemStore("rows"), &sliceSource{items: []row{{"a", 1}}}, jobs, t0).Pull(context.Background())

	assert.Equal(t, Failed, res.Outcome)
	assert.Equal(t, string(joblog.StatusFetch), res.Phase)
	assert.ErrorIs(t, res.Err, errBoom)
	jobs.AssertExpectations(t)
}

func TestDiff_LocalFilterLimitsDeletions(t *testing.T) {
	store := newMemStore("rows")
	jobs := newMemJobs()
	ctx := context.Background()
	newTestTask(store, &sliceSource{items: []row{{"a", 1}, {"b", 2}}}, jobs, t0).Pull(ctx)

	// The remote window only covers "a"; "b" falls outside it and must stay.
	res := newTestTask(store, &sliceSource{items: []row{{"a", 1}}}, jobs, t0.Add(time.Hour),
		WithLocalFilter[row](query.Pred("name", "a"))).Pull(ctx)

	assert.Zero(t, res.Deleted)
	assert.ElementsMatch(t, []row{{"a", 1}, {"b", 2}}, store.active())
}

func TestDiff_EquivalentToSetDifference(t *testing.T) {
	store := newMemStore("rows")
	ctx := context.Background()
	var stored []row
	for i := 0; i < 20; i++ {
		stored = append(stored, row{fmt.Sprintf("r%d", i), int64(i)})
	}
	_, err := store.Add(ctx, t0, stored)
	require.NoError(t, err)

	task := newTestTask(store, &sliceSource{}, newMemJobs(), t0)
	remote := map[string]row{}
	for i := 10; i < 30; i++ {
		r := row{fmt.Sprintf("r%d", i), int64(i)}
		remote[r.Name] = r
	}
	src := &sliceSource{}
	for _, r := range remote {
		src.items = append(src.items, r)
	}
	task.source = src

	fetched, partial, err := task.Fetch(ctx)
	require.NoError(t, err)
	require.False(t, partial)

	gone, err := task.Diff(ctx, fetched)
	require.NoError(t, err)

	assert.Len(t, gone, 10)
	for _, id := range gone {
		assert.LessOrEqual(t, id, int64(10))
	}
	assert.Len(t, fetched, 10)
	for _, item := range fetched {
		assert.GreaterOrEqual(t, item.N, int64(20))
	}
}

func TestFetch_DuplicateRemoteRecordsCollapse(t *testing.T) {
	task := newTestTask(newMemStore("rows"), &sliceSource{items: []row{{"a", 1}, {"a", 1}}}, newMemJobs(), t0)

	fetched, _, err := task.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, fetched, 1)
}

func TestIsTransport(t *testing.T) {
	assert.True(t, IsTransport(fmt.Errorf("page 3: %w", &transportErr{"reset"})))
	assert.False(t, IsTransport(errBoom))
	assert.False(t, IsTransport(nil))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "partial", Partial.String())
	assert.Equal(t, "failed", Failed.String())
}
