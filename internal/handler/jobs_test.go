package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wpk-/aapi-versioned/internal/export"
	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/worker"
)

// MockDocuments mocks the Documents interface
type MockDocuments struct {
	mock.Mock
}

func (m *MockDocuments) Jobs(ctx context.Context) (export.Document, []joblog.LogItem, error) {
	args := m.Called(ctx)
	return args.Get(0).(export.Document), args.Get(1).([]joblog.LogItem), args.Error(2)
}

func (m *MockDocuments) Job(ctx context.Context, id int64) (export.Document, joblog.LogItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(export.Document), args.Get(1).(joblog.LogItem), args.Error(2)
}

var started = time.Date(2022, 3, 17, 6, 0, 0, 0, time.UTC)

func newJobsRouter(h *JobsHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/jobs", h.HandleGetJobs)
	r.Get("/api/v1/jobs/{id}", h.HandleGetJob)
	return r
}

func TestHandleGetJobs(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		docs := &MockDocuments{}
		doc := export.Document{
			Modified: started,
			Fields:   joblog.Fields,
			Items:    [][]any{{int64(1), "meldingen", "done"}},
		}
		docs.On("Jobs", mock.Anything).Return(doc, []joblog.LogItem{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		w := httptest.NewRecorder()
		newJobsRouter(NewJobsHandler(docs)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "2022-03-17T06:00:00Z", got["modified"])
		assert.Len(t, got["items"], 1)
		docs.AssertExpectations(t)
	})

	t.Run("Repository Failure", func(t *testing.T) {
		docs := &MockDocuments{}
		docs.On("Jobs", mock.Anything).Return(export.Document{}, []joblog.LogItem(nil), assert.AnError)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		w := httptest.NewRecorder()
		newJobsRouter(NewJobsHandler(docs)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgGenericServerError)
	})
}

func TestHandleGetJob(t *testing.T) {
	t.Run("Finished Jobs Are Cached", func(t *testing.T) {
		docs := &MockDocuments{}
		doc := export.Document{Modified: started, Fields: []string{"_id"}, Items: [][]any{{int64(3)}}}
		docs.On("Job", mock.Anything, int64(7)).
			Return(doc, joblog.LogItem{ID: 7, Status: joblog.StatusDone}, nil).Once()

		router := newJobsRouter(NewJobsHandler(docs))
		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/7", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"items":[[3]]`)
		}
		docs.AssertNumberOfCalls(t, "Job", 1)
	})

	t.Run("Running Jobs Are Not Cached", func(t *testing.T) {
		docs := &MockDocuments{}
		docs.On("Job", mock.Anything, int64(8)).
			Return(export.Document{}, joblog.LogItem{ID: 8, Status: joblog.StatusFetch}, nil)

		router := newJobsRouter(NewJobsHandler(docs))
		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/8", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
		docs.AssertNumberOfCalls(t, "Job", 2)
	})

	t.Run("Not Found", func(t *testing.T) {
		docs := &MockDocuments{}
		docs.On("Job", mock.Anything, int64(99)).
			Return(export.Document{}, joblog.LogItem{}, fmt.Errorf("%w: 99", export.ErrJobNotFound))

		w := httptest.NewRecorder()
		newJobsRouter(NewJobsHandler(docs)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgJobNotFound)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-4"} {
			w := httptest.NewRecorder()
			newJobsRouter(NewJobsHandler(&MockDocuments{})).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+id, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code, id)
		}
	})

	t.Run("Failure", func(t *testing.T) {
		docs := &MockDocuments{}
		docs.On("Job", mock.Anything, int64(5)).Return(export.Document{}, joblog.LogItem{}, assert.AnError)

		w := httptest.NewRecorder()
		newJobsRouter(NewJobsHandler(docs)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/5", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

type stubPool struct {
	accept bool
	jobs   []worker.Job
}

func (p *stubPool) Enqueue(job worker.Job) bool {
	if p.accept {
		p.jobs = append(p.jobs, job)
	}
	return p.accept
}

type noopJob struct{}

func (noopJob) Process(ctx context.Context) error { return nil }

func TestHandleTriggerSync(t *testing.T) {
	t.Run("Queued", func(t *testing.T) {
		pool := &stubPool{accept: true}

		w := httptest.NewRecorder()
		HandleTriggerSync(pool, noopJob{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), MsgSyncQueued)
		assert.Len(t, pool.jobs, 1)
	})

	t.Run("Busy", func(t *testing.T) {
		pool := &stubPool{accept: false}

		w := httptest.NewRecorder()
		HandleTriggerSync(pool, noopJob{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgSyncBusy)
	})
}

func TestHandleVersion(t *testing.T) {
	w := httptest.NewRecorder()
	HandleVersion("1.2.3").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, w.Body.String(), `"go_version"`)
	assert.NotContains(t, w.Body.String(), `"git_commit"`)
}
