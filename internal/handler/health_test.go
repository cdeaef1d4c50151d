package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDBPool mocks the database.Pool interface
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}

func TestHandleHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealthz().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleReadyz(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   HealthResponse
	}{
		{"database connected", nil, http.StatusOK, HealthResponse{Status: "ok"}},
		{"connection refused", errors.New("connection refused"), http.StatusServiceUnavailable,
			HealthResponse{Status: "unavailable", Message: "database connection failed"}},
		{"ping timeout", context.DeadlineExceeded, http.StatusServiceUnavailable,
			HealthResponse{Status: "unavailable", Message: "database connection failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDBPool{}
			mockDB.On("Ping", mock.MatchedBy(func(ctx context.Context) bool {
				_, ok := ctx.Deadline()
				return ok
			})).Return(tt.pingErr)

			w := httptest.NewRecorder()
			HandleReadyz(mockDB).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
			mockDB.AssertExpectations(t)
		})
	}
}

func TestRespondJSON_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	respondJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), ErrMsgGenericServerError))
}

func TestPutBuffer_DropsLargeBuffers(t *testing.T) {
	buf := getBuffer()
	buf.Grow(maxPooledBuffer + 1)
	buf.WriteString("x")
	putBuffer(buf)
	assert.Equal(t, 1, buf.Len())
}
