package joblog

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Start(ctx context.Context, target string, started time.Time) (int64, error) {
	args := m.Called(ctx, target, started)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Status(ctx context.Context, jobID int64, status Status, opts ...Option) error {
	args := m.Called(ctx, jobID, status, NewUpdate(opts...))
	return args.Error(0)
}

func (m *MockRepository) Recent(ctx context.Context, now time.Time) ([]LogItem, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]LogItem), args.Error(1)
}
