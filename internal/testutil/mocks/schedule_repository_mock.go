package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
)

// MockScheduleRepository is a mock implementation of repository.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) List(ctx context.Context, userID int64) ([]models.Schedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Create(ctx context.Context, schedule models.Schedule) (int64, error) {
	args := m.Called(ctx, schedule)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScheduleRepository) Update(ctx context.Context, schedule models.Schedule, bounds repository.LevelBounds) error {
	args := m.Called(ctx, schedule, bounds)
	return args.Error(0)
}

func (m *MockScheduleRepository) CountDecks(ctx context.Context, scheduleID int64) (int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Error(1)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, scheduleID, replacementID int64, bounds repository.LevelBounds) error {
	args := m.Called(ctx, scheduleID, replacementID, bounds)
	return args.Error(0)
}
