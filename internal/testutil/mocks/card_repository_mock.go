package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordladder/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) MarkHard(ctx context.Context, userID int64, cardIDs []int64) error {
	args := m.Called(ctx, userID, cardIDs)
	return args.Error(0)
}

func (m *MockCardRepository) HardCards(ctx context.Context, userID int64) ([]models.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) DeleteOrphans(ctx context.Context, limit int) (int64, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(int64), args.Error(1)
}
