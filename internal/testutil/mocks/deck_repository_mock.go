package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordladder/internal/models"
)

// MockDeckRepository is a mock implementation of repository.DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Get(ctx context.Context, userID, deckID int64) (*models.Deck, error) {
	args := m.Called(ctx, userID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Create(ctx context.Context, deck models.Deck, newCards []models.Card, existingCardIDs []int64) (int64, error) {
	args := m.Called(ctx, deck, newCards, existingCardIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeckRepository) Cards(ctx context.Context, deckID int64) ([]models.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockDeckRepository) History(ctx context.Context, deckID int64) ([]models.DeckReview, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeckReview), args.Error(1)
}

func (m *MockDeckRepository) SetSchedule(ctx context.Context, userID, deckID, scheduleID int64, level int) error {
	args := m.Called(ctx, userID, deckID, scheduleID, level)
	return args.Error(0)
}

func (m *MockDeckRepository) RecordReview(ctx context.Context, rec models.ReviewRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockDeckRepository) Restart(ctx context.Context, userID, deckID int64, now time.Time) error {
	args := m.Called(ctx, userID, deckID, now)
	return args.Error(0)
}

func (m *MockDeckRepository) Delete(ctx context.Context, userID, deckID int64) error {
	args := m.Called(ctx, userID, deckID)
	return args.Error(0)
}
