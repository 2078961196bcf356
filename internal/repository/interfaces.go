package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/wordladder/internal/models"
)

var (
	ErrNotFound = errors.New("repository: not found")
	// ErrStaleProgress means the deck changed since it was read.
	ErrStaleProgress = errors.New("repository: deck progress changed concurrently")
	// ErrOrphanedSchedule means decks still use a schedule being deleted.
	ErrOrphanedSchedule = errors.New("repository: schedule in use and no replacement given")
)

// LevelBounds is the level range of a schedule, used to re-map deck levels.
type LevelBounds struct {
	Floor   int
	Ceiling int
}

// ScheduleRepository handles schedule data access
type ScheduleRepository interface {
	// List returns the user's schedules followed by the system defaults.
	List(ctx context.Context, userID int64) ([]models.Schedule, error)
	Get(ctx context.Context, id int64) (*models.Schedule, error)
	Create(ctx context.Context, schedule models.Schedule) (int64, error)
	// Update replaces name and levels and clamps the level of every deck on
	// the schedule into bounds.
	Update(ctx context.Context, schedule models.Schedule, bounds LevelBounds) error
	CountDecks(ctx context.Context, scheduleID int64) (int, error)
	// Delete moves decks to replacementID (clamped into bounds) and removes
	// the schedule. A zero replacementID fails with ErrOrphanedSchedule when
	// decks still reference the schedule.
	Delete(ctx context.Context, scheduleID, replacementID int64, bounds LevelBounds) error
}

// DeckRepository handles deck data access
type DeckRepository interface {
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	Get(ctx context.Context, userID, deckID int64) (*models.Deck, error)
	Create(ctx context.Context, deck models.Deck, newCards []models.Card, existingCardIDs []int64) (int64, error)
	Cards(ctx context.Context, deckID int64) ([]models.Card, error)
	History(ctx context.Context, deckID int64) ([]models.DeckReview, error)
	SetSchedule(ctx context.Context, userID, deckID, scheduleID int64, level int) error
	// RecordReview stores card and deck history and writes the new progress
	// if the deck version still equals rec.ExpectedVersion.
	RecordReview(ctx context.Context, rec models.ReviewRecord) error
	// Restart drops the deck's history and puts it back to level 0, due at now.
	Restart(ctx context.Context, userID, deckID int64, now time.Time) error
	Delete(ctx context.Context, userID, deckID int64) error
}

// CardRepository handles card data access
type CardRepository interface {
	MarkHard(ctx context.Context, userID int64, cardIDs []int64) error
	HardCards(ctx context.Context, userID int64) ([]models.Card, error)
	// DeleteOrphans removes up to limit cards linked to no deck.
	DeleteOrphans(ctx context.Context, limit int) (int64, error)
}
