package models

import "time"

// DeckProgress is the scheduling position of a deck. Level 0 means the deck
// was never reviewed.
type DeckProgress struct {
	CurrentLevel         int       `json:"current_level"`
	NextReviewAt         time.Time `json:"next_review_at"`
	NextPrimaryDirection bool      `json:"next_primary_direction"`
	IsArchived           bool      `json:"is_archived"`
}

type Deck struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	ScheduleID int64     `json:"schedule_id"`
	Version    int64     `json:"version"`
	CardsCount int       `json:"cards_count"`
	CreatedAt  time.Time `json:"created_at"`
	DeckProgress
}

// Started reports whether the deck composition is locked.
func (d Deck) Started() bool {
	return d.CurrentLevel > 0
}

type DeckDetail struct {
	Deck
	Schedule *Schedule    `json:"schedule,omitempty"`
	Cards    []Card       `json:"cards"`
	History  []DeckReview `json:"history"`
}

// DeckReview is one archived session of a deck.
type DeckReview struct {
	ID         int64     `json:"id"`
	DeckID     int64     `json:"deck_id"`
	ReviewedAt time.Time `json:"reviewed_at"`
	Accuracy   int       `json:"accuracy"`
}

type DeckFilter struct {
	UserID    int64
	Archived  *bool
	DueBefore *time.Time
	Limit     int
	Offset    int
}

// ReviewRecord is everything persisted after a finished session.
type ReviewRecord struct {
	UserID          int64
	DeckID          int64
	ExpectedVersion int64
	ReviewedAt      time.Time
	Accuracy        int
	Cards           []CardSessionStat
	Progress        DeckProgress
}
