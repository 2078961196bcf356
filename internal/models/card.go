package models

import "time"

type Card struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	OriginalWord       string    `json:"original_word"`
	Translation        string    `json:"translation"`
	OriginalContext    string    `json:"original_context,omitempty"`
	TranslationContext string    `json:"translation_context,omitempty"`
	IsHard             bool      `json:"is_hard"`
	CreatedAt          time.Time `json:"created_at"`
}

// CardSessionStat is the outcome of one card in one review session.
// IsCorrect is the exam round verdict only; Attempts and Fails span every
// checked step.
type CardSessionStat struct {
	CardID    int64 `json:"card_id"`
	IsCorrect bool  `json:"is_correct"`
	Attempts  int   `json:"attempts"`
	Fails     int   `json:"fails"`
}
