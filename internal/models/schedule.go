package models

import "time"

// ScheduleLevel maps a ladder level to the wait before the next review.
type ScheduleLevel struct {
	Level           int `json:"level"`
	IntervalMinutes int `json:"interval_minutes"`
}

type Schedule struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Name            string          `json:"name"`
	Levels          []ScheduleLevel `json:"levels"`
	IsSystemDefault bool            `json:"is_system_default"`
	CreatedAt       time.Time       `json:"created_at"`
}
