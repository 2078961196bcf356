// Package ladder computes the next scheduling position of a deck from a
// finite ladder of operator-defined intervals.
//
// All functions are pure. Callers persist the returned progress with a
// check-and-set on the deck version; the ladder itself does no locking.
package ladder

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vytor/wordladder/internal/models"
)

var ErrInvalidSchedule = errors.New("ladder: invalid schedule")

// ScheduleError explains why a schedule was rejected.
type ScheduleError struct {
	ScheduleID int64
	Reason     string
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("ladder: invalid schedule %d: %s", e.ScheduleID, e.Reason)
}

func (e *ScheduleError) Is(target error) bool {
	return target == ErrInvalidSchedule
}

func invalid(s models.Schedule, format string, args ...any) error {
	return &ScheduleError{ScheduleID: s.ID, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that levels are non-empty, contiguous, start at 0 or 1 and
// carry positive intervals. Level order in the slice does not matter.
func Validate(s models.Schedule) error {
	if len(s.Levels) == 0 {
		return invalid(s, "no levels")
	}
	levels := sortedLevels(s.Levels)
	if first := levels[0].Level; first != 0 && first != 1 {
		return invalid(s, "first level is %d, want 0 or 1", first)
	}
	for i, l := range levels {
		if l.IntervalMinutes < 1 {
			return invalid(s, "level %d has interval %d minutes", l.Level, l.IntervalMinutes)
		}
		if i == 0 {
			continue
		}
		prev := levels[i-1].Level
		if l.Level == prev {
			return invalid(s, "level %d defined twice", l.Level)
		}
		if l.Level != prev+1 {
			return invalid(s, "gap between level %d and %d", prev, l.Level)
		}
	}
	return nil
}

// Bounds returns the lowest and highest level of a valid schedule.
func Bounds(s models.Schedule) (floor, ceiling int, err error) {
	if err := Validate(s); err != nil {
		return 0, 0, err
	}
	levels := sortedLevels(s.Levels)
	return levels[0].Level, levels[len(levels)-1].Level, nil
}

// MaxLevel returns the top level of a valid schedule.
func MaxLevel(s models.Schedule) (int, error) {
	_, ceiling, err := Bounds(s)
	return ceiling, err
}

// Interval returns the wait associated with level.
func Interval(s models.Schedule, level int) (time.Duration, error) {
	if err := Validate(s); err != nil {
		return 0, err
	}
	for _, l := range s.Levels {
		if l.Level == level {
			return time.Duration(l.IntervalMinutes) * time.Minute, nil
		}
	}
	return 0, invalid(s, "level %d not defined", level)
}

// Remap clamps level into the schedule's level range. Used when a deck moves
// to another schedule or its schedule is edited.
func Remap(s models.Schedule, level int) (int, error) {
	floor, ceiling, err := Bounds(s)
	if err != nil {
		return 0, err
	}
	return clamp(level, floor, ceiling), nil
}

// Ladder applies exam verdicts to deck progress.
type Ladder struct {
	demote DemotionPolicy
}

// Option configures a Ladder.
type Option func(*Ladder)

// WithDemotion sets the policy applied on a failed exam.
func WithDemotion(p DemotionPolicy) Option {
	return func(l *Ladder) {
		if p != nil {
			l.demote = p
		}
	}
}

// New creates a Ladder. The default demotion policy is DemoteOneLevel.
func New(opts ...Option) *Ladder {
	l := &Ladder{demote: DemoteOneLevel}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Advance moves progress one rung up on a passed exam, or down according to
// the demotion policy on a failed one. The due date is now plus the interval
// of the new level and the primary direction always flips. A deck already at
// the top stays there; archiving is left to the caller (see Graduated).
func (l *Ladder) Advance(s models.Schedule, p models.DeckProgress, examPassed bool, now time.Time) (models.DeckProgress, error) {
	floor, ceiling, err := Bounds(s)
	if err != nil {
		return p, err
	}

	var next int
	if examPassed {
		next = clamp(p.CurrentLevel+1, floor, ceiling)
	} else {
		next = clamp(l.demote(clamp(p.CurrentLevel, floor, ceiling), floor), floor, ceiling)
	}

	wait, err := Interval(s, next)
	if err != nil {
		return p, err
	}

	p.CurrentLevel = next
	p.NextReviewAt = now.Add(wait)
	p.NextPrimaryDirection = !p.NextPrimaryDirection
	return p, nil
}

// Graduated reports whether a passed exam at the top level completes the
// ladder for p.
func Graduated(s models.Schedule, p models.DeckProgress, examPassed bool) bool {
	ceiling, err := MaxLevel(s)
	if err != nil {
		return false
	}
	return examPassed && p.CurrentLevel >= ceiling
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sortedLevels(levels []models.ScheduleLevel) []models.ScheduleLevel {
	out := append([]models.ScheduleLevel(nil), levels...)
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
