package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/ladder"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
	"github.com/vytor/wordladder/internal/review"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// repoError converts a repository failure into an AppError.
func repoError(ctx context.Context, err error, resource string, id any) error {
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NewNotFoundError(resource, id)
	case stderrors.Is(err, repository.ErrStaleProgress):
		return errors.NewConflictError("deck progress changed, reload and retry", err)
	case stderrors.Is(err, repository.ErrOrphanedSchedule):
		return errors.NewConflictError("schedule is used by decks, choose a replacement", err)
	}
	logger.FromContext(ctx).Error("repository failure on %s %v: %v", resource, id, err)
	return errors.NewInternalError(err)
}

// reviewError converts a review engine failure into an AppError.
func reviewError(err error) error {
	switch {
	case stderrors.Is(err, review.ErrInvalidState), stderrors.Is(err, review.ErrExamNotTaken):
		return errors.NewInvalidStateError(err)
	case stderrors.Is(err, review.ErrUnknownCard):
		return errors.NewBadRequestError(err.Error())
	case stderrors.Is(err, review.ErrNoCards):
		return errors.NewValidationError("cards", "deck has no cards")
	}
	return errors.NewInternalError(err)
}

// scheduleError converts a schedule validation or unit conversion failure
// into an AppError.
func scheduleError(err error) error {
	var se *ladder.ScheduleError
	if stderrors.As(err, &se) {
		return errors.NewValidationError("levels", se.Reason)
	}
	if stderrors.Is(err, ladder.ErrUnknownUnit) {
		return errors.NewValidationError("unit", err.Error())
	}
	return errors.NewValidationError("levels", err.Error())
}

// visibleSchedule loads a schedule the user may use: their own or a system one.
func visibleSchedule(ctx context.Context, repo repository.ScheduleRepository, userID, id int64) (*models.Schedule, error) {
	s, err := repo.Get(ctx, id)
	if err != nil {
		return nil, repoError(ctx, err, "schedule", id)
	}
	if !s.IsSystemDefault && s.UserID != userID {
		return nil, errors.NewNotFoundError("schedule", id)
	}
	return s, nil
}

func levelBounds(s models.Schedule) (repository.LevelBounds, error) {
	floor, ceiling, err := ladder.Bounds(s)
	if err != nil {
		return repository.LevelBounds{}, err
	}
	return repository.LevelBounds{Floor: floor, Ceiling: ceiling}, nil
}
