package services

import (
	"context"
	"strings"

	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/ladder"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
)

// LevelInput is one rung of a schedule as entered by a user.
type LevelInput struct {
	Level  int         `json:"level"`
	Amount int         `json:"amount"`
	Unit   ladder.Unit `json:"unit"`
}

type ScheduleInput struct {
	Name   string       `json:"name"`
	Levels []LevelInput `json:"levels"`
}

// LevelDisplay is a level interval in the largest whole unit.
type LevelDisplay struct {
	Level  int         `json:"level"`
	Amount int         `json:"amount"`
	Unit   ladder.Unit `json:"unit"`
}

type ScheduleView struct {
	models.Schedule
	Display []LevelDisplay `json:"display"`
}

// ScheduleService handles schedule-related business logic
type ScheduleService interface {
	List(ctx context.Context, userID int64) ([]ScheduleView, error)
	Create(ctx context.Context, userID int64, in ScheduleInput) (*ScheduleView, error)
	Update(ctx context.Context, userID, id int64, in ScheduleInput) (*ScheduleView, error)
	// Delete removes a user schedule. Decks on it move to replacementID, which
	// is required when any exist.
	Delete(ctx context.Context, userID, id, replacementID int64) error
}

type scheduleService struct {
	repo repository.ScheduleRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(repo repository.ScheduleRepository) ScheduleService {
	return &scheduleService{repo: repo}
}

func newScheduleView(s models.Schedule) ScheduleView {
	display := make([]LevelDisplay, 0, len(s.Levels))
	for _, l := range s.Levels {
		amount, unit := ladder.Split(l.IntervalMinutes)
		display = append(display, LevelDisplay{Level: l.Level, Amount: amount, Unit: unit})
	}
	return ScheduleView{Schedule: s, Display: display}
}

func (s *scheduleService) List(ctx context.Context, userID int64) ([]ScheduleView, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing schedules: user_id=%d", userID)

	schedules, err := s.repo.List(ctx, userID)
	if err != nil {
		log.Error("failed to list schedules: %v", err)
		return nil, errors.NewInternalError(err)
	}
	views := make([]ScheduleView, 0, len(schedules))
	for _, sc := range schedules {
		views = append(views, newScheduleView(sc))
	}
	return views, nil
}

// build converts user input into a validated schedule.
func build(in ScheduleInput) (models.Schedule, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Schedule{}, errors.NewValidationError("name", "cannot be empty")
	}
	sc := models.Schedule{Name: name, Levels: make([]models.ScheduleLevel, 0, len(in.Levels))}
	for _, l := range in.Levels {
		minutes, err := ladder.ToMinutes(l.Amount, l.Unit)
		if err != nil {
			return models.Schedule{}, scheduleError(err)
		}
		sc.Levels = append(sc.Levels, models.ScheduleLevel{Level: l.Level, IntervalMinutes: minutes})
	}
	if err := ladder.Validate(sc); err != nil {
		return models.Schedule{}, scheduleError(err)
	}
	return sc, nil
}

func (s *scheduleService) Create(ctx context.Context, userID int64, in ScheduleInput) (*ScheduleView, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating schedule: user_id=%d, levels=%d", userID, len(in.Levels))

	sc, err := build(in)
	if err != nil {
		return nil, err
	}
	sc.UserID = userID

	id, err := s.repo.Create(ctx, sc)
	if err != nil {
		return nil, repoError(ctx, err, "schedule", in.Name)
	}
	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, repoError(ctx, err, "schedule", id)
	}
	log.Info("schedule created: id=%d", id)
	view := newScheduleView(*created)
	return &view, nil
}

// owned loads a schedule the user may modify.
func (s *scheduleService) owned(ctx context.Context, userID, id int64) (*models.Schedule, error) {
	sc, err := visibleSchedule(ctx, s.repo, userID, id)
	if err != nil {
		return nil, err
	}
	if sc.IsSystemDefault {
		return nil, errors.NewBadRequestError("system schedules cannot be modified")
	}
	return sc, nil
}

func (s *scheduleService) Update(ctx context.Context, userID, id int64, in ScheduleInput) (*ScheduleView, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating schedule: id=%d, user_id=%d", id, userID)

	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	sc, err := build(in)
	if err != nil {
		return nil, err
	}
	sc.ID = id
	sc.UserID = userID

	bounds, err := levelBounds(sc)
	if err != nil {
		return nil, scheduleError(err)
	}
	if err := s.repo.Update(ctx, sc, bounds); err != nil {
		return nil, repoError(ctx, err, "schedule", id)
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, repoError(ctx, err, "schedule", id)
	}
	view := newScheduleView(*updated)
	return &view, nil
}

func (s *scheduleService) Delete(ctx context.Context, userID, id, replacementID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting schedule: id=%d, replacement=%d", id, replacementID)

	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	var bounds repository.LevelBounds
	if replacementID != 0 {
		if replacementID == id {
			return errors.NewValidationError("replacement", "must differ from the deleted schedule")
		}
		replacement, err := visibleSchedule(ctx, s.repo, userID, replacementID)
		if err != nil {
			return err
		}
		if bounds, err = levelBounds(*replacement); err != nil {
			return scheduleError(err)
		}
	}

	if err := s.repo.Delete(ctx, id, replacementID, bounds); err != nil {
		return repoError(ctx, err, "schedule", id)
	}
	log.Info("schedule deleted: id=%d", id)
	return nil
}
