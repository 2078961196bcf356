package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
)

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new ScheduleRepository implementation
func NewScheduleRepository(db *sql.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) List(ctx context.Context, userID int64) ([]models.Schedule, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("listing schedules: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, is_system_default, created_at
FROM schedules
WHERE user_id = ? OR is_system_default = 1
ORDER BY is_system_default ASC, id ASC
`, userID)
	if err != nil {
		log.Error("failed to list schedules: %v", err)
		return nil, err
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.IsSystemDefault, &s.CreatedAt); err != nil {
			log.Error("failed to scan schedule row: %v", err)
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return schedules, nil
	}

	ids := make([]int64, len(schedules))
	for i, s := range schedules {
		ids[i] = s.ID
	}
	levels, err := r.levels(ctx, ids)
	if err != nil {
		log.Error("failed to load schedule levels: %v", err)
		return nil, err
	}
	for i := range schedules {
		schedules[i].Levels = levels[schedules[i].ID]
	}
	log.Debug("found %d schedules", len(schedules))
	return schedules, nil
}

func (r *scheduleRepository) levels(ctx context.Context, scheduleIDs []int64) (map[int64][]models.ScheduleLevel, error) {
	query, args, err := sqlBuilder.
		Select("schedule_id", "level", "interval_minutes").
		From("schedule_levels").
		Where(squirrel.Eq{"schedule_id": scheduleIDs}).
		OrderBy("schedule_id", "level").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.ScheduleLevel, len(scheduleIDs))
	for rows.Next() {
		var id int64
		var l models.ScheduleLevel
		if err := rows.Scan(&id, &l.Level, &l.IntervalMinutes); err != nil {
			return nil, err
		}
		out[id] = append(out[id], l)
	}
	return out, rows.Err()
}

func (r *scheduleRepository) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("getting schedule: id=%d", id)

	var s models.Schedule
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, is_system_default, created_at
FROM schedules
WHERE id = ?
`, id).Scan(&s.ID, &s.UserID, &s.Name, &s.IsSystemDefault, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("schedule not found: id=%d", id)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get schedule: %v", err)
		return nil, err
	}

	levels, err := r.levels(ctx, []int64{id})
	if err != nil {
		log.Error("failed to load schedule levels: %v", err)
		return nil, err
	}
	s.Levels = levels[id]
	return &s, nil
}

func (r *scheduleRepository) Create(ctx context.Context, s models.Schedule) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("creating schedule: user_id=%d, name=%s, levels=%d", s.UserID, s.Name, len(s.Levels))

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO schedules (user_id, name) VALUES (?, ?)`, s.UserID, s.Name)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertLevels(ctx, tx, id, s.Levels)
	})
	if err != nil {
		log.Error("failed to create schedule: %v", err)
		return 0, err
	}
	log.Debug("schedule created: id=%d", id)
	return id, nil
}

func insertLevels(ctx context.Context, tx *sql.Tx, scheduleID int64, levels []models.ScheduleLevel) error {
	if len(levels) == 0 {
		return nil
	}
	ins := sqlBuilder.Insert("schedule_levels").Columns("schedule_id", "level", "interval_minutes")
	for _, l := range levels {
		ins = ins.Values(scheduleID, l.Level, l.IntervalMinutes)
	}
	_, err := execBuilt(ctx, tx, ins)
	return err
}

func (r *scheduleRepository) Update(ctx context.Context, s models.Schedule, bounds repository.LevelBounds) error {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("updating schedule: id=%d, levels=%d, bounds=[%d,%d]", s.ID, len(s.Levels), bounds.Floor, bounds.Ceiling)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE schedules SET name = ? WHERE id = ?`, s.Name, s.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_levels WHERE schedule_id = ?`, s.ID); err != nil {
			return err
		}
		if err := insertLevels(ctx, tx, s.ID, s.Levels); err != nil {
			return err
		}
		_, err = execBuilt(ctx, tx, sqlBuilder.Update("decks").
			Set("current_level", squirrel.Expr("MIN(MAX(current_level, ?), ?)", bounds.Floor, bounds.Ceiling)).
			Set("version", squirrel.Expr("version + 1")).
			Where(squirrel.Eq{"schedule_id": s.ID}).
			Where(squirrel.Gt{"current_level": 0}).
			Where(squirrel.Or{
				squirrel.Lt{"current_level": bounds.Floor},
				squirrel.Gt{"current_level": bounds.Ceiling},
			}))
		return err
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to update schedule: %v", err)
	}
	return err
}

func (r *scheduleRepository) CountDecks(ctx context.Context, scheduleID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE schedule_id = ?`, scheduleID).Scan(&n)
	return n, err
}

func (r *scheduleRepository) Delete(ctx context.Context, scheduleID, replacementID int64, bounds repository.LevelBounds) error {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("deleting schedule: id=%d, replacement=%d", scheduleID, replacementID)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		var inUse int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE schedule_id = ?`, scheduleID).Scan(&inUse); err != nil {
			return err
		}
		if inUse > 0 {
			if replacementID == 0 {
				return fmt.Errorf("%w: %d decks use schedule %d", repository.ErrOrphanedSchedule, inUse, scheduleID)
			}
			_, err := execBuilt(ctx, tx, sqlBuilder.Update("decks").
				Set("schedule_id", replacementID).
				Set("current_level", squirrel.Expr(
					"CASE WHEN current_level > 0 THEN MIN(MAX(current_level, ?), ?) ELSE 0 END",
					bounds.Floor, bounds.Ceiling)).
				Set("version", squirrel.Expr("version + 1")).
				Where(squirrel.Eq{"schedule_id": scheduleID}))
			if err != nil {
				return err
			}
			log.Info("moved %d decks from schedule %d to %d", inUse, scheduleID, replacementID)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, scheduleID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrOrphanedSchedule) {
		log.Error("failed to delete schedule: %v", err)
	}
	return err
}
