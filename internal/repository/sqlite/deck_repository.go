package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

var deckColumns = []string{
	"d.id", "d.user_id", "d.name", "d.schedule_id", "d.version", "d.created_at",
	"d.current_level", "d.next_review_at", "d.next_primary_direction", "d.is_archived",
	"(SELECT COUNT(*) FROM deck_cards dc WHERE dc.deck_id = d.id) AS cards_count",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (models.Deck, error) {
	var d models.Deck
	err := row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.ScheduleID, &d.Version, &d.CreatedAt,
		&d.CurrentLevel, &d.NextReviewAt, &d.NextPrimaryDirection, &d.IsArchived,
		&d.CardsCount,
	)
	return d, err
}

func (r *deckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%d", filter.UserID)

	q := sqlBuilder.Select(deckColumns...).From("decks d").Where(squirrel.Eq{"d.user_id": filter.UserID})
	if filter.Archived != nil {
		q = q.Where(squirrel.Eq{"d.is_archived": *filter.Archived})
	}
	if filter.DueBefore != nil {
		q = q.Where(squirrel.LtOrEq{"d.next_review_at": utc(*filter.DueBefore)})
	}
	q = q.OrderBy("d.next_review_at ASC", "d.id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			q = q.Offset(uint64(filter.Offset))
		}
	}

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build deck query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debug("found %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) Get(ctx context.Context, userID, deckID int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: user_id=%d, id=%d", userID, deckID)

	query, args, err := sqlBuilder.Select(deckColumns...).From("decks d").
		Where(squirrel.Eq{"d.id": deckID, "d.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	d, err := scanDeck(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", deckID)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) Create(ctx context.Context, deck models.Deck, newCards []models.Card, existingCardIDs []int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("creating deck: user_id=%d, name=%s, new_cards=%d, existing_cards=%d",
		deck.UserID, deck.Name, len(newCards), len(existingCardIDs))

	var deckID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO decks (user_id, name, schedule_id, current_level, next_review_at, next_primary_direction, is_archived)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, deck.UserID, deck.Name, deck.ScheduleID, deck.CurrentLevel, utc(deck.NextReviewAt), deck.NextPrimaryDirection, deck.IsArchived)
		if err != nil {
			return err
		}
		if deckID, err = res.LastInsertId(); err != nil {
			return err
		}

		for _, c := range newCards {
			res, err := tx.ExecContext(ctx, `
INSERT INTO cards (user_id, original_word, translation, original_context, translation_context)
VALUES (?, ?, ?, ?, ?)
`, deck.UserID, c.OriginalWord, c.Translation, c.OriginalContext, c.TranslationContext)
			if err != nil {
				return err
			}
			cardID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO deck_cards (deck_id, card_id) VALUES (?, ?)`, deckID, cardID); err != nil {
				return err
			}
		}

		for _, cardID := range existingCardIDs {
			res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO deck_cards (deck_id, card_id)
SELECT ?, id FROM cards WHERE id = ? AND user_id = ?
`, deckID, cardID, deck.UserID)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				var exists int
				err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE id = ? AND user_id = ?`, cardID, deck.UserID).Scan(&exists)
				if err != nil {
					return err
				}
				if exists == 0 {
					return fmt.Errorf("card %d: %w", cardID, repository.ErrNotFound)
				}
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to create deck: %v", err)
		}
		return 0, err
	}
	log.Info("deck created: id=%d", deckID)
	return deckID, nil
}

func (r *deckRepository) Cards(ctx context.Context, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck cards: deck_id=%d", deckID)

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.user_id, c.original_word, c.translation, c.original_context, c.translation_context,
       COALESCE(s.is_difficult, 0), c.created_at
FROM deck_cards dc
JOIN cards c ON c.id = dc.card_id
LEFT JOIN user_card_stats s ON s.card_id = c.id AND s.user_id = c.user_id
WHERE dc.deck_id = ?
ORDER BY c.id ASC
`, deckID)
	if err != nil {
		log.Error("failed to get deck cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

func scanCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.UserID, &c.OriginalWord, &c.Translation,
			&c.OriginalContext, &c.TranslationContext, &c.IsHard, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *deckRepository) History(ctx context.Context, deckID int64) ([]models.DeckReview, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck history: deck_id=%d", deckID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, deck_id, reviewed_at, accuracy
FROM deck_history
WHERE deck_id = ?
ORDER BY reviewed_at DESC, id DESC
`, deckID)
	if err != nil {
		log.Error("failed to get deck history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var history []models.DeckReview
	for rows.Next() {
		var h models.DeckReview
		if err := rows.Scan(&h.ID, &h.DeckID, &h.ReviewedAt, &h.Accuracy); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *deckRepository) SetSchedule(ctx context.Context, userID, deckID, scheduleID int64, level int) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("setting deck schedule: id=%d, schedule_id=%d, level=%d", deckID, scheduleID, level)

	res, err := r.db.ExecContext(ctx, `
UPDATE decks SET schedule_id = ?, current_level = ?, version = version + 1
WHERE id = ? AND user_id = ?
`, scheduleID, level, deckID, userID)
	if err != nil {
		log.Error("failed to set deck schedule: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *deckRepository) RecordReview(ctx context.Context, rec models.ReviewRecord) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("recording review: deck_id=%d, version=%d, accuracy=%d, cards=%d",
		rec.DeckID, rec.ExpectedVersion, rec.Accuracy, len(rec.Cards))

	reviewedAt := utc(rec.ReviewedAt)
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE decks
SET current_level = ?, next_review_at = ?, next_primary_direction = ?, is_archived = ?, version = version + 1
WHERE id = ? AND user_id = ? AND version = ?
`, rec.Progress.CurrentLevel, utc(rec.Progress.NextReviewAt), rec.Progress.NextPrimaryDirection,
			rec.Progress.IsArchived, rec.DeckID, rec.UserID, rec.ExpectedVersion)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return r.missOrStale(ctx, tx, rec.UserID, rec.DeckID)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO deck_history (deck_id, reviewed_at, accuracy) VALUES (?, ?, ?)`,
			rec.DeckID, reviewedAt, rec.Accuracy); err != nil {
			return err
		}

		if len(rec.Cards) == 0 {
			return nil
		}
		ins := sqlBuilder.Insert("card_history").
			Columns("user_id", "deck_id", "card_id", "reviewed_at", "is_correct", "attempts", "fails")
		for _, c := range rec.Cards {
			ins = ins.Values(rec.UserID, rec.DeckID, c.CardID, reviewedAt, c.IsCorrect, c.Attempts, c.Fails)
		}
		_, err = execBuilt(ctx, tx, ins)
		return err
	})
	switch {
	case err == nil:
		log.Debug("review recorded: deck_id=%d, level=%d", rec.DeckID, rec.Progress.CurrentLevel)
	case errors.Is(err, repository.ErrStaleProgress):
		log.Warn("stale deck progress: deck_id=%d, expected_version=%d", rec.DeckID, rec.ExpectedVersion)
	case !errors.Is(err, repository.ErrNotFound):
		log.Error("failed to record review: %v", err)
	}
	return err
}

// missOrStale tells a missing deck apart from a version mismatch.
func (r *deckRepository) missOrStale(ctx context.Context, tx *sql.Tx, userID, deckID int64) error {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE id = ? AND user_id = ?`, deckID, userID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrStaleProgress
}

func (r *deckRepository) Restart(ctx context.Context, userID, deckID int64, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("restarting deck: id=%d", deckID)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE decks
SET current_level = 0, next_review_at = ?, next_primary_direction = 1, is_archived = 0, version = version + 1
WHERE id = ? AND user_id = ?
`, utc(now), deckID, userID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_history WHERE deck_id = ?`, deckID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM deck_history WHERE deck_id = ?`, deckID)
		return err
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to restart deck: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, userID, deckID int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", deckID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ? AND user_id = ?`, deckID, userID)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	log.Info("deck deleted: id=%d", deckID)
	return nil
}
