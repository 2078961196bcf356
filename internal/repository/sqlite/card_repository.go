package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) MarkHard(ctx context.Context, userID int64, cardIDs []int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("marking hard cards: user_id=%d, count=%d", userID, len(cardIDs))
	if len(cardIDs) == 0 {
		return nil
	}

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, id := range cardIDs {
			res, err := tx.ExecContext(ctx, `
INSERT INTO user_card_stats (user_id, card_id, is_difficult)
SELECT ?, id, 1 FROM cards WHERE id = ? AND user_id = ?
ON CONFLICT(user_id, card_id) DO UPDATE SET is_difficult = 1
`, userID, id, userID)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("card %d: %w", id, repository.ErrNotFound)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to mark hard cards: %v", err)
	}
	return err
}

func (r *cardRepository) HardCards(ctx context.Context, userID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting hard cards: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.user_id, c.original_word, c.translation, c.original_context, c.translation_context,
       s.is_difficult, c.created_at
FROM user_card_stats s
JOIN cards c ON c.id = s.card_id
WHERE s.user_id = ? AND s.is_difficult = 1
ORDER BY c.id ASC
`, userID)
	if err != nil {
		log.Error("failed to get hard cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

// Cards flagged hard are kept even without a deck so the hard set survives
// deck deletion.
func (r *cardRepository) DeleteOrphans(ctx context.Context, limit int) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	res, err := r.db.ExecContext(ctx, `
DELETE FROM cards WHERE id IN (
  SELECT c.id FROM cards c
  WHERE NOT EXISTS (SELECT 1 FROM deck_cards dc WHERE dc.card_id = c.id)
    AND NOT EXISTS (SELECT 1 FROM user_card_stats s WHERE s.card_id = c.id AND s.is_difficult = 1)
  LIMIT ?
)
`, limit)
	if err != nil {
		log.Error("failed to delete orphan cards: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("deleted %d orphan cards", n)
	return n, nil
}
