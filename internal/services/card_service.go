package services

import (
	"context"

	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
)

// CardService handles the hard-card set and card housekeeping
type CardService interface {
	MarkHard(ctx context.Context, userID int64, cardIDs []int64) error
	HardCards(ctx context.Context, userID int64) ([]models.Card, error)
	// CleanupOrphans deletes cards linked to no deck in batches until none
	// remain and returns the number removed.
	CleanupOrphans(ctx context.Context, batchSize int) (int64, error)
}

type cardService struct {
	repo repository.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(repo repository.CardRepository) CardService {
	return &cardService{repo: repo}
}

func (s *cardService) MarkHard(ctx context.Context, userID int64, cardIDs []int64) error {
	log := logger.FromContext(ctx)
	log.Debug("marking hard cards: user_id=%d, ids=%v", userID, cardIDs)

	if len(cardIDs) == 0 {
		return errors.NewValidationError("card_ids", "cannot be empty")
	}
	if err := s.repo.MarkHard(ctx, userID, cardIDs); err != nil {
		return repoError(ctx, err, "card", cardIDs)
	}
	return nil
}

func (s *cardService) HardCards(ctx context.Context, userID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting hard cards: user_id=%d", userID)

	cards, err := s.repo.HardCards(ctx, userID)
	if err != nil {
		log.Error("failed to get hard cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) CleanupOrphans(ctx context.Context, batchSize int) (int64, error) {
	log := logger.FromContext(ctx)
	if batchSize <= 0 {
		batchSize = 100
	}

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.repo.DeleteOrphans(ctx, batchSize)
		if err != nil {
			log.Error("orphan cleanup stopped after %d cards: %v", total, err)
			return total, err
		}
		total += n
		if n < int64(batchSize) {
			break
		}
	}
	if total > 0 {
		log.Info("deleted %d orphan cards", total)
	}
	return total, nil
}
