package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/ladder"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
	"github.com/vytor/wordladder/internal/review"
)

type CardInput struct {
	OriginalWord       string `json:"original_word"`
	Translation        string `json:"translation"`
	OriginalContext    string `json:"original_context"`
	TranslationContext string `json:"translation_context"`
}

type DeckInput struct {
	Name       string      `json:"name"`
	ScheduleID int64       `json:"schedule_id"`
	Cards      []CardInput `json:"cards"`
	// CardIDs reuses cards the user already owns.
	CardIDs []int64 `json:"card_ids"`
}

// ReviewSubmission is the result of one finished session. A nil Version
// checks against the version read when the submission is processed.
type ReviewSubmission struct {
	Version *int64                   `json:"version,omitempty"`
	Cards   []models.CardSessionStat `json:"cards"`
}

// ReviewOutcome reports what a submitted review did to the deck.
type ReviewOutcome struct {
	Accuracy             int       `json:"accuracy"`
	Passed               bool      `json:"passed"`
	Level                int       `json:"level"`
	NextReviewAt         time.Time `json:"next_review_at"`
	NextPrimaryDirection bool      `json:"next_primary_direction"`
	Archived             bool      `json:"archived"`
	Graduated            bool      `json:"graduated"`
	// Persisted is false for practice runs on archived decks.
	Persisted     bool    `json:"persisted"`
	SuggestedHard []int64 `json:"suggested_hard"`
}

// DeckConfig holds the deck-level review rules.
type DeckConfig struct {
	ExamPassAccuracy    int
	HardCardThreshold   float64
	ArchiveOnGraduation bool
}

// DeckService handles deck-related business logic
type DeckService interface {
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	Get(ctx context.Context, userID, deckID int64) (*models.DeckDetail, error)
	Create(ctx context.Context, userID int64, in DeckInput) (*models.Deck, error)
	ChangeSchedule(ctx context.Context, userID, deckID, scheduleID int64) (*models.Deck, error)
	Restart(ctx context.Context, userID, deckID int64) error
	Delete(ctx context.Context, userID, deckID int64) error
	SubmitReview(ctx context.Context, userID, deckID int64, sub ReviewSubmission) (*ReviewOutcome, error)
}

type deckService struct {
	decks     repository.DeckRepository
	schedules repository.ScheduleRepository
	ladder    *ladder.Ladder
	cfg       DeckConfig
	now       Clock
}

// NewDeckService creates a new DeckService. A nil clock uses the wall clock.
func NewDeckService(decks repository.DeckRepository, schedules repository.ScheduleRepository, l *ladder.Ladder, cfg DeckConfig, now Clock) DeckService {
	if l == nil {
		l = ladder.New()
	}
	if now == nil {
		now = utcNow
	}
	if cfg.HardCardThreshold <= 0 {
		cfg.HardCardThreshold = review.DefaultHardThreshold
	}
	if cfg.ExamPassAccuracy <= 0 {
		cfg.ExamPassAccuracy = review.DefaultExamPassAccuracy
	}
	return &deckService{decks: decks, schedules: schedules, ladder: l, cfg: cfg, now: now}
}

func (s *deckService) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks: user_id=%d", filter.UserID)

	decks, err := s.decks.List(ctx, filter)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) Get(ctx context.Context, userID, deckID int64) (*models.DeckDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck: id=%d, user_id=%d", deckID, userID)

	deck, err := s.decks.Get(ctx, userID, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	detail := &models.DeckDetail{Deck: *deck}

	if detail.Schedule, err = s.schedules.Get(ctx, deck.ScheduleID); err != nil {
		return nil, repoError(ctx, err, "schedule", deck.ScheduleID)
	}
	if detail.Cards, err = s.decks.Cards(ctx, deckID); err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	if detail.History, err = s.decks.History(ctx, deckID); err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	return detail, nil
}

func (s *deckService) defaultSchedule(ctx context.Context, userID int64) (int64, error) {
	schedules, err := s.schedules.List(ctx, userID)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	for _, sc := range schedules {
		if sc.IsSystemDefault {
			return sc.ID, nil
		}
	}
	return 0, errors.NewValidationError("schedule_id", "no default schedule available")
}

func (s *deckService) Create(ctx context.Context, userID int64, in DeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%d, cards=%d, reused=%d", userID, len(in.Cards), len(in.CardIDs))

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if len(in.Cards)+len(in.CardIDs) == 0 {
		return nil, errors.NewValidationError("cards", "a deck needs at least one card")
	}

	cards := make([]models.Card, 0, len(in.Cards))
	for i, c := range in.Cards {
		word, translation := strings.TrimSpace(c.OriginalWord), strings.TrimSpace(c.Translation)
		if word == "" || translation == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("cards[%d]", i), "word and translation are required")
		}
		cards = append(cards, models.Card{
			OriginalWord:       word,
			Translation:        translation,
			OriginalContext:    strings.TrimSpace(c.OriginalContext),
			TranslationContext: strings.TrimSpace(c.TranslationContext),
		})
	}

	scheduleID := in.ScheduleID
	if scheduleID == 0 {
		id, err := s.defaultSchedule(ctx, userID)
		if err != nil {
			return nil, err
		}
		scheduleID = id
	} else if _, err := visibleSchedule(ctx, s.schedules, userID, scheduleID); err != nil {
		return nil, err
	}

	deck := models.Deck{
		UserID:     userID,
		Name:       name,
		ScheduleID: scheduleID,
		DeckProgress: models.DeckProgress{
			NextReviewAt:         s.now(),
			NextPrimaryDirection: true,
		},
	}
	id, err := s.decks.Create(ctx, deck, cards, in.CardIDs)
	if err != nil {
		return nil, repoError(ctx, err, "card", in.CardIDs)
	}
	created, err := s.decks.Get(ctx, userID, id)
	if err != nil {
		return nil, repoError(ctx, err, "deck", id)
	}
	log.Info("deck created: id=%d, schedule_id=%d", id, scheduleID)
	return created, nil
}

func (s *deckService) ChangeSchedule(ctx context.Context, userID, deckID, scheduleID int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("changing deck schedule: id=%d, schedule_id=%d", deckID, scheduleID)

	deck, err := s.decks.Get(ctx, userID, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	sc, err := visibleSchedule(ctx, s.schedules, userID, scheduleID)
	if err != nil {
		return nil, err
	}

	level := deck.CurrentLevel
	if deck.Started() {
		if level, err = ladder.Remap(*sc, level); err != nil {
			return nil, scheduleError(err)
		}
	}
	if err := s.decks.SetSchedule(ctx, userID, deckID, scheduleID, level); err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	if level != deck.CurrentLevel {
		log.Info("deck %d re-mapped from level %d to %d", deckID, deck.CurrentLevel, level)
	}

	updated, err := s.decks.Get(ctx, userID, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	return updated, nil
}

func (s *deckService) Restart(ctx context.Context, userID, deckID int64) error {
	logger.FromContext(ctx).Debug("restarting deck: id=%d", deckID)
	if err := s.decks.Restart(ctx, userID, deckID, s.now()); err != nil {
		return repoError(ctx, err, "deck", deckID)
	}
	return nil
}

func (s *deckService) Delete(ctx context.Context, userID, deckID int64) error {
	logger.FromContext(ctx).Debug("deleting deck: id=%d", deckID)
	if err := s.decks.Delete(ctx, userID, deckID); err != nil {
		return repoError(ctx, err, "deck", deckID)
	}
	return nil
}

func validateStats(stats []models.CardSessionStat, cards []models.Card) error {
	if len(stats) == 0 {
		return errors.NewValidationError("cards", "no card results")
	}
	inDeck := make(map[int64]bool, len(cards))
	for _, c := range cards {
		inDeck[c.ID] = true
	}
	seen := make(map[int64]bool, len(stats))
	for _, st := range stats {
		field := fmt.Sprintf("cards[%d]", st.CardID)
		switch {
		case !inDeck[st.CardID]:
			return errors.NewValidationError(field, "not in deck")
		case seen[st.CardID]:
			return errors.NewValidationError(field, "reported twice")
		case st.Attempts < 0 || st.Fails < 0 || st.Fails > st.Attempts:
			return errors.NewValidationError(field, "fails must be between 0 and attempts")
		}
		seen[st.CardID] = true
	}
	return nil
}

func (s *deckService) SubmitReview(ctx context.Context, userID, deckID int64, sub ReviewSubmission) (*ReviewOutcome, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	log.Debug("submitting review: cards=%d", len(sub.Cards))

	deck, err := s.decks.Get(ctx, userID, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	cards, err := s.decks.Cards(ctx, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	if err := validateStats(sub.Cards, cards); err != nil {
		return nil, err
	}
	sc, err := s.schedules.Get(ctx, deck.ScheduleID)
	if err != nil {
		return nil, repoError(ctx, err, "schedule", deck.ScheduleID)
	}

	accuracy := review.Accuracy(sub.Cards)
	passed := accuracy >= s.cfg.ExamPassAccuracy
	out := &ReviewOutcome{
		Accuracy:      accuracy,
		Passed:        passed,
		SuggestedHard: review.SelectHard(sub.Cards, s.cfg.HardCardThreshold),
	}

	if deck.IsArchived {
		log.Info("practice run on archived deck, progress unchanged: accuracy=%d", accuracy)
		out.fill(deck.DeckProgress)
		return out, nil
	}

	now := s.now()
	progress, err := s.ladder.Advance(*sc, deck.DeckProgress, passed, now)
	if err != nil {
		log.Error("deck schedule is unusable: %v", err)
		return nil, errors.NewInternalError(err)
	}
	out.Graduated = ladder.Graduated(*sc, deck.DeckProgress, passed)
	if out.Graduated && s.cfg.ArchiveOnGraduation {
		progress.IsArchived = true
	}

	version := deck.Version
	if sub.Version != nil {
		version = *sub.Version
	}
	err = s.decks.RecordReview(ctx, models.ReviewRecord{
		UserID:          userID,
		DeckID:          deckID,
		ExpectedVersion: version,
		ReviewedAt:      now,
		Accuracy:        accuracy,
		Cards:           sub.Cards,
		Progress:        progress,
	})
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}

	out.fill(progress)
	out.Persisted = true
	log.Info("review recorded: accuracy=%d, passed=%t, level %d -> %d, archived=%t",
		accuracy, passed, deck.CurrentLevel, progress.CurrentLevel, progress.IsArchived)
	return out, nil
}

func (o *ReviewOutcome) fill(p models.DeckProgress) {
	o.Level = p.CurrentLevel
	o.NextReviewAt = p.NextReviewAt
	o.NextPrimaryDirection = p.NextPrimaryDirection
	o.Archived = p.IsArchived
}
