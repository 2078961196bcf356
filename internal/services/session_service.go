package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/repository"
	"github.com/vytor/wordladder/internal/review"
)

// SessionView is the client-facing snapshot of a live review session.
type SessionView struct {
	ID          string          `json:"id"`
	DeckID      int64           `json:"deck_id"`
	Phase       string          `json:"phase"`
	Step        int             `json:"step"`
	StepCount   int             `json:"step_count"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder"`
	Direction   string          `json:"direction"`
	Progress    int             `json:"progress"`
	ExamTaken   bool            `json:"exam_taken"`
	Prompts     []review.Prompt `json:"prompts,omitempty"`
	Results     map[int64]bool  `json:"results,omitempty"`
	Outcome     *ReviewOutcome  `json:"outcome,omitempty"`
}

// SessionService keeps review sessions in memory between requests and
// submits them to the deck once finished.
type SessionService interface {
	Start(ctx context.Context, userID, deckID int64) (*SessionView, error)
	View(ctx context.Context, userID int64, sessionID string) (*SessionView, error)
	Answer(ctx context.Context, userID int64, sessionID string, answers map[int64]string) (*SessionView, error)
	Check(ctx context.Context, userID int64, sessionID string) (*SessionView, error)
	Advance(ctx context.Context, userID int64, sessionID string) (*SessionView, error)
	FinishEarly(ctx context.Context, userID int64, sessionID string) (*SessionView, error)
	// Expire drops sessions idle for longer than the TTL and returns how many.
	Expire(ctx context.Context) int
	Active() int
}

type liveSession struct {
	mu      sync.Mutex
	id      string
	userID  int64
	deckID  int64
	version int64
	engine  *review.Session
	touched time.Time
}

type sessionService struct {
	decks    repository.DeckRepository
	reviews  DeckService
	steps    []review.Step
	ttl      time.Duration
	now      Clock
	mu       sync.Mutex
	sessions map[string]*liveSession
}

// NewSessionService creates a new SessionService. Nil steps select the
// default eight-round sequence.
func NewSessionService(decks repository.DeckRepository, reviews DeckService, steps []review.Step, ttl time.Duration, now Clock) SessionService {
	if now == nil {
		now = utcNow
	}
	return &sessionService{
		decks:    decks,
		reviews:  reviews,
		steps:    steps,
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*liveSession),
	}
}

func (s *sessionService) Start(ctx context.Context, userID, deckID int64) (*SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%d, deck_id=%d", userID, deckID)

	deck, err := s.decks.Get(ctx, userID, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	cards, err := s.decks.Cards(ctx, deckID)
	if err != nil {
		return nil, repoError(ctx, err, "deck", deckID)
	}
	engine, err := review.NewSession(cards, s.steps, deck.NextPrimaryDirection)
	if err != nil {
		return nil, reviewError(err)
	}

	ls := &liveSession{
		id:      uuid.NewString(),
		userID:  userID,
		deckID:  deckID,
		version: deck.Version,
		engine:  engine,
		touched: s.now(),
	}
	s.mu.Lock()
	s.sessions[ls.id] = ls
	s.mu.Unlock()

	log.Info("session started: id=%s, deck_id=%d, cards=%d, primary=%t", ls.id, deckID, len(cards), deck.NextPrimaryDirection)
	return s.view(ls, nil), nil
}

// acquire returns the session locked. Sessions of other users are reported
// as missing.
func (s *sessionService) acquire(userID int64, id string) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok || ls.userID != userID {
		return nil, errors.NewNotFoundError("session", id)
	}
	ls.mu.Lock()
	ls.touched = s.now()
	return ls, nil
}

func (s *sessionService) discard(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *sessionService) view(ls *liveSession, outcome *ReviewOutcome) *SessionView {
	e := ls.engine
	v := &SessionView{
		ID:        ls.id,
		DeckID:    ls.deckID,
		Phase:     e.Phase().String(),
		Step:      e.StepIndex(),
		StepCount: e.StepCount(),
		Progress:  e.Progress(),
		ExamTaken: e.ExamTaken(),
		Outcome:   outcome,
	}
	if e.Phase() == review.Finished {
		return v
	}
	step := e.CurrentStep()
	v.Label = step.Label
	v.Placeholder = step.Placeholder
	v.Direction = step.Direction.String()
	v.Prompts = e.Prompts()
	if e.Phase() == review.Checked {
		v.Results = e.Results()
	}
	return v
}

func (s *sessionService) View(ctx context.Context, userID int64, sessionID string) (*SessionView, error) {
	ls, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()
	return s.view(ls, nil), nil
}

func (s *sessionService) Answer(ctx context.Context, userID int64, sessionID string, answers map[int64]string) (*SessionView, error) {
	ls, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()

	if err := ls.engine.RecordAnswers(answers); err != nil {
		return nil, reviewError(err)
	}
	return s.view(ls, nil), nil
}

func (s *sessionService) Check(ctx context.Context, userID int64, sessionID string) (*SessionView, error) {
	ls, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()

	results, err := ls.engine.Check()
	if err != nil {
		return nil, reviewError(err)
	}
	correct := 0
	for _, ok := range results {
		if ok {
			correct++
		}
	}
	logger.FromContext(ctx).Debug("session %s step %d checked: %d/%d correct", ls.id, ls.engine.StepIndex(), correct, len(results))
	return s.view(ls, nil), nil
}

func (s *sessionService) Advance(ctx context.Context, userID int64, sessionID string) (*SessionView, error) {
	ls, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()

	if err := ls.engine.Advance(); err != nil {
		return nil, reviewError(err)
	}
	if ls.engine.Phase() == review.Finished {
		return s.submit(ctx, ls)
	}
	return s.view(ls, nil), nil
}

func (s *sessionService) FinishEarly(ctx context.Context, userID int64, sessionID string) (*SessionView, error) {
	ls, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()

	if err := ls.engine.FinishEarly(); err != nil {
		return nil, reviewError(err)
	}
	return s.submit(ctx, ls)
}

// submit hands a finished session to the deck and forgets it either way.
func (s *sessionService) submit(ctx context.Context, ls *liveSession) (*SessionView, error) {
	defer s.discard(ls.id)

	stats, err := ls.engine.Stats()
	if err != nil {
		return nil, reviewError(err)
	}
	version := ls.version
	outcome, err := s.reviews.SubmitReview(ctx, ls.userID, ls.deckID, ReviewSubmission{Version: &version, Cards: stats})
	if err != nil {
		logger.FromContext(ctx).Warn("session %s finished but review was not recorded: %v", ls.id, err)
		return nil, err
	}
	logger.FromContext(ctx).Info("session finished: id=%s, deck_id=%d, accuracy=%d", ls.id, ls.deckID, outcome.Accuracy)
	return s.view(ls, outcome), nil
}

func (s *sessionService) Expire(ctx context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	expired := 0
	for id, ls := range s.sessions {
		if !ls.mu.TryLock() {
			continue
		}
		idle := ls.touched.Before(cutoff)
		ls.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		logger.FromContext(ctx).Info("expired %d idle sessions", expired)
	}
	return expired
}

func (s *sessionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
