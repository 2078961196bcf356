package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
	"github.com/vytor/wordladder/internal/repository/sqlite"
	"github.com/vytor/wordladder/internal/testutil"
)

const testUser int64 = 42

type DeckRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	repo  repository.DeckRepository
	cards repository.CardRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func newCards() []models.Card {
	return []models.Card{
		{OriginalWord: "Hund", Translation: "dog", OriginalContext: "Der Hund bellt."},
		{OriginalWord: "Katze", Translation: "cat"},
	}
}

func (s *DeckRepositorySuite) createDeck(name string, due time.Time) int64 {
	id, err := s.repo.Create(context.Background(), models.Deck{
		UserID:     testUser,
		Name:       name,
		ScheduleID: testutil.DefaultScheduleID,
		DeckProgress: models.DeckProgress{
			NextReviewAt:         due,
			NextPrimaryDirection: true,
		},
	}, newCards(), nil)
	s.Require().NoError(err)
	return id
}

func (s *DeckRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()
	id := s.createDeck("Animals", time.Now())

	d, err := s.repo.Get(ctx, testUser, id)
	s.Require().NoError(err)
	s.Equal("Animals", d.Name)
	s.Equal(2, d.CardsCount)
	s.Equal(0, d.CurrentLevel)
	s.True(d.NextPrimaryDirection)
	s.False(d.Started())

	cards, err := s.repo.Cards(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Equal("Hund", cards[0].OriginalWord)
	s.Equal("Der Hund bellt.", cards[0].OriginalContext)
	s.Equal(testUser, cards[0].UserID)
}

func (s *DeckRepositorySuite) TestGetOtherUserIsNotFound() {
	id := s.createDeck("Animals", time.Now())

	_, err := s.repo.Get(context.Background(), testUser+1, id)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *DeckRepositorySuite) TestCreateReusesExistingCards() {
	ctx := context.Background()
	first := s.createDeck("Animals", time.Now())
	cards, err := s.repo.Cards(ctx, first)
	s.Require().NoError(err)

	id, err := s.repo.Create(ctx, models.Deck{
		UserID:       testUser,
		Name:         "Again",
		ScheduleID:   testutil.DefaultScheduleID,
		DeckProgress: models.DeckProgress{NextReviewAt: time.Now()},
	}, nil, []int64{cards[0].ID})
	s.Require().NoError(err)

	got, err := s.repo.Cards(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(cards[0].ID, got[0].ID)
}

func (s *DeckRepositorySuite) TestCreateRejectsForeignCard() {
	_, err := s.repo.Create(context.Background(), models.Deck{
		UserID:       testUser,
		Name:         "Bad",
		ScheduleID:   testutil.DefaultScheduleID,
		DeckProgress: models.DeckProgress{NextReviewAt: time.Now()},
	}, nil, []int64{12345})
	s.ErrorIs(err, repository.ErrNotFound)

	decks, err := s.repo.List(context.Background(), models.DeckFilter{UserID: testUser})
	s.Require().NoError(err)
	s.Empty(decks, "failed create rolls back the deck row")
}

func (s *DeckRepositorySuite) TestListFilters() {
	ctx := context.Background()
	now := time.Now().UTC()
	due := s.createDeck("Due", now.Add(-time.Hour))
	s.createDeck("Later", now.Add(24*time.Hour))

	all, err := s.repo.List(ctx, models.DeckFilter{UserID: testUser})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(due, all[0].ID, "ordered by due date")

	dueOnly, err := s.repo.List(ctx, models.DeckFilter{UserID: testUser, DueBefore: &now})
	s.Require().NoError(err)
	s.Require().Len(dueOnly, 1)
	s.Equal("Due", dueOnly[0].Name)

	archived := true
	none, err := s.repo.List(ctx, models.DeckFilter{UserID: testUser, Archived: &archived})
	s.Require().NoError(err)
	s.Empty(none)

	paged, err := s.repo.List(ctx, models.DeckFilter{UserID: testUser, Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(paged, 1)
	s.Equal("Later", paged[0].Name)
}

func (s *DeckRepositorySuite) review(id, version int64, level int) error {
	ctx := context.Background()
	cards, err := s.repo.Cards(ctx, id)
	s.Require().NoError(err)

	stats := make([]models.CardSessionStat, len(cards))
	for i, c := range cards {
		stats[i] = models.CardSessionStat{CardID: c.ID, IsCorrect: true, Attempts: 4, Fails: 1}
	}
	return s.repo.RecordReview(ctx, models.ReviewRecord{
		UserID:          testUser,
		DeckID:          id,
		ExpectedVersion: version,
		ReviewedAt:      time.Now(),
		Accuracy:        100,
		Cards:           stats,
		Progress: models.DeckProgress{
			CurrentLevel:         level,
			NextReviewAt:         time.Now().Add(20 * time.Minute),
			NextPrimaryDirection: false,
		},
	})
}

func (s *DeckRepositorySuite) TestRecordReview() {
	ctx := context.Background()
	id := s.createDeck("Animals", time.Now())

	s.Require().NoError(s.review(id, 0, 1))

	d, err := s.repo.Get(ctx, testUser, id)
	s.Require().NoError(err)
	s.Equal(1, d.CurrentLevel)
	s.Equal(int64(1), d.Version)
	s.False(d.NextPrimaryDirection)
	s.True(d.Started())

	history, err := s.repo.History(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(100, history[0].Accuracy)

	var rows int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_history WHERE deck_id = ?`, id).Scan(&rows))
	s.Equal(2, rows)
}

func (s *DeckRepositorySuite) TestRecordReviewStaleVersion() {
	ctx := context.Background()
	id := s.createDeck("Animals", time.Now())

	s.Require().NoError(s.review(id, 0, 1))
	err := s.review(id, 0, 2)
	s.ErrorIs(err, repository.ErrStaleProgress)

	d, err := s.repo.Get(ctx, testUser, id)
	s.Require().NoError(err)
	s.Equal(1, d.CurrentLevel, "stale write leaves progress untouched")

	history, err := s.repo.History(ctx, id)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *DeckRepositorySuite) TestRecordReviewMissingDeck() {
	err := s.repo.RecordReview(context.Background(), models.ReviewRecord{UserID: testUser, DeckID: 999})
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *DeckRepositorySuite) TestRestart() {
	ctx := context.Background()
	id := s.createDeck("Animals", time.Now())
	s.Require().NoError(s.review(id, 0, 3))

	restartedAt := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Restart(ctx, testUser, id, restartedAt))

	d, err := s.repo.Get(ctx, testUser, id)
	s.Require().NoError(err)
	s.Equal(0, d.CurrentLevel)
	s.True(d.NextReviewAt.Equal(restartedAt), "due at the given time, got %s", d.NextReviewAt)
	s.False(d.IsArchived)
	s.True(d.NextPrimaryDirection)

	history, err := s.repo.History(ctx, id)
	s.Require().NoError(err)
	s.Empty(history)

	s.ErrorIs(s.repo.Restart(ctx, testUser+1, id, restartedAt), repository.ErrNotFound)
}

func (s *DeckRepositorySuite) TestSetSchedule() {
	ctx := context.Background()
	id := s.createDeck("Animals", time.Now())

	s.Require().NoError(s.repo.SetSchedule(ctx, testUser, id, testutil.DefaultScheduleID, 2))
	d, err := s.repo.Get(ctx, testUser, id)
	s.Require().NoError(err)
	s.Equal(2, d.CurrentLevel)

	s.ErrorIs(s.repo.SetSchedule(ctx, testUser, 999, testutil.DefaultScheduleID, 0), repository.ErrNotFound)
}

func (s *DeckRepositorySuite) TestDeleteLeavesOrphanCards() {
	ctx := context.Background()
	id := s.createDeck("Animals", time.Now())

	s.Require().NoError(s.repo.Delete(ctx, testUser, id))
	s.ErrorIs(s.repo.Delete(ctx, testUser, id), repository.ErrNotFound)

	var cards int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&cards))
	s.Equal(2, cards)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
