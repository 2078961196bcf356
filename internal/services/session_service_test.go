package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordladder/internal/ladder"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/review"
	"github.com/vytor/wordladder/internal/services"
	"github.com/vytor/wordladder/internal/testutil/mocks"
)

type sessionFixture struct {
	decks     *mocks.MockDeckRepository
	schedules *mocks.MockScheduleRepository
	svc       services.SessionService
	now       time.Time
}

func newSessionFixture(t *testing.T, steps []review.Step) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		decks:     new(mocks.MockDeckRepository),
		schedules: new(mocks.MockScheduleRepository),
		now:       fixedNow,
	}
	clk := func() time.Time { return f.now }
	deckSvc := services.NewDeckService(f.decks, f.schedules, ladder.New(), defaultDeckConfig(), clk)
	f.svc = services.NewSessionService(f.decks, deckSvc, steps, time.Hour, clk)

	f.decks.On("Get", mock.Anything, userID, int64(5)).Return(newDeck(0, false), nil)
	f.decks.On("Cards", mock.Anything, int64(5)).Return(deckCards()[:2], nil)
	return f
}

func twoSteps() []review.Step {
	return []review.Step{
		{ID: 1, Label: "forward", Direction: review.OriginalToTranslation},
		{ID: 2, Label: "back", Direction: review.TranslationToOriginal},
	}
}

func TestSession_FullRunSubmitsReview(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, twoSteps())
	f.schedules.On("Get", mock.Anything, int64(1)).Return(standardSchedule(), nil)
	f.decks.On("RecordReview", mock.Anything, mock.MatchedBy(func(rec models.ReviewRecord) bool {
		return rec.ExpectedVersion == 3 &&
			rec.Accuracy == 50 &&
			len(rec.Cards) == 2 &&
			rec.Cards[0].IsCorrect && rec.Cards[0].Attempts == 2 && rec.Cards[0].Fails == 0 &&
			!rec.Cards[1].IsCorrect && rec.Cards[1].Attempts == 2 && rec.Cards[1].Fails == 1
	})).Return(nil)

	view, err := f.svc.Start(ctx, userID, 5)
	require.NoError(t, err)
	assert.Equal(t, "awaiting_input", view.Phase)
	require.Len(t, view.Prompts, 2)
	assert.Equal(t, "Hund", view.Prompts[0].Source)
	assert.Equal(t, 1, f.svc.Active())

	// Exam round: second card wrong.
	_, err = f.svc.Answer(ctx, userID, view.ID, map[int64]string{10: "Dog.", 11: "dog"})
	require.NoError(t, err)
	checked, err := f.svc.Check(ctx, userID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{10: true, 11: false}, checked.Results)
	assert.True(t, checked.ExamTaken)

	next, err := f.svc.Advance(ctx, userID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Step)
	assert.Equal(t, "dog", next.Prompts[0].Source)

	_, err = f.svc.Answer(ctx, userID, view.ID, map[int64]string{10: "hund", 11: "Katze"})
	require.NoError(t, err)
	_, err = f.svc.Check(ctx, userID, view.ID)
	require.NoError(t, err)

	done, err := f.svc.Advance(ctx, userID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "finished", done.Phase)
	require.NotNil(t, done.Outcome)
	assert.Equal(t, 50, done.Outcome.Accuracy)
	assert.False(t, done.Outcome.Passed)
	assert.Equal(t, 0, f.svc.Active())
	f.decks.AssertExpectations(t)
}

func TestSession_FinishEarlyNeedsExam(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, nil)
	f.schedules.On("Get", mock.Anything, int64(1)).Return(standardSchedule(), nil)
	f.decks.On("RecordReview", mock.Anything, mock.Anything).Return(nil)

	view, err := f.svc.Start(ctx, userID, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, view.StepCount)

	_, err = f.svc.FinishEarly(ctx, userID, view.ID)
	assertStatus(t, err, http.StatusConflict)

	_, err = f.svc.Answer(ctx, userID, view.ID, map[int64]string{10: "dog", 11: "cat"})
	require.NoError(t, err)
	_, err = f.svc.Check(ctx, userID, view.ID)
	require.NoError(t, err)

	done, err := f.svc.FinishEarly(ctx, userID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, done.Outcome.Accuracy)
	assert.Equal(t, 1, done.Outcome.Level)

	_, err = f.svc.View(ctx, userID, view.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestSession_OutOfOrderCalls(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, twoSteps())

	view, err := f.svc.Start(ctx, userID, 5)
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, userID, view.ID)
	assertStatus(t, err, http.StatusConflict)

	_, err = f.svc.Answer(ctx, userID, view.ID, map[int64]string{99: "x"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Check(ctx, userID, view.ID)
	require.NoError(t, err)
	_, err = f.svc.Check(ctx, userID, view.ID)
	assertStatus(t, err, http.StatusConflict)
}

func TestSession_AnswerWithUnknownCardRecordsNothing(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, twoSteps())

	view, err := f.svc.Start(ctx, userID, 5)
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, userID, view.ID, map[int64]string{10: "dog", 11: "cat", 99: "x"})
	assertStatus(t, err, http.StatusBadRequest)

	current, err := f.svc.View(ctx, userID, view.ID)
	require.NoError(t, err)
	for _, p := range current.Prompts {
		assert.Empty(t, p.Answer, "card %d", p.CardID)
	}
}

func TestSession_OtherUserCannotSeeSession(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, twoSteps())

	view, err := f.svc.Start(ctx, userID, 5)
	require.NoError(t, err)

	_, err = f.svc.View(ctx, userID+1, view.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestSession_Expire(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, twoSteps())

	view, err := f.svc.Start(ctx, userID, 5)
	require.NoError(t, err)

	f.now = fixedNow.Add(30 * time.Minute)
	assert.Zero(t, f.svc.Expire(ctx))

	f.now = fixedNow.Add(2 * time.Hour)
	assert.Equal(t, 1, f.svc.Expire(ctx))

	_, err = f.svc.View(ctx, userID, view.ID)
	assertStatus(t, err, http.StatusNotFound)
}
