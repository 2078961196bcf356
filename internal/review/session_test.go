package review_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/review"
)

func testCards() []models.Card {
	return []models.Card{
		{ID: 1, OriginalWord: "cat", Translation: "кот", OriginalContext: "The cat sleeps."},
		{ID: 2, OriginalWord: "dog", Translation: "собака", TranslationContext: "Собака лает."},
	}
}

func newSession(t *testing.T, primary bool) *review.Session {
	t.Helper()
	s, err := review.NewSession(testCards(), nil, primary)
	require.NoError(t, err)
	return s
}

// answerStep answers every card correctly unless listed in wrong.
func answerStep(t *testing.T, s *review.Session, wrong ...int64) {
	t.Helper()
	bad := make(map[int64]bool, len(wrong))
	for _, id := range wrong {
		bad[id] = true
	}
	step := s.CurrentStep()
	for _, c := range testCards() {
		_, target := step.Direction.Fields(c)
		if bad[c.ID] {
			target = "nope"
		}
		require.NoError(t, s.RecordAnswer(c.ID, target))
	}
}

func TestNewSession_Validation(t *testing.T) {
	_, err := review.NewSession(nil, nil, true)
	assert.ErrorIs(t, err, review.ErrNoCards)

	dup := []models.Card{{ID: 1}, {ID: 1}}
	_, err = review.NewSession(dup, nil, true)
	assert.Error(t, err)

	_, err = review.NewSession(testCards(), []review.Step{}, true)
	assert.ErrorIs(t, err, review.ErrInvalidSteps)
}

func TestSession_ExamThenFinishEarly(t *testing.T) {
	s := newSession(t, true)

	require.NoError(t, s.RecordAnswer(1, "кот"))
	require.NoError(t, s.RecordAnswer(2, "собака"))

	results, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, results)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, s.ExamResults())

	require.NoError(t, s.FinishEarly())
	assert.Equal(t, review.Finished, s.Phase())

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, []models.CardSessionStat{
		{CardID: 1, IsCorrect: true, Attempts: 1, Fails: 0},
		{CardID: 2, IsCorrect: true, Attempts: 1, Fails: 0},
	}, stats)
}

func TestSession_WrongExamAnswer(t *testing.T) {
	s := newSession(t, true)

	require.NoError(t, s.RecordAnswer(1, "dog"))
	results, err := s.Check()
	require.NoError(t, err)

	assert.False(t, results[1])
	assert.False(t, results[2], "missing answer is wrong")
	assert.Equal(t, map[int64]bool{1: false, 2: false}, s.ExamResults())
}

func TestSession_ExamSnapshotIsImmutable(t *testing.T) {
	s := newSession(t, true)

	answerStep(t, s, 2)
	_, err := s.Check()
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	// Flip outcomes in later rounds.
	answerStep(t, s, 1)
	_, err = s.Check()
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	answerStep(t, s)
	_, err = s.Check()
	require.NoError(t, err)

	assert.Equal(t, map[int64]bool{1: true, 2: false}, s.ExamResults())

	require.NoError(t, s.FinishEarly())
	stats, err := s.Stats()
	require.NoError(t, err)
	assert.True(t, stats[0].IsCorrect)
	assert.False(t, stats[1].IsCorrect)
}

func TestSession_FullRunAccumulatesCounters(t *testing.T) {
	s := newSession(t, true)
	wrongAt := map[int][]int64{
		0: {1},
		3: {1, 2},
		7: {2},
	}

	for i := 0; i < s.StepCount(); i++ {
		assert.Equal(t, i, s.StepIndex())
		answerStep(t, s, wrongAt[i]...)
		_, err := s.Check()
		require.NoError(t, err)
		require.NoError(t, s.Advance())
	}

	assert.Equal(t, review.Finished, s.Phase())
	stats, err := s.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, models.CardSessionStat{CardID: 1, IsCorrect: false, Attempts: 8, Fails: 2}, stats[0])
	assert.Equal(t, models.CardSessionStat{CardID: 2, IsCorrect: true, Attempts: 8, Fails: 2}, stats[1])
}

func TestSession_InvertedDirection(t *testing.T) {
	s := newSession(t, false)

	step := s.CurrentStep()
	assert.Equal(t, review.TranslationToOriginal, step.Direction)

	prompts := s.Prompts()
	require.Len(t, prompts, 2)
	assert.Equal(t, "кот", prompts[0].Source)
	assert.Equal(t, "Собака лает.", prompts[1].Context)

	require.NoError(t, s.RecordAnswer(1, "Cat"))
	require.NoError(t, s.RecordAnswer(2, "кот"))
	results, err := s.Check()
	require.NoError(t, err)
	assert.True(t, results[1])
	assert.False(t, results[2])
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := newSession(t, true)

	err := s.Advance()
	assert.ErrorIs(t, err, review.ErrInvalidState)

	_, err = s.Stats()
	assert.ErrorIs(t, err, review.ErrInvalidState)

	_, err = s.Check()
	require.NoError(t, err)

	_, err = s.Check()
	assert.ErrorIs(t, err, review.ErrInvalidState, "check twice without advance")

	err = s.RecordAnswer(1, "кот")
	var stateErr *review.StateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, review.Checked, stateErr.Phase)
	assert.Equal(t, "record answer", stateErr.Op)

	require.NoError(t, s.FinishEarly())
	assert.ErrorIs(t, s.RecordAnswer(1, "кот"), review.ErrInvalidState)
	assert.ErrorIs(t, s.FinishEarly(), review.ErrInvalidState)
	assert.ErrorIs(t, s.Advance(), review.ErrInvalidState)
}

func TestSession_FinishEarlyBeforeExam(t *testing.T) {
	s := newSession(t, true)
	require.NoError(t, s.RecordAnswer(1, "кот"))

	err := s.FinishEarly()
	assert.ErrorIs(t, err, review.ErrExamNotTaken)
	assert.Equal(t, review.AwaitingInput, s.Phase(), "rejected finish leaves state untouched")
	assert.False(t, s.ExamTaken())

	_, err = s.Check()
	require.NoError(t, err)
	assert.True(t, s.ExamTaken())
}

func TestSession_FinishEarlyMidStep(t *testing.T) {
	s := newSession(t, true)
	answerStep(t, s)
	_, err := s.Check()
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	// Answers typed but not checked in step 1 do not count.
	answerStep(t, s, 1, 2)
	require.NoError(t, s.FinishEarly())

	stats, err := s.Stats()
	require.NoError(t, err)
	for _, st := range stats {
		assert.Equal(t, 1, st.Attempts)
		assert.Equal(t, 0, st.Fails)
	}
}

func TestSession_UnknownCard(t *testing.T) {
	s := newSession(t, true)
	assert.ErrorIs(t, s.RecordAnswer(99, "x"), review.ErrUnknownCard)
}

func TestSession_RecordAnswersIsAllOrNothing(t *testing.T) {
	s := newSession(t, true)

	err := s.RecordAnswers(map[int64]string{1: "кот", 2: "собака", 99: "x"})
	assert.ErrorIs(t, err, review.ErrUnknownCard)
	for _, p := range s.Prompts() {
		assert.Empty(t, p.Answer, "card %d", p.CardID)
	}

	require.NoError(t, s.RecordAnswers(map[int64]string{1: "кот", 2: "собака"}))
	results, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, results)

	assert.ErrorIs(t, s.RecordAnswers(map[int64]string{1: "кот"}), review.ErrInvalidState)
}

func TestSession_Progress(t *testing.T) {
	s := newSession(t, true)
	assert.Equal(t, 0, s.Progress())

	_, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, 12, s.Progress())

	require.NoError(t, s.Advance())
	assert.Equal(t, 12, s.Progress())
	assert.Nil(t, s.Results())
}

func TestSession_AnswersKeptPerStep(t *testing.T) {
	s := newSession(t, true)
	require.NoError(t, s.RecordAnswer(1, "first"))
	require.NoError(t, s.RecordAnswer(1, "кот"))
	assert.Equal(t, "кот", s.Prompts()[0].Answer)

	_, err := s.Check()
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	assert.Empty(t, s.Prompts()[0].Answer, "new step starts blank")
}
