package review_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/review"
)

func TestSelectHard_ThresholdBoundary(t *testing.T) {
	stats := []models.CardSessionStat{
		{CardID: 1, Attempts: 2, Fails: 1},
		{CardID: 2, Attempts: 3, Fails: 1},
		{CardID: 3, Attempts: 0, Fails: 0},
		{CardID: 4, Attempts: 8, Fails: 8},
		{CardID: 5, Attempts: 8, Fails: 0},
	}

	assert.Equal(t, []int64{1, 4}, review.SelectHard(stats, review.DefaultHardThreshold))
}

func TestSelectHard_CustomThreshold(t *testing.T) {
	stats := []models.CardSessionStat{
		{CardID: 1, Attempts: 2, Fails: 1},
		{CardID: 2, Attempts: 3, Fails: 1},
	}

	assert.Equal(t, []int64{1, 2}, review.SelectHard(stats, 0.3))
	assert.Empty(t, review.SelectHard(stats, 0.9))
}

func TestSelectHard_ZeroAttemptsNeverSelected(t *testing.T) {
	stats := []models.CardSessionStat{{CardID: 1, Attempts: 0, Fails: 3}}
	assert.Empty(t, review.SelectHard(stats, 0))
}

func TestSelectHard_Dedup(t *testing.T) {
	stats := []models.CardSessionStat{
		{CardID: 7, Attempts: 1, Fails: 1},
		{CardID: 7, Attempts: 1, Fails: 1},
	}
	assert.Equal(t, []int64{7}, review.SelectHard(stats, review.DefaultHardThreshold))
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0, review.Accuracy(nil))
	assert.Equal(t, 100, review.Accuracy([]models.CardSessionStat{{IsCorrect: true}, {IsCorrect: true}}))
	assert.Equal(t, 33, review.Accuracy([]models.CardSessionStat{{IsCorrect: true}, {}, {}}))
	assert.Equal(t, 66, review.Accuracy([]models.CardSessionStat{{IsCorrect: true}, {IsCorrect: true}, {}}))
}
