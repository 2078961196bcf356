package review_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/review"
)

func TestDefaultSteps(t *testing.T) {
	steps := review.DefaultSteps()
	require.Len(t, steps, 8)
	require.NoError(t, review.ValidateSteps(steps))

	for i, s := range steps {
		assert.Equal(t, i, s.ID)
		if i%2 == 0 {
			assert.Equal(t, review.OriginalToTranslation, s.Direction, "step %d", i)
		} else {
			assert.Equal(t, review.TranslationToOriginal, s.Direction, "step %d", i)
		}
		assert.NotEmpty(t, s.Label)
	}
}

func TestResolveStep(t *testing.T) {
	base := review.Step{ID: 3, Label: "back", Direction: review.TranslationToOriginal}

	assert.Equal(t, base, review.ResolveStep(base, true))

	inverted := review.ResolveStep(base, false)
	assert.Equal(t, review.OriginalToTranslation, inverted.Direction)
	assert.Equal(t, base.ID, inverted.ID)
	assert.Equal(t, review.TranslationToOriginal, base.Direction, "base step is not modified")
}

func TestDirection_Fields(t *testing.T) {
	card := models.Card{OriginalWord: "cat", Translation: "кот", OriginalContext: "oc", TranslationContext: "tc"}

	src, dst := review.OriginalToTranslation.Fields(card)
	assert.Equal(t, "cat", src)
	assert.Equal(t, "кот", dst)
	assert.Equal(t, "oc", review.OriginalToTranslation.Context(card))

	src, dst = review.TranslationToOriginal.Fields(card)
	assert.Equal(t, "кот", src)
	assert.Equal(t, "cat", dst)
	assert.Equal(t, "tc", review.TranslationToOriginal.Context(card))

	assert.Equal(t, review.OriginalToTranslation, review.OriginalToTranslation.Invert().Invert())
}

func TestValidateSteps(t *testing.T) {
	tests := []struct {
		name  string
		steps []review.Step
	}{
		{name: "empty", steps: nil},
		{name: "duplicate id", steps: []review.Step{{ID: 1}, {ID: 1}}},
		{name: "unknown direction", steps: []review.Step{{ID: 0, Direction: review.Direction(7)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, review.ValidateSteps(tt.steps), review.ErrInvalidSteps)
		})
	}
}
