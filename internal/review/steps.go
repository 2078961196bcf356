package review

import (
	"fmt"

	"github.com/vytor/wordladder/internal/models"
)

// Direction selects which card field is the prompt and which is the answer.
type Direction int

const (
	OriginalToTranslation Direction = iota
	TranslationToOriginal
)

func (d Direction) String() string {
	switch d {
	case OriginalToTranslation:
		return "original_to_translation"
	case TranslationToOriginal:
		return "translation_to_original"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func (d Direction) valid() bool {
	return d == OriginalToTranslation || d == TranslationToOriginal
}

// Invert swaps prompt and answer fields.
func (d Direction) Invert() Direction {
	if d == OriginalToTranslation {
		return TranslationToOriginal
	}
	return OriginalToTranslation
}

// Fields returns the prompt text and the expected answer of c.
func (d Direction) Fields(c models.Card) (source, target string) {
	if d == TranslationToOriginal {
		return c.Translation, c.OriginalWord
	}
	return c.OriginalWord, c.Translation
}

// Context returns the example sentence belonging to the prompt side.
func (d Direction) Context(c models.Card) string {
	if d == TranslationToOriginal {
		return c.TranslationContext
	}
	return c.OriginalContext
}

// Step is one round of a review session.
type Step struct {
	ID          int       `json:"id"`
	Label       string    `json:"label"`
	Direction   Direction `json:"direction"`
	Placeholder string    `json:"placeholder"`
}

// DefaultSteps returns the reference sequence: four cycles of a forward and a
// backward round. Step 0 is the exam round.
func DefaultSteps() []Step {
	steps := make([]Step, 0, 8)
	for cycle := 0; cycle < 4; cycle++ {
		steps = append(steps,
			Step{
				ID:          cycle * 2,
				Label:       fmt.Sprintf("Round %d: translate", cycle*2+1),
				Direction:   OriginalToTranslation,
				Placeholder: "Type the translation...",
			},
			Step{
				ID:          cycle*2 + 1,
				Label:       fmt.Sprintf("Round %d: back", cycle*2+2),
				Direction:   TranslationToOriginal,
				Placeholder: "Type the original word...",
			},
		)
	}
	return steps
}

// ResolveStep applies the session direction to a base step. When primary is
// false the prompt and answer fields are swapped.
func ResolveStep(base Step, primary bool) Step {
	if primary {
		return base
	}
	base.Direction = base.Direction.Invert()
	return base
}

// ValidateSteps checks an externally supplied sequence.
func ValidateSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: empty sequence", ErrInvalidSteps)
	}
	seen := make(map[int]struct{}, len(steps))
	for i, s := range steps {
		if !s.Direction.valid() {
			return fmt.Errorf("%w: step %d has %s", ErrInvalidSteps, i, s.Direction)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate step id %d", ErrInvalidSteps, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
