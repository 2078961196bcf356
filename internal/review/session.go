package review

import (
	"fmt"

	"github.com/vytor/wordladder/internal/models"
)

// Phase is the state of a Session.
type Phase int

const (
	AwaitingInput Phase = iota
	Checked
	Finished
)

func (p Phase) String() string {
	switch p {
	case AwaitingInput:
		return "awaiting_input"
	case Checked:
		return "checked"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type tally struct {
	attempts int
	fails    int
}

// Prompt is what the learner sees for one card in the current step.
type Prompt struct {
	CardID  int64  `json:"card_id"`
	Source  string `json:"source"`
	Context string `json:"context,omitempty"`
	Answer  string `json:"answer,omitempty"`
}

// Session drives one multi-round review over a fixed set of cards.
//
// The zero value is not usable; create sessions with NewSession. A Session is
// not safe for concurrent use.
type Session struct {
	cards   []models.Card
	index   map[int64]int
	steps   []Step
	primary bool

	phase   Phase
	step    int
	answers map[int64]map[int]string
	results map[int64]bool
	exam    map[int64]bool
	tallies map[int64]*tally
	stats   []models.CardSessionStat
}

// NewSession starts a session in AwaitingInput(0). A nil steps slice selects
// DefaultSteps.
func NewSession(cards []models.Card, steps []Step, primary bool) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	if steps == nil {
		steps = DefaultSteps()
	}
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	s := &Session{
		cards:   append([]models.Card(nil), cards...),
		index:   make(map[int64]int, len(cards)),
		steps:   append([]Step(nil), steps...),
		primary: primary,
		answers: make(map[int64]map[int]string, len(cards)),
		tallies: make(map[int64]*tally, len(cards)),
	}
	for i, c := range s.cards {
		if _, dup := s.index[c.ID]; dup {
			return nil, fmt.Errorf("review: duplicate card %d in session", c.ID)
		}
		s.index[c.ID] = i
		s.tallies[c.ID] = &tally{}
	}
	return s, nil
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) StepIndex() int { return s.step }

func (s *Session) StepCount() int { return len(s.steps) }

// PrimaryDirection reports the direction the session was started with.
func (s *Session) PrimaryDirection() bool { return s.primary }

// CurrentStep returns the active step with the session direction applied.
func (s *Session) CurrentStep() Step {
	return ResolveStep(s.steps[s.step], s.primary)
}

// ExamTaken reports whether the exam round has been checked.
func (s *Session) ExamTaken() bool { return s.exam != nil }

// Progress is the share of steps completed, in percent.
func (s *Session) Progress() int {
	done := s.step
	if s.phase != AwaitingInput {
		done++
	}
	return done * 100 / len(s.steps)
}

// Prompts lists the prompt side of every card for the current step, with the
// answer recorded so far.
func (s *Session) Prompts() []Prompt {
	step := s.CurrentStep()
	out := make([]Prompt, 0, len(s.cards))
	for _, c := range s.cards {
		source, _ := step.Direction.Fields(c)
		out = append(out, Prompt{
			CardID:  c.ID,
			Source:  source,
			Context: step.Direction.Context(c),
			Answer:  s.answers[c.ID][step.ID],
		})
	}
	return out
}

// RecordAnswer stores raw text for a card in the current step.
func (s *Session) RecordAnswer(cardID int64, text string) error {
	if s.phase != AwaitingInput {
		return s.stateError("record answer")
	}
	if _, ok := s.index[cardID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCard, cardID)
	}
	byStep, ok := s.answers[cardID]
	if !ok {
		byStep = make(map[int]string, len(s.steps))
		s.answers[cardID] = byStep
	}
	byStep[s.steps[s.step].ID] = text
	return nil
}

// RecordAnswers stores a batch of answers for the current step. Nothing is
// stored unless every card id belongs to the session.
func (s *Session) RecordAnswers(answers map[int64]string) error {
	if s.phase != AwaitingInput {
		return s.stateError("record answer")
	}
	for cardID := range answers {
		if _, ok := s.index[cardID]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownCard, cardID)
		}
	}
	for cardID, text := range answers {
		if err := s.RecordAnswer(cardID, text); err != nil {
			return err
		}
	}
	return nil
}

// Check grades every card for the current step and moves to Checked. The
// first check also fixes the exam results.
func (s *Session) Check() (map[int64]bool, error) {
	if s.phase != AwaitingInput {
		return nil, s.stateError("check")
	}
	step := s.CurrentStep()
	results := make(map[int64]bool, len(s.cards))
	for _, c := range s.cards {
		_, expected := step.Direction.Fields(c)
		ok := Match(s.answers[c.ID][step.ID], expected)
		results[c.ID] = ok

		t := s.tallies[c.ID]
		t.attempts++
		if !ok {
			t.fails++
		}
	}
	s.results = results
	if s.step == 0 && s.exam == nil {
		s.exam = make(map[int64]bool, len(results))
		for id, ok := range results {
			s.exam[id] = ok
		}
	}
	s.phase = Checked
	return copyResults(results), nil
}

// Results returns the verdicts of the last check.
func (s *Session) Results() map[int64]bool {
	return copyResults(s.results)
}

// ExamResults returns the exam round verdicts, or nil before the exam check.
func (s *Session) ExamResults() map[int64]bool {
	return copyResults(s.exam)
}

// Advance leaves Checked. After the last step the session finishes.
func (s *Session) Advance() error {
	if s.phase != Checked {
		return s.stateError("advance")
	}
	if s.step == len(s.steps)-1 {
		s.finish()
		return nil
	}
	s.step++
	s.results = nil
	s.phase = AwaitingInput
	return nil
}

// FinishEarly ends the session with the counters accumulated so far. It is
// rejected with ErrExamNotTaken until the exam round has been checked.
func (s *Session) FinishEarly() error {
	if s.phase == Finished {
		return s.stateError("finish early")
	}
	if s.exam == nil {
		return ErrExamNotTaken
	}
	s.finish()
	return nil
}

// Stats returns one record per card once the session is finished.
func (s *Session) Stats() ([]models.CardSessionStat, error) {
	if s.phase != Finished {
		return nil, s.stateError("stats")
	}
	return append([]models.CardSessionStat(nil), s.stats...), nil
}

func (s *Session) finish() {
	stats := make([]models.CardSessionStat, 0, len(s.cards))
	for _, c := range s.cards {
		t := s.tallies[c.ID]
		stats = append(stats, models.CardSessionStat{
			CardID:    c.ID,
			IsCorrect: s.exam[c.ID],
			Attempts:  t.attempts,
			Fails:     t.fails,
		})
	}
	s.stats = stats
	s.phase = Finished
}

func (s *Session) stateError(op string) error {
	return &StateError{Op: op, Phase: s.phase, Step: s.step}
}

func copyResults(m map[int64]bool) map[int64]bool {
	if m == nil {
		return nil
	}
	out := make(map[int64]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
