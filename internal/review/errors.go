package review

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState = errors.New("review: operation not allowed in current state")
	ErrExamNotTaken = errors.New("review: exam round has not been checked yet")
	ErrUnknownCard  = errors.New("review: card is not part of the session")
	ErrInvalidSteps = errors.New("review: invalid step sequence")
	ErrNoCards      = errors.New("review: session needs at least one card")
)

// StateError describes an operation called in a phase that forbids it.
type StateError struct {
	Op    string
	Phase Phase
	Step  int
}

func (e *StateError) Error() string {
	return fmt.Sprintf("review: %s not allowed while %s (step %d)", e.Op, e.Phase, e.Step)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}
