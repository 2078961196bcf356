package ladder

import (
	"fmt"
	"strings"
)

// DemotionPolicy returns the level after a failed exam. floor is the lowest
// level of the schedule; results below it are clamped by the ladder.
type DemotionPolicy func(level, floor int) int

// DemoteOneLevel steps down a single rung.
func DemoteOneLevel(level, floor int) int {
	return level - 1
}

// ResetToFloor sends the deck back to the bottom of the ladder.
func ResetToFloor(level, floor int) int {
	return floor
}

const (
	PolicyStep  = "step"
	PolicyReset = "reset"
)

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (DemotionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyStep, "":
		return DemoteOneLevel, nil
	case PolicyReset:
		return ResetToFloor, nil
	default:
		return nil, fmt.Errorf("ladder: unknown demotion policy %q", name)
	}
}
