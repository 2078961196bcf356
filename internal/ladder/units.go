package ladder

import (
	"errors"
	"fmt"
)

var ErrUnknownUnit = errors.New("ladder: unknown interval unit")

// Unit is a user-facing interval unit.
type Unit string

const (
	UnitMinute Unit = "min"
	UnitHour   Unit = "hour"
	UnitDay    Unit = "day"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 1440
)

func (u Unit) factor() (int, bool) {
	switch u {
	case UnitMinute:
		return 1, true
	case UnitHour:
		return minutesPerHour, true
	case UnitDay:
		return minutesPerDay, true
	}
	return 0, false
}

// ToMinutes converts an amount of unit into whole minutes.
func ToMinutes(amount int, unit Unit) (int, error) {
	f, ok := unit.factor()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	if amount < 1 {
		return 0, fmt.Errorf("ladder: interval amount must be positive, got %d", amount)
	}
	return amount * f, nil
}

// Split expresses minutes in the largest unit that divides it evenly.
func Split(minutes int) (int, Unit) {
	switch {
	case minutes >= minutesPerDay && minutes%minutesPerDay == 0:
		return minutes / minutesPerDay, UnitDay
	case minutes >= minutesPerHour && minutes%minutesPerHour == 0:
		return minutes / minutesPerHour, UnitHour
	default:
		return minutes, UnitMinute
	}
}
