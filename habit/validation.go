package habit

import (
	"errors"
	"fmt"

	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// Goal bounds: a weekly goal is a number of days per week.
const (
	GoalMin = 1
	GoalMax = 7
)

// MaxNameLength is the maximum allowed length for a habit name.
const MaxNameLength = 200

var (
	// ErrHabitNotFound is returned when a habit doesn't exist or belongs to
	// another owner.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrEmptyName is returned when a habit name is empty.
	ErrEmptyName = errors.New("habit name cannot be empty")

	// ErrNameTooLong is returned when a habit name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("habit name exceeds maximum length")

	// ErrInvalidGoal is returned when the weekly goal is outside 1-7.
	ErrInvalidGoal = errors.New("goal must be between 1 and 7")

	// ErrInvalidDay is returned when a day string is not yyyy-MM-dd.
	ErrInvalidDay = errors.New("invalid day: expected yyyy-MM-dd")
)

// ValidateName checks if the habit name is valid.
func ValidateName(name string) error {
	if internalstrings.IsBlank(name) {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(name), MaxNameLength)
	}
	return nil
}

// ValidateGoal checks if the weekly goal is valid.
func ValidateGoal(goal int) error {
	if goal < GoalMin || goal > GoalMax {
		return fmt.Errorf("%w: got %d", ErrInvalidGoal, goal)
	}
	return nil
}
