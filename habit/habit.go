// Package habit implements completion tracking and streaks for daily habits.
//
// A habit records which days it was completed as a map from "yyyy-MM-dd" day
// strings to true. Presence in the map means completed; toggling a day off
// removes the key. The streak is the count of consecutive completed days
// ending today, recomputed after every toggle.
package habit

import (
	"math"
	"time"

	"github.com/tempoapp/tempo/internal/dates"
)

// Habit represents a tracked habit for a single owner.
type Habit struct {
	// ID is a unique identifier (8-char alphanumeric).
	ID string `json:"id"`

	// OwnerID is the id of the user who owns the habit.
	OwnerID string `json:"owner_id"`

	// Name is the short label for the habit.
	Name string `json:"name"`

	// Description provides additional context, rendered as markdown by clients.
	Description string `json:"description"`

	// Goal is the target number of completions per week (1-7).
	Goal int `json:"goal"`

	// Completions maps completed days ("yyyy-MM-dd") to true.
	// A day absent from the map is not completed.
	Completions map[string]bool `json:"completions"`

	// Streak is the count of consecutive completed days ending today.
	Streak int `json:"streak"`

	// LongestStreak is the maximum streak ever observed. Never decreases.
	LongestStreak int `json:"longest_streak"`

	// CreatedAt is when the habit was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the habit was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress summarizes completions for one week against the weekly goal.
type Progress struct {
	// Completed is how many of the week's seven days were completed.
	Completed int `json:"completed"`

	// Total is the weekly goal.
	Total int `json:"total"`

	// Percentage is round(100*Completed/Total). Exceeds 100 when the goal
	// is beaten; deliberately not clamped.
	Percentage int `json:"percentage"`
}

// Stats summarizes a habit's lifetime completion counters.
type Stats struct {
	// TotalDays is the number of completed days on record.
	TotalDays int `json:"total_days"`

	// CompletionRate is round(100*TotalDays/Goal). This is the historical
	// lifetime-total-over-weekly-goal figure, not a windowed rate.
	CompletionRate int `json:"completion_rate"`

	Streak        int `json:"streak"`
	LongestStreak int `json:"longest_streak"`
}

// WeeklyProgress counts completions for the 7 days starting at weekStart.
func (h *Habit) WeeklyProgress(weekStart string) (Progress, error) {
	start, err := dates.Normalize(weekStart)
	if err != nil {
		return Progress{}, ErrInvalidDay
	}

	completed := 0
	day := start
	for i := 0; i < 7; i++ {
		if h.Completions[day] {
			completed++
		}
		day = dates.Add(day, 1)
	}

	return Progress{
		Completed:  completed,
		Total:      h.Goal,
		Percentage: roundedPercent(completed, h.Goal),
	}, nil
}

// Stats returns the habit's lifetime counters.
func (h *Habit) Stats() Stats {
	total := 0
	for _, done := range h.Completions {
		if done {
			total++
		}
	}
	return Stats{
		TotalDays:      total,
		CompletionRate: roundedPercent(total, h.Goal),
		Streak:         h.Streak,
		LongestStreak:  h.LongestStreak,
	}
}

// streakEnding walks backward day-by-day from today, counting consecutive
// completed days. The walk always starts at today, so toggling a day that is
// not contiguous with today leaves the result unchanged.
func streakEnding(completions map[string]bool, today string) int {
	streak := 0
	day := today
	for completions[day] {
		streak++
		day = dates.Prev(day)
	}
	return streak
}

func roundedPercent(count, goal int) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(goal)))
}
