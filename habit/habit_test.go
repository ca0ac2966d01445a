package habit

import (
	"testing"

	"github.com/tempoapp/tempo/internal/dates"
)

func TestStreakEnding(t *testing.T) {
	cases := []struct {
		name        string
		completions map[string]bool
		today       string
		want        int
	}{
		{
			name:        "empty history",
			completions: map[string]bool{},
			today:       "2024-01-03",
			want:        0,
		},
		{
			name:        "today only",
			completions: map[string]bool{"2024-01-03": true},
			today:       "2024-01-03",
			want:        1,
		},
		{
			name: "three consecutive days ending today",
			completions: map[string]bool{
				"2024-01-01": true,
				"2024-01-02": true,
				"2024-01-03": true,
			},
			today: "2024-01-03",
			want:  3,
		},
		{
			name: "chain not ending today",
			completions: map[string]bool{
				"2024-01-01": true,
				"2024-01-02": true,
			},
			today: "2024-01-03",
			want:  0,
		},
		{
			name: "gap stops the walk",
			completions: map[string]bool{
				"2023-12-30": true,
				"2024-01-02": true,
				"2024-01-03": true,
			},
			today: "2024-01-03",
			want:  2,
		},
		{
			name: "walk crosses month boundary",
			completions: map[string]bool{
				"2024-02-29": true,
				"2024-03-01": true,
			},
			today: "2024-03-01",
			want:  2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := streakEnding(tc.completions, tc.today)
			if got != tc.want {
				t.Errorf("expected streak %d, got %d", tc.want, got)
			}
		})
	}
}

func TestWeeklyProgress(t *testing.T) {
	h := &Habit{
		Goal: 3,
		Completions: map[string]bool{
			"2024-01-01": true,
			"2024-01-03": true,
			"2024-01-05": true,
			"2024-01-06": true,
			// Outside the week starting 2024-01-01.
			"2024-01-08": true,
		},
	}

	progress, err := h.WeeklyProgress("2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.Completed != 4 {
		t.Errorf("expected 4 completed, got %d", progress.Completed)
	}
	if progress.Total != 3 {
		t.Errorf("expected total 3, got %d", progress.Total)
	}
	// 4 of 3: percentage exceeds 100 and is not clamped.
	if progress.Percentage != 133 {
		t.Errorf("expected 133%%, got %d%%", progress.Percentage)
	}
}

func TestWeeklyProgress_NeverExceedsSeven(t *testing.T) {
	completions := map[string]bool{}
	day := "2024-01-01"
	for i := 0; i < 14; i++ {
		completions[day] = true
		day = dates.Add(day, 1)
	}
	h := &Habit{Goal: 7, Completions: completions}

	progress, err := h.WeeklyProgress("2024-01-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.Completed > 7 {
		t.Errorf("weekly progress reported %d completed days", progress.Completed)
	}
	if progress.Completed != 7 {
		t.Errorf("expected full week, got %d", progress.Completed)
	}
}

func TestWeeklyProgress_InvalidWeekStart(t *testing.T) {
	h := &Habit{Goal: 3}
	if _, err := h.WeeklyProgress("next monday"); err == nil {
		t.Fatal("expected error for invalid week start")
	}
}

func TestStats(t *testing.T) {
	h := &Habit{
		Goal:          3,
		Streak:        2,
		LongestStreak: 5,
		Completions: map[string]bool{
			"2024-01-01": true,
			"2024-01-02": true,
			"2024-01-04": true,
			"2024-01-05": true,
		},
	}

	stats := h.Stats()
	if stats.TotalDays != 4 {
		t.Errorf("expected 4 total days, got %d", stats.TotalDays)
	}
	// Lifetime total over the weekly goal number: round(100*4/3).
	if stats.CompletionRate != 133 {
		t.Errorf("expected completion rate 133, got %d", stats.CompletionRate)
	}
	if stats.Streak != 2 || stats.LongestStreak != 5 {
		t.Errorf("expected streak passthrough, got %d/%d", stats.Streak, stats.LongestStreak)
	}
}

func TestStats_EmptyHabit(t *testing.T) {
	h := &Habit{Goal: 7, Completions: map[string]bool{}}
	stats := h.Stats()
	if stats.TotalDays != 0 || stats.CompletionRate != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
