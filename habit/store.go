package habit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tempoapp/tempo/internal/dates"
	"github.com/tempoapp/tempo/internal/ids"
	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// Store provides access to habits for all owners.
//
// Mutations are serialized by a store-level mutex so two concurrent toggles
// on the same habit cannot interleave their read-modify-write cycles.
type Store struct {
	db *sql.DB

	mu sync.Mutex

	// now is overridable in tests to pin "today" for streak walks.
	now func() time.Time
}

// NewStore creates a habit store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// CreateOptions configures a new habit.
type CreateOptions struct {
	// Description provides additional context.
	Description string

	// Goal is the weekly completion target (1-7). Defaults to 7 when zero.
	Goal int
}

// Create creates a habit with an empty completion history.
func (s *Store) Create(ctx context.Context, ownerID, name string, opts CreateOptions) (*Habit, error) {
	name = internalstrings.NormalizeWhitespace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if opts.Goal == 0 {
		opts.Goal = GoalMax
	}
	if err := ValidateGoal(opts.Goal); err != nil {
		return nil, err
	}

	now := s.now()
	h := Habit{
		ID:          ids.GenerateWithTimestamp(name, now, ids.DefaultLength),
		OwnerID:     ownerID,
		Name:        name,
		Description: opts.Description,
		Goal:        opts.Goal,
		Completions: map[string]bool{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, owner_id, name, description, goal, completions, streak, longest_streak, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '{}', 0, 0, ?, ?)`,
		h.ID, h.OwnerID, h.Name, h.Description, h.Goal, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return &h, nil
}

// List returns the owner's habits, newest first.
func (s *Store) List(ctx context.Context, ownerID string) ([]Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, description, goal, completions, streak, longest_streak, created_at, updated_at
		FROM habits WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// Get returns one habit. Habits of other owners are reported as not found.
func (s *Store) Get(ctx context.Context, ownerID, id string) (*Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, goal, completions, streak, longest_streak, created_at, updated_at
		FROM habits WHERE id = ? AND owner_id = ?`, id, ownerID)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHabitNotFound
	}
	return h, err
}

// Toggle flips the completion state of one day and recomputes the streak.
//
// The day is normalized to a local calendar day; no future-date guard is
// applied. After the flip, the streak is recomputed by walking backward from
// today (not from the toggled day), and the longest streak is raised to the
// new streak if it was exceeded.
func (s *Store) Toggle(ctx context.Context, ownerID, id, day string) (*Habit, error) {
	normalized, err := dates.Normalize(day)
	if err != nil {
		return nil, ErrInvalidDay
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if h.Completions[normalized] {
		delete(h.Completions, normalized)
	} else {
		h.Completions[normalized] = true
	}

	h.Streak = streakEnding(h.Completions, dates.FromTime(s.now()))
	if h.Streak > h.LongestStreak {
		h.LongestStreak = h.Streak
	}
	h.UpdatedAt = s.now()

	encoded, err := json.Marshal(h.Completions)
	if err != nil {
		return nil, fmt.Errorf("encode completions: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET completions = ?, streak = ?, longest_streak = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		string(encoded), h.Streak, h.LongestStreak, h.UpdatedAt, h.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrHabitNotFound
	}
	return h, nil
}

// Delete removes a habit. Habits of other owners are reported as not found.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if affected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (*Habit, error) {
	var h Habit
	var completions string
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.Goal,
		&completions, &h.Streak, &h.LongestStreak, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(completions), &h.Completions); err != nil {
		return nil, fmt.Errorf("decode completions: %w", err)
	}
	if h.Completions == nil {
		h.Completions = map[string]bool{}
	}
	return &h, nil
}
