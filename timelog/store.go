package timelog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/tempoapp/tempo/internal/dates"
	"github.com/tempoapp/tempo/internal/ids"
	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// Store provides access to time entries for all owners.
type Store struct {
	db *sql.DB

	mu sync.Mutex

	now func() time.Time
}

// NewStore creates a time entry store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// CreateOptions configures a new time entry.
type CreateOptions struct {
	TaskID      string
	ProjectID   string
	ProjectName string

	// StartedAt is when the tracked span began; the zero value means now
	// minus the duration.
	StartedAt time.Time
}

// Create records a tracked span of duration seconds against taskName.
func (s *Store) Create(ctx context.Context, ownerID, taskName string, duration int, source Source, opts CreateOptions) (*Entry, error) {
	taskName = internalstrings.NormalizeWhitespace(taskName)
	if internalstrings.IsBlank(taskName) {
		return nil, ErrEmptyTaskName
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if !source.Valid() {
		return nil, ErrInvalidSource
	}
	if opts.ProjectName == "" {
		opts.ProjectName = DefaultProjectName
	}

	now := s.now()
	startedAt := opts.StartedAt
	if startedAt.IsZero() {
		startedAt = now.Add(-time.Duration(duration) * time.Second)
	}

	e := Entry{
		ID:          ids.GenerateWithTimestamp("entry:"+taskName, now, ids.DefaultLength),
		OwnerID:     ownerID,
		TaskID:      opts.TaskID,
		ProjectID:   opts.ProjectID,
		TaskName:    taskName,
		ProjectName: opts.ProjectName,
		StartedAt:   startedAt,
		Duration:    duration,
		Source:      source,
		CreatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_entries (id, owner_id, task_id, project_id, task_name, project_name, started_at, duration_seconds, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.TaskID, e.ProjectID, e.TaskName, e.ProjectName, e.StartedAt, e.Duration, string(e.Source), e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert time entry: %w", err)
	}
	return &e, nil
}

// List returns the owner's entries, newest first.
func (s *Store) List(ctx context.Context, ownerID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, task_id, project_id, task_name, project_name, started_at, duration_seconds, source, created_at
		FROM time_entries WHERE owner_id = ? ORDER BY started_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var source string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.TaskID, &e.ProjectID, &e.TaskName, &e.ProjectName, &e.StartedAt, &e.Duration, &source, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Source = Source(source)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary returns the owner's total tracked seconds for one calendar day.
func (s *Store) Summary(ctx context.Context, ownerID, day string) (int, error) {
	day, err := dates.Normalize(day)
	if err != nil {
		return 0, ErrInvalidDay
	}

	entries, err := s.List(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	// Days are resolved in the server's local time, matching how entries are
	// tracked and displayed.
	var total int
	for _, e := range entries {
		if dates.FromTime(e.StartedAt) == day {
			total += e.Duration
		}
	}
	return total, nil
}

// Delete deletes a time entry.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
