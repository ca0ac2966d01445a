package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tempoapp/tempo/internal/dates"
	"github.com/tempoapp/tempo/internal/ids"
	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// Store provides access to tasks and projects for all owners.
type Store struct {
	db *sql.DB

	mu sync.Mutex

	now func() time.Time
}

// NewStore creates a task store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// CreateProject creates a project. An empty icon gets DefaultIcon.
func (s *Store) CreateProject(ctx context.Context, ownerID, name, icon string) (*Project, error) {
	name = internalstrings.NormalizeWhitespace(name)
	if internalstrings.IsBlank(name) {
		return nil, ErrEmptyName
	}
	if icon == "" {
		icon = DefaultIcon
	}

	now := s.now()
	p := Project{
		ID:        ids.GenerateWithTimestamp("project:"+name, now, ids.DefaultLength),
		OwnerID:   ownerID,
		Name:      name,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, name, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Name, p.Icon, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &p, nil
}

// ListProjects returns the owner's projects, oldest first.
func (s *Store) ListProjects(ctx context.Context, ownerID string) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, icon, created_at, updated_at
		FROM projects WHERE owner_id = ? ORDER BY created_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Icon, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns one project. Projects of other owners are reported as
// not found.
func (s *Store) GetProject(ctx context.Context, ownerID, id string) (*Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, icon, created_at, updated_at
		FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Icon, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProjectOptions configures fields to update on a project.
// Nil pointers mean "don't update this field".
type UpdateProjectOptions struct {
	Name *string
	Icon *string
}

// UpdateProject updates a project's name or icon.
func (s *Store) UpdateProject(ctx context.Context, ownerID, id string, opts UpdateProjectOptions) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.GetProject(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if opts.Name != nil {
		name := internalstrings.NormalizeWhitespace(*opts.Name)
		if internalstrings.IsBlank(name) {
			return nil, ErrEmptyName
		}
		p.Name = name
	}
	if opts.Icon != nil {
		p.Icon = *opts.Icon
	}
	p.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, icon = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		p.Name, p.Icon, p.UpdatedAt, p.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// DeleteProject deletes a project. Its tasks survive with their project
// reference cleared, so they fall back to the inbox.
func (s *Store) DeleteProject(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetProject(ctx, ownerID, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET project_id = '', updated_at = ? WHERE project_id = ? AND owner_id = ?`,
		s.now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("clear project tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return tx.Commit()
}

// CreateTaskOptions configures a new task.
type CreateTaskOptions struct {
	Description string

	// Day schedules the task; empty means today.
	Day string

	// ProjectID assigns the task to a project; empty means inbox.
	ProjectID string
}

// CreateTask creates a task scheduled on opts.Day.
func (s *Store) CreateTask(ctx context.Context, ownerID, text string, opts CreateTaskOptions) (*Task, error) {
	text = internalstrings.NormalizeWhitespace(text)
	if internalstrings.IsBlank(text) {
		return nil, ErrEmptyText
	}

	now := s.now()
	day := opts.Day
	if day == "" {
		day = dates.FromTime(now)
	}
	day, err := dates.Normalize(day)
	if err != nil {
		return nil, ErrInvalidDay
	}

	if opts.ProjectID != "" {
		if _, err := s.GetProject(ctx, ownerID, opts.ProjectID); err != nil {
			return nil, err
		}
	}

	t := Task{
		ID:          ids.GenerateWithTimestamp("task:"+text, now, ids.DefaultLength),
		OwnerID:     ownerID,
		ProjectID:   opts.ProjectID,
		Text:        text,
		Description: opts.Description,
		Day:         day,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, project_id, text, description, day, done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.ProjectID, t.Text, t.Description, t.Day, t.Done, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &t, nil
}

// ListFilter narrows ListTasks. Zero values mean "no filter".
type ListFilter struct {
	// From and To bound the task day, inclusive on both ends. Either may be
	// set alone for an open-ended range.
	From string
	To   string

	// ProjectID restricts to one project's tasks.
	ProjectID string
}

// ListTasks returns the owner's tasks matching filter, sorted by day then
// creation time.
func (s *Store) ListTasks(ctx context.Context, ownerID string, filter ListFilter) ([]Task, error) {
	query := `
		SELECT id, owner_id, project_id, text, description, day, done, created_at, updated_at
		FROM tasks WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.From != "" {
		from, err := dates.Normalize(filter.From)
		if err != nil {
			return nil, ErrInvalidDay
		}
		filter.From = from
		query += ` AND day >= ?`
		args = append(args, from)
	}
	if filter.To != "" {
		to, err := dates.Normalize(filter.To)
		if err != nil {
			return nil, ErrInvalidDay
		}
		filter.To = to
		query += ` AND day <= ?`
		args = append(args, to)
	}
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, ErrInvalidRange
	}
	if filter.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}
	query += ` ORDER BY day ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.ProjectID, &t.Text, &t.Description, &t.Day, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns one task. Tasks of other owners are reported as not found.
func (s *Store) GetTask(ctx context.Context, ownerID, id string) (*Task, error) {
	var t Task
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, project_id, text, description, day, done, created_at, updated_at
		FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID).
		Scan(&t.ID, &t.OwnerID, &t.ProjectID, &t.Text, &t.Description, &t.Day, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTaskOptions configures fields to update on a task.
// Nil pointers mean "don't update this field".
type UpdateTaskOptions struct {
	Text        *string
	Description *string
	Day         *string
	Done        *bool

	// ProjectID moves the task to another project; the empty string moves it
	// to the inbox.
	ProjectID *string
}

// UpdateTask updates a task.
func (s *Store) UpdateTask(ctx context.Context, ownerID, id string, opts UpdateTaskOptions) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if opts.Text != nil {
		text := internalstrings.NormalizeWhitespace(*opts.Text)
		if internalstrings.IsBlank(text) {
			return nil, ErrEmptyText
		}
		t.Text = text
	}
	if opts.Description != nil {
		t.Description = *opts.Description
	}
	if opts.Day != nil {
		day, err := dates.Normalize(*opts.Day)
		if err != nil {
			return nil, ErrInvalidDay
		}
		t.Day = day
	}
	if opts.Done != nil {
		t.Done = *opts.Done
	}
	if opts.ProjectID != nil {
		if *opts.ProjectID != "" {
			if _, err := s.GetProject(ctx, ownerID, *opts.ProjectID); err != nil {
				return nil, err
			}
		}
		t.ProjectID = *opts.ProjectID
	}
	t.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET project_id = ?, text = ?, description = ?, day = ?, done = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		t.ProjectID, t.Text, t.Description, t.Day, t.Done, t.UpdatedAt, t.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// DeleteTask deletes a task.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
