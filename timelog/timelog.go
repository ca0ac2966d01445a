// Package timelog records tracked work time: manual timer runs and completed
// pomodoro sessions. Entries are denormalized snapshots: they keep the task
// and project names from when the time was tracked, so deleting a task or a
// project never rewrites history.
package timelog

import (
	"errors"
	"time"
)

var (
	// ErrEntryNotFound is returned when a time entry doesn't exist or belongs
	// to another owner.
	ErrEntryNotFound = errors.New("time entry not found")

	// ErrEmptyTaskName is returned when an entry's task name is empty.
	ErrEmptyTaskName = errors.New("task name cannot be empty")

	// ErrInvalidDuration is returned when an entry's duration is not positive.
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrInvalidSource is returned when an entry's source is not a known kind.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidDay is returned when a day is not a valid yyyy-MM-dd date.
	ErrInvalidDay = errors.New("invalid day")
)

// Source identifies how an entry was tracked.
type Source string

const (
	// SourceTimer marks time tracked with the free-running timer.
	SourceTimer Source = "timer"

	// SourcePomodoro marks a completed pomodoro session.
	SourcePomodoro Source = "pomodoro"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceTimer || s == SourcePomodoro
}

// DefaultProjectName labels entries tracked outside any project.
const DefaultProjectName = "Inbox"

// Entry is one tracked span of work.
type Entry struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	// TaskID references the task the time was tracked against, or empty.
	TaskID string `json:"task_id"`

	// ProjectID references the task's project at tracking time, or empty.
	ProjectID string `json:"project_id"`

	// TaskName is the task's name at tracking time.
	TaskName string `json:"task_name"`

	// ProjectName is the project's name at tracking time.
	ProjectName string `json:"project_name"`

	// StartedAt is when the tracked span began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the tracked span's length in seconds.
	Duration int `json:"duration"`

	// Source is how the entry was tracked.
	Source Source `json:"source"`

	CreatedAt time.Time `json:"created_at"`
}
