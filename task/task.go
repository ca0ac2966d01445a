// Package task implements day-scheduled tasks and the projects that group
// them. Tasks live on a calendar: each carries a yyyy-MM-dd day, and lists
// filter by an inclusive day range.
package task

import (
	"errors"
	"time"
)

var (
	// ErrTaskNotFound is returned when a task doesn't exist or belongs to
	// another owner.
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectNotFound is returned when a project doesn't exist or belongs
	// to another owner.
	ErrProjectNotFound = errors.New("project not found")

	// ErrEmptyText is returned when a task's text is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyName is returned when a project's name is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidDay is returned when a day is not a valid yyyy-MM-dd date.
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidRange is returned when a day range's start is after its end.
	ErrInvalidRange = errors.New("invalid day range")
)

// Project groups tasks under a name and an icon.
type Project struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	// Name is the project's display name.
	Name string `json:"name"`

	// Icon names the icon clients render next to the project.
	Icon string `json:"icon"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultIcon is used when a project is created without one.
const DefaultIcon = "Folder"

// Task is a single item scheduled on one calendar day.
type Task struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	// ProjectID is the id of the task's project, or empty for inbox tasks.
	ProjectID string `json:"project_id"`

	// Text is the task's one-line summary.
	Text string `json:"text"`

	// Description provides additional context.
	Description string `json:"description"`

	// Day is the calendar day the task is scheduled on, yyyy-MM-dd.
	Day string `json:"day"`

	// Done reports whether the task is complete.
	Done bool `json:"done"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
