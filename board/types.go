// Package board implements kanban boards: columns ordered within a board and
// cards ordered within a column.
//
// Order values are dense (0..N-1) after explicit reorder operations. Deletes
// leave gaps on purpose; readers always sort by order ascending, so gaps are
// harmless and renumbering on every delete would only amplify writes.
package board

import "time"

// Board is a kanban board owned by one user.
type Board struct {
	// ID is a unique identifier (8-char alphanumeric).
	ID string `json:"id"`

	// OwnerID is the id of the user who owns the board.
	OwnerID string `json:"owner_id"`

	// Title is the board's display name.
	Title string `json:"title"`

	// Description provides additional context.
	Description string `json:"description"`

	// Background is the board's background color.
	Background string `json:"background"`

	// CreatedAt is when the board was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the board was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Column is an ordered lane within a board.
type Column struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	OwnerID string `json:"owner_id"`

	// Title is the column's display name.
	Title string `json:"title"`

	// Order is the column's position within its board, zero-based.
	Order int `json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Card is an ordered item within a column.
type Card struct {
	ID       string `json:"id"`
	ColumnID string `json:"column_id"`
	OwnerID  string `json:"owner_id"`

	// Content is the card's text.
	Content string `json:"content"`

	// Order is the card's position within its column, zero-based.
	Order int `json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultColumnTitles are the columns seeded into every new board.
var DefaultColumnTitles = []string{"To Do", "In Progress", "Done"}

// DefaultBackground is the background color for new boards.
const DefaultBackground = "#f3f4f6"
