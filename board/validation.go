package board

import (
	"errors"

	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

var (
	// ErrBoardNotFound is returned when a board doesn't exist or belongs to
	// another owner.
	ErrBoardNotFound = errors.New("board not found")

	// ErrColumnNotFound is returned when a column doesn't exist or belongs
	// to another owner.
	ErrColumnNotFound = errors.New("column not found")

	// ErrCardNotFound is returned when a card doesn't exist or belongs to
	// another owner.
	ErrCardNotFound = errors.New("card not found")

	// ErrEmptyTitle is returned when a board or column title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyContent is returned when a card's content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidScope is returned when a batch reorder names ids that are
	// not members of the scope, or names a member twice.
	ErrInvalidScope = errors.New("reorder ids are not members of the scope")

	// ErrStaleScope is returned when a batch reorder omits current members
	// of the scope; the client's view of the scope is outdated.
	ErrStaleScope = errors.New("reorder does not cover the current scope")
)

// ValidateTitle checks a board or column title.
func ValidateTitle(title string) error {
	if internalstrings.IsBlank(title) {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateContent checks a card's content.
func ValidateContent(content string) error {
	if internalstrings.IsBlank(content) {
		return ErrEmptyContent
	}
	return nil
}
