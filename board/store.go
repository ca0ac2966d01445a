package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tempoapp/tempo/internal/ids"
	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// Store provides access to boards, columns, and cards for all owners.
//
// Mutations are serialized by a store-level mutex so concurrent reorders
// cannot interleave their read-renumber-write cycles. Multi-row order
// rewrites and cascade deletes run in a single transaction, so a partial
// renumbering is never observable.
type Store struct {
	db *sql.DB

	mu sync.Mutex

	now func() time.Time
}

// NewStore creates a board store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// BoardOptions configures a new board.
type BoardOptions struct {
	Description string
	Background  string
}

// CreateBoard creates a board seeded with the three default columns.
func (s *Store) CreateBoard(ctx context.Context, ownerID, title string, opts BoardOptions) (*Board, error) {
	title = internalstrings.NormalizeWhitespace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if opts.Background == "" {
		opts.Background = DefaultBackground
	}

	now := s.now()
	b := Board{
		ID:          ids.GenerateWithTimestamp("board:"+title, now, ids.DefaultLength),
		OwnerID:     ownerID,
		Title:       title,
		Description: opts.Description,
		Background:  opts.Background,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO boards (id, owner_id, title, description, background, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.OwnerID, b.Title, b.Description, b.Background, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert board: %w", err)
	}

	for i, columnTitle := range DefaultColumnTitles {
		columnID := ids.GenerateWithTimestamp("column:"+b.ID+":"+columnTitle, now, ids.DefaultLength)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO columns (id, board_id, owner_id, title, ord, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			columnID, b.ID, ownerID, columnTitle, i, now, now)
		if err != nil {
			return nil, fmt.Errorf("insert default column: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &b, nil
}

// ListBoards returns the owner's boards, most recently updated first.
func (s *Store) ListBoards(ctx context.Context, ownerID string) ([]Board, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, background, created_at, updated_at
		FROM boards WHERE owner_id = ? ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query boards: %w", err)
	}
	defer rows.Close()

	var boards []Board
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Description, &b.Background, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// GetBoard returns one board. Boards of other owners are reported as not found.
func (s *Store) GetBoard(ctx context.Context, ownerID, id string) (*Board, error) {
	var b Board
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, background, created_at, updated_at
		FROM boards WHERE id = ? AND owner_id = ?`, id, ownerID).
		Scan(&b.ID, &b.OwnerID, &b.Title, &b.Description, &b.Background, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBoardOptions configures fields to update on a board.
// Nil pointers mean "don't update this field".
type UpdateBoardOptions struct {
	Title       *string
	Description *string
	Background  *string
}

// UpdateBoard updates a board's metadata.
func (s *Store) UpdateBoard(ctx context.Context, ownerID, id string, opts UpdateBoardOptions) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.GetBoard(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if opts.Title != nil {
		title := internalstrings.NormalizeWhitespace(*opts.Title)
		if err := ValidateTitle(title); err != nil {
			return nil, err
		}
		b.Title = title
	}
	if opts.Description != nil {
		b.Description = *opts.Description
	}
	if opts.Background != nil {
		b.Background = *opts.Background
	}
	b.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE boards SET title = ?, description = ?, background = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		b.Title, b.Description, b.Background, b.UpdatedAt, b.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update board: %w", err)
	}
	return b, nil
}

// DeleteBoard deletes a board, its columns, and their cards.
func (s *Store) DeleteBoard(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetBoard(ctx, ownerID, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM cards WHERE column_id IN (SELECT id FROM columns WHERE board_id = ?)`, id)
	if err != nil {
		return fmt.Errorf("delete board cards: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM columns WHERE board_id = ?`, id); err != nil {
		return fmt.Errorf("delete board columns: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM boards WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	return tx.Commit()
}

// Columns returns a board's columns sorted by order ascending.
func (s *Store) Columns(ctx context.Context, ownerID, boardID string) ([]Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, board_id, owner_id, title, ord, created_at, updated_at
		FROM columns WHERE board_id = ? AND owner_id = ? ORDER BY ord ASC, created_at ASC`,
		boardID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.OwnerID, &c.Title, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// CreateColumn appends a column to a board: order is one past the current
// maximum, or 0 for an empty board. Existing columns are never renumbered.
func (s *Store) CreateColumn(ctx context.Context, ownerID, boardID, title string) (*Column, error) {
	title = internalstrings.NormalizeWhitespace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetBoard(ctx, ownerID, boardID); err != nil {
		return nil, err
	}

	now := s.now()
	c := Column{
		ID:        ids.GenerateWithTimestamp("column:"+boardID+":"+title, now, ids.DefaultLength),
		BoardID:   boardID,
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(ord) + 1, 0) FROM columns WHERE board_id = ?`, boardID).
		Scan(&c.Order)
	if err != nil {
		return nil, fmt.Errorf("next column order: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO columns (id, board_id, owner_id, title, ord, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.BoardID, c.OwnerID, c.Title, c.Order, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert column: %w", err)
	}
	return &c, nil
}

// RenameColumn updates a column's title.
func (s *Store) RenameColumn(ctx context.Context, ownerID, id, title string) (*Column, error) {
	title = internalstrings.NormalizeWhitespace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.getColumn(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	c.Title = title
	c.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE columns SET title = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		c.Title, c.UpdatedAt, c.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update column: %w", err)
	}
	return c, nil
}

// ReorderColumns assigns order = index for the given full column ordering.
// The ids must cover the board's current columns exactly.
func (s *Store) ReorderColumns(ctx context.Context, ownerID, boardID string, orderedIDs []string) ([]Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetBoard(ctx, ownerID, boardID); err != nil {
		return nil, err
	}

	columns, err := s.Columns(ctx, ownerID, boardID)
	if err != nil {
		return nil, err
	}
	scopeIDs := make([]string, len(columns))
	for i, c := range columns {
		scopeIDs[i] = c.ID
	}
	if err := checkMembership(orderedIDs, scopeIDs); err != nil {
		return nil, err
	}

	if err := s.assignOrders(ctx, "columns", orderedIDs, ownerID); err != nil {
		return nil, err
	}
	return s.Columns(ctx, ownerID, boardID)
}

// DeleteColumn deletes a column and all its cards. Sibling columns keep
// their order values; the gap is tolerated until the next explicit reorder.
func (s *Store) DeleteColumn(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getColumn(ctx, ownerID, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE column_id = ?`, id); err != nil {
		return fmt.Errorf("delete column cards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM columns WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("delete column: %w", err)
	}
	return tx.Commit()
}

// Cards returns a column's cards sorted by order ascending.
func (s *Store) Cards(ctx context.Context, ownerID, columnID string) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, column_id, owner_id, content, ord, created_at, updated_at
		FROM cards WHERE column_id = ? AND owner_id = ? ORDER BY ord ASC, created_at ASC`,
		columnID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.ColumnID, &c.OwnerID, &c.Content, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// CreateCard appends a card to a column: order is one past the current
// maximum, or 0 for an empty column.
func (s *Store) CreateCard(ctx context.Context, ownerID, columnID, content string) (*Card, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getColumn(ctx, ownerID, columnID); err != nil {
		return nil, err
	}

	now := s.now()
	c := Card{
		ID:        ids.GenerateWithTimestamp("card:"+columnID+":"+content, now, ids.DefaultLength),
		ColumnID:  columnID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(ord) + 1, 0) FROM cards WHERE column_id = ?`, columnID).
		Scan(&c.Order)
	if err != nil {
		return nil, fmt.Errorf("next card order: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (id, column_id, owner_id, content, ord, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ColumnID, c.OwnerID, c.Content, c.Order, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}
	return &c, nil
}

// UpdateCardContent updates a card's text without touching its position.
func (s *Store) UpdateCardContent(ctx context.Context, ownerID, id, content string) (*Card, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.getCard(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE cards SET content = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		c.Content, c.UpdatedAt, c.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return c, nil
}

// MoveCard positions a card at targetIndex within targetColumnID.
//
// A move within the card's current column renumbers the whole column to the
// contiguous sequence implied by the splice. A move to a different column
// shifts destination cards at or after targetIndex up by one and leaves the
// source column's order values untouched; the gap left behind is tolerated.
func (s *Store) MoveCard(ctx context.Context, ownerID, id, targetColumnID string, targetIndex int) (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.getCard(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if targetColumnID == "" || targetColumnID == c.ColumnID {
		return s.moveCardWithinColumn(ctx, ownerID, c, targetIndex)
	}

	if _, err := s.getColumn(ctx, ownerID, targetColumnID); err != nil {
		return nil, err
	}
	return s.moveCardAcrossColumns(ctx, ownerID, c, targetColumnID, targetIndex)
}

func (s *Store) moveCardWithinColumn(ctx context.Context, ownerID string, c *Card, targetIndex int) (*Card, error) {
	cards, err := s.Cards(ctx, ownerID, c.ColumnID)
	if err != nil {
		return nil, err
	}
	scopeIDs := make([]string, len(cards))
	for i, existing := range cards {
		scopeIDs[i] = existing.ID
	}

	reordered, ok := moveWithin(scopeIDs, c.ID, targetIndex)
	if !ok {
		return nil, ErrCardNotFound
	}
	if err := s.assignOrders(ctx, "cards", reordered, ownerID); err != nil {
		return nil, err
	}
	return s.getCard(ctx, ownerID, c.ID)
}

func (s *Store) moveCardAcrossColumns(ctx context.Context, ownerID string, c *Card, targetColumnID string, targetIndex int) (*Card, error) {
	var destSize int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM cards WHERE column_id = ?`, targetColumnID).Scan(&destSize)
	if err != nil {
		return nil, fmt.Errorf("count destination cards: %w", err)
	}
	targetIndex = clampIndex(targetIndex, destSize)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// Insertion shift only: cards at or after the target slot move up one.
	// The source column is deliberately left alone.
	_, err = tx.ExecContext(ctx, `
		UPDATE cards SET ord = ord + 1 WHERE column_id = ? AND ord >= ?`,
		targetColumnID, targetIndex)
	if err != nil {
		return nil, fmt.Errorf("shift destination cards: %w", err)
	}

	now := s.now()
	_, err = tx.ExecContext(ctx, `
		UPDATE cards SET column_id = ?, ord = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		targetColumnID, targetIndex, now, c.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("move card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.getCard(ctx, ownerID, c.ID)
}

// ReorderCards assigns order = index for the given full card ordering.
// The ids must cover the column's current cards exactly.
func (s *Store) ReorderCards(ctx context.Context, ownerID, columnID string, orderedIDs []string) ([]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getColumn(ctx, ownerID, columnID); err != nil {
		return nil, err
	}

	cards, err := s.Cards(ctx, ownerID, columnID)
	if err != nil {
		return nil, err
	}
	scopeIDs := make([]string, len(cards))
	for i, c := range cards {
		scopeIDs[i] = c.ID
	}
	if err := checkMembership(orderedIDs, scopeIDs); err != nil {
		return nil, err
	}

	if err := s.assignOrders(ctx, "cards", orderedIDs, ownerID); err != nil {
		return nil, err
	}
	return s.Cards(ctx, ownerID, columnID)
}

// DeleteCard deletes a card. Sibling cards keep their order values.
func (s *Store) DeleteCard(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if affected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (s *Store) getColumn(ctx context.Context, ownerID, id string) (*Column, error) {
	var c Column
	err := s.db.QueryRowContext(ctx, `
		SELECT id, board_id, owner_id, title, ord, created_at, updated_at
		FROM columns WHERE id = ? AND owner_id = ?`, id, ownerID).
		Scan(&c.ID, &c.BoardID, &c.OwnerID, &c.Title, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrColumnNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) getCard(ctx context.Context, ownerID, id string) (*Card, error) {
	var c Card
	err := s.db.QueryRowContext(ctx, `
		SELECT id, column_id, owner_id, content, ord, created_at, updated_at
		FROM cards WHERE id = ? AND owner_id = ?`, id, ownerID).
		Scan(&c.ID, &c.ColumnID, &c.OwnerID, &c.Content, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// assignOrders writes order = index for every id, in one transaction.
func (s *Store) assignOrders(ctx context.Context, table string, orderedIDs []string, ownerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`UPDATE %s SET ord = ?, updated_at = ? WHERE id = ? AND owner_id = ?`, table))
	if err != nil {
		return fmt.Errorf("prepare renumber: %w", err)
	}
	defer stmt.Close()

	for index, id := range orderedIDs {
		if _, err := stmt.ExecContext(ctx, index, now, id, ownerID); err != nil {
			return fmt.Errorf("renumber %s %s: %w", table, id, err)
		}
	}
	return tx.Commit()
}
