package board

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tempoapp/tempo/internal/sqlitedb"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	var tick int64
	store.now = func() time.Time {
		tick++
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(tick) * time.Second)
	}
	return store
}

func seedBoard(t *testing.T, store *Store, owner string) (*Board, []Column) {
	t.Helper()

	b, err := store.CreateBoard(context.Background(), owner, "Sprint", BoardOptions{})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	columns, err := store.Columns(context.Background(), owner, b.ID)
	if err != nil {
		t.Fatalf("list columns: %v", err)
	}
	return b, columns
}

func seedCards(t *testing.T, store *Store, owner, columnID string, contents ...string) []Card {
	t.Helper()

	for _, content := range contents {
		if _, err := store.CreateCard(context.Background(), owner, columnID, content); err != nil {
			t.Fatalf("create card %q: %v", content, err)
		}
	}
	cards, err := store.Cards(context.Background(), owner, columnID)
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	return cards
}

func TestCreateBoard_SeedsDefaultColumns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	b, columns := seedBoard(t, store, "alice")

	if b.Background != DefaultBackground {
		t.Errorf("expected default background, got %q", b.Background)
	}
	if len(columns) != len(DefaultColumnTitles) {
		t.Fatalf("expected %d columns, got %d", len(DefaultColumnTitles), len(columns))
	}
	for i, c := range columns {
		if c.Title != DefaultColumnTitles[i] {
			t.Errorf("column %d: expected title %q, got %q", i, DefaultColumnTitles[i], c.Title)
		}
		if c.Order != i {
			t.Errorf("column %q: expected order %d, got %d", c.Title, i, c.Order)
		}
	}

	if _, err := store.CreateBoard(ctx, "alice", "   ", BoardOptions{}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle for blank title, got %v", err)
	}
}

func TestGetBoard_WrongOwner(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	b, _ := seedBoard(t, store, "alice")

	if _, err := store.GetBoard(ctx, "mallory", b.ID); !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("expected ErrBoardNotFound for other owner, got %v", err)
	}
}

func TestCreateColumn_AppendsAtEnd(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	b, _ := seedBoard(t, store, "alice")

	c, err := store.CreateColumn(ctx, "alice", b.ID, "Blocked")
	if err != nil {
		t.Fatalf("create column: %v", err)
	}
	if c.Order != 3 {
		t.Errorf("expected new column at order 3, got %d", c.Order)
	}

	if _, err := store.CreateColumn(ctx, "alice", "missing", "Blocked"); !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("expected ErrBoardNotFound for missing board, got %v", err)
	}
}

func TestCreateCard_FirstCardGetsOrderZero(t *testing.T) {
	store := openTestStore(t)

	_, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "write report", "send report")

	if cards[0].Order != 0 || cards[1].Order != 1 {
		t.Errorf("expected orders 0 and 1, got %d and %d", cards[0].Order, cards[1].Order)
	}
}

func TestMoveCard_WithinColumnRenumbers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "A", "B", "C")

	// Moving C to the front renumbers the whole column: C=0, A=1, B=2.
	moved, err := store.MoveCard(ctx, "alice", cards[2].ID, "", 0)
	if err != nil {
		t.Fatalf("move card: %v", err)
	}
	if moved.Order != 0 {
		t.Errorf("expected moved card at order 0, got %d", moved.Order)
	}

	after, err := store.Cards(ctx, "alice", columns[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	wantContents := []string{"C", "A", "B"}
	for i, c := range after {
		if c.Content != wantContents[i] {
			t.Errorf("position %d: expected %q, got %q", i, wantContents[i], c.Content)
		}
		if c.Order != i {
			t.Errorf("card %q: expected order %d, got %d", c.Content, i, c.Order)
		}
	}
}

func TestMoveCard_WithinColumnClampsTarget(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "A", "B", "C")

	moved, err := store.MoveCard(ctx, "alice", cards[0].ID, "", 99)
	if err != nil {
		t.Fatalf("move card: %v", err)
	}
	if moved.Order != 2 {
		t.Errorf("expected target clamped to last position, got order %d", moved.Order)
	}
}

func TestMoveCard_AcrossColumnsLeavesSourceGap(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	source, dest := columns[0], columns[1]

	sourceCards := seedCards(t, store, "alice", source.ID, "A", "B", "C")
	seedCards(t, store, "alice", dest.ID, "X", "Y")

	// Move B into the destination at index 1. X keeps order 0, Y shifts
	// to 2, and the source keeps A=0, C=2 with a gap at 1.
	moved, err := store.MoveCard(ctx, "alice", sourceCards[1].ID, dest.ID, 1)
	if err != nil {
		t.Fatalf("move card: %v", err)
	}
	if moved.ColumnID != dest.ID || moved.Order != 1 {
		t.Errorf("expected card in destination at order 1, got column %q order %d", moved.ColumnID, moved.Order)
	}

	destCards, err := store.Cards(ctx, "alice", dest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(destCards) != 3 {
		t.Fatalf("expected 3 destination cards, got %d", len(destCards))
	}
	wantDest := map[string]int{"X": 0, "B": 1, "Y": 2}
	for _, c := range destCards {
		if c.Order != wantDest[c.Content] {
			t.Errorf("destination card %q: expected order %d, got %d", c.Content, wantDest[c.Content], c.Order)
		}
	}

	remaining, err := store.Cards(ctx, "alice", source.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 source cards, got %d", len(remaining))
	}
	wantSource := map[string]int{"A": 0, "C": 2}
	for _, c := range remaining {
		if c.Order != wantSource[c.Content] {
			t.Errorf("source card %q: expected order %d (gap preserved), got %d", c.Content, wantSource[c.Content], c.Order)
		}
	}
}

func TestMoveCard_AcrossColumnsClampsToAppend(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	sourceCards := seedCards(t, store, "alice", columns[0].ID, "A")
	seedCards(t, store, "alice", columns[1].ID, "X", "Y")

	moved, err := store.MoveCard(ctx, "alice", sourceCards[0].ID, columns[1].ID, 99)
	if err != nil {
		t.Fatalf("move card: %v", err)
	}
	if moved.Order != 2 {
		t.Errorf("expected clamp to append at order 2, got %d", moved.Order)
	}
}

func TestReorderCards(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "A", "B", "C")

	reversed := []string{cards[2].ID, cards[1].ID, cards[0].ID}
	after, err := store.ReorderCards(ctx, "alice", columns[0].ID, reversed)
	if err != nil {
		t.Fatalf("reorder cards: %v", err)
	}
	for i, c := range after {
		if c.ID != reversed[i] {
			t.Errorf("position %d: expected %q, got %q", i, reversed[i], c.ID)
		}
		if c.Order != i {
			t.Errorf("position %d: expected order %d, got %d", i, i, c.Order)
		}
	}

	if _, err := store.ReorderCards(ctx, "alice", columns[0].ID, []string{cards[0].ID, cards[1].ID, "zzz"}); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope for foreign id, got %v", err)
	}
	if _, err := store.ReorderCards(ctx, "alice", columns[0].ID, []string{cards[0].ID, cards[1].ID}); !errors.Is(err, ErrStaleScope) {
		t.Errorf("expected ErrStaleScope for partial cover, got %v", err)
	}
}

func TestReorderColumns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	b, columns := seedBoard(t, store, "alice")

	reversed := []string{columns[2].ID, columns[1].ID, columns[0].ID}
	after, err := store.ReorderColumns(ctx, "alice", b.ID, reversed)
	if err != nil {
		t.Fatalf("reorder columns: %v", err)
	}
	if after[0].Title != "Done" || after[2].Title != "To Do" {
		t.Errorf("expected reversed column order, got %q .. %q", after[0].Title, after[2].Title)
	}
}

func TestDeleteColumn_CascadesToCards(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "A", "B")

	if err := store.DeleteColumn(ctx, "alice", columns[0].ID); err != nil {
		t.Fatalf("delete column: %v", err)
	}

	if _, err := store.getCard(ctx, "alice", cards[0].ID); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected cascade to delete cards, got %v", err)
	}

	// Remaining columns keep their original order values.
	rest, err := store.Columns(ctx, "alice", columns[0].BoardID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(rest))
	}
	if rest[0].Order != 1 || rest[1].Order != 2 {
		t.Errorf("expected orders 1 and 2 after delete, got %d and %d", rest[0].Order, rest[1].Order)
	}
}

func TestDeleteBoard_CascadesEverything(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	b, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "A")

	if err := store.DeleteBoard(ctx, "alice", b.ID); err != nil {
		t.Fatalf("delete board: %v", err)
	}
	if _, err := store.GetBoard(ctx, "alice", b.ID); !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("expected board gone, got %v", err)
	}
	if _, err := store.getColumn(ctx, "alice", columns[0].ID); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected columns gone, got %v", err)
	}
	if _, err := store.getCard(ctx, "alice", cards[0].ID); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected cards gone, got %v", err)
	}
}

func TestDeleteCard_SiblingsKeepOrders(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "A", "B", "C")

	if err := store.DeleteCard(ctx, "alice", cards[1].ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}

	rest, err := store.Cards(ctx, "alice", columns[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 2 || rest[0].Order != 0 || rest[1].Order != 2 {
		t.Errorf("expected orders 0 and 2 preserved, got %+v", rest)
	}

	if err := store.DeleteCard(ctx, "alice", "missing"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

func TestUpdateBoard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	b, _ := seedBoard(t, store, "alice")

	title := "Sprint 2"
	background := "#112233"
	updated, err := store.UpdateBoard(ctx, "alice", b.ID, UpdateBoardOptions{Title: &title, Background: &background})
	if err != nil {
		t.Fatalf("update board: %v", err)
	}
	if updated.Title != "Sprint 2" || updated.Background != "#112233" {
		t.Errorf("unexpected board after update: %+v", updated)
	}
	if updated.Description != b.Description {
		t.Errorf("expected description untouched, got %q", updated.Description)
	}
}

func TestUpdateCardContent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, columns := seedBoard(t, store, "alice")
	cards := seedCards(t, store, "alice", columns[0].ID, "draft")

	updated, err := store.UpdateCardContent(ctx, "alice", cards[0].ID, "final")
	if err != nil {
		t.Fatalf("update card: %v", err)
	}
	if updated.Content != "final" || updated.Order != cards[0].Order {
		t.Errorf("expected content updated in place, got %+v", updated)
	}

	if _, err := store.UpdateCardContent(ctx, "alice", cards[0].ID, ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}
