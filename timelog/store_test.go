package timelog

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
		return time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC).Add(time.Duration(tick) * time.Minute)
	}
	return store
}

func TestCreate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	e, err := store.Create(ctx, "alice", "write report", 1500, SourcePomodoro, CreateOptions{})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if e.ProjectName != DefaultProjectName {
		t.Errorf("expected default project name, got %q", e.ProjectName)
	}
	if e.StartedAt.IsZero() {
		t.Error("expected StartedAt to be derived from the duration")
	}
	if got := e.CreatedAt.Sub(e.StartedAt); got != 1500*time.Second {
		t.Errorf("expected StartedAt to precede creation by the duration, got %v", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		taskName string
		duration int
		source   Source
		wantErr  error
	}{
		{"empty task name", "   ", 60, SourceTimer, ErrEmptyTaskName},
		{"zero duration", "x", 0, SourceTimer, ErrInvalidDuration},
		{"negative duration", "x", -5, SourceTimer, ErrInvalidDuration},
		{"unknown source", "x", 60, Source("stopwatch"), ErrInvalidSource},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Create(ctx, "alice", tc.taskName, tc.duration, tc.source, CreateOptions{})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestList_NewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if _, err := store.Create(ctx, "alice", name, 60, SourceTimer, CreateOptions{}); err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}

	entries, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].TaskName != "third" || entries[2].TaskName != "first" {
		t.Errorf("expected newest first, got %q .. %q", entries[0].TaskName, entries[2].TaskName)
	}
}

func TestSummary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	onDay := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	offDay := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)

	if _, err := store.Create(ctx, "alice", "a", 600, SourceTimer, CreateOptions{StartedAt: onDay}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, "alice", "b", 900, SourcePomodoro, CreateOptions{StartedAt: onDay.Add(2 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, "alice", "c", 60, SourceTimer, CreateOptions{StartedAt: offDay}); err != nil {
		t.Fatal(err)
	}

	total, err := store.Summary(ctx, "alice", "2025-06-15")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if total != 1500 {
		t.Errorf("expected 1500 tracked seconds, got %d", total)
	}

	if _, err := store.Summary(ctx, "alice", "yesterday"); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("expected ErrInvalidDay, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	e, err := store.Create(ctx, "alice", "gone soon", 60, SourceTimer, CreateOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, "mallory", e.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound for other owner, got %v", err)
	}
	if err := store.Delete(ctx, "alice", e.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if err := store.Delete(ctx, "alice", e.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound on second delete, got %v", err)
	}
}
