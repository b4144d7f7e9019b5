package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/focusboard/internal/model"
)

func openTestKV(t *testing.T) *SQLiteKV {
	t.Helper()

	kv, err := NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("creating kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

// rejectKey makes every insert of key fail inside the database.
func rejectKey(t *testing.T, kv *SQLiteKV, key string) {
	t.Helper()

	_, err := kv.db.Exec(`
		CREATE TRIGGER reject_key BEFORE INSERT ON kv
		WHEN NEW.key = '` + key + `'
		BEGIN SELECT RAISE(ABORT, 'key rejected'); END`)
	if err != nil {
		t.Fatalf("creating trigger: %v", err)
	}
}

func TestSetManyRollsBackWhenAnEntryFails(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	if err := kv.Set(ctx, "a", "old-a"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, "b", "old-b"); err != nil {
		t.Fatal(err)
	}
	rejectKey(t, kv, "z")

	// Keys are written in sorted order, so a and b land before z fails.
	err := kv.SetMany(ctx, map[string]string{"a": "new-a", "b": "new-b", "c": "new-c", "z": "new-z"})
	if err == nil {
		t.Fatal("SetMany succeeded, want error")
	}

	for key, want := range map[string]string{"a": "old-a", "b": "old-b"} {
		got, ok, err := kv.Get(ctx, key)
		if err != nil || !ok || got != want {
			t.Errorf("Get(%q) = %q, %v, %v; want %q", key, got, ok, err, want)
		}
	}
	for _, key := range []string{"c", "z"} {
		if _, ok, _ := kv.Get(ctx, key); ok {
			t.Errorf("key %q was written by a failed SetMany", key)
		}
	}
}

func TestImportFailingMidWriteLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)
	s := New(kv)

	if _, err := s.SaveGoal(ctx, model.Goal{ID: "goal-1", UserID: "user-1", Title: "Ship", Progress: 40}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveTask(ctx, model.Task{ID: "task-1", UserID: "user-1", Title: "Write", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	rejectKey(t, kv, KeyTheme)

	doc := []byte(`{"exportDate": "2026-01-01T00:00:00Z", "goals": [], "tasks": [], "theme": "dark"}`)
	err := s.ImportSnapshot(ctx, doc)
	if err == nil {
		t.Fatal("ImportSnapshot succeeded, want error")
	}
	if errors.Is(err, ErrMalformedBackup) {
		t.Errorf("err = %v, want a write failure rather than a malformed backup", err)
	}

	goals, _ := s.GetGoals(ctx, "")
	if len(goals) != 1 || goals[0].ID != "goal-1" {
		t.Errorf("goals = %+v, want goal-1 kept", goals)
	}
	tasks, _ := s.GetTasks(ctx, "")
	if len(tasks) != 1 || tasks[0].ID != "task-1" {
		t.Errorf("tasks = %+v, want task-1 kept", tasks)
	}
	if _, ok, _ := s.StoredTheme(ctx); ok {
		t.Error("theme was written by a failed import")
	}
}
