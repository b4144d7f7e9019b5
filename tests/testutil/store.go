package testutil

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nhle/focusboard/internal/store"
)

// NewTestStore creates a Store over an in-memory SQLite database with all
// migrations applied. It automatically closes the database when the test
// completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	kv := NewTestKV(t)
	opts = append([]store.Option{store.WithLogger(zaptest.NewLogger(t))}, opts...)
	return store.New(kv, opts...)
}

// NewTestKV opens an in-memory SQLiteKV closed on test cleanup.
func NewTestKV(t *testing.T) *store.SQLiteKV {
	t.Helper()

	kv, err := store.NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("creating test kv: %v", err)
	}

	t.Cleanup(func() {
		if err := kv.Close(); err != nil {
			t.Errorf("closing test kv: %v", err)
		}
	})

	return kv
}

// FixedClock returns a clock that always reports at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
