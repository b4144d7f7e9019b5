package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/model"
)

// Storage keys. Collections hold JSON arrays, user and settings hold JSON
// objects, theme holds a raw string.
const (
	KeyUser       = "user"
	KeyUsers      = "users"
	KeyGoals      = "goals"
	KeyTasks      = "tasks"
	KeyActivities = "activities"
	KeySettings   = "settings"
	KeyTheme      = "theme"
	KeyFocusTime  = "focus_time"
)

// allKeys lists every key the Store owns, in reporting order.
var allKeys = []string{
	KeyUser, KeyUsers, KeyGoals, KeyTasks,
	KeyActivities, KeySettings, KeyTheme, KeyFocusTime,
}

// Store persists users, goals, tasks, activities, settings, the theme and
// focus time through a KV backend. It assumes a single logical writer:
// concurrent writers race and the last write wins.
type Store struct {
	kv     KV
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for corrupt-data warnings and write traces.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for export and completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store over kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("store")
	return s
}

// loadList decodes the JSON array stored under key. A missing key is an
// empty collection. Undecodable content yields an empty collection together
// with a *CorruptDataError.
func loadList[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return []T{}, err
	}
	if !ok || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("corrupt collection", zap.String("key", key), zap.Error(err))
		return []T{}, &CorruptDataError{Key: key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// saveList encodes items and writes them under key.
func saveList[T any](ctx context.Context, s *Store, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return err
	}
	s.logger.Debug("collection written", zap.String("key", key), zap.Int("count", len(items)))
	return nil
}

// loadObject decodes the JSON object stored under key into dst.
// It reports whether the key was present.
func loadObject(ctx context.Context, s *Store, key string, dst any) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || raw == "" || raw == "null" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("corrupt object", zap.String("key", key), zap.Error(err))
		return false, &CorruptDataError{Key: key, Err: err}
	}
	return true, nil
}

// saveObject encodes v and writes it under key.
func saveObject(ctx context.Context, s *Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(data))
}

// filterOwned returns the records owned by userID, or all of them when
// userID is empty. Order is preserved.
func filterOwned[T model.Record](items []T, userID string) []T {
	if userID == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if model.OwnerID(it) == userID {
			out = append(out, it)
		}
	}
	return out
}

// indexOf returns the position of the record with id, or -1.
func indexOf[T model.Record](items []T, id string) int {
	for i, it := range items {
		if model.RecordID(it) == id {
			return i
		}
	}
	return -1
}

// appendRecord validates rec and appends it to the collection under key.
func appendRecord[T model.Record](
	ctx context.Context,
	s *Store,
	key string,
	rec T,
	validate func(T) error,
) (T, error) {
	if validate != nil {
		if err := validate(rec); err != nil {
			return rec, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}

	items, err := loadList[T](ctx, s, key)
	if err != nil {
		return rec, fmt.Errorf("loading %s: %w", key, err)
	}
	items = append(items, rec)
	if err := saveList(ctx, s, key, items); err != nil {
		return rec, fmt.Errorf("saving %s: %w", key, err)
	}
	return rec, nil
}

// updateRecord locates id in the collection under key, applies mutate to
// a copy, validates it and writes the collection back.
func updateRecord[T model.Record](
	ctx context.Context,
	s *Store,
	key string,
	id string,
	mutate func(*T),
	validate func(T) error,
) (T, error) {
	var zero T

	items, err := loadList[T](ctx, s, key)
	if err != nil {
		return zero, fmt.Errorf("loading %s: %w", key, err)
	}

	i := indexOf(items, id)
	if i < 0 {
		return zero, notFound(key, id)
	}

	updated := items[i]
	mutate(&updated)
	if validate != nil {
		if err := validate(updated); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}

	items[i] = updated
	if err := saveList(ctx, s, key, items); err != nil {
		return zero, fmt.Errorf("saving %s: %w", key, err)
	}
	return updated, nil
}

// deleteRecord removes every record with id from the collection under key.
// A missing id leaves storage untouched.
func deleteRecord[T model.Record](ctx context.Context, s *Store, key, id string) error {
	items, err := loadList[T](ctx, s, key)
	if err != nil {
		return fmt.Errorf("loading %s: %w", key, err)
	}

	kept := make([]T, 0, len(items))
	for _, it := range items {
		if model.RecordID(it) != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	if err := saveList(ctx, s, key, kept); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
