package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/model"
)

// Snapshot collects every stored collection into a backup document stamped
// with the current time. Corrupt collections abort the export.
func (s *Store) Snapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	var err error

	if snap.User, err = s.GetUser(ctx); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Goals, err = s.GetGoals(ctx, ""); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Tasks, err = s.GetTasks(ctx, ""); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Activities, err = s.GetActivities(ctx, ""); err != nil {
		return model.Snapshot{}, err
	}

	var settings model.Settings
	ok, err := loadObject(ctx, s, KeySettings, &settings)
	if err != nil {
		return model.Snapshot{}, err
	}
	if ok {
		snap.Settings = &settings
	}

	theme, ok, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		return model.Snapshot{}, err
	}
	if ok {
		snap.Theme = theme
	}

	focus, err := s.GetFocusTime(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if len(focus) > 0 {
		snap.FocusTime = focus
	}

	exported := s.now().UTC()
	snap.ExportDate = &exported
	return snap, nil
}

// ExportSnapshot serializes the current state as an indented JSON backup.
func (s *Store) ExportSnapshot(ctx context.Context) ([]byte, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting snapshot: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// ImportSnapshot restores a backup produced by ExportSnapshot. Documents
// that do not parse, carry no exportDate or hold a record that breaks a
// model invariant fail with ErrMalformedBackup and write nothing.
// Every collection present in the document replaces the stored one in a
// single atomic write; absent collections are left alone.
func (s *Store) ImportSnapshot(ctx context.Context, data []byte) error {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if snap.ExportDate == nil {
		return fmt.Errorf("%w: missing exportDate", ErrMalformedBackup)
	}
	if err := validateSnapshot(snap); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	}

	entries := make(map[string]string)
	put := func(key string, v any) error {
		enc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		entries[key] = string(enc)
		return nil
	}

	if snap.User != nil {
		if err := put(KeyUser, snap.User.WithoutPassword()); err != nil {
			return err
		}
	}
	if snap.Goals != nil {
		if err := put(KeyGoals, snap.Goals); err != nil {
			return err
		}
	}
	if snap.Tasks != nil {
		if err := put(KeyTasks, snap.Tasks); err != nil {
			return err
		}
	}
	if snap.Activities != nil {
		if err := put(KeyActivities, snap.Activities); err != nil {
			return err
		}
	}
	if snap.Settings != nil {
		if err := put(KeySettings, snap.Settings); err != nil {
			return err
		}
	}
	if snap.FocusTime != nil {
		if err := put(KeyFocusTime, snap.FocusTime); err != nil {
			return err
		}
	}
	if snap.Theme != "" {
		entries[KeyTheme] = snap.Theme
	}

	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}

	s.logger.Info("snapshot imported",
		zap.Time("export_date", *snap.ExportDate),
		zap.Int("keys", len(entries)),
	)
	return nil
}

// validateSnapshot runs the per-record checks every save path applies.
// Failures wrap ErrInvalidRecord.
func validateSnapshot(snap model.Snapshot) error {
	if snap.User != nil {
		if err := validateUser(*snap.User); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}
	if err := validateAll(snap.Goals, model.Goal.Validate); err != nil {
		return err
	}
	if err := validateAll(snap.Tasks, model.Task.Validate); err != nil {
		return err
	}
	return validateAll(snap.Activities, validateActivity)
}

func validateAll[T any](items []T, validate func(T) error) error {
	for _, item := range items {
		if err := validate(item); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}
	return nil
}
