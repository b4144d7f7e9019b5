package store

import (
	"context"
	"fmt"

	"github.com/nhle/focusboard/internal/model"
)

// SaveSettings overwrites the settings blob.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := saveObject(ctx, s, KeySettings, settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// GetSettings returns the stored settings, or zero settings when none
// were saved.
func (s *Store) GetSettings(ctx context.Context) (model.Settings, error) {
	var settings model.Settings
	if _, err := loadObject(ctx, s, KeySettings, &settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// SaveTheme stores the theme name as a raw string.
func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	if err := s.kv.Set(ctx, KeyTheme, theme); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// GetTheme returns the stored theme, "light" when unset.
func (s *Store) GetTheme(ctx context.Context) (string, error) {
	theme, ok, err := s.StoredTheme(ctx)
	if err != nil || !ok {
		return model.ThemeLight, err
	}
	return theme, nil
}

// StoredTheme returns the saved theme and whether one was saved.
func (s *Store) StoredTheme(ctx context.Context) (string, bool, error) {
	theme, ok, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		return "", false, err
	}
	return theme, ok && theme != "", nil
}
