package store

import (
	"context"

	"github.com/nhle/focusboard/internal/model"
)

// SaveActivity appends an activity to the log.
func (s *Store) SaveActivity(ctx context.Context, a model.Activity) (model.Activity, error) {
	return appendRecord(ctx, s, KeyActivities, a, validateActivity)
}

// GetActivities returns the activity log, optionally filtered by owner.
func (s *Store) GetActivities(ctx context.Context, userID string) ([]model.Activity, error) {
	activities, err := loadList[model.Activity](ctx, s, KeyActivities)
	return filterOwned(activities, userID), err
}

// ClearActivities drops the whole activity log.
func (s *Store) ClearActivities(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyActivities)
}

func validateActivity(a model.Activity) error {
	if a.ID == "" {
		return errEmptyID("activity")
	}
	return nil
}
