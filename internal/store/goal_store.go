package store

import (
	"context"

	"github.com/nhle/focusboard/internal/model"
)

// SaveGoal appends goal to the goals collection and returns it unchanged.
// The caller supplies a unique id.
func (s *Store) SaveGoal(ctx context.Context, goal model.Goal) (model.Goal, error) {
	return appendRecord(ctx, s, KeyGoals, goal, model.Goal.Validate)
}

// GetGoals returns every goal, or only those owned by userID when it is
// non-empty, in insertion order.
func (s *Store) GetGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	goals, err := loadList[model.Goal](ctx, s, KeyGoals)
	return filterOwned(goals, userID), err
}

// GetGoalByID returns the goal with id or ErrNotFound.
func (s *Store) GetGoalByID(ctx context.Context, id string) (model.Goal, error) {
	goals, err := loadList[model.Goal](ctx, s, KeyGoals)
	if err != nil {
		return model.Goal{}, err
	}
	if i := indexOf(goals, id); i >= 0 {
		return goals[i], nil
	}
	return model.Goal{}, notFound(KeyGoals, id)
}

// UpdateGoal merges patch over the goal with id. A missing id returns
// ErrNotFound and writes nothing.
func (s *Store) UpdateGoal(ctx context.Context, id string, patch model.GoalPatch) (model.Goal, error) {
	return updateRecord(ctx, s, KeyGoals, id, patch.Apply, model.Goal.Validate)
}

// DeleteGoal removes the goal with id. Missing ids are ignored.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	return deleteRecord[model.Goal](ctx, s, KeyGoals, id)
}
