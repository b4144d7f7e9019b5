package store

import (
	"context"

	"github.com/nhle/focusboard/internal/model"
)

// SaveTask appends task to the tasks collection and returns it unchanged.
func (s *Store) SaveTask(ctx context.Context, task model.Task) (model.Task, error) {
	return appendRecord(ctx, s, KeyTasks, task, model.Task.Validate)
}

// GetTasks returns every task, or only those owned by userID when it is
// non-empty, in insertion order.
func (s *Store) GetTasks(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := loadList[model.Task](ctx, s, KeyTasks)
	return filterOwned(tasks, userID), err
}

// GetTaskByID returns the task with id or ErrNotFound.
func (s *Store) GetTaskByID(ctx context.Context, id string) (model.Task, error) {
	tasks, err := loadList[model.Task](ctx, s, KeyTasks)
	if err != nil {
		return model.Task{}, err
	}
	if i := indexOf(tasks, id); i >= 0 {
		return tasks[i], nil
	}
	return model.Task{}, notFound(KeyTasks, id)
}

// GetTasksByDate returns the tasks due on the given calendar day.
func (s *Store) GetTasksByDate(ctx context.Context, date model.Date, userID string) ([]model.Task, error) {
	tasks, err := s.GetTasks(ctx, userID)
	if err != nil {
		return tasks, err
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.DueDate.IsZero() && t.DueDate.Equal(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateTask merges patch over the task with id. completedAt follows the
// completed flag: it is stamped when an open task becomes completed without
// an explicit time, kept when a completed task is completed again, and
// cleared when the task is reopened.
func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	now := s.now()
	mutate := func(t *model.Task) {
		wasCompleted := t.Completed
		patch.Apply(t)
		if patch.Completed == nil {
			return
		}
		switch {
		case !t.Completed:
			t.CompletedAt = nil
		case patch.CompletedAt != nil:
			// explicit time already applied
		case !wasCompleted || t.CompletedAt == nil:
			t.CompletedAt = &now
		}
	}
	return updateRecord(ctx, s, KeyTasks, id, mutate, model.Task.Validate)
}

// DeleteTask removes the task with id. Missing ids are ignored.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return deleteRecord[model.Task](ctx, s, KeyTasks, id)
}
