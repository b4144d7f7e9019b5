// Package dashboard holds the goal and task workflows behind the CLI and
// TUI. Every mutation is mirrored into the user's activity log.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/store"
	"github.com/nhle/focusboard/internal/timer"
)

// ErrTitleRequired is returned when a goal or task has no title.
var ErrTitleRequired = errors.New("title is required")

// DefaultEstimatedHours is used for tasks created without an estimate.
const DefaultEstimatedHours = 1.0

// Store is the persistence the service needs; *store.Store satisfies it.
type Store interface {
	SaveGoal(ctx context.Context, goal model.Goal) (model.Goal, error)
	GetGoals(ctx context.Context, userID string) ([]model.Goal, error)
	GetGoalByID(ctx context.Context, id string) (model.Goal, error)
	UpdateGoal(ctx context.Context, id string, patch model.GoalPatch) (model.Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	SaveTask(ctx context.Context, task model.Task) (model.Task, error)
	GetTasks(ctx context.Context, userID string) ([]model.Task, error)
	GetTaskByID(ctx context.Context, id string) (model.Task, error)
	GetTasksByDate(ctx context.Context, date model.Date, userID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	SaveActivity(ctx context.Context, a model.Activity) (model.Activity, error)
	GetActivities(ctx context.Context, userID string) ([]model.Activity, error)
}

// GoalInput holds the fields of a new goal.
type GoalInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Deadline    model.Date
	Target      string
}

// TaskInput holds the fields of a new task.
type TaskInput struct {
	Title         string
	Description   string
	Category      string
	Priority      string
	DueDate       model.Date
	EstimatedTime float64
}

// Service implements the dashboard workflows.
type Service struct {
	store  Store
	ids    *model.IDSource
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a Service. A nil clock means time.Now.
func NewService(s Store, now func() time.Time, logger *zap.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  s,
		ids:    model.NewIDSource(now),
		now:    now,
		logger: logger.Named("dashboard"),
	}
}

// CreateGoal adds a goal at 0% progress.
func (s *Service) CreateGoal(ctx context.Context, userID string, in GoalInput) (model.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Goal{}, ErrTitleRequired
	}
	priority, err := model.ParsePriority(in.Priority)
	if err != nil {
		return model.Goal{}, err
	}

	goal, err := s.store.SaveGoal(ctx, model.Goal{
		ID:          s.ids.Next("goal"),
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    priority,
		Deadline:    in.Deadline,
		Target:      in.Target,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return model.Goal{}, fmt.Errorf("creating goal: %w", err)
	}

	s.logActivity(ctx, userID, model.ActivityGoalCreated, goal.ID, fmt.Sprintf("Created goal %q", goal.Title))
	return goal, nil
}

// SetGoalProgress sets a goal's progress, clamped to 0-100.
func (s *Service) SetGoalProgress(ctx context.Context, id string, pct int) (model.Goal, error) {
	pct = min(max(pct, 0), 100)
	goal, err := s.store.UpdateGoal(ctx, id, model.GoalPatch{Progress: &pct})
	if err != nil {
		return model.Goal{}, fmt.Errorf("updating goal progress: %w", err)
	}

	msg := fmt.Sprintf("Goal %q is %d%% done", goal.Title, pct)
	if goal.Completed() {
		msg = fmt.Sprintf("Completed goal %q", goal.Title)
	}
	s.logActivity(ctx, goal.UserID, model.ActivityGoalProgress, goal.ID, msg)
	return goal, nil
}

// DeleteGoal removes a goal. Deleting an unknown id does nothing.
func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	goal, err := s.store.GetGoalByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading goal: %w", err)
	}
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	s.logActivity(ctx, goal.UserID, model.ActivityGoalDeleted, id, fmt.Sprintf("Deleted goal %q", goal.Title))
	return nil
}

// Goals lists a user's goals.
func (s *Service) Goals(ctx context.Context, userID string) ([]model.Goal, error) {
	return s.store.GetGoals(ctx, userID)
}

// CreateTask adds an open task.
func (s *Service) CreateTask(ctx context.Context, userID string, in TaskInput) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, ErrTitleRequired
	}
	priority, err := model.ParsePriority(in.Priority)
	if err != nil {
		return model.Task{}, err
	}
	estimate := in.EstimatedTime
	if estimate <= 0 {
		estimate = DefaultEstimatedHours
	}

	task, err := s.store.SaveTask(ctx, model.Task{
		ID:            s.ids.Next("task"),
		UserID:        userID,
		Title:         title,
		Description:   in.Description,
		Category:      in.Category,
		Priority:      priority,
		DueDate:       in.DueDate,
		EstimatedTime: estimate,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	s.logActivity(ctx, userID, model.ActivityTaskCreated, task.ID, fmt.Sprintf("Created task %q", task.Title))
	return task, nil
}

// ToggleTaskComplete flips a task between open and completed.
func (s *Service) ToggleTaskComplete(ctx context.Context, id string) (model.Task, error) {
	current, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("loading task: %w", err)
	}

	done := !current.Completed
	task, err := s.store.UpdateTask(ctx, id, model.TaskPatch{Completed: &done})
	if err != nil {
		return model.Task{}, fmt.Errorf("updating task: %w", err)
	}

	if done {
		s.logActivity(ctx, task.UserID, model.ActivityTaskCompleted, id, fmt.Sprintf("Completed task %q", task.Title))
	} else {
		s.logActivity(ctx, task.UserID, model.ActivityTaskReopened, id, fmt.Sprintf("Reopened task %q", task.Title))
	}
	return task, nil
}

// DeleteTask removes a task. Deleting an unknown id does nothing.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	task, err := s.store.GetTaskByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading task: %w", err)
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	s.logActivity(ctx, task.UserID, model.ActivityTaskDeleted, id, fmt.Sprintf("Deleted task %q", task.Title))
	return nil
}

// Tasks lists a user's tasks.
func (s *Service) Tasks(ctx context.Context, userID string) ([]model.Task, error) {
	return s.store.GetTasks(ctx, userID)
}

// TodayTasks lists the user's tasks due today.
func (s *Service) TodayTasks(ctx context.Context, userID string) ([]model.Task, error) {
	return s.store.GetTasksByDate(ctx, model.DateOf(s.now()), userID)
}

// RecordSession logs a finished timer session.
func (s *Service) RecordSession(ctx context.Context, userID string, sess timer.Session) error {
	minutes := int(sess.Total.Round(time.Minute) / time.Minute)
	msg := fmt.Sprintf("Completed a %d-minute focus session", minutes)
	if sess.Kind == timer.KindBreak {
		msg = fmt.Sprintf("Took a %d-minute break", minutes)
	}

	_, err := s.store.SaveActivity(ctx, model.Activity{
		ID:        s.ids.Next("activity"),
		UserID:    userID,
		Type:      model.ActivityFocusSession,
		Message:   msg,
		RefID:     sess.ID,
		Timestamp: sess.CompletedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// RecentActivities returns up to limit activities, newest first. A
// non-positive limit returns all of them.
func (s *Service) RecentActivities(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	activities, err := s.store.GetActivities(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(activities)
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// logActivity appends to the activity log. A failed append is logged and
// does not undo the mutation it describes.
func (s *Service) logActivity(ctx context.Context, userID, kind, refID, msg string) {
	_, err := s.store.SaveActivity(ctx, model.Activity{
		ID:        s.ids.Next("activity"),
		UserID:    userID,
		Type:      kind,
		Message:   msg,
		RefID:     refID,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("activity not recorded", zap.String("type", kind), zap.Error(err))
		return
	}
	s.logger.Debug("activity recorded", zap.String("type", kind), zap.String("ref", refID))
}
