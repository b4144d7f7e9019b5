package model

import "time"

// Activity types written by the dashboard service.
const (
	ActivityGoalCreated   = "goal_created"
	ActivityGoalProgress  = "goal_progress"
	ActivityGoalDeleted   = "goal_deleted"
	ActivityTaskCreated   = "task_created"
	ActivityTaskCompleted = "task_completed"
	ActivityTaskReopened  = "task_reopened"
	ActivityTaskDeleted   = "task_deleted"
	ActivityFocusSession  = "focus_session"
)

// Activity is an append-only event in a user's history.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	RefID     string    `json:"refId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (a Activity) recordID() string { return a.ID }
func (a Activity) ownerID() string  { return a.UserID }
