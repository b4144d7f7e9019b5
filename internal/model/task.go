package model

import (
	"fmt"
	"time"
)

// Task is a unit of work with an optional due date.
type Task struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Priority      Priority   `json:"priority"`
	DueDate       Date       `json:"dueDate"`
	EstimatedTime float64    `json:"estimatedTime"`
	Completed     bool       `json:"completed"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// TaskPatch carries the fields of a partial task update.
type TaskPatch struct {
	Title         *string
	Description   *string
	Category      *string
	Priority      *Priority
	DueDate       *Date
	EstimatedTime *float64
	Completed     *bool
	CompletedAt   *time.Time
}

// Apply shallow-merges the set fields of p over t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.EstimatedTime != nil {
		t.EstimatedTime = *p.EstimatedTime
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
}

// ActivityTime is the timestamp used for streaks: the completion time when
// set, the creation time otherwise.
func (t Task) ActivityTime() time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return t.CreatedAt
}

// Validate checks the invariants the store enforces on tasks.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id must not be empty")
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return fmt.Errorf("task %s: unknown priority %q", t.ID, t.Priority)
	}
	if t.EstimatedTime < 0 {
		return fmt.Errorf("task %s: negative estimated time", t.ID)
	}
	if t.Completed && t.CompletedAt == nil {
		return fmt.Errorf("task %s: completed without completion time", t.ID)
	}
	return nil
}

func (t Task) recordID() string { return t.ID }
func (t Task) ownerID() string  { return t.UserID }
