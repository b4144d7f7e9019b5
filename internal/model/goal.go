package model

import (
	"fmt"
	"time"
)

// Goal is a longer-running objective tracked by percent progress.
type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    Priority  `json:"priority"`
	Deadline    Date      `json:"deadline"`
	Target      string    `json:"target"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GoalPatch carries the fields of a partial goal update. Nil fields are
// left as they are on the stored record.
type GoalPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *Priority
	Deadline    *Date
	Target      *string
	Progress    *int
}

// Apply shallow-merges the set fields of p over g.
func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.Progress != nil {
		g.Progress = *p.Progress
	}
}

// Completed reports whether the goal has reached 100%.
func (g Goal) Completed() bool { return g.Progress == 100 }

// DaysRemaining returns the whole days left until the deadline, rounded
// up, or 0 when the deadline has passed. ok is false when no deadline is set.
func (g Goal) DaysRemaining(now time.Time) (days int, ok bool) {
	if g.Deadline.IsZero() {
		return 0, false
	}
	diff := g.Deadline.Time(now.Location()).Sub(now)
	if diff <= 0 {
		return 0, true
	}
	days = int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days, true
}

// Validate checks the invariants the store enforces on goals.
func (g Goal) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("goal id must not be empty")
	}
	if g.Progress < 0 || g.Progress > 100 {
		return fmt.Errorf("goal %s: progress %d outside 0-100", g.ID, g.Progress)
	}
	if g.Priority != "" && !g.Priority.Valid() {
		return fmt.Errorf("goal %s: unknown priority %q", g.ID, g.Priority)
	}
	return nil
}

func (g Goal) recordID() string { return g.ID }
func (g Goal) ownerID() string  { return g.UserID }
