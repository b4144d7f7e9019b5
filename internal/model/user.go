package model

import (
	"strings"
	"time"
)

// Preferences are the per-user toggles captured at signup.
type Preferences struct {
	Theme             string `json:"theme"`
	DailyReminders    bool   `json:"dailyReminders"`
	WeeklyReports     bool   `json:"weeklyReports"`
	GoalNotifications bool   `json:"goalNotifications"`
}

// DefaultPreferences returns the preferences new accounts start with.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:             ThemeLight,
		DailyReminders:    true,
		WeeklyReports:     true,
		GoalNotifications: true,
	}
}

// UserStatsCache is the aggregate snapshot kept on the user record.
type UserStatsCache struct {
	Goals  int `json:"goals"`
	Tasks  int `json:"tasks"`
	Streak int `json:"streak"`
}

// User is a local account. Password is plaintext and only present on
// records in the users collection, never on the current user.
type User struct {
	ID          string         `json:"id"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email"`
	Password    string         `json:"password,omitempty"`
	Newsletter  bool           `json:"newsletter,omitempty"`
	Joined      time.Time      `json:"joined"`
	Preferences *Preferences   `json:"preferences,omitempty"`
	Stats       UserStatsCache `json:"stats"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// WithoutPassword returns a copy of u safe to expose as the current user.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

func (u User) recordID() string { return u.ID }
func (u User) ownerID() string  { return u.ID }
