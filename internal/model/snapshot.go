package model

import "time"

// Snapshot is the portable backup document. Nil fields mean "absent":
// an import leaves the matching collection untouched.
type Snapshot struct {
	User       *User              `json:"user"`
	Goals      []Goal             `json:"goals"`
	Tasks      []Task             `json:"tasks"`
	Activities []Activity         `json:"activities"`
	Settings   *Settings          `json:"settings"`
	Theme      string             `json:"theme"`
	FocusTime  map[string]float64 `json:"focusTime,omitempty"`
	ExportDate *time.Time         `json:"exportDate"`
}
