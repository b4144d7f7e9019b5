package model

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Alarm tone names accepted in settings and config.
const (
	ToneBell         = "bell"
	ToneChime        = "chime"
	ToneBeep         = "beep"
	ToneNotification = "notification"
)

// Settings is the per-user configuration blob. It is saved wholesale.
// Nil toggles fall back to the application config.
type Settings struct {
	Theme             string `json:"theme,omitempty"`
	Notifications     *bool  `json:"notifications,omitempty"`
	Sound             *bool  `json:"sound,omitempty"`
	Tone              string `json:"tone,omitempty"`
	DailyReminders    *bool  `json:"dailyReminders,omitempty"`
	WeeklyReports     *bool  `json:"weeklyReports,omitempty"`
	GoalNotifications *bool  `json:"goalNotifications,omitempty"`
}

// BoolOr returns *b, or fallback when b is nil.
func BoolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
