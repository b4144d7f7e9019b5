package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// StorageConfig controls where the dashboard keeps its data.
type StorageConfig struct {
	// Path is the SQLite database file. ":memory:" keeps data for the
	// lifetime of the process only.
	Path string `mapstructure:"path" yaml:"path"`
}

// TimerConfig holds focus timer defaults. Per-user settings override the
// sound, tone and notification toggles.
type TimerConfig struct {
	DefaultMinutes        int    `mapstructure:"default_minutes" yaml:"default_minutes"`
	BreakMinutes          int    `mapstructure:"break_minutes" yaml:"break_minutes"`
	FocusThresholdMinutes int    `mapstructure:"focus_threshold_minutes" yaml:"focus_threshold_minutes"`
	Sound                 bool   `mapstructure:"sound" yaml:"sound"`
	Tone                  string `mapstructure:"tone" yaml:"tone"`
	Notifications         bool   `mapstructure:"notifications" yaml:"notifications"`

	// NotificationPermission is "default", "granted" or "denied".
	NotificationPermission string `mapstructure:"notification_permission" yaml:"notification_permission"`

	// AutoBreak accepts the break offer without asking.
	AutoBreak bool `mapstructure:"auto_break" yaml:"auto_break"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Timer   TimerConfig   `mapstructure:"timer" yaml:"timer"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// envPrefix scopes environment overrides, e.g. FOCUSBOARD_TIMER_TONE=chime.
const envPrefix = "FOCUSBOARD"

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/focusboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "focusboard", "config.yaml")
}

// DefaultDataPath returns the default database location,
// ~/.local/share/focusboard/focusboard.db.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "focusboard.db"
	}
	return filepath.Join(home, ".local", "share", "focusboard", "focusboard.db")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{Path: DefaultDataPath()},
		Timer: TimerConfig{
			DefaultMinutes:         25,
			BreakMinutes:           5,
			FocusThresholdMinutes:  25,
			Sound:                  true,
			Tone:                   ToneBell,
			Notifications:          true,
			NotificationPermission: "default",
		},
		Display: DisplayConfig{Theme: ThemeLight},
		Log:     LogConfig{Level: "info"},
	}
}

// setDefaults mirrors DefaultAppConfig into v so that missing keys and
// environment-only overrides resolve.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("timer.default_minutes", d.Timer.DefaultMinutes)
	v.SetDefault("timer.break_minutes", d.Timer.BreakMinutes)
	v.SetDefault("timer.focus_threshold_minutes", d.Timer.FocusThresholdMinutes)
	v.SetDefault("timer.sound", d.Timer.Sound)
	v.SetDefault("timer.tone", d.Timer.Tone)
	v.SetDefault("timer.notifications", d.Timer.Notifications)
	v.SetDefault("timer.notification_permission", d.Timer.NotificationPermission)
	v.SetDefault("timer.auto_break", d.Timer.AutoBreak)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults (plus environment overrides) apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the timer cannot work with.
func (c *AppConfig) Validate() error {
	if c.Timer.DefaultMinutes < 0 || c.Timer.BreakMinutes < 0 {
		return fmt.Errorf("timer minutes must not be negative")
	}
	switch c.Timer.Tone {
	case ToneBell, ToneChime, ToneBeep, ToneNotification:
	default:
		return fmt.Errorf("unknown timer tone %q", c.Timer.Tone)
	}
	switch c.Timer.NotificationPermission {
	case "default", "granted", "denied":
	default:
		return fmt.Errorf("unknown notification permission %q", c.Timer.NotificationPermission)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("timer", cfg.Timer)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
