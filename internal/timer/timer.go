// Package timer implements the focus countdown: a small state machine
// ticked once per second by an injected Scheduler, with completion effects
// (alarm tone, notification, focus-time credit, break offer) delegated to
// injected capabilities.
package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/notify"
)

// ErrInvalidDuration is returned for negative durations.
var ErrInvalidDuration = errors.New("duration must not be negative")

// State is the countdown state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Kind tells focus sessions from the breaks chained after them.
type Kind string

const (
	KindFocus Kind = "focus"
	KindBreak Kind = "break"
)

// Notification text shown on completion.
const (
	NotificationTitle = "Timer Complete!"
	NotificationBody  = "Your focus session has ended."
)

// Config holds the completion behaviour.
type Config struct {
	Sound         bool
	Tone          string
	Notifications bool

	// Sessions at least this long are followed by a break offer.
	BreakThreshold time.Duration
	BreakDuration  time.Duration
}

// DefaultConfig matches the application defaults.
func DefaultConfig() Config {
	return Config{
		Sound:          true,
		Tone:           model.ToneBell,
		Notifications:  true,
		BreakThreshold: 25 * time.Minute,
		BreakDuration:  5 * time.Minute,
	}
}

// ConfigFrom merges the application timer config with per-user settings.
// Settings win where they are set.
func ConfigFrom(app model.TimerConfig, s model.Settings) Config {
	cfg := Config{
		Sound:          model.BoolOr(s.Sound, app.Sound),
		Tone:           app.Tone,
		Notifications:  model.BoolOr(s.Notifications, app.Notifications),
		BreakThreshold: time.Duration(app.FocusThresholdMinutes) * time.Minute,
		BreakDuration:  time.Duration(app.BreakMinutes) * time.Minute,
	}
	if s.Tone != "" {
		cfg.Tone = s.Tone
	}
	if cfg.Tone == "" {
		cfg.Tone = model.ToneBell
	}
	return cfg
}

// Session describes a finished countdown.
type Session struct {
	ID          string
	Kind        Kind
	Total       time.Duration
	CompletedAt time.Time
}

// Hours is the focus credit for the session.
func (s Session) Hours() float64 {
	return s.Total.Seconds() / 3600
}

// Status is a point-in-time view of the timer.
type Status struct {
	State     State
	Kind      Kind
	SessionID string
	Total     int // seconds
	Remaining int // seconds
}

// Progress is the elapsed fraction in [0, 1].
func (s Status) Progress() float64 {
	if s.Total <= 0 {
		if s.State == Completed {
			return 1
		}
		return 0
	}
	return float64(s.Total-s.Remaining) / float64(s.Total)
}

// Timer is a single countdown. All methods are safe for concurrent use.
type Timer struct {
	mu        sync.Mutex
	state     State
	kind      Kind
	sessionID string
	total     int
	remaining int
	gen       uint64
	stop      func()
	cfg       Config

	ctx      context.Context
	sched    Scheduler
	player   TonePlayer
	notifier Notifier
	recorder FocusRecorder
	prompter BreakPrompter
	hooks    []func(Session)
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Timer.
type Option func(*Timer)

func WithScheduler(s Scheduler) Option      { return func(t *Timer) { t.sched = s } }
func WithTonePlayer(p TonePlayer) Option    { return func(t *Timer) { t.player = p } }
func WithNotifier(n Notifier) Option        { return func(t *Timer) { t.notifier = n } }
func WithRecorder(r FocusRecorder) Option   { return func(t *Timer) { t.recorder = r } }
func WithPrompter(p BreakPrompter) Option   { return func(t *Timer) { t.prompter = p } }
func WithConfig(cfg Config) Option          { return func(t *Timer) { t.cfg = cfg } }
func WithClock(now func() time.Time) Option { return func(t *Timer) { t.now = now } }

// WithContext sets the context handed to completion effects.
func WithContext(ctx context.Context) Option { return func(t *Timer) { t.ctx = ctx } }

// WithLogger sets the logger; capability failures are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithCompletionHook registers fn to run after each completion.
func WithCompletionHook(fn func(Session)) Option {
	return func(t *Timer) { t.hooks = append(t.hooks, fn) }
}

// WithDuration sets the initial duration in seconds.
func WithDuration(seconds int) Option {
	return func(t *Timer) {
		if seconds >= 0 {
			t.total, t.remaining = seconds, seconds
		}
	}
}

// New creates an idle timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		state:    Idle,
		kind:     KindFocus,
		cfg:      DefaultConfig(),
		ctx:      context.Background(),
		sched:    TickerScheduler{},
		player:   noPlayer{},
		notifier: noNotifier{},
		recorder: noRecorder{},
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("timer")
	return t
}

// SetConfig replaces the completion behaviour, e.g. after settings change.
func (t *Timer) SetConfig(cfg Config) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg = cfg
}

// Status returns the current state.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		State:     t.state,
		Kind:      t.kind,
		SessionID: t.sessionID,
		Total:     t.total,
		Remaining: t.remaining,
	}
}

// SetDuration sets total and remaining to seconds and resets the timer.
func (t *Timer) SetDuration(seconds int) error {
	return t.setDuration(seconds, KindFocus)
}

func (t *Timer) setDuration(seconds int, kind Kind) error {
	if seconds < 0 {
		return ErrInvalidDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.halt()
	t.total, t.remaining = seconds, seconds
	t.kind = kind
	t.state = Idle
	t.sessionID = ""
	t.logger.Debug("duration set", zap.Int("seconds", seconds), zap.String("kind", string(kind)))
	return nil
}

// Start begins or resumes the countdown. It does nothing while running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case Running:
		return
	case Completed:
		t.remaining = t.total
		t.sessionID = ""
	}
	if t.sessionID == "" {
		t.sessionID = uuid.NewString()
	}

	t.state = Running
	t.gen++
	gen := t.gen
	t.stop = t.sched.Every(time.Second, func() { t.tick(gen) })
	t.logger.Debug("started", zap.String("session", t.sessionID), zap.Int("remaining", t.remaining))
}

// Pause stops the countdown, keeping the remaining time. It does nothing
// unless running.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return
	}
	t.halt()
	t.state = Paused
	t.logger.Debug("paused", zap.Int("remaining", t.remaining))
}

// Reset stops the countdown and restores the full duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.halt()
	t.remaining = t.total
	t.state = Idle
	t.sessionID = ""
}

// halt cancels the periodic callback. Callers hold mu.
func (t *Timer) halt() {
	t.gen++
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != Running {
		t.mu.Unlock()
		return
	}

	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}

	t.halt()
	t.state = Completed
	session := Session{
		ID:          t.sessionID,
		Kind:        t.kind,
		Total:       time.Duration(t.total) * time.Second,
		CompletedAt: t.now(),
	}
	cfg := t.cfg
	t.mu.Unlock()

	t.logger.Info("session completed",
		zap.String("session", session.ID),
		zap.String("kind", string(session.Kind)),
		zap.Duration("total", session.Total),
	)
	t.complete(session, cfg)
}

// complete runs the completion effects in order. It runs without holding
// mu so a break prompt can restart the timer.
func (t *Timer) complete(s Session, cfg Config) {
	ctx := t.ctx

	if cfg.Sound {
		if err := t.player.Play(ctx, cfg.Tone); err != nil {
			t.logger.Debug("tone not played", zap.String("tone", cfg.Tone), zap.Error(err))
		}
	}

	if cfg.Notifications {
		t.notifyCompletion(ctx)
	}

	if err := t.recorder.RecordFocusTime(ctx, s.CompletedAt, s.Hours()); err != nil {
		t.logger.Warn("recording focus time failed", zap.Error(err))
	}

	for _, h := range t.hooks {
		h(s)
	}

	if t.prompter != nil && cfg.BreakThreshold > 0 && s.Total >= cfg.BreakThreshold {
		var once sync.Once
		breakSeconds := int(cfg.BreakDuration / time.Second)
		t.prompter.PromptBreak(ctx, func() {
			once.Do(func() { t.startBreak(breakSeconds) })
		})
	}
}

func (t *Timer) notifyCompletion(ctx context.Context) {
	perm := t.notifier.Permission()
	if perm == notify.PermissionDefault {
		var err error
		perm, err = t.notifier.RequestPermission(ctx)
		if err != nil {
			t.logger.Debug("notification permission request failed", zap.Error(err))
			return
		}
	}
	if perm != notify.PermissionGranted {
		t.logger.Debug("notifications not permitted", zap.String("permission", string(perm)))
		return
	}
	if err := t.notifier.Notify(ctx, NotificationTitle, NotificationBody); err != nil {
		t.logger.Debug("notification not shown", zap.Error(err))
	}
}

func (t *Timer) startBreak(seconds int) {
	if err := t.setDuration(seconds, KindBreak); err != nil {
		t.logger.Warn("break not started", zap.Error(err))
		return
	}
	t.Start()
	t.logger.Info("break started", zap.Int("seconds", seconds))
}
