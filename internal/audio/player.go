package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoOutput is returned when a player has no way to make sound here.
var ErrNoOutput = errors.New("no audio output available")

// Player sounds an alarm tone.
type Player interface {
	Play(ctx context.Context, tone string) error
}

// Nop never makes a sound.
type Nop struct{}

func (Nop) Play(context.Context, string) error { return nil }

// DefaultCommands are the external players tried in order.
var DefaultCommands = []string{"paplay", "aplay", "afplay"}

// CommandPlayer renders tones to WAV files under a cache directory and
// hands them to the first external player found on PATH.
type CommandPlayer struct {
	Dir        string
	Commands   []string
	SampleRate int

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
	logger   *zap.Logger

	mu       sync.Mutex
	rendered map[string]string
}

// NewCommandPlayer creates a CommandPlayer caching WAV files in dir.
func NewCommandPlayer(dir string, logger *zap.Logger) *CommandPlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandPlayer{
		Dir:        dir,
		Commands:   DefaultCommands,
		SampleRate: DefaultSampleRate,
		lookPath:   exec.LookPath,
		run:        runCommand,
		logger:     logger.Named("audio"),
		rendered:   make(map[string]string),
	}
}

// DefaultCacheDir returns the user cache directory for rendered tones.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "focusboard", "tones")
	}
	return filepath.Join(dir, "focusboard", "tones")
}

// Play renders tone if needed and runs the external player on it.
func (p *CommandPlayer) Play(ctx context.Context, tone string) error {
	bin, err := p.findCommand()
	if err != nil {
		return err
	}

	path, err := p.wavFor(tone)
	if err != nil {
		return err
	}

	p.logger.Debug("playing tone", zap.String("tone", tone), zap.String("player", bin))
	if err := p.run(ctx, bin, path); err != nil {
		return fmt.Errorf("running %s: %w", filepath.Base(bin), err)
	}
	return nil
}

func (p *CommandPlayer) findCommand() (string, error) {
	for _, name := range p.Commands {
		if bin, err := p.lookPath(name); err == nil {
			return bin, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v on PATH", ErrNoOutput, p.Commands)
}

// wavFor returns the path of the rendered tone, writing it on first use.
func (p *CommandPlayer) wavFor(tone string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if path, ok := p.rendered[tone]; ok {
		return path, nil
	}

	samples, err := Synthesize(tone, p.SampleRate)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating tone cache: %w", err)
	}
	path := filepath.Join(p.Dir, tone+".wav")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := EncodeWAV(f, samples, p.SampleRate); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	p.rendered[tone] = path
	return path, nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("exit code %d: %s", exitErr.ExitCode(), out)
		}
		return err
	}
	return nil
}

// BellPlayer rings the terminal bell once per pulse of the tone.
type BellPlayer struct {
	W     io.Writer
	sleep func(time.Duration)
}

// NewBellPlayer creates a BellPlayer writing to w.
func NewBellPlayer(w io.Writer) *BellPlayer {
	return &BellPlayer{W: w, sleep: time.Sleep}
}

func (b *BellPlayer) Play(ctx context.Context, tone string) error {
	p, err := PatternFor(tone)
	if err != nil {
		return err
	}
	if b.W == nil {
		return ErrNoOutput
	}

	for i := range p.Pulses() {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			b.sleep(p.Spacing)
		}
		if _, err := io.WriteString(b.W, "\a"); err != nil {
			return fmt.Errorf("ringing bell: %w", err)
		}
	}
	return nil
}

// Fallback tries each player in turn until one succeeds.
type Fallback []Player

func (f Fallback) Play(ctx context.Context, tone string) error {
	errs := make([]error, 0, len(f))
	for _, p := range f {
		err := p.Play(ctx, tone)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ErrNoOutput
	}
	return errors.Join(errs...)
}

// playTimeout bounds a background playback.
const playTimeout = 10 * time.Second

// Async plays in the background so the caller never waits for the tone
// to finish. Unknown tones are still reported synchronously.
type Async struct {
	Player Player
	Logger *zap.Logger
}

func (a Async) Play(_ context.Context, tone string) error {
	if _, err := PatternFor(tone); err != nil {
		return err
	}
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		if err := a.Player.Play(ctx, tone); err != nil {
			logger.Debug("background playback failed", zap.String("tone", tone), zap.Error(err))
		}
	}()
	return nil
}
