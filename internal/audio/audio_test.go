package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testRate = 8000

func TestPatternDurations(t *testing.T) {
	tests := []struct {
		tone string
		want time.Duration
	}{
		{"bell", time.Second},
		{"chime", time.Second},
		{"beep", 700 * time.Millisecond},
		{"notification", 300 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.tone, func(t *testing.T) {
			p, err := PatternFor(tt.tone)
			if err != nil {
				t.Fatal(err)
			}
			if got := p.Duration(); got != tt.want {
				t.Errorf("Duration = %v, want %v", got, tt.want)
			}
			samples, err := Synthesize(tt.tone, testRate)
			if err != nil {
				t.Fatal(err)
			}
			if want := int(tt.want.Seconds() * testRate); len(samples) != want {
				t.Errorf("len(samples) = %d, want %d", len(samples), want)
			}
		})
	}
}

func TestSynthesizeUnknownTone(t *testing.T) {
	if _, err := Synthesize("gong", testRate); err == nil {
		t.Fatal("expected error for unknown tone")
	}
}

func TestBellStaysUnderPeak(t *testing.T) {
	samples, err := Synthesize("bell", testRate)
	if err != nil {
		t.Fatal(err)
	}
	if samples[0] != 0 {
		t.Errorf("first sample = %v, want silent attack start", samples[0])
	}
	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s))
	}
	if peak > 0.3+1e-9 || peak < 0.25 {
		t.Errorf("peak = %v, want close to 0.3", peak)
	}
}

func TestBeepLeavesGapsBetweenPulses(t *testing.T) {
	samples, err := Synthesize("beep", testRate)
	if err != nil {
		t.Fatal(err)
	}
	// First pulse ends at 100ms, second starts at 300ms.
	for i := 900; i < 2350; i++ {
		if samples[i] != 0 {
			t.Fatalf("sample %d = %v, want silence between pulses", i, samples[i])
		}
	}
	second := samples[2400+200]
	if second == 0 {
		t.Error("second pulse is silent")
	}
}

func TestChimeDecaysExponentially(t *testing.T) {
	p, _ := PatternFor("chime")
	got := p.gainAt(550 * time.Millisecond)
	want := 0.2 * math.Sqrt(0.01/0.2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("gain at 550ms = %v, want %v", got, want)
	}
	if g := p.gainAt(50 * time.Millisecond); math.Abs(g-0.1) > 1e-9 {
		t.Errorf("gain at 50ms = %v, want 0.1", g)
	}
}

func TestNotificationStepsDown(t *testing.T) {
	p, _ := PatternFor("notification")
	for _, tt := range []struct {
		at time.Duration
		hz float64
	}{
		{0, 784},
		{150 * time.Millisecond, 659},
		{250 * time.Millisecond, 523},
	} {
		if got := p.frequencyAt(tt.at); got != tt.hz {
			t.Errorf("frequency at %v = %v, want %v", tt.at, got, tt.hz)
		}
	}
}

func TestEncodeWAV(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeWAV(&buf, []float64{0, 1, -1, 2}, testRate); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	if len(data) != 44+4*2 {
		t.Fatalf("len = %d, want 52", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Errorf("bad chunk ids: %q", data[:40])
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); got != 44 {
		t.Errorf("riff size = %d, want 44", got)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != testRate {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 16 {
		t.Errorf("bits per sample = %d", got)
	}

	want := []int16{0, math.MaxInt16, -math.MaxInt16, math.MaxInt16}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(data[44+2*i:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestCommandPlayerUsesFirstAvailable(t *testing.T) {
	dir := t.TempDir()
	p := NewCommandPlayer(dir, nil)
	p.SampleRate = testRate
	p.lookPath = func(name string) (string, error) {
		if name == "aplay" {
			return "/usr/bin/aplay", nil
		}
		return "", errors.New("not found")
	}

	var calls [][]string
	p.run = func(_ context.Context, name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}

	for range 2 {
		if err := p.Play(context.Background(), "chime"); err != nil {
			t.Fatalf("Play: %v", err)
		}
	}

	wav := filepath.Join(dir, "chime.wav")
	if len(calls) != 2 || calls[0][0] != "/usr/bin/aplay" || calls[0][1] != wav {
		t.Fatalf("calls = %v", calls)
	}
	data, err := os.ReadFile(wav)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Error("cached tone is not a WAV file")
	}
}

func TestCommandPlayerWithoutPlayers(t *testing.T) {
	p := NewCommandPlayer(t.TempDir(), nil)
	p.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	err := p.Play(context.Background(), "bell")
	if !errors.Is(err, ErrNoOutput) {
		t.Fatalf("err = %v, want ErrNoOutput", err)
	}
}

func TestBellPlayerRingsPerPulse(t *testing.T) {
	var buf bytes.Buffer
	var slept []time.Duration
	b := &BellPlayer{W: &buf, sleep: func(d time.Duration) { slept = append(slept, d) }}

	if err := b.Play(context.Background(), "beep"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a\a\a" {
		t.Errorf("output = %q, want three bells", buf.String())
	}
	if len(slept) != 2 || slept[0] != 300*time.Millisecond {
		t.Errorf("slept = %v", slept)
	}

	buf.Reset()
	if err := b.Play(context.Background(), "bell"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Errorf("output = %q, want one bell", buf.String())
	}
}

type failingPlayer struct{ err error }

func (f failingPlayer) Play(context.Context, string) error { return f.err }

func TestFallback(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	if err := (Fallback{failingPlayer{first}, Nop{}}).Play(context.Background(), "bell"); err != nil {
		t.Errorf("fallback to Nop failed: %v", err)
	}

	err := Fallback{failingPlayer{first}, failingPlayer{second}}.Play(context.Background(), "bell")
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("err = %v, want both causes", err)
	}

	if err := (Fallback{}).Play(context.Background(), "bell"); !errors.Is(err, ErrNoOutput) {
		t.Errorf("empty fallback err = %v", err)
	}
}

type chanPlayer chan string

func (c chanPlayer) Play(_ context.Context, tone string) error {
	c <- tone
	return nil
}

func TestAsyncPlaysInBackground(t *testing.T) {
	played := make(chanPlayer, 1)
	a := Async{Player: played}

	if err := a.Play(context.Background(), "chime"); err != nil {
		t.Fatal(err)
	}
	select {
	case tone := <-played:
		if tone != "chime" {
			t.Errorf("played %q", tone)
		}
	case <-time.After(time.Second):
		t.Fatal("tone never played")
	}

	if err := a.Play(context.Background(), "siren"); err == nil {
		t.Error("unknown tone accepted")
	}
}
