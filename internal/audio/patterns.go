// Package audio renders the timer's alarm tones and plays them through
// whatever the host offers.
package audio

import (
	"fmt"
	"time"

	"github.com/nhle/focusboard/internal/model"
)

// Waveform is the oscillator shape of a pattern.
type Waveform int

const (
	Sine Waveform = iota
	Square
)

// FreqStep switches the oscillator to Hz at offset At.
type FreqStep struct {
	At time.Duration
	Hz float64
}

// GainPoint is an envelope breakpoint. The level ramps from the previous
// point to Level, linearly unless Exponential is set.
type GainPoint struct {
	At          time.Duration
	Level       float64
	Exponential bool
}

// Pattern describes one alarm tone: a single voice played Repeat times,
// each pulse starting Spacing after the previous one.
type Pattern struct {
	Name     string
	Wave     Waveform
	Freqs    []FreqStep
	Envelope []GainPoint
	Length   time.Duration
	Repeat   int
	Spacing  time.Duration
}

// Pulses returns how many times the voice sounds; at least once.
func (p Pattern) Pulses() int {
	return max(p.Repeat, 1)
}

// Duration is the time from the first pulse start to the last pulse end.
func (p Pattern) Duration() time.Duration {
	return time.Duration(p.Pulses()-1)*p.Spacing + p.Length
}

var patterns = map[string]Pattern{
	model.ToneBell: {
		Name: model.ToneBell,
		Wave: Sine,
		Freqs: []FreqStep{
			{At: 0, Hz: 800},
			{At: 200 * time.Millisecond, Hz: 600},
			{At: 400 * time.Millisecond, Hz: 800},
		},
		Envelope: []GainPoint{
			{At: 100 * time.Millisecond, Level: 0.3},
			{At: time.Second, Level: 0},
		},
		Length: time.Second,
	},
	model.ToneChime: {
		Name:  model.ToneChime,
		Wave:  Sine,
		Freqs: []FreqStep{{At: 0, Hz: 440}},
		Envelope: []GainPoint{
			{At: 100 * time.Millisecond, Level: 0.2},
			{At: time.Second, Level: 0.01, Exponential: true},
		},
		Length: time.Second,
	},
	model.ToneBeep: {
		Name:  model.ToneBeep,
		Wave:  Square,
		Freqs: []FreqStep{{At: 0, Hz: 1000}},
		Envelope: []GainPoint{
			{At: 50 * time.Millisecond, Level: 0.1},
			{At: 100 * time.Millisecond, Level: 0},
		},
		Length:  100 * time.Millisecond,
		Repeat:  3,
		Spacing: 300 * time.Millisecond,
	},
	model.ToneNotification: {
		Name: model.ToneNotification,
		Wave: Sine,
		Freqs: []FreqStep{
			{At: 0, Hz: 784},
			{At: 100 * time.Millisecond, Hz: 659},
			{At: 200 * time.Millisecond, Hz: 523},
		},
		Envelope: []GainPoint{
			{At: 50 * time.Millisecond, Level: 0.1},
			{At: 300 * time.Millisecond, Level: 0},
		},
		Length: 300 * time.Millisecond,
	},
}

// PatternFor looks up the pattern for a tone name.
func PatternFor(tone string) (Pattern, error) {
	p, ok := patterns[tone]
	if !ok {
		return Pattern{}, fmt.Errorf("unknown tone %q", tone)
	}
	return p, nil
}

// Tones lists the available tone names.
func Tones() []string {
	return []string{model.ToneBell, model.ToneChime, model.ToneBeep, model.ToneNotification}
}
