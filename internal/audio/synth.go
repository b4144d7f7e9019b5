package audio

import (
	"math"
	"time"
)

// DefaultSampleRate is used when callers pass a non-positive rate.
const DefaultSampleRate = 44100

// Synthesize renders tone as mono samples in [-1, 1].
func Synthesize(tone string, sampleRate int) ([]float64, error) {
	p, err := PatternFor(tone)
	if err != nil {
		return nil, err
	}
	return p.Render(sampleRate), nil
}

// Render produces the samples for every pulse of p, with silence filling
// the gaps between pulses.
func (p Pattern) Render(sampleRate int) []float64 {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	out := make([]float64, samplesIn(p.Duration(), sampleRate))
	pulse := p.renderPulse(sampleRate)
	for i := range p.Pulses() {
		offset := samplesIn(time.Duration(i)*p.Spacing, sampleRate)
		copy(out[offset:], pulse)
	}
	return out
}

func (p Pattern) renderPulse(sampleRate int) []float64 {
	n := samplesIn(p.Length, sampleRate)
	buf := make([]float64, n)

	var phase float64
	for i := range buf {
		t := time.Duration(float64(i) / float64(sampleRate) * float64(time.Second))
		hz := p.frequencyAt(t)

		var v float64
		switch p.Wave {
		case Square:
			if phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		default:
			v = math.Sin(2 * math.Pi * phase)
		}
		buf[i] = v * p.gainAt(t)

		phase += hz / float64(sampleRate)
		phase -= math.Floor(phase)
	}
	return buf
}

func (p Pattern) frequencyAt(t time.Duration) float64 {
	var hz float64
	for _, step := range p.Freqs {
		if step.At > t {
			break
		}
		hz = step.Hz
	}
	return hz
}

// gainAt evaluates the envelope, which starts silent at zero.
func (p Pattern) gainAt(t time.Duration) float64 {
	prev := GainPoint{}
	for _, pt := range p.Envelope {
		if t < pt.At {
			frac := float64(t-prev.At) / float64(pt.At-prev.At)
			if pt.Exponential && prev.Level > 0 && pt.Level > 0 {
				return prev.Level * math.Pow(pt.Level/prev.Level, frac)
			}
			return prev.Level + (pt.Level-prev.Level)*frac
		}
		prev = pt
	}
	return prev.Level
}

func samplesIn(d time.Duration, sampleRate int) int {
	return int(math.Round(d.Seconds() * float64(sampleRate)))
}
