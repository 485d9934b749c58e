package fader

import (
	"math"
	"time"
)

// DecayPolicy selects how a held peak falls once its hold expires.
type DecayPolicy int

const (
	// DecayLinear lets the peak fall toward zero at a constant rate
	// after the hold, one full scale per falloff duration.
	DecayLinear DecayPolicy = iota

	// DecaySnap drops the peak straight to the current sample after the
	// hold.
	DecaySnap
)

// Peak hold defaults.
const (
	DefaultPeakHold    = 1500 * time.Millisecond
	DefaultPeakFalloff = 700 * time.Millisecond
)

// PeakConfig tunes a PeakTracker. The zero value picks all defaults.
type PeakConfig struct {
	Hold    time.Duration
	Falloff time.Duration
	Policy  DecayPolicy
}

// WithDefaults returns a config with default values applied to zero fields.
func (c PeakConfig) WithDefaults() PeakConfig {
	if c.Hold <= 0 {
		c.Hold = DefaultPeakHold
	}

	if c.Falloff <= 0 {
		c.Falloff = DefaultPeakFalloff
	}

	return c
}

// PeakTracker holds the most recent extreme of a signal so transients stay
// visible between frames where the instantaneous level is lower.
type PeakTracker struct {
	conf PeakConfig

	peak float64
	age  time.Duration
}

// NewPeakTracker builds a tracker with the given tuning.
func NewPeakTracker(conf PeakConfig) *PeakTracker {
	return &PeakTracker{conf: conf.WithDefaults()}
}

// Observe folds one frame's sample into the tracker and returns the held
// peak. A sample at or above the held peak restarts the hold; otherwise
// the hold ages by elapsed and, once expired, the peak decays per policy.
// The held peak never drops below the current sample's magnitude.
func (p *PeakTracker) Observe(sample float64, elapsed time.Duration) float64 {
	mag := math.Abs(sample)

	if mag >= p.peak {
		p.peak = mag
		p.age = 0

		return p.peak
	}

	p.age += elapsed
	if p.age <= p.conf.Hold {
		return p.peak
	}

	switch p.conf.Policy {
	case DecaySnap:
		p.peak = mag
	case DecayLinear:
		fall := float64(elapsed) / float64(p.conf.Falloff)
		p.peak = math.Max(mag, p.peak-fall)
	}

	return p.peak
}

// Peak returns the held peak without observing a new sample.
func (p *PeakTracker) Peak() float64 {
	return p.peak
}

// Reset clears the held peak and its age.
func (p *PeakTracker) Reset() {
	p.peak = 0
	p.age = 0
}
