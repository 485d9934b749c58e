package fader_test

import (
	"testing"
	"time"

	"github.com/alkime/fader/internal/fader"
	"github.com/stretchr/testify/assert"
)

const frame = 50 * time.Millisecond

func TestPeakTracker_HoldsRecentExtreme(t *testing.T) {
	t.Parallel()

	p := fader.NewPeakTracker(fader.PeakConfig{})

	p.Observe(0.1, frame)
	assert.Equal(t, 0.1, p.Peak())

	p.Observe(0.9, frame)
	assert.Equal(t, 0.9, p.Peak())

	// The hold keeps the transient visible past quieter frames.
	got := p.Observe(0.2, frame)
	assert.Equal(t, 0.9, got)
	assert.GreaterOrEqual(t, p.Peak(), 0.2)
}

func TestPeakTracker_NegativeSamplesCountByMagnitude(t *testing.T) {
	t.Parallel()

	p := fader.NewPeakTracker(fader.PeakConfig{})

	p.Observe(-0.8, frame)
	assert.Equal(t, 0.8, p.Peak())
}

func TestPeakTracker_NewExtremeRestartsHold(t *testing.T) {
	t.Parallel()

	p := fader.NewPeakTracker(fader.PeakConfig{
		Hold:   100 * time.Millisecond,
		Policy: fader.DecaySnap,
	})

	p.Observe(0.5, frame)
	p.Observe(0.2, frame) // ages the hold by one frame

	// A fresh extreme restarts the hold from zero.
	p.Observe(0.7, frame)
	p.Observe(0.1, frame)
	assert.Equal(t, 0.7, p.Peak(), "hold should not expire one frame after a new extreme")
}

func TestPeakTracker_SnapDecayDropsToSample(t *testing.T) {
	t.Parallel()

	p := fader.NewPeakTracker(fader.PeakConfig{
		Hold:   60 * time.Millisecond,
		Policy: fader.DecaySnap,
	})

	p.Observe(0.9, frame)
	p.Observe(0.2, frame) // age 50ms, still held
	assert.Equal(t, 0.9, p.Peak())

	p.Observe(0.2, frame) // age 100ms, hold expired
	assert.Equal(t, 0.2, p.Peak())
}

func TestPeakTracker_LinearDecayFallsGradually(t *testing.T) {
	t.Parallel()

	p := fader.NewPeakTracker(fader.PeakConfig{
		Hold:    40 * time.Millisecond,
		Falloff: 500 * time.Millisecond,
		Policy:  fader.DecayLinear,
	})

	p.Observe(1.0, frame)

	// First quiet frame ages past the hold and starts the fall:
	// one 50ms frame over a 500ms falloff drops a tenth of full scale.
	got := p.Observe(0.0, frame)
	assert.InDelta(t, 0.9, got, 1e-9)

	got = p.Observe(0.0, frame)
	assert.InDelta(t, 0.8, got, 1e-9)
}

func TestPeakTracker_LinearDecayFloorsAtCurrentSample(t *testing.T) {
	t.Parallel()

	p := fader.NewPeakTracker(fader.PeakConfig{
		Hold:    10 * time.Millisecond,
		Falloff: 20 * time.Millisecond,
		Policy:  fader.DecayLinear,
	})

	p.Observe(0.9, frame)

	// Falloff far shorter than the frame: the fall would go negative,
	// but the peak never drops under the live sample.
	got := p.Observe(0.3, frame)
	assert.Equal(t, 0.3, got)
}

func TestPeakTracker_Reset(t *testing.T) {
	t.Parallel()

	p := fader.NewPeakTracker(fader.PeakConfig{})
	p.Observe(0.9, frame)

	p.Reset()
	assert.Equal(t, 0.0, p.Peak())
}
