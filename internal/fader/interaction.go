// Package fader implements the drag protocol and peak hold for a channel
// fader, independent of any rendering toolkit. The host feeds it one
// Input per frame and reads back the level; painting and hit-testing stay
// on the host's side of the contract.
package fader

import (
	"math"
	"time"

	"github.com/alkime/fader/internal/scale"
)

// Defaults for interaction tuning. All of them are overridable via Config.
const (
	// DefaultFineRatio shrinks pointer travel while a modifier key is
	// held, for fine level adjustment.
	DefaultFineRatio = 0.2

	// DefaultDoubleClickWindow is the longest gap between two presses
	// that still counts as a double click.
	DefaultDoubleClickWindow = 400 * time.Millisecond

	// DefaultDoubleClickTolerance is the largest travel distance between
	// two presses that still counts as a double click.
	DefaultDoubleClickTolerance = 0.05
)

// Config tunes an Interaction. The zero value picks all defaults.
type Config struct {
	// Neutral is the level restored by a double click. Clamped to the
	// scale's span at construction.
	Neutral float64

	// FineRatio is the drag sensitivity in (0,1) applied while any of
	// shift/ctrl/alt is held.
	FineRatio float64

	// DoubleClickWindow is the maximum interval between two presses
	// forming a double click.
	DoubleClickWindow time.Duration

	// DoubleClickTolerance is the maximum travel distance between two
	// presses forming a double click.
	DoubleClickTolerance float64
}

// WithDefaults returns a config with default values applied to zero fields.
func (c Config) WithDefaults() Config {
	if c.FineRatio <= 0 || c.FineRatio >= 1 {
		c.FineRatio = DefaultFineRatio
	}

	if c.DoubleClickWindow <= 0 {
		c.DoubleClickWindow = DefaultDoubleClickWindow
	}

	if c.DoubleClickTolerance <= 0 {
		c.DoubleClickTolerance = DefaultDoubleClickTolerance
	}

	return c
}

// Input is one frame of pointer state, already normalized by the host.
type Input struct {
	// Fraction is the pointer position along the fader travel, 0 at the
	// bottom of the throw and 1 at the top. Out-of-range positions (the
	// pointer dragged past the widget) are clamped, never rejected.
	Fraction float64

	// Pressed reports whether the primary button is held this frame.
	Pressed bool

	// Fine reports whether a fine-drag modifier (shift, ctrl or alt) is
	// held this frame.
	Fine bool

	// DoubleClick signals a host-detected double click. Hosts without
	// native double-click events leave it false; the Interaction then
	// detects pairs of presses itself.
	DoubleClick bool

	// At is the frame timestamp, used for double-click detection.
	At time.Time
}

// dragAnchor snapshots where a drag began.
type dragAnchor struct {
	startFraction float64 // pointer travel at press
	startValue    float64 // level at press, for drag-delta display
}

// Interaction is the per-widget drag state machine. It is either idle or
// dragging; the anchor only exists while dragging, so the two cannot get
// out of sync the way separate boolean flags would.
type Interaction struct {
	scale *scale.Scale
	conf  Config

	value  float64
	anchor *dragAnchor

	lastPressAt       time.Time
	lastPressFraction float64
	pressedBefore     bool
}

// NewInteraction builds the state machine around an already-validated
// scale. The level starts at the neutral value.
func NewInteraction(s *scale.Scale, conf Config) *Interaction {
	conf = conf.WithDefaults()

	it := &Interaction{
		scale: s,
		conf:  conf,
		value: s.Clamp(conf.Neutral),
	}

	return it
}

// Value returns the current level.
func (it *Interaction) Value() float64 {
	return it.value
}

// SetValue sets the level directly, clamped to the scale's span. Used by
// hosts that accept level changes from outside the pointer protocol.
func (it *Interaction) SetValue(v float64) {
	it.value = it.scale.Clamp(v)
}

// Reset restores the neutral level and cancels any drag in progress.
func (it *Interaction) Reset() {
	it.value = it.scale.Clamp(it.conf.Neutral)
	it.anchor = nil
}

// Dragging reports whether a drag is in progress.
func (it *Interaction) Dragging() bool {
	return it.anchor != nil
}

// DragDelta returns the level change since the drag began. It is zero
// while idle; hosts use it to label the handle during a drag.
func (it *Interaction) DragDelta() float64 {
	if it.anchor == nil {
		return 0
	}

	return it.value - it.anchor.startValue
}

// HandleFraction returns the travel position of the handle for the
// current level.
func (it *Interaction) HandleFraction() float64 {
	return it.scale.FractionAt(it.value)
}

// Frame consumes one frame of pointer state and returns the updated
// level. All inputs are clamped; Frame never fails.
func (it *Interaction) Frame(in Input) float64 {
	frac := clamp01(in.Fraction)

	if in.DoubleClick {
		it.Reset()
		it.pressedBefore = false

		return it.value
	}

	if it.anchor == nil {
		if in.Pressed {
			it.press(frac, in.At)
		}

		return it.value
	}

	if !in.Pressed {
		// Release: keep the level, drop the anchor.
		it.anchor = nil

		return it.value
	}

	it.drag(frac, in.Fine)

	return it.value
}

// press starts a drag, unless it completes a double click, in which case
// the level resets to neutral instead.
func (it *Interaction) press(frac float64, at time.Time) {
	if it.isSecondClick(frac, at) {
		it.pressedBefore = false
		it.Reset()

		return
	}

	it.lastPressAt = at
	it.lastPressFraction = frac
	it.pressedBefore = true

	it.anchor = &dragAnchor{startFraction: frac, startValue: it.value}
}

func (it *Interaction) isSecondClick(frac float64, at time.Time) bool {
	if !it.pressedBefore {
		return false
	}

	if at.Sub(it.lastPressAt) > it.conf.DoubleClickWindow {
		return false
	}

	return math.Abs(frac-it.lastPressFraction) <= it.conf.DoubleClickTolerance
}

// drag moves the level to the pointer, scaling travel from the anchor by
// the fine ratio while a modifier is held.
func (it *Interaction) drag(frac float64, fine bool) {
	sensitivity := 1.0
	if fine {
		sensitivity = it.conf.FineRatio
	}

	effective := it.anchor.startFraction + (frac-it.anchor.startFraction)*sensitivity
	it.value = it.scale.Clamp(it.scale.ValueAt(clamp01(effective)))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}

	if f > 1 {
		return 1
	}

	return f
}
