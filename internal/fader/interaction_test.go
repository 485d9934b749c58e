package fader_test

import (
	"testing"
	"time"

	"github.com/alkime/fader/internal/fader"
	"github.com/alkime/fader/internal/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearScale maps travel [0,1] straight onto values [0,1], so a travel
// delta equals a value delta and drag arithmetic is easy to check.
func linearScale(t *testing.T) *scale.Scale {
	t.Helper()

	s, err := scale.New([]scale.Breakpoint{
		{Position: 0, Value: 0},
		{Position: 1, Value: 1},
	})
	require.NoError(t, err)

	return s
}

func at(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

func TestInteraction_StartsIdleAtNeutral(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{Neutral: 0.5})

	assert.False(t, it.Dragging())
	assert.Equal(t, 0.5, it.Value())
}

func TestInteraction_NeutralClampsToSpan(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{Neutral: 7})

	assert.Equal(t, 1.0, it.Value())
}

func TestInteraction_PressDragRelease(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{})

	// Press at travel 0.3.
	it.Frame(fader.Input{Fraction: 0.3, Pressed: true, At: at(0)})
	assert.True(t, it.Dragging())

	// Drag to 0.7: the level follows the pointer.
	v := it.Frame(fader.Input{Fraction: 0.7, Pressed: true, At: at(100)})
	assert.InDelta(t, 0.7, v, 1e-12)

	// Release: level retained, drag over.
	v = it.Frame(fader.Input{Fraction: 0.7, Pressed: false, At: at(200)})
	assert.False(t, it.Dragging())
	assert.InDelta(t, 0.7, v, 1e-12)
}

func TestInteraction_FineDragQuartersTravel(t *testing.T) {
	t.Parallel()

	const d = 0.4

	coarse := fader.NewInteraction(linearScale(t), fader.Config{FineRatio: 0.25})
	coarse.Frame(fader.Input{Fraction: 0.3, Pressed: true, At: at(0)})
	coarseV := coarse.Frame(fader.Input{Fraction: 0.3 + d, Pressed: true, At: at(50)})

	fine := fader.NewInteraction(linearScale(t), fader.Config{FineRatio: 0.25})
	fine.Frame(fader.Input{Fraction: 0.3, Pressed: true, At: at(0)})
	fineV := fine.Frame(fader.Input{Fraction: 0.3 + d, Pressed: true, Fine: true, At: at(50)})

	coarseDelta := coarseV - 0.3
	fineDelta := fineV - 0.3
	assert.InDelta(t, coarseDelta/4, fineDelta, 1e-12)
}

func TestInteraction_ClampsPointerOutsideWidget(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{})

	it.Frame(fader.Input{Fraction: 0.5, Pressed: true, At: at(0)})
	v := it.Frame(fader.Input{Fraction: 3.2, Pressed: true, At: at(50)})

	assert.Equal(t, 1.0, v, "dragging past the top pins the level at the range max")
	assert.True(t, it.Dragging(), "an out-of-bounds pointer must not break the drag")
}

func TestInteraction_HostDoubleClickResetsFromAnyState(t *testing.T) {
	t.Parallel()

	t.Run("while idle", func(t *testing.T) {
		t.Parallel()

		it := fader.NewInteraction(linearScale(t), fader.Config{Neutral: 0.5})
		it.SetValue(0.9)

		v := it.Frame(fader.Input{Fraction: 0.1, DoubleClick: true, At: at(0)})
		assert.Equal(t, 0.5, v)
		assert.False(t, it.Dragging())
	})

	t.Run("mid drag", func(t *testing.T) {
		t.Parallel()

		it := fader.NewInteraction(linearScale(t), fader.Config{Neutral: 0.5})
		it.Frame(fader.Input{Fraction: 0.2, Pressed: true, At: at(0)})
		it.Frame(fader.Input{Fraction: 0.8, Pressed: true, At: at(50)})
		require.True(t, it.Dragging())

		v := it.Frame(fader.Input{Fraction: 0.8, Pressed: true, DoubleClick: true, At: at(100)})
		assert.Equal(t, 0.5, v)
		assert.False(t, it.Dragging(), "a double click mid-drag cancels the drag")
	})
}

func TestInteraction_DetectsDoubleClickFromPressPairs(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{Neutral: 0.5})
	it.SetValue(0.9)

	// Click once (press, release). A click without movement leaves the
	// level alone.
	it.Frame(fader.Input{Fraction: 0.9, Pressed: true, At: at(0)})
	it.Frame(fader.Input{Fraction: 0.9, Pressed: false, At: at(20)})
	require.InDelta(t, 0.9, it.Value(), 1e-12)

	// Second press nearby, inside the window: level back to neutral.
	v := it.Frame(fader.Input{Fraction: 0.9, Pressed: true, At: at(150)})
	assert.Equal(t, 0.5, v)
	assert.False(t, it.Dragging())
}

func TestInteraction_SlowSecondPressIsANewDrag(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{
		Neutral:           0.5,
		DoubleClickWindow: 300 * time.Millisecond,
	})

	it.SetValue(0.9)
	it.Frame(fader.Input{Fraction: 0.9, Pressed: true, At: at(0)})
	it.Frame(fader.Input{Fraction: 0.9, Pressed: false, At: at(20)})

	v := it.Frame(fader.Input{Fraction: 0.9, Pressed: true, At: at(800)})
	assert.InDelta(t, 0.9, v, 1e-12, "late second press must not reset")
	assert.True(t, it.Dragging())
}

func TestInteraction_FarSecondPressIsANewDrag(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{Neutral: 0.5})

	it.SetValue(0.9)
	it.Frame(fader.Input{Fraction: 0.9, Pressed: true, At: at(0)})
	it.Frame(fader.Input{Fraction: 0.9, Pressed: false, At: at(20)})

	// Inside the window but at the far end of the strip.
	v := it.Frame(fader.Input{Fraction: 0.1, Pressed: true, At: at(100)})
	assert.InDelta(t, 0.9, v, 1e-12, "a press alone must not move the level")
	assert.True(t, it.Dragging())
}

func TestInteraction_DragDeltaTracksDragOrigin(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(linearScale(t), fader.Config{})
	it.SetValue(0.2)

	assert.Equal(t, 0.0, it.DragDelta())

	it.Frame(fader.Input{Fraction: 0.2, Pressed: true, At: at(0)})
	it.Frame(fader.Input{Fraction: 0.6, Pressed: true, At: at(50)})
	assert.InDelta(t, 0.4, it.DragDelta(), 1e-12)

	it.Frame(fader.Input{Fraction: 0.6, Pressed: false, At: at(100)})
	assert.Equal(t, 0.0, it.DragDelta())
}

func TestInteraction_HandleFractionFollowsLevel(t *testing.T) {
	t.Parallel()

	s := scale.Decibel()
	it := fader.NewInteraction(s, fader.Config{Neutral: 0})

	assert.InDelta(t, s.FractionAt(0), it.HandleFraction(), 1e-12)

	it.SetValue(-30)
	assert.InDelta(t, s.FractionAt(-30), it.HandleFraction(), 1e-12)
}

func TestInteraction_SetValueClamps(t *testing.T) {
	t.Parallel()

	it := fader.NewInteraction(scale.Decibel(), fader.Config{})

	it.SetValue(500)
	assert.Equal(t, 10.0, it.Value())

	it.SetValue(-500)
	assert.Equal(t, -100.0, it.Value())
}
