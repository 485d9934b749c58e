// Package uictl defines the small control contracts that connect UI
// components to the things they read and adjust.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Knob is a simple on/off toggle control.
type Knob interface {
	Read() bool
	On()
	Off()
	Toggle()
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// SetDial is a Dial that can also be written, e.g. by a remote control
// surface adjusting a fader from outside the UI.
type SetDial[N Number] interface {
	Dial[N]
	Set(N)
}

// CappedDial is a Dial with a maximum cap value.
type CappedDial[N Number] interface {
	Dial[N]
	Cap() (num, max N)
}

// Levels is a control that can read multiple recent samples.
type Levels[N Number] interface {
	Read() []N
}
