// Package scale maps normalized fader travel to values on a piecewise
// linear range, and back.
//
// A Scale is built from ordered breakpoints spanning positions 0 to 1.
// Between adjacent breakpoints values are linearly interpolated, which is
// how a physical fader packs more resolution around unity gain than at the
// bottom of its throw.
package scale

import "fmt"

// Breakpoint anchors one segment of the piecewise mapping.
// Position is the normalized travel in [0,1]; Value is the level there.
type Breakpoint struct {
	Position float64
	Value    float64
}

// ConfigError reports an invalid breakpoint sequence. It is only returned
// from New; once a Scale exists, lookups never fail.
type ConfigError struct {
	reason string
}

func (e *ConfigError) Error() string {
	return "scale: " + e.reason
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{reason: fmt.Sprintf(format, args...)}
}

// Scale is an immutable piecewise linear mapping between normalized travel
// and level values. Safe to share across widgets once constructed.
type Scale struct {
	points   []Breakpoint
	min, max float64
}

// New validates points and builds a Scale. Points must be ordered by
// strictly increasing position, with the first at position 0 and the last
// at position 1. At least two points are required. Values may be
// non-monotonic; lookups then resolve ties toward the lower position.
func New(points []Breakpoint) (*Scale, error) {
	if len(points) < 2 {
		return nil, configErrorf("need at least 2 breakpoints, got %d", len(points))
	}

	if points[0].Position != 0 {
		return nil, configErrorf("first breakpoint position must be 0, got %g", points[0].Position)
	}

	if points[len(points)-1].Position != 1 {
		return nil, configErrorf("last breakpoint position must be 1, got %g", points[len(points)-1].Position)
	}

	for i := 1; i < len(points); i++ {
		if points[i].Position <= points[i-1].Position {
			return nil, configErrorf("breakpoint positions must be strictly increasing (%g then %g at index %d)",
				points[i-1].Position, points[i].Position, i)
		}
	}

	owned := make([]Breakpoint, len(points))
	copy(owned, points)

	mn, mx := owned[0].Value, owned[0].Value
	for _, p := range owned[1:] {
		if p.Value < mn {
			mn = p.Value
		}

		if p.Value > mx {
			mx = p.Value
		}
	}

	return &Scale{points: owned, min: mn, max: mx}, nil
}

// Evenly builds a Scale placing the given values at evenly spaced
// positions, the way a classic fader legend spaces its dB increments.
func Evenly(values []float64) (*Scale, error) {
	if len(values) < 2 {
		return nil, configErrorf("need at least 2 values, got %d", len(values))
	}

	points := make([]Breakpoint, len(values))
	step := 1.0 / float64(len(values)-1)

	for i, v := range values {
		points[i] = Breakpoint{Position: float64(i) * step, Value: v}
	}

	// Pin the endpoints so float error can't violate the [0,1] span.
	points[len(points)-1].Position = 1

	return New(points)
}

// DecibelValues is the conventional gain legend for a channel fader, in dB.
var DecibelValues = []float64{-100, -50, -40, -30, -20, -10, -5, 0, 5, 10}

// Decibel returns the conventional dB gain scale: DecibelValues at evenly
// spaced positions.
func Decibel() *Scale {
	s, err := Evenly(DecibelValues)
	if err != nil {
		// DecibelValues is a valid sequence; this cannot happen.
		panic(err)
	}

	return s
}

// ValueAt returns the level at normalized travel fraction. Fractions
// outside [0,1] clamp to the endpoint values; there is no extrapolation.
func (s *Scale) ValueAt(fraction float64) float64 {
	if fraction <= 0 {
		return s.points[0].Value
	}

	if fraction >= 1 {
		return s.points[len(s.points)-1].Value
	}

	// Linear scan: breakpoint counts are small (typically under ~10).
	for i := 1; i < len(s.points); i++ {
		p0, p1 := s.points[i-1], s.points[i]
		if fraction <= p1.Position {
			t := (fraction - p0.Position) / (p1.Position - p0.Position)
			return p0.Value + (p1.Value-p0.Value)*t
		}
	}

	return s.points[len(s.points)-1].Value
}

// FractionAt returns the normalized travel where value sits. For
// non-monotonic scales the first segment (in position order) containing the
// value wins. Values outside the scale's range clamp to the travel of the
// nearest extreme.
func (s *Scale) FractionAt(value float64) float64 {
	if value <= s.min {
		return s.fractionOf(s.min)
	}

	if value >= s.max {
		return s.fractionOf(s.max)
	}

	for i := 1; i < len(s.points); i++ {
		p0, p1 := s.points[i-1], s.points[i]

		lo, hi := p0.Value, p1.Value
		if lo > hi {
			lo, hi = hi, lo
		}

		if value < lo || value > hi {
			continue
		}

		if p0.Value == p1.Value {
			// Flat segment: every travel in it maps to this value;
			// report the segment's lower bound.
			return p0.Position
		}

		t := (value - p0.Value) / (p1.Value - p0.Value)

		return p0.Position + (p1.Position-p0.Position)*t
	}

	// Unreachable: value is within [min,max], so some segment spans it.
	return s.points[len(s.points)-1].Position
}

// fractionOf returns the position of the first breakpoint holding value.
func (s *Scale) fractionOf(value float64) float64 {
	for _, p := range s.points {
		if p.Value == value {
			return p.Position
		}
	}

	return s.points[len(s.points)-1].Position
}

// Span returns the total value range covered by the scale, over all
// breakpoints rather than just the endpoints.
func (s *Scale) Span() (min, max float64) {
	return s.min, s.max
}

// Clamp limits value to the scale's span.
func (s *Scale) Clamp(value float64) float64 {
	if value < s.min {
		return s.min
	}

	if value > s.max {
		return s.max
	}

	return value
}

// Breakpoints returns a copy of the breakpoint sequence, for callers that
// render tick legends.
func (s *Scale) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(s.points))
	copy(out, s.points)

	return out
}
