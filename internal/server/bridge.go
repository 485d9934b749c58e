package server

import (
	"math"
	"sync"
)

// Bridge mirrors a UI value for readers outside the Bubble Tea loop.
// It implements uictl.SetDial[float64]: the app writes, handlers read.
type Bridge struct {
	mu      sync.RWMutex
	current float64
}

// NewBridge creates a bridge starting at the given value.
func NewBridge(initial float64) *Bridge {
	return &Bridge{current: initial}
}

// NewPeakBridge creates a bridge for dBFS peaks, starting at silence.
func NewPeakBridge() *Bridge {
	return NewBridge(math.Inf(-1))
}

func (b *Bridge) Read() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.current
}

func (b *Bridge) Set(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = v
}
