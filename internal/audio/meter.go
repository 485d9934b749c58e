package audio

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
)

// SilenceDBFS is the level reported for an all-zero window. Negative
// infinity, so any piecewise scale clamps it to the bottom of its travel.
var SilenceDBFS = math.Inf(-1)

// MeterBuffer keeps the most recent capture samples for level metering.
// One goroutine writes (the capture pump), any number read. Its Read
// method satisfies uictl.Levels[int16].
type MeterBuffer struct {
	samples []int16
	head    int // next write position
	count   int // valid samples, up to capacity
	window  int // how many recent samples Read returns
	mu      sync.RWMutex
}

// NewMeterBuffer creates a buffer holding capacity samples whose Read
// returns up to window recent samples. The window is capped at capacity.
func NewMeterBuffer(capacity, window int) *MeterBuffer {
	if window > capacity {
		window = capacity
	}

	return &MeterBuffer{
		samples: make([]int16, capacity),
		window:  window,
	}
}

// Write appends samples, overwriting the oldest once full.
func (b *MeterBuffer) Write(samples []int16) {
	if len(samples) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.samples)

	for _, sample := range samples {
		b.samples[b.head] = sample
		b.head = (b.head + 1) % capacity

		if b.count < capacity {
			b.count++
		}
	}
}

// WriteBytes decodes S16LE PCM bytes and appends the samples. A trailing
// odd byte is dropped.
func (b *MeterBuffer) WriteBytes(data []byte) {
	n := len(data) / 2
	if n == 0 {
		return
	}

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}

	b.Write(samples)
}

// Read returns the most recent window of samples in chronological order.
// Returns fewer while the buffer is filling, nil when empty.
func (b *MeterBuffer) Read() []int16 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := b.window
	if n > b.count {
		n = b.count
	}

	if n == 0 {
		return nil
	}

	result := make([]int16, n)
	capacity := len(b.samples)
	start := (b.head - n + capacity) % capacity

	for i := 0; i < n; i++ {
		result[i] = b.samples[(start+i)%capacity]
	}

	return result
}

// Count returns the number of valid samples buffered.
func (b *MeterBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.count
}

// Pump copies capture packets into the buffer until the channel closes or
// the context is cancelled. Run it in its own goroutine.
func (b *MeterBuffer) Pump(ctx context.Context, packets <-chan DataPacket) {
	for {
		select {
		case pkt, ok := <-packets:
			if !ok {
				return
			}

			b.WriteBytes(pkt)

		case <-ctx.Done():
			return
		}
	}
}

// Amplitude returns the window's largest magnitude normalized to [0,1].
func Amplitude(samples []int16) float64 {
	return float64(maxAbsAmplitude(samples)) / 32768.0
}

// AmplitudeDBFS converts a normalized amplitude to dB relative to full
// scale. Silence reports SilenceDBFS.
func AmplitudeDBFS(amp float64) float64 {
	if amp <= 0 {
		return SilenceDBFS
	}

	return 20 * math.Log10(amp)
}

// DBFS converts a window of samples to a peak level in dB relative to
// full scale.
func DBFS(samples []int16) float64 {
	return AmplitudeDBFS(Amplitude(samples))
}

// maxAbsAmplitude returns the largest magnitude in samples.
func maxAbsAmplitude(samples []int16) int16 {
	var maxAmp int16

	for _, s := range samples {
		// -32768 has no positive int16 equivalent.
		if s == math.MinInt16 {
			return math.MaxInt16
		}

		if s < 0 {
			s = -s
		}

		if s > maxAmp {
			maxAmp = s
		}
	}

	return maxAmp
}
