package audio

import (
	"github.com/gen2brain/malgo"
)

const (
	// DefaultSampleRate is 48kHz, the native rate of most interfaces.
	DefaultSampleRate = 48_000
	// DefaultChannels is mono (1 channel).
	DefaultChannels = 1
)

type DeviceConfig struct {
	Format          malgo.FormatType
	CaptureChannels int
	SampleRate      int
}

// WithDefaults returns a config with default values applied to zero fields.
func (c DeviceConfig) WithDefaults() DeviceConfig {
	if c.Format == malgo.FormatUnknown {
		c.Format = malgo.FormatS16
	}

	if c.CaptureChannels == 0 {
		c.CaptureChannels = DefaultChannels
	}

	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}

	return c
}
