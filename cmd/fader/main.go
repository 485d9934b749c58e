package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/fader/internal/audio"
	"github.com/alkime/fader/internal/config"
	"github.com/alkime/fader/internal/fader"
	"github.com/alkime/fader/internal/logger"
	"github.com/alkime/fader/internal/scale"
	"github.com/alkime/fader/internal/server"
	"github.com/alkime/fader/internal/tui"
	"github.com/alkime/fader/internal/tui/components/strip"
	"github.com/alkime/fader/pkg/channels"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/malgo"
)

// CLI defines the fader command structure.
type CLI struct {
	// Default monitor command (runs when no subcommand given)
	Monitor MonitorCmd `cmd:"" default:"withargs" help:"Monitor the capture device with an interactive fader"`

	// Subcommands
	Devices DevicesCmd `cmd:"" help:"List available audio capture devices"`
}

// MonitorCmd is the default command that runs the TUI.
type MonitorCmd struct {
	Record      string        `flag:"" optional:"" help:"Record the monitored input to this MP3 path"`
	Serve       string        `flag:"" optional:"" help:"Serve the remote-control API on this address (host:port)"`
	Height      int           `flag:"" default:"21" help:"Fader travel in terminal rows"`
	MaxDuration time.Duration `flag:"" default:"1h" help:"Max recording duration"`
	MaxBytes    int64         `flag:"" default:"268435456" help:"Max recording file size (256MB)"`
}

// Run executes the monitor command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *MonitorCmd) Run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := sync.WaitGroup{}

	if c.Serve != "" {
		cfg.ServeAddr = c.Serve
	}

	sc := scale.Decibel()

	// input

	dev := audio.NewDevice(audio.DeviceConfig{
		Format:          malgo.FormatS16,
		SampleRate:      cfg.SampleRate,
		CaptureChannels: audio.DefaultChannels,
	})

	fanout := channels.NewFanOut[audio.DataPacket]()

	// Meter path: raw packets into the ring the strip reads each tick.
	meterC := make(chan audio.DataPacket, 64)
	fanout.Subscribe(meterC)

	meter := audio.NewMeterBuffer(cfg.SampleRate, cfg.SampleRate/20)

	wg.Add(1)
	go func() {
		defer wg.Done()
		meter.Pump(ctx, meterC)
	}()

	// Recording path: packets pass a gate the UI toggles, then feed the
	// streaming encoder.
	var (
		recorder   *audio.Recorder
		recordGate *gateKnob
	)

	if c.Record != "" {
		recC := make(chan audio.DataPacket, 64)
		fanout.Subscribe(recC)

		recordGate = &gateKnob{}
		recordGate.On()

		gatedC := make(chan []byte, 64)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(gatedC)

			for {
				select {
				case <-ctx.Done():
					return
				case packet, ok := <-recC:
					if !ok {
						return
					}

					if !recordGate.Read() {
						continue
					}

					select {
					case gatedC <- packet:
					case <-ctx.Done():
						return
					}
				}
			}
		}()

		var err error

		recorder, err = audio.NewRecorder(audio.RecorderConfig{
			MP3Path:     c.Record,
			SampleRate:  cfg.SampleRate,
			Channels:    audio.DefaultChannels,
			MaxDuration: c.MaxDuration,
			MaxBytes:    c.MaxBytes,
		}, gatedC)
		if err != nil {
			return fmt.Errorf("failed to create audio recorder: %w", err)
		}
	}

	inputC, err := fanout.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to start packet fan out: %w", err)
	}

	if err := dev.CaptureInto(ctx, inputC); err != nil {
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	// always dealloc when we're done
	defer func() {
		dev.Dealloc(ctx)
		slog.Debug("Audio device deallocated")
	}()

	if err := dev.Start(ctx); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	// Build the TUI around the live pieces

	levelBridge := server.NewBridge(cfg.NeutralDB)
	peakBridge := server.NewPeakBridge()

	controls := tui.Controls{
		Level:   levelBridge,
		Peak:    peakBridge,
		Capture: deviceKnob{ctx: ctx, dev: dev},
	}
	if recordGate != nil {
		controls.Record = recordGate
		controls.FileSize = fileDial{recorder: recorder, maxBytes: c.MaxBytes}
	}

	appConf := tui.Config{
		DeviceName:  defaultCaptureName(ctx, dev),
		StripHeight: c.Height,
		Strip: strip.Config{
			Height: c.Height,
			Fader:  faderConfig(cfg, sc),
			Peak:   peakConfig(cfg),
		},
	}

	p := tea.NewProgram(tui.New(appConf, controls, sc, meter), tea.WithMouseCellMotion())

	if cfg.ServeAddr != "" {
		srv := server.New(cfg, slog.Default(), sc, levelBridge, peakBridge, func(db float64) {
			p.Send(strip.SetLevelMsg{DB: db})
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Run(srv); err != nil {
				slog.Error("Remote control server error", "error", err)
			}
		}()
	}

	// Recorder goroutine (runs until the gate channel closes or a limit trips)
	if recorder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := recorder.Start(ctx); err != nil {
				slog.Error("Audio recorder error", "error", err)
				return
			}

			if err := recorder.Wait(); err != nil {
				slog.Error("Audio recorder error", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	// The capture callback feeds the fan-out input, which closes on
	// cancel. Stop the device first so nothing sends after the close.
	if err := dev.Stop(ctx); err != nil {
		slog.Error("Failed to stop audio device", "error", err)
	}

	dev.Dealloc(ctx)
	cancel()
	fanout.Wait()
	wg.Wait()

	if recorder != nil {
		fmt.Printf("\nwrote %d bytes to %s\n", recorder.BytesWritten(), c.Record)
	}

	return nil
}

// DevicesCmd lists available audio capture devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run(cfg *config.Config) error {
	slog.Info("Enumerating audio devices...")

	adev := audio.NewDevice(audio.DeviceConfig{})
	devices, err := adev.EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formatCount", dev.FormatCount,
			"formats", dev.Formats,
		)
	}

	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns stdout, so logs go to stderr.
	slog.SetDefault(logger.SetupLoggerTo(cfg, os.Stderr))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli, kong.Bind(cfg))
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

func faderConfig(cfg *config.Config, sc *scale.Scale) fader.Config {
	return fader.Config{
		Neutral:           sc.Clamp(cfg.NeutralDB),
		FineRatio:         cfg.FineDragRatio,
		DoubleClickWindow: time.Duration(cfg.DoubleClickMS) * time.Millisecond,
	}
}

func peakConfig(cfg *config.Config) fader.PeakConfig {
	policy := fader.DecayLinear
	if cfg.PeakDecay == "snap" {
		policy = fader.DecaySnap
	}

	return fader.PeakConfig{
		Hold:    time.Duration(cfg.PeakHoldMS) * time.Millisecond,
		Falloff: time.Duration(cfg.PeakFalloffMS) * time.Millisecond,
		Policy:  policy,
	}
}

// defaultCaptureName looks up the default capture device for the header.
func defaultCaptureName(ctx context.Context, dev audio.Device) string {
	devices, err := dev.EnumerateDevices(ctx)
	if err != nil {
		slog.Debug("device enumeration failed", "error", err)
		return "default input"
	}

	for _, d := range devices {
		if d.IsDefault {
			return d.Name
		}
	}

	return "default input"
}

// gateKnob gates the recording path. Safe for concurrent use.
type gateKnob struct {
	open atomic.Bool
}

func (g *gateKnob) Read() bool { return g.open.Load() }
func (g *gateKnob) On()        { g.open.Store(true) }
func (g *gateKnob) Off()       { g.open.Store(false) }
func (g *gateKnob) Toggle() {
	for {
		old := g.open.Load()
		if g.open.CompareAndSwap(old, !old) {
			return
		}
	}
}

// fileDial reports recording progress against the byte limit.
type fileDial struct {
	recorder *audio.Recorder
	maxBytes int64
}

func (fd fileDial) Read() int64 {
	return fd.recorder.BytesWritten()
}

func (fd fileDial) Cap() (int64, int64) {
	return fd.Read(), fd.maxBytes
}

// deviceKnob maps the mute control onto the capture device.
type deviceKnob struct {
	ctx context.Context
	dev audio.Device
}

func (dk deviceKnob) Read() bool {
	return dk.dev.IsStarted()
}

func (dk deviceKnob) On() {
	if err := dk.dev.Start(dk.ctx); err != nil {
		slog.Error("deviceKnob On error", "error", err)
	}
}

func (dk deviceKnob) Off() {
	if err := dk.dev.Stop(dk.ctx); err != nil {
		slog.Error("deviceKnob Off error", "error", err)
	}
}

func (dk deviceKnob) Toggle() {
	if err := dk.dev.Toggle(dk.ctx); err != nil {
		slog.Error("deviceKnob Toggle error", "error", err)
	}
}
