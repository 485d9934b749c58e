// Package tui assembles the fader application: the channel strip, its
// keyboard bindings, and the session controls around it.
package tui

import (
	"fmt"
	"log/slog"

	"github.com/alkime/fader/internal/scale"
	"github.com/alkime/fader/internal/tui/components/strip"
	"github.com/alkime/fader/internal/tui/components/waveform"
	"github.com/alkime/fader/internal/tui/style"
	"github.com/alkime/fader/pkg/uictl"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// nudgeDB is the level step for one keyboard nudge.
const nudgeDB = 1.0

// Waveform dimensions under the strip.
const (
	waveWidth  = 26
	waveHeight = 3
)

// Controls connects the app to the session around it.
type Controls struct {
	// Level mirrors the fader level for readers outside the UI loop,
	// e.g. the remote-control API.
	Level uictl.SetDial[float64]

	// Peak mirrors the held peak, in dBFS.
	Peak uictl.SetDial[float64]

	// Record gates whether capture packets reach the recorder.
	// Nil when the session records nothing.
	Record uictl.Knob

	// FileSize reports the recording's written bytes against its cap.
	FileSize uictl.CappedDial[int64]

	// Capture mutes/unmutes the capture device.
	Capture uictl.Knob
}

// Config configures the app model.
type Config struct {
	// DeviceName is shown in the header.
	DeviceName string

	// StripHeight is the fader travel in rows.
	StripHeight int

	Strip strip.Config
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reset  key.Binding
	Record key.Binding
	Mute   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reset, k.Record, k.Mute, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Reset},
		{k.Record, k.Mute, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "nudge up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "nudge down"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset to neutral"),
		),
		Record: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "record on/off"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute input"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the application model. Create with New.
type Model struct {
	conf     Config
	controls Controls

	strip   strip.Model
	wave    waveform.Model
	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

// New assembles the app around a scale and a live signal source.
func New(conf Config, controls Controls, s *scale.Scale, levels uictl.Levels[int16]) Model {
	stripConf := conf.Strip
	if conf.StripHeight > 0 {
		stripConf.Height = conf.StripHeight
	}

	// The header occupies the first row; the strip starts below it.
	st := strip.New(s, levels, stripConf).SetOffset(0, 1)

	m := Model{
		conf:     conf,
		controls: controls,
		strip:    st,
		wave:     waveform.New(levels, waveWidth, waveHeight),
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Points)),
	}

	if controls.Level != nil {
		controls.Level.Set(st.Level())
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.strip.Init(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case strip.LevelChangedMsg:
		if m.controls.Level != nil {
			m.controls.Level.Set(msg.DB)
		}

		slog.Debug("fader level changed", "db", msg.DB)

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	// Everything else (mouse, ticks, remote set-level) is the strip's.
	var cmd tea.Cmd
	m.strip, cmd = m.strip.Update(msg)

	if m.controls.Peak != nil {
		m.controls.Peak.Set(m.strip.Peak())
	}

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.strip, cmd = m.strip.Nudge(nudgeDB)

	case key.Matches(msg, m.keys.Down):
		m.strip, cmd = m.strip.Nudge(-nudgeDB)

	case key.Matches(msg, m.keys.Reset):
		m.strip, cmd = m.strip.Reset()

	case key.Matches(msg, m.keys.Record):
		if m.controls.Record != nil {
			m.controls.Record.Toggle()
		}

	case key.Matches(msg, m.keys.Mute):
		if m.controls.Capture != nil {
			m.controls.Capture.Toggle()
		}
	}

	return m, cmd
}

func (m Model) View() string {
	s := style.Title.Render("fader") + "  " + style.Muted.Render(m.conf.DeviceName) + "\n"
	s += m.strip.View() + "\n"
	s += m.wave.View() + "\n"
	s += m.statusLine() + "\n"
	s += m.help.View(m.keys)

	return s
}

func (m Model) statusLine() string {
	s := ""

	if m.controls.Record != nil && m.controls.Record.Read() {
		s += m.spinner.View() + " " + style.Error.Render("REC")

		if m.controls.FileSize != nil {
			written, limit := m.controls.FileSize.Cap()
			s += " " + style.Muted.Render(fmt.Sprintf("%s / %s", mib(written), mib(limit)))
		}

		s += "  "
	}

	if m.controls.Capture != nil && !m.controls.Capture.Read() {
		s += style.Warning.Render("MUTED")
	}

	return s
}

func mib(n int64) string {
	return fmt.Sprintf("%.1f MiB", float64(n)/(1024*1024))
}
