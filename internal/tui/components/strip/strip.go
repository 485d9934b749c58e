// Package strip provides a channel-strip TUI component: an interactive
// fader with a live signal meter and held-peak marker beside it.
//
// The strip owns the host coupling only. Position/value mapping lives in
// the scale package and the drag protocol in the fader package; this
// component translates terminal mouse events and frame ticks into their
// inputs and renders the result.
package strip

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alkime/fader/internal/audio"
	"github.com/alkime/fader/internal/fader"
	"github.com/alkime/fader/internal/scale"
	"github.com/alkime/fader/internal/tui/style"
	"github.com/alkime/fader/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval renders the meter at ~20 FPS.
const tickInterval = 50 * time.Millisecond

// TickMsg triggers a meter refresh.
type TickMsg struct {
	Time time.Time
}

// LevelChangedMsg reports a new fader level, however it was set.
type LevelChangedMsg struct {
	DB float64
}

// SetLevelMsg sets the fader level from outside the pointer protocol,
// e.g. from the remote-control API. The level is clamped to the scale.
type SetLevelMsg struct {
	DB float64
}

// stripWidth is the rendered width in cells: rail, legend, meter.
const stripWidth = 3 + 7 + 3

// Config tunes a strip beyond the interaction defaults.
type Config struct {
	// Height is the fader travel in rows; at least 4 are needed for a
	// usable throw.
	Height int

	Fader fader.Config
	Peak  fader.PeakConfig
}

// Model is the channel-strip component. Create with New.
type Model struct {
	scale  *scale.Scale
	levels uictl.Levels[int16] // live signal source, may be nil

	interaction *fader.Interaction
	peak        *fader.PeakTracker

	width, height    int
	offsetX, offsetY int

	signalDB float64
	peakDB   float64
	lastTick time.Time
}

// New creates a strip reading its signal from levels and mapping travel
// through s.
func New(s *scale.Scale, levels uictl.Levels[int16], conf Config) Model {
	if conf.Height < 4 {
		conf.Height = 4
	}

	return Model{
		scale:       s,
		levels:      levels,
		interaction: fader.NewInteraction(s, conf.Fader),
		peak:        fader.NewPeakTracker(conf.Peak),
		width:       stripWidth,
		height:      conf.Height,
		signalDB:    math.Inf(-1),
		peakDB:      math.Inf(-1),
	}
}

// SetOffset records the strip's top-left screen cell, for mouse hit
// testing. Terminal mouse coordinates are global, not widget-relative.
func (m Model) SetOffset(x, y int) Model {
	m.offsetX = x
	m.offsetY = y

	return m
}

// Level returns the current fader level in scale units (dB).
func (m Model) Level() float64 {
	return m.interaction.Value()
}

// Peak returns the held peak in dBFS. Silence reads as -Inf.
func (m Model) Peak() float64 {
	return m.peakDB
}

// Nudge moves the level by delta scale units, clamped to the range.
func (m Model) Nudge(delta float64) (Model, tea.Cmd) {
	m.interaction.SetValue(m.interaction.Value() + delta)

	return m, m.levelChanged()
}

// Reset restores the neutral level, like a double click.
func (m Model) Reset() (Model, tea.Cmd) {
	m.interaction.Reset()

	return m, m.levelChanged()
}

// Init returns the initial tick command.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles mouse, tick and set-level messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		m = m.observeSignal(msg.Time)

		return m, m.tick()

	case SetLevelMsg:
		m.interaction.SetValue(msg.DB)

		return m, m.levelChanged()
	}

	return m, nil
}

// tick schedules the next meter refresh.
func (m Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// levelChanged emits the current level to the host app.
func (m Model) levelChanged() tea.Cmd {
	db := m.interaction.Value()

	return func() tea.Msg {
		return LevelChangedMsg{DB: db}
	}
}

// handleMouse folds one mouse event into the drag protocol.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	frac, inside := m.pointerFraction(msg.X, msg.Y)

	in := fader.Input{
		Fraction: frac,
		Fine:     msg.Shift || msg.Alt || msg.Ctrl,
		At:       time.Now(),
	}

	switch msg.Action {
	case tea.MouseActionPress:
		// Presses outside the strip belong to someone else. Once a
		// drag is running the pointer may wander anywhere; the
		// fraction just clamps. Releases can report MouseButtonNone
		// on some terminals, so only presses check the button.
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}

		in.Pressed = true

	case tea.MouseActionMotion:
		if !m.interaction.Dragging() {
			return m, nil
		}

		in.Pressed = true

	case tea.MouseActionRelease:
		in.Pressed = false

	default:
		return m, nil
	}

	before := m.interaction.Value()
	after := m.interaction.Frame(in)

	if after != before {
		return m, m.levelChanged()
	}

	return m, nil
}

// pointerFraction maps a terminal cell to fader travel: 1 at the top row
// of the strip, 0 at the bottom.
func (m Model) pointerFraction(x, y int) (frac float64, inside bool) {
	inside = x >= m.offsetX && x < m.offsetX+m.width &&
		y >= m.offsetY && y < m.offsetY+m.height

	frac = 1 - float64(y-m.offsetY)/float64(m.height-1)

	return frac, inside
}

// observeSignal folds one frame of the live signal into the meter state.
func (m Model) observeSignal(now time.Time) Model {
	elapsed := tickInterval
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}

	m.lastTick = now

	amp := 0.0
	if m.levels != nil {
		amp = audio.Amplitude(m.levels.Read())
	}

	peakAmp := m.peak.Observe(amp, elapsed)

	m.signalDB = audio.AmplitudeDBFS(amp)
	m.peakDB = audio.AmplitudeDBFS(peakAmp)

	return m
}

// View renders the strip: fader rail, dB legend, then the meter column.
func (m Model) View() string {
	handleRow := m.rowFor(m.interaction.HandleFraction())
	signalRow := m.rowAbove(m.signalDB)
	peakRow := m.rowAbove(m.peakDB)
	legend := m.legendByRow()

	var sb strings.Builder

	for row := 0; row < m.height; row++ {
		if row > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(m.railCell(row, handleRow))
		sb.WriteString(legend[row])
		sb.WriteString(m.meterCell(row, signalRow, peakRow))
	}

	sb.WriteString("\n")
	sb.WriteString(m.readout())

	return sb.String()
}

// railCell renders one row of the fader track.
func (m Model) railCell(row, handleRow int) string {
	if row == handleRow {
		if m.interaction.Dragging() {
			return style.HandleActive.Render("▐█▌")
		}

		return style.Handle.Render("▐█▌")
	}

	return style.Rail.Render(" │ ")
}

// legendByRow lays the scale's breakpoint values out as tick labels, one
// per row, e.g. "  -20 ┤".
func (m Model) legendByRow() []string {
	rows := make([]string, m.height)

	for i := range rows {
		rows[i] = style.Legend.Render("      │")
	}

	for _, p := range m.scale.Breakpoints() {
		row := m.rowFor(p.Position)
		rows[row] = style.Legend.Render(fmt.Sprintf("%5.0f ┤", p.Value))
	}

	return rows
}

// meterCell renders one row of the signal column with its peak marker.
func (m Model) meterCell(row, signalRow, peakRow int) string {
	const cell = " ██"

	if row >= signalRow {
		if m.rowDB(row) > 0 {
			return style.MeterHot.Render(cell)
		}

		return style.Meter.Render(cell)
	}

	// The held peak only shows above the live signal.
	if row == peakRow && peakRow < m.height {
		return style.Peak.Render(" ▂▂")
	}

	return "   "
}

// readout renders the level line under the strip, with the drag delta
// while the handle is held.
func (m Model) readout() string {
	s := style.Value.Render(fmt.Sprintf("%+6.1f dB", m.interaction.Value()))

	if m.interaction.Dragging() {
		s += style.Delta.Render(fmt.Sprintf(" (%+.1f)", m.interaction.DragDelta()))
	}

	return s
}

// rowFor converts a travel fraction to a row index, top row = travel 1.
func (m Model) rowFor(frac float64) int {
	row := int(math.Round((1 - frac) * float64(m.height-1)))

	if row < 0 {
		row = 0
	}

	if row > m.height-1 {
		row = m.height - 1
	}

	return row
}

// rowAbove converts a level to the first filled meter row. Silence maps
// past the bottom so nothing is drawn.
func (m Model) rowAbove(db float64) int {
	if math.IsInf(db, -1) {
		return m.height
	}

	return m.rowFor(m.scale.FractionAt(db))
}

// rowDB is the level at the top edge of a row, for the hot-zone check.
func (m Model) rowDB(row int) float64 {
	return m.scale.ValueAt(1 - float64(row)/float64(m.height-1))
}

