// Package waveform renders recent audio samples as a block-character
// amplitude view. The host drives redraws; the component only reads
// its Levels source at render time.
package waveform

import (
	"math"
	"strings"

	"github.com/alkime/fader/internal/audio"
	"github.com/alkime/fader/internal/tui/style"
	"github.com/alkime/fader/pkg/uictl"
)

// blockChars holds the fill levels for one cell, empty to full.
const blockChars = " ▁▂▃▄▅▆▇█"

const levelsPerRow = 8

// Model displays amplitude over time, left=older, right=newer.
type Model struct {
	levels uictl.Levels[int16]
	width  int
	height int
}

// New creates a waveform of the given size. Samples are bucketed to fit
// the width; each bucket column shows its loudest sample.
func New(levels uictl.Levels[int16], width, height int) Model {
	if height < 1 {
		height = 1
	}

	return Model{
		levels: levels,
		width:  width,
		height: height,
	}
}

func (m Model) View() string {
	if m.levels == nil {
		return m.viewEmpty()
	}

	samples := m.levels.Read()
	if len(samples) == 0 {
		return m.viewEmpty()
	}

	columns := m.columnLevels(samples)
	runes := []rune(blockChars)

	var sb strings.Builder

	for row := 0; row < m.height; row++ {
		if row > 0 {
			sb.WriteString("\n")
		}

		var line strings.Builder

		for col := 0; col < m.width; col++ {
			line.WriteRune(runes[m.cellFill(columns[col], row)])
		}

		sb.WriteString(style.Meter.Render(line.String()))
	}

	return sb.String()
}

// columnLevels buckets the samples into width columns and maps each
// bucket's loudest sample to a level in [0, height*levelsPerRow].
func (m Model) columnLevels(samples []int16) []int {
	columns := make([]int, m.width)
	bucket := max(1, len(samples)/m.width)
	maxLevel := m.height * levelsPerRow

	for col := 0; col < m.width; col++ {
		start := col * bucket
		if start >= len(samples) {
			continue
		}

		end := min(start+bucket, len(samples))
		columns[col] = displayLevel(audio.Amplitude(samples[start:end]), maxLevel)
	}

	return columns
}

// cellFill returns the block index for one cell. Row 0 is the top row,
// so its cells only fill once every row below it is full.
func (m Model) cellFill(level, row int) int {
	base := (m.height - 1 - row) * levelsPerRow
	fill := level - base

	if fill <= 0 {
		return 0
	}

	if fill >= levelsPerRow {
		return levelsPerRow
	}

	return fill
}

func (m Model) viewEmpty() string {
	var sb strings.Builder

	for row := 0; row < m.height; row++ {
		if row > 0 {
			sb.WriteString("\n")
		}

		cell := " "
		if row == m.height-1 {
			// Bottom row shows the baseline
			cell = "▁"
		}

		sb.WriteString(style.Muted.Render(strings.Repeat(cell, m.width)))
	}

	return sb.String()
}

// displayLevel maps a normalized amplitude to [0, maxLevel]. Square root
// scaling keeps quiet audio visible.
func displayLevel(amp float64, maxLevel int) int {
	if amp <= 0 {
		return 0
	}

	scaled := math.Round(math.Sqrt(amp) * float64(maxLevel))

	return min(int(scaled), maxLevel)
}
