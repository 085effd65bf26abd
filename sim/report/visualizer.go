package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/highway-sim/highway-sim/sim"
)

// ANSI escape sequences used by the terminal view.
const (
	ansiBackground = "\033[100m"
	ansiGreen      = "\033[92m"
	ansiYellow     = "\033[93m"
	ansiRed        = "\033[91m"
	ansiReset      = "\033[0m"
	ansiLineUp     = "\033[F"
)

// Visualizer draws the occupancy grid of every snapshot to a terminal,
// redrawing in place over the previous frame.
type Visualizer struct {
	w     io.Writer
	color bool
	lines int // lines drawn by the previous frame
}

// NewVisualizer creates a Visualizer writing to w. With color false the
// grid is drawn without escape codes other than cursor movement.
func NewVisualizer(w io.Writer, color bool) *Visualizer {
	return &Visualizer{w: w, color: color}
}

func (v *Visualizer) Name() string { return "visualizer" }

func (v *Visualizer) Report(_ context.Context, snap *sim.Snapshot) error {
	frame := Render(snap, v.color)
	var b strings.Builder
	b.WriteString(strings.Repeat(ansiLineUp, v.lines))
	b.WriteString(frame)
	if _, err := io.WriteString(v.w, b.String()); err != nil {
		return fmt.Errorf("draw cycle %d: %w", snap.Cycle, err)
	}
	v.lines = strings.Count(frame, "\n")
	return nil
}

// Render returns one frame: the incoming lanes drawn right to left, a
// separator, the outgoing lanes drawn left to right, then the status footer.
func Render(snap *sim.Snapshot, color bool) string {
	var b strings.Builder
	renderLanes(&b, snap.Occupancy(sim.Incoming), true, color)

	sep := strings.Repeat("─", snap.Highway.Size)
	if color {
		sep = ansiBackground + sep + ansiReset
	}
	b.WriteString(sep)
	b.WriteByte('\n')

	renderLanes(&b, snap.Occupancy(sim.Outgoing), false, color)

	stats := snap.Stats()
	fmt.Fprintf(&b, "Highway:\t%s\n", snap.Highway.Name)
	fmt.Fprintf(&b, "Cycle:\t\t%04d\n", snap.Cycle)
	fmt.Fprintf(&b, "Vehicles:\t%04d\n", stats.Vehicles)
	fmt.Fprintf(&b, "Moving:\t\t%04d\n", stats.Moving)
	fmt.Fprintf(&b, "Collisions:\t%04d\n", stats.Collisions)
	return b.String()
}

func renderLanes(b *strings.Builder, grid [][]int, reverse, color bool) {
	for _, cells := range grid {
		for i := range cells {
			if reverse {
				i = len(cells) - 1 - i
			}
			renderCell(b, cells[i], color)
		}
		b.WriteByte('\n')
	}
}

func renderCell(b *strings.Builder, count int, color bool) {
	if color {
		b.WriteString(ansiBackground)
		switch {
		case count == 1:
			b.WriteString(ansiGreen)
		case count >= 2 && count <= 5:
			b.WriteString(ansiYellow)
		case count > 5:
			b.WriteString(ansiRed)
		}
	}
	switch {
	case count == 0:
		b.WriteByte(' ')
	case count < 10:
		b.WriteByte(byte('0' + count))
	default:
		b.WriteByte('+')
	}
	if color {
		b.WriteString(ansiReset)
	}
}
