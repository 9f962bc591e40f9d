package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/xvierd/breathe-cli/internal/domain"
)

const (
	minRadius = 3
	maxRadius = 12

	// Rows used around the circle: title, cycle line, readout, progress bar
	// and help, with spacing.
	reservedRows = 14
)

// fitRadius returns the largest circle radius, in rows, that fits a
// width x height terminal. Cells are about twice as tall as they are wide,
// so the circle is 4r+1 columns by 2r+1 rows.
func fitRadius(width, height int) int {
	r := (height - reservedRows) / 2
	if w := (width - 4) / 4; w < r {
		r = w
	}
	if r > maxRadius {
		r = maxRadius
	}
	if r < minRadius {
		r = minRadius
	}
	return r
}

type cellKind int

const (
	cellOutside cellKind = iota
	cellHole
	cellFill
	cellLabel
)

// parseHex falls back to mid grey for an unparsable color.
func parseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c
}

// renderCircle draws the breathing ring: the pattern gradient runs top to
// bottom, the hole is Frame.Hole of the radius, and the instruction sits on
// the middle row in the pattern's text color.
func renderCircle(f Frame, p domain.Pattern, radius int, track lipgloss.Color) string {
	if radius < 1 {
		radius = 1
	}
	start := parseHex(p.Gradient.Start)
	end := parseHex(p.Gradient.End)

	holeStyle := lipgloss.NewStyle().Foreground(track)
	label := []rune(f.Label)
	width := 4*radius + 1

	lines := make([]string, 0, 2*radius+1)
	for row := -radius; row <= radius; row++ {
		t := float64(row+radius) / float64(2*radius)
		rowColor := lipgloss.Color(start.BlendLuv(end, t).Clamped().Hex())
		fillStyle := lipgloss.NewStyle().Foreground(rowColor)

		kinds := make([]cellKind, width)
		for col := -2 * radius; col <= 2*radius; col++ {
			d := math.Hypot(float64(col)/2, float64(row)) / float64(radius)
			k := cellOutside
			switch {
			case d > 1:
			case d < f.Hole:
				k = cellHole
			default:
				k = cellFill
			}
			kinds[col+2*radius] = k
		}

		labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.TextColor))
		labelStart := -1
		if row == 0 && len(label) > 0 && len(label) <= width {
			labelStart = (width - len(label)) / 2
			if kinds[width/2] == cellFill {
				labelStyle = labelStyle.Background(rowColor)
			}
			for i := range label {
				kinds[labelStart+i] = cellLabel
			}
		}

		var b strings.Builder
		for i := 0; i < width; {
			j := i
			for j < width && kinds[j] == kinds[i] {
				j++
			}
			n := j - i
			switch kinds[i] {
			case cellOutside:
				b.WriteString(strings.Repeat(" ", n))
			case cellHole:
				b.WriteString(holeStyle.Render(strings.Repeat("·", n)))
			case cellFill:
				b.WriteString(fillStyle.Render(strings.Repeat("█", n)))
			case cellLabel:
				b.WriteString(labelStyle.Render(string(label[i-labelStart : j-labelStart])))
			}
			i = j
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
