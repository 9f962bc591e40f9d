package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/breathe-cli/internal/catalog"
)

func TestFitRadius(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{"tiny terminal", 20, 10, minRadius},
		{"standard 80x24", 80, 24, 5},
		{"tall but narrow", 40, 60, 9},
		{"huge terminal", 300, 100, maxRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitRadius(tt.width, tt.height); got != tt.want {
				t.Errorf("fitRadius(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestRenderCircle_Shape(t *testing.T) {
	p := catalog.Default().MustLookup(catalog.Grounding)
	radius := 4

	out := renderCircle(Frame{Label: "Inhale", Hole: 0.5}, p, radius, lipgloss.Color("#333333"))
	lines := strings.Split(out, "\n")

	if len(lines) != 2*radius+1 {
		t.Fatalf("got %d rows, want %d", len(lines), 2*radius+1)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 4*radius+1 {
			t.Errorf("row %d is %d cells wide, want %d", i, w, 4*radius+1)
		}
	}
	if !strings.Contains(lines[radius], "Inhale") {
		t.Errorf("middle row %q should carry the label", lines[radius])
	}
	if !strings.Contains(out, "·") {
		t.Error("a half-open circle should show hole cells")
	}
}

func TestRenderCircle_FullHasNoHole(t *testing.T) {
	p := catalog.Default().MustLookup(catalog.Calm)

	out := renderCircle(Frame{Hole: holeFull}, p, 5, lipgloss.Color("#333333"))

	if strings.Contains(out, "·") {
		t.Error("a full circle should not show hole cells")
	}
	if !strings.Contains(out, "█") {
		t.Error("a full circle should show fill cells")
	}
}

func TestRenderCircle_LabelTooWide(t *testing.T) {
	p := catalog.Default().MustLookup(catalog.Calm)

	out := renderCircle(Frame{Label: "a label far wider than the circle", Hole: holeEmpty}, p, 1, lipgloss.Color("#333333"))

	if strings.Contains(out, "label") {
		t.Error("labels wider than the circle should be dropped")
	}
}

func TestParseHex(t *testing.T) {
	if c := parseHex("#ff0000"); c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("parseHex(#ff0000) = %v", c)
	}
	if c := parseHex("nope"); c.R != 0.5 {
		t.Errorf("parseHex(nope) should fall back to grey, got %v", c)
	}
}
