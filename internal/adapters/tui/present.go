package tui

import (
	"strconv"

	"github.com/xvierd/breathe-cli/internal/domain"
)

// Hole sizes as a fraction of the circle radius.
const (
	holeFull  = 0.0
	holeEmpty = 0.82
)

// Frame is everything the exercise screen draws for one snapshot.
type Frame struct {
	Phase domain.Phase
	// Class names the visual state of the circle: "ready" and "exhale" share
	// the resting shape.
	Class     string
	Label     string
	Hole      float64
	Remaining string
	Progress  float64
	Cycles    int
}

// Present maps a runner snapshot to a frame. It has no side effects: the
// hole animation is a function of how far the current phase has run, so
// the circle always finishes moving exactly when the phase ends.
func Present(snap domain.Snapshot, showSeconds bool) Frame {
	f := Frame{
		Phase:    snap.Phase,
		Class:    string(snap.Phase),
		Label:    snap.Phase.Label(),
		Progress: snap.SessionProgress(),
		Cycles:   snap.Cycles,
	}

	p := easeInOut(snap.PhaseProgress())
	switch snap.Phase {
	case domain.PhaseInhale:
		f.Hole = lerp(holeEmpty, holeFull, p)
	case domain.PhaseHold:
		f.Hole = holeFull
	case domain.PhaseExhale:
		f.Hole = lerp(holeFull, holeEmpty, p)
	default:
		f.Hole = holeEmpty
	}

	if showSeconds && snap.Phase != domain.PhaseReady {
		f.Remaining = strconv.Itoa(snap.Remaining)
	}
	return f
}

// easeInOut is a cubic ease-in-out curve on [0, 1].
func easeInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		u := -2*t + 2
		return 1 - u*u*u/2
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
