package domain

import "time"

// Snapshot is the read-only state of a running session, re-derived on every
// change and handed to the presentation layer.
type Snapshot struct {
	SessionID string
	Pattern   Pattern
	Rule      StopRule
	Phase     Phase

	// ElapsedSeconds counts elapsed-time ticks since the first real phase.
	ElapsedSeconds int
	Cycles         int

	// PhaseElapsed is the time spent in the current phase so far.
	PhaseElapsed time.Duration

	// Remaining is display-only and has no say over transitions.
	Remaining int
	Ended     bool
}

// PhaseProgress returns how far through the current phase the session is,
// from 0 to 1. Phases without a duration report 1.
func (s Snapshot) PhaseProgress() float64 {
	total := s.Pattern.PhaseDuration(s.Phase)
	if total <= 0 {
		return 1
	}
	p := float64(s.PhaseElapsed) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// SessionProgress returns how close the session is to its stop rule,
// from 0 to 1.
func (s Snapshot) SessionProgress() float64 {
	var p float64
	switch s.Rule.Kind {
	case StopByCycles:
		if s.Rule.Cycles > 0 {
			p = float64(s.Cycles) / float64(s.Rule.Cycles)
		}
	case StopByDuration:
		if s.Rule.Seconds > 0 {
			p = float64(s.ElapsedSeconds) / float64(s.Rule.Seconds)
		}
	}
	if p > 1 {
		return 1
	}
	return p
}

// Transition is one phase change observed during a session.
type Transition struct {
	At    time.Duration `json:"at"`
	Phase Phase         `json:"phase"`
	Cycle int           `json:"cycle"`
}

// Timeline is the full phase sequence of a session plus its outcome.
type Timeline struct {
	Transitions []Transition `json:"transitions"`
	Summary     Summary      `json:"summary"`
}

// Dwell returns how long the session stayed in the phase entered by the
// i-th transition. The last transition dwells until the session ended.
func (t Timeline) Dwell(i int) time.Duration {
	if i < 0 || i >= len(t.Transitions) {
		return 0
	}
	if i == len(t.Transitions)-1 {
		return t.Summary.Elapsed - t.Transitions[i].At
	}
	return t.Transitions[i+1].At - t.Transitions[i].At
}
