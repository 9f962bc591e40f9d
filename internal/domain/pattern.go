// Package domain contains the core entities of breathe: breathing patterns,
// phases, stop rules and the read-only views of a running session.
// Nothing in here depends on a terminal, a clock or any infrastructure.
package domain

import (
	"fmt"
	"time"
)

// Phase is a named segment of a breathing cycle.
type Phase string

const (
	PhaseReady     Phase = "ready"
	PhaseInhale    Phase = "inhale"
	PhaseHold      Phase = "hold"
	PhaseExhale    Phase = "exhale"
	PhaseHoldEmpty Phase = "holdEmpty"
)

// Label returns the instruction shown to the user for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseInhale:
		return "Inhale"
	case PhaseHold, PhaseHoldEmpty:
		return "Hold"
	case PhaseExhale:
		return "Exhale"
	case PhaseReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Gradient is a two-stop color gradient in hex notation.
type Gradient struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Pattern describes a breathing exercise: four phase durations in whole
// seconds, a default stopping rule and display metadata.
type Pattern struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Label     string `json:"label" yaml:"label"`
	Inhale    int    `json:"inhale" yaml:"inhale"`
	Hold      int    `json:"hold" yaml:"hold"`
	Exhale    int    `json:"exhale" yaml:"exhale"`
	HoldEmpty int    `json:"hold_empty" yaml:"hold_empty"`

	// Exactly one of DefaultDuration (seconds) and DefaultCycles is set.
	DefaultDuration int `json:"default_duration,omitempty" yaml:"default_duration,omitempty"`
	DefaultCycles   int `json:"default_cycles,omitempty" yaml:"default_cycles,omitempty"`

	Gradient  Gradient `json:"gradient" yaml:"gradient"`
	TextColor string   `json:"text_color" yaml:"text_color"`
}

// Validate checks the pattern invariants. Inhale and exhale must be
// positive: a pattern without them would cascade through every phase
// without ever dwelling in one.
func (p Pattern) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidPattern)
	}
	if p.Inhale < 0 || p.Hold < 0 || p.Exhale < 0 || p.HoldEmpty < 0 {
		return fmt.Errorf("%w: %s has a negative phase duration", ErrInvalidPattern, p.ID)
	}
	if p.Inhale == 0 || p.Exhale == 0 {
		return fmt.Errorf("%w: %s needs inhale and exhale longer than zero", ErrDegeneratePattern, p.ID)
	}
	if p.DefaultDuration < 0 || p.DefaultCycles < 0 {
		return fmt.Errorf("%w: %s has a negative default", ErrInvalidPattern, p.ID)
	}
	if (p.DefaultDuration > 0) == (p.DefaultCycles > 0) {
		return fmt.Errorf("%w: %s must set exactly one of default duration and default cycles", ErrInvalidPattern, p.ID)
	}
	return nil
}

// UsesCycles reports whether sessions of this pattern stop on a cycle count
// rather than on elapsed time.
func (p Pattern) UsesCycles() bool {
	return p.DefaultCycles > 0
}

// Seconds returns the configured duration of a phase. Ready has none.
func (p Pattern) Seconds(ph Phase) int {
	switch ph {
	case PhaseInhale:
		return p.Inhale
	case PhaseHold:
		return p.Hold
	case PhaseExhale:
		return p.Exhale
	case PhaseHoldEmpty:
		return p.HoldEmpty
	default:
		return 0
	}
}

// PhaseDuration is Seconds as a time.Duration.
func (p Pattern) PhaseDuration(ph Phase) time.Duration {
	return time.Duration(p.Seconds(ph)) * time.Second
}

// CycleSeconds is the length of one full traversal of the pattern.
func (p Pattern) CycleSeconds() int {
	return p.Inhale + p.Hold + p.Exhale + p.HoldEmpty
}

// Next applies the transition table. completesCycle is true on the edge
// that closes a traversal, so the cycle counter moves exactly once per
// cycle whichever optional holds are present.
func (p Pattern) Next(ph Phase) (next Phase, completesCycle bool) {
	switch ph {
	case PhaseInhale:
		if p.Hold > 0 {
			return PhaseHold, false
		}
		return PhaseExhale, false
	case PhaseHold:
		return PhaseExhale, false
	case PhaseExhale:
		if p.HoldEmpty > 0 {
			return PhaseHoldEmpty, false
		}
		return PhaseInhale, true
	case PhaseHoldEmpty:
		return PhaseInhale, true
	default:
		return PhaseInhale, false
	}
}

// Rhythm renders the phase durations as "4-7-8" style text, leaving out a
// trailing empty hold.
func (p Pattern) Rhythm() string {
	if p.HoldEmpty > 0 {
		return fmt.Sprintf("%d-%d-%d-%d", p.Inhale, p.Hold, p.Exhale, p.HoldEmpty)
	}
	return fmt.Sprintf("%d-%d-%d", p.Inhale, p.Hold, p.Exhale)
}
