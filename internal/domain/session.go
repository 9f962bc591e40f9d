package domain

import (
	"fmt"
	"time"
)

// StopKind identifies which limit ends a session.
type StopKind string

const (
	StopByDuration StopKind = "duration"
	StopByCycles   StopKind = "cycles"
)

// StopRule ends a session either after a number of elapsed seconds or after a
// number of completed cycles, never both.
type StopRule struct {
	Kind    StopKind
	Seconds int
	Cycles  int
}

// DurationRule stops a session once elapsed seconds reach seconds.
func DurationRule(seconds int) StopRule {
	return StopRule{Kind: StopByDuration, Seconds: seconds}
}

// CycleRule stops a session once completed cycles reach cycles.
func CycleRule(cycles int) StopRule {
	return StopRule{Kind: StopByCycles, Cycles: cycles}
}

// Validate checks that exactly one limit is set and that it is positive.
func (r StopRule) Validate() error {
	switch r.Kind {
	case StopByDuration:
		if r.Seconds <= 0 || r.Cycles != 0 {
			return fmt.Errorf("%w: duration rule needs a positive number of seconds", ErrInvalidStopRule)
		}
	case StopByCycles:
		if r.Cycles <= 0 || r.Seconds != 0 {
			return fmt.Errorf("%w: cycle rule needs a positive cycle count", ErrInvalidStopRule)
		}
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidStopRule, r.Kind)
	}
	return nil
}

// Reached reports whether the rule is satisfied by the given counters.
func (r StopRule) Reached(elapsedSeconds, cycles int) bool {
	if r.Kind == StopByCycles {
		return cycles >= r.Cycles
	}
	return elapsedSeconds >= r.Seconds
}

// String describes the rule for display, e.g. "2m0s" or "4 cycles".
func (r StopRule) String() string {
	if r.Kind == StopByCycles {
		if r.Cycles == 1 {
			return "1 cycle"
		}
		return fmt.Sprintf("%d cycles", r.Cycles)
	}
	return (time.Duration(r.Seconds) * time.Second).String()
}

// SessionConfig is the immutable input of one exercise session.
type SessionConfig struct {
	Pattern Pattern
	Rule    StopRule
}

// NewSessionConfig picks the stop rule from the pattern's identity: a
// cycle-based pattern always gets a cycle rule and every other pattern a
// duration rule. Zero arguments fall back to the pattern's defaults; the
// argument that does not apply to the pattern is ignored.
func NewSessionConfig(p Pattern, durationSeconds, cycleLimit int) (SessionConfig, error) {
	if err := p.Validate(); err != nil {
		return SessionConfig{}, err
	}

	var rule StopRule
	if p.UsesCycles() {
		if cycleLimit <= 0 {
			cycleLimit = p.DefaultCycles
		}
		rule = CycleRule(cycleLimit)
	} else {
		if durationSeconds <= 0 {
			durationSeconds = p.DefaultDuration
		}
		rule = DurationRule(durationSeconds)
	}

	cfg := SessionConfig{Pattern: p, Rule: rule}
	return cfg, cfg.Validate()
}

// Validate checks both the pattern and the rule.
func (c SessionConfig) Validate() error {
	if err := c.Pattern.Validate(); err != nil {
		return err
	}
	return c.Rule.Validate()
}

// StopReason records why a session ended.
type StopReason string

const (
	StopReasonDuration StopReason = "duration"
	StopReasonCycles   StopReason = "cycles"
	StopReasonManual   StopReason = "manual"
)

// Summary describes a finished session.
type Summary struct {
	SessionID      string        `json:"session_id"`
	PatternID      string        `json:"pattern_id"`
	Reason         StopReason    `json:"reason"`
	Cycles         int           `json:"cycles"`
	ElapsedSeconds int           `json:"elapsed_seconds"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Completed reports whether the session reached its configured limit rather
// than being stopped by the user.
func (s Summary) Completed() bool {
	return s.Reason == StopReasonDuration || s.Reason == StopReasonCycles
}
