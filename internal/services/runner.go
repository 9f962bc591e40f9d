package services

import (
	"context"
	"time"

	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/logging"
	"github.com/xvierd/breathe-cli/internal/ports"
)

// beginEvent moves a session out of ready. It is scheduled with no delay so
// the host gets to draw the resting frame first.
type beginEvent struct {
	session string
}

// phaseTimeout fires when the phase tagged gen has run its full duration.
type phaseTimeout struct {
	session string
	gen     int
}

// elapsedTick is the one-second session clock.
type elapsedTick struct {
	session string
}

// SessionEnded is delivered exactly once per session, after either stop rule
// is met or the user stops the session.
type SessionEnded struct {
	Summary domain.Summary
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for phase transitions.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = l
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) RunnerOption {
	return func(r *Runner) {
		r.id = id
	}
}

// WithObserver registers a callback invoked on every phase entered after
// ready.
func WithObserver(fn func(domain.Transition)) RunnerOption {
	return func(r *Runner) {
		r.observe = fn
	}
}

// Runner is the breathing state machine for a single session. One runner is
// built per session and discarded when it ends.
//
// Runner is not safe for concurrent use: every call is expected to come from
// one event loop. Timers are handed back to the caller as ports.Wait values
// and their events fed back through Handle.
type Runner struct {
	cfg     domain.SessionConfig
	clock   ports.Clock
	log     *logging.Logger
	observe func(domain.Transition)

	id         string
	phase      domain.Phase
	cycles     int
	elapsed    int
	gen        int
	startedAt  time.Time
	phaseStart time.Time
	tickBase   time.Time

	started  bool
	stopping bool
	ended    bool
	summary  domain.Summary

	// sessionCtx bounds the phase timer and the elapsed tick. endCtx bounds
	// the SessionEnded delivery, which must survive sessionCtx.
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	phaseCancel   context.CancelFunc
	phaseCtx      context.Context
	endCancel     context.CancelFunc
	endCtx        context.Context
}

// NewRunner validates cfg and creates a runner in the ready phase.
func NewRunner(cfg domain.SessionConfig, clock ports.Clock, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:   cfg,
		clock: clock,
		phase: domain.PhaseReady,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == "" {
		r.id = domain.NewSessionID()
	}
	return r, nil
}

// ID returns the session id carried by every event of this runner.
func (r *Runner) ID() string {
	return r.id
}

// Config returns the session configuration.
func (r *Runner) Config() domain.SessionConfig {
	return r.cfg
}

// Start enters ready and schedules the begin event. Calling Start twice is a
// no-op.
func (r *Runner) Start(ctx context.Context) []ports.Wait {
	if r.started {
		return nil
	}
	r.started = true

	r.sessionCtx, r.sessionCancel = context.WithCancel(ctx)
	r.endCtx, r.endCancel = context.WithCancel(ctx)

	now := r.clock.Now()
	r.startedAt = now
	r.phaseStart = now
	r.phase = domain.PhaseReady

	r.log.Info("session %s started: %s, %s", r.id, r.cfg.Pattern.ID, r.cfg.Rule)

	return collect(r.clock.After(r.sessionCtx, 0, beginEvent{session: r.id}))
}

// Handle applies one event. Events from another session, timeouts of a
// phase that was already left and anything arriving after the session
// started stopping are ignored.
func (r *Runner) Handle(ev ports.Event) []ports.Wait {
	if !r.started || r.ended {
		return nil
	}

	var waits []ports.Wait
	switch e := ev.(type) {
	case beginEvent:
		if e.session != r.id || r.stopping || r.phase != domain.PhaseReady {
			return nil
		}
		r.tickBase = r.clock.Now()
		waits = append(waits, r.enter(domain.PhaseInhale)...)
		waits = append(waits, r.scheduleTick()...)

	case phaseTimeout:
		if e.session != r.id || r.stopping || e.gen != r.gen {
			return nil
		}
		next, completes := r.cfg.Pattern.Next(r.phase)
		if completes {
			r.cycles++
		}
		waits = append(waits, r.enter(next)...)

	case elapsedTick:
		if e.session != r.id || r.stopping {
			return nil
		}
		r.elapsed++
		waits = append(waits, r.scheduleTick()...)

	case SessionEnded:
		if e.Summary.SessionID == r.id {
			r.ended = true
		}
		return nil

	default:
		return nil
	}

	return append(waits, r.checkStop()...)
}

// Stop ends the session at once on the user's request. Every timer is
// dropped and SessionEnded is scheduled with reason manual. Stop after the
// session already started stopping does nothing.
func (r *Runner) Stop() []ports.Wait {
	if !r.started || r.stopping || r.ended {
		return nil
	}
	return r.finish(domain.StopReasonManual)
}

// Cancel tears the session down without reporting an outcome. No event of
// this runner is delivered after Cancel returns.
func (r *Runner) Cancel() {
	r.stopping = true
	r.ended = true
	if r.sessionCancel != nil {
		r.sessionCancel()
	}
	if r.endCancel != nil {
		r.endCancel()
	}
}

// Ended reports whether the session has stopped or been cancelled.
func (r *Runner) Ended() bool {
	return r.stopping || r.ended
}

// Summary returns the outcome once the session has stopped.
func (r *Runner) Summary() (domain.Summary, bool) {
	return r.summary, r.stopping && r.summary.SessionID != ""
}

// Snapshot returns the current read-only view of the session.
func (r *Runner) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		SessionID:      r.id,
		Pattern:        r.cfg.Pattern,
		Rule:           r.cfg.Rule,
		Phase:          r.phase,
		ElapsedSeconds: r.elapsed,
		Cycles:         r.cycles,
		Ended:          r.Ended(),
	}
	if !r.started || r.phase == domain.PhaseReady {
		return snap
	}

	in := r.clock.Now().Sub(r.phaseStart)
	if in < 0 {
		in = 0
	}
	snap.PhaseElapsed = in

	remaining := r.cfg.Pattern.Seconds(r.phase) - int(in/time.Second)
	if remaining < 0 {
		remaining = 0
	}
	snap.Remaining = remaining
	return snap
}

// enter switches to ph and replaces the phase timer.
func (r *Runner) enter(ph domain.Phase) []ports.Wait {
	if r.phaseCancel != nil {
		r.phaseCancel()
	}
	r.gen++
	r.phaseCtx, r.phaseCancel = context.WithCancel(r.sessionCtx)

	from := r.phase
	r.phase = ph
	r.phaseStart = r.clock.Now()

	r.log.Debug("session %s: %s -> %s (cycles %d)", r.id, from, ph, r.cycles)
	if r.observe != nil {
		r.observe(domain.Transition{
			At:    r.phaseStart.Sub(r.startedAt),
			Phase: ph,
			Cycle: r.cycles,
		})
	}

	d := r.cfg.Pattern.PhaseDuration(ph)
	return collect(r.clock.After(r.phaseCtx, d, phaseTimeout{session: r.id, gen: r.gen}))
}

// scheduleTick schedules the next elapsed tick against the session start so
// that ticks do not drift.
func (r *Runner) scheduleTick() []ports.Wait {
	due := r.tickBase.Add(time.Duration(r.elapsed+1) * time.Second)
	d := due.Sub(r.clock.Now())
	if d < 0 {
		d = 0
	}
	return collect(r.clock.After(r.sessionCtx, d, elapsedTick{session: r.id}))
}

func (r *Runner) checkStop() []ports.Wait {
	if r.stopping || !r.cfg.Rule.Reached(r.elapsed, r.cycles) {
		return nil
	}
	reason := domain.StopReasonDuration
	if r.cfg.Rule.Kind == domain.StopByCycles {
		reason = domain.StopReasonCycles
	}
	return r.finish(reason)
}

func (r *Runner) finish(reason domain.StopReason) []ports.Wait {
	r.stopping = true
	r.sessionCancel()

	r.summary = domain.Summary{
		SessionID:      r.id,
		PatternID:      r.cfg.Pattern.ID,
		Reason:         reason,
		Cycles:         r.cycles,
		ElapsedSeconds: r.elapsed,
		Elapsed:        r.clock.Now().Sub(r.startedAt),
	}
	r.log.Info("session %s ended (%s): %d cycles in %s", r.id, reason, r.cycles, r.summary.Elapsed)

	return collect(r.clock.After(r.endCtx, 0, SessionEnded{Summary: r.summary}))
}

func collect(waits ...ports.Wait) []ports.Wait {
	var out []ports.Wait
	for _, w := range waits {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}
