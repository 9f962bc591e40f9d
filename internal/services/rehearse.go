package services

import (
	"context"
	"errors"
	"time"

	"github.com/xvierd/breathe-cli/internal/domain"
)

// ErrRehearsalOverrun is returned when a rehearsed session does not end
// within its event budget.
var ErrRehearsalOverrun = errors.New("rehearsal did not reach its stop rule")

// rehearsalEpoch is the virtual start time of every rehearsal.
var rehearsalEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Rehearse runs a full session on a virtual clock and returns every phase
// transition together with the outcome.
func Rehearse(ctx context.Context, cfg domain.SessionConfig, opts ...RunnerOption) (domain.Timeline, error) {
	var tl domain.Timeline

	clock := NewVirtualClock(rehearsalEpoch)
	opts = append(opts, WithObserver(func(t domain.Transition) {
		tl.Transitions = append(tl.Transitions, t)
	}))

	r, err := NewRunner(cfg, clock, opts...)
	if err != nil {
		return domain.Timeline{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer r.Cancel()

	r.Start(ctx)

	budget := eventBudget(cfg)
	for i := 0; i < budget; i++ {
		if err := ctx.Err(); err != nil {
			return tl, err
		}
		ev, ok := clock.Next()
		if !ok {
			break
		}
		r.Handle(ev)
		if end, ok := ev.(SessionEnded); ok {
			tl.Summary = end.Summary
			return tl, nil
		}
	}
	return tl, ErrRehearsalOverrun
}

// eventBudget bounds the events a session can produce: one tick per second
// plus at most one phase change per second, since every dwelt phase lasts at
// least a second.
func eventBudget(cfg domain.SessionConfig) int {
	seconds := cfg.Rule.Seconds
	if cfg.Rule.Kind == domain.StopByCycles {
		seconds = cfg.Rule.Cycles * cfg.Pattern.CycleSeconds()
	}
	return 2*seconds + 16
}
