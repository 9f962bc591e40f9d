// Package clock provides the wall-clock implementation of ports.Clock.
package clock

import (
	"context"
	"time"

	"github.com/xvierd/breathe-cli/internal/ports"
)

// System is a ports.Clock backed by real timers.
type System struct{}

// NewSystem creates a wall clock.
func NewSystem() System {
	return System{}
}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// After returns a Wait that blocks for d and yields ev, or yields nil as soon
// as ctx is cancelled. The timer is released either way.
func (System) After(ctx context.Context, d time.Duration, ev ports.Event) ports.Wait {
	return func() ports.Event {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if ctx.Err() != nil {
				return nil
			}
			return ev
		}
	}
}
