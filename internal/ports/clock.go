// Package ports defines the interfaces (driven and driving ports) between
// the breathe core and its infrastructure, following hexagonal architecture
// principles.
package ports

import (
	"context"
	"time"
)

// Event is a message delivered back to the exercise runner once a scheduled
// delay has passed.
type Event interface{}

// Wait blocks until its delay has passed and returns the scheduled event, or
// returns nil if its context was cancelled first.
type Wait func() Event

// Clock is the runner's only source of time.
// This is a driven port (implemented by adapters).
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After schedules ev to be delivered after d. Implementations must drop
	// the event once ctx is cancelled. The returned Wait may be nil when the
	// clock delivers events itself.
	After(ctx context.Context, d time.Duration, ev Event) Wait
}
