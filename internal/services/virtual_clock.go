package services

import (
	"container/heap"
	"context"
	"time"

	"github.com/xvierd/breathe-cli/internal/ports"
)

// VirtualClock is a ports.Clock whose time only moves when the next event
// is taken. It lets a session be replayed instantly.
type VirtualClock struct {
	now   time.Time
	seq   uint64
	queue eventQueue
}

// NewVirtualClock creates a virtual clock reading start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the virtual time.
func (c *VirtualClock) Now() time.Time {
	return c.now
}

// After queues ev at now+d. The clock delivers events itself through Next,
// so the returned Wait is always nil.
func (c *VirtualClock) After(ctx context.Context, d time.Duration, ev ports.Event) ports.Wait {
	if d < 0 {
		d = 0
	}
	c.seq++
	heap.Push(&c.queue, &scheduled{
		at:  c.now.Add(d),
		seq: c.seq,
		ctx: ctx,
		ev:  ev,
	})
	return nil
}

// Next pops the earliest event whose context is still live and moves the
// clock to its due time. Events due at the same instant come out in the
// order they were scheduled.
func (c *VirtualClock) Next() (ports.Event, bool) {
	for c.queue.Len() > 0 {
		item := heap.Pop(&c.queue).(*scheduled)
		if item.ctx.Err() != nil {
			continue
		}
		if item.at.After(c.now) {
			c.now = item.at
		}
		return item.ev, true
	}
	return nil, false
}

// Advance moves the clock forward by d, handing every live event that
// falls due to deliver in order. Events scheduled by deliver are included
// when they fall due within d. It returns the number of events delivered.
func (c *VirtualClock) Advance(d time.Duration, deliver func(ports.Event)) int {
	until := c.now.Add(d)
	n := 0
	for c.queue.Len() > 0 && !c.queue[0].at.After(until) {
		item := heap.Pop(&c.queue).(*scheduled)
		if item.ctx.Err() != nil {
			continue
		}
		if item.at.After(c.now) {
			c.now = item.at
		}
		n++
		deliver(item.ev)
	}
	c.now = until
	return n
}

// Pending counts queued events whose context is still live.
func (c *VirtualClock) Pending() int {
	n := 0
	for _, item := range c.queue {
		if item.ctx.Err() == nil {
			n++
		}
	}
	return n
}

type scheduled struct {
	at  time.Time
	seq uint64
	ctx context.Context
	ev  ports.Event
}

// eventQueue implements heap.Interface ordered by (at, seq).
type eventQueue []*scheduled

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(*scheduled))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
