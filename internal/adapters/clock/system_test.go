package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_AfterDelivers(t *testing.T) {
	c := NewSystem()

	start := time.Now()
	wait := c.After(context.Background(), 20*time.Millisecond, "tick")

	assert.Equal(t, "tick", wait())
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSystem_AfterCancelled(t *testing.T) {
	c := NewSystem()
	ctx, cancel := context.WithCancel(context.Background())

	wait := c.After(ctx, time.Hour, "never")
	done := make(chan interface{})
	go func() { done <- wait() }()

	cancel()
	select {
	case ev := <-done:
		assert.Nil(t, ev)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}

func TestSystem_AfterAlreadyCancelled(t *testing.T) {
	c := NewSystem()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, c.After(ctx, 0, "late")())
}

func TestSystem_Now(t *testing.T) {
	before := time.Now()
	got := NewSystem().Now()
	assert.False(t, got.Before(before))
}
