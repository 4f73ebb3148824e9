package internal

import (
	"sync"
	"time"
)

// Clock returns the current time. Inject a fake in tests.
type Clock func() time.Time

// Cooldown coalesces bursts of attempts into one. An attempt succeeds when no
// attempt was made within the window; every attempt, successful or not,
// re-arms the window.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	until  time.Time
	armed  bool
}

// NewCooldown creates a Cooldown with the given window.
// A non-positive window disables the cooldown entirely.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window}
}

// TryAcquire reports whether an attempt at now may proceed.
func (c *Cooldown) TryAcquire(now time.Time) bool {
	if c.window <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.armed && now.Before(c.until)
	c.until = now.Add(c.window)
	c.armed = true

	return !active
}

// Active reports whether the cooldown is still running at now.
func (c *Cooldown) Active(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed && now.Before(c.until)
}

// Window returns the configured window.
func (c *Cooldown) Window() time.Duration {
	return c.window
}

// Reset clears the timing state.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed = false
	c.until = time.Time{}
}
