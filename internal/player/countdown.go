package player

import (
	"sync"
	"time"
)

// Countdown is a one-second-resolution countdown built on Clock.AfterFunc.
// Each Countdown owns its timer handle, so cancelling one never disturbs
// another. Callbacks run off the Countdown's lock; onTick receives the
// remaining seconds after each elapsed second, and onZero fires once after
// the final onTick(0).
type Countdown struct {
	clock Clock

	mu        sync.Mutex
	timer     Timer
	remaining int
	running   bool
	onTick    func(remaining int)
	onZero    func()
}

// NewCountdown creates a stopped countdown.
func NewCountdown(clock Clock) *Countdown {
	if clock == nil {
		panic("Countdown: clock cannot be nil")
	}
	return &Countdown{clock: clock}
}

// Start begins counting down from seconds, replacing any run in progress.
// A non-positive seconds completes immediately.
func (c *Countdown) Start(seconds int, onTick func(remaining int), onZero func()) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if seconds <= 0 {
		c.running = false
		c.remaining = 0
		c.mu.Unlock()
		if onTick != nil {
			onTick(0)
		}
		if onZero != nil {
			onZero()
		}
		return
	}
	c.running = true
	c.remaining = seconds
	c.onTick = onTick
	c.onZero = onZero
	c.timer = c.clock.AfterFunc(time.Second, c.tick)
	c.mu.Unlock()
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	onTick := c.onTick
	onZero := c.onZero
	if remaining <= 0 {
		c.running = false
		c.timer = nil
		c.onTick = nil
		c.onZero = nil
	} else {
		c.timer = c.clock.AfterFunc(time.Second, c.tick)
	}
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if remaining <= 0 && onZero != nil {
		onZero()
	}
}

// Cancel stops the countdown without firing onZero. Cancelling a stopped
// countdown is a no-op.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	c.running = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.onTick = nil
	c.onZero = nil
	c.remaining = 0
	c.mu.Unlock()
}

// Extend adds seconds to a running countdown and reports the new remaining
// value through onTick. No-op when stopped.
func (c *Countdown) Extend(seconds int) {
	c.mu.Lock()
	if !c.running || seconds <= 0 {
		c.mu.Unlock()
		return
	}
	c.remaining += seconds
	remaining := c.remaining
	onTick := c.onTick
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
}

// ForceZero completes a running countdown immediately: onTick(0) then onZero.
// No-op when stopped.
func (c *Countdown) ForceZero() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.remaining = 0
	onTick := c.onTick
	onZero := c.onZero
	c.onTick = nil
	c.onZero = nil
	c.mu.Unlock()

	if onTick != nil {
		onTick(0)
	}
	if onZero != nil {
		onZero()
	}
}

// Remaining returns the seconds left, zero when stopped.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return 0
	}
	return c.remaining
}

// Running reports whether the countdown is counting.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
