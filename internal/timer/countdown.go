// Package timer implements the background countdown that drives a cooking
// session's clock.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

// Option configures a Countdown.
type Option func(*Countdown)

// WithTickInterval sets how often the countdown ticks.
func WithTickInterval(d time.Duration) Option {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

// TickFunc is called once per tick from the countdown goroutine. Returning
// false stops the countdown.
type TickFunc func() bool

// Countdown runs a single ticker goroutine. Start and Stop are idempotent;
// Stop only cancels and never waits on the tick callback, so it is safe to
// call from inside a TickFunc or while holding a lock the TickFunc needs.
type Countdown struct {
	onTick   TickFunc
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	ticks   int
}

// New creates a stopped countdown.
func New(onTick TickFunc, log *logger.Logger, opts ...Option) *Countdown {
	c := &Countdown{
		onTick:   onTick,
		log:      log,
		interval: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins ticking. Non-blocking. A second Start while running is a no-op.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.log.Warn("countdown already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true

	go c.loop(childCtx)

	c.log.Debug("countdown started (tick=%s)", c.interval)
}

// Stop cancels the countdown. Safe to call when already stopped.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.cancel()
	c.running = false
	c.log.Debug("countdown stopped after %d ticks", c.ticks)
}

// Running reports whether the countdown is still ticking.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Ticks returns how many ticks have been delivered.
func (c *Countdown) Ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func (c *Countdown) loop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick can race with Stop; re-check before delivering.
			if ctx.Err() != nil {
				return
			}
			c.mu.Lock()
			c.ticks++
			c.mu.Unlock()

			if !c.onTick() {
				c.Stop()
				return
			}
		}
	}
}
