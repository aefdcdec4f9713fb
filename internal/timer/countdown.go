// Package timer implements the attempt countdown: a one-second tick loop that
// renders the remaining time and fires a single expiry signal at zero.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Ticker is the clock behind a running countdown. Production uses
// time.Ticker; tests feed the channel by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Countdown runs at most one tick loop at a time. Restarting supersedes the
// previous loop atomically: a stale tick that lost the race observes the
// bumped generation and exits without rendering.
type Countdown struct {
	mu        sync.Mutex
	gen       int
	remaining int
	expired   bool
	ticker    Ticker
	quit      chan struct{}
	newTicker TickerFactory
	display   func(string)
	onExpire  func()
}

// New returns a countdown that renders through display and signals expiry
// exactly once through onExpire. Either callback may be nil.
func New(display func(string), onExpire func()) *Countdown {
	return NewWithTicker(display, onExpire, func(d time.Duration) Ticker {
		return realTicker{t: time.NewTicker(d)}
	})
}

func NewWithTicker(display func(string), onExpire func(), factory TickerFactory) *Countdown {
	if display == nil {
		display = func(string) {}
	}
	if onExpire == nil {
		onExpire = func() {}
	}
	return &Countdown{newTicker: factory, display: display, onExpire: onExpire}
}

// Start resets the countdown to totalSeconds, renders immediately, then ticks
// once per second. It cancels any previous loop before the first new tick is
// scheduled. totalSeconds <= 0 renders "0:00" once and expires with no tick.
func (c *Countdown) Start(totalSeconds int) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.cancelLocked()
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	c.remaining = totalSeconds
	c.expired = false
	first := Format(totalSeconds)
	if totalSeconds == 0 {
		c.expired = true
		c.mu.Unlock()
		c.display(first)
		c.onExpire()
		return
	}
	tk := c.newTicker(time.Second)
	quit := make(chan struct{})
	c.ticker = tk
	c.quit = quit
	c.mu.Unlock()

	c.display(first)
	go c.loop(gen, tk, quit)
}

func (c *Countdown) loop(gen int, tk Ticker, quit chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case <-tk.C():
		}

		c.mu.Lock()
		if c.gen != gen {
			// superseded while this tick was in flight
			c.mu.Unlock()
			return
		}
		c.remaining--
		out := Format(c.remaining)
		done := c.remaining <= 0
		if done {
			c.expired = true
			c.cancelLocked()
		}
		c.mu.Unlock()

		c.display(out)
		if done {
			c.onExpire()
			return
		}
	}
}

// Stop cancels the running loop without firing expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cancelLocked()
}

// cancelLocked stops the ticker and releases the loop. Callers hold c.mu.
func (c *Countdown) cancelLocked() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.quit != nil {
		close(c.quit)
		c.quit = nil
	}
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Display returns the current remaining time formatted for the clock.
func (c *Countdown) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Format(c.remaining)
}

// Format renders seconds as M:SS, minutes unpadded ("12:05", "0:00").
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
