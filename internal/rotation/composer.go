// Package rotation advances the kiosk's independent display rotations.
package rotation

import (
	"sync"
	"time"
)

// Rotation names used by the kiosk.
const (
	Welcome = "welcome"
	Room    = "room"
	Visitor = "visitor"
	Media   = "media"
)

// Track describes one repeating rotation.
type Track struct {
	Name   string
	Period time.Duration
	// Size reports the current number of entries. It is read on every tick.
	Size func() int
	// MinSize is the smallest size at which the rotation runs.
	MinSize int
	// Suspendable tracks stop while the composer is suspended.
	Suspendable bool
}

type track struct {
	Track
	index int
	stop  chan struct{}
}

// Composer owns a set of tracks, each driven by its own ticker.
type Composer struct {
	mu        sync.Mutex
	tracks    map[string]*track
	suspended bool
	stopped   bool
	onChange  func(name string, index int)
}

// NewComposer creates a composer. onChange, when set, is called after every
// tick outside the composer's lock.
func NewComposer(onChange func(name string, index int)) *Composer {
	return &Composer{
		tracks:   make(map[string]*track),
		onChange: onChange,
	}
}

// Add registers a track. It does not start it.
func (c *Composer) Add(t Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.MinSize < 1 {
		t.MinSize = 1
	}
	c.tracks[t.Name] = &track{Track: t}
}

// Sync starts every track whose governing condition holds and stops the
// rest. It is safe to call as often as sizes or suspension change.
func (c *Composer) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	for _, t := range c.tracks {
		if c.shouldRun(t) {
			c.start(t)
		} else {
			c.halt(t)
		}
	}
}

// Suspend stops the suspendable tracks until Resume.
func (c *Composer) Suspend() {
	c.mu.Lock()
	c.suspended = true
	c.mu.Unlock()
	c.Sync()
}

// Resume lifts a previous Suspend.
func (c *Composer) Resume() {
	c.mu.Lock()
	c.suspended = false
	c.mu.Unlock()
	c.Sync()
}

// Suspended reports whether the suspendable tracks are held.
func (c *Composer) Suspended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suspended
}

// Running reports whether the named track has a live ticker.
func (c *Composer) Running(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tracks[name]
	return ok && t.stop != nil
}

// Stop halts every track for good; later calls to Sync do nothing.
func (c *Composer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	for _, t := range c.tracks {
		c.halt(t)
	}
}

// Index returns the current index of a track, clamped into the current size.
func (c *Composer) Index(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tracks[name]
	if !ok {
		return 0
	}
	return clamp(t)
}

// Advance moves a track forward by one entry and returns the new index.
func (c *Composer) Advance(name string) int {
	c.mu.Lock()
	t, ok := c.tracks[name]
	if !ok {
		c.mu.Unlock()
		return 0
	}
	size := t.Size()
	if size <= 0 {
		t.index = 0
	} else {
		t.index = (clamp(t) + 1) % size
	}
	index := t.index
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(name, index)
	}
	return index
}

func (c *Composer) shouldRun(t *track) bool {
	if t.Suspendable && c.suspended {
		return false
	}
	return t.Size() >= t.MinSize
}

// start is a no-op for a running track.
func (c *Composer) start(t *track) {
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop
	go c.run(t.Name, t.Period, stop)
}

func (c *Composer) halt(t *track) {
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

func (c *Composer) run(name string, period time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Advance(name)
		case <-stop:
			return
		}
	}
}

func clamp(t *track) int {
	size := t.Size()
	if size <= 0 {
		return 0
	}
	if t.index >= size {
		t.index %= size
	}
	return t.index
}
