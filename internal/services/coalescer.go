package services

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules on the wall clock.
var SystemScheduler Scheduler = systemScheduler{}

// Coalescer is a trailing-edge debounce with a single pending slot.
//
// Every Arm cancels the pending handle and schedules a new one delay later.
// There is no maximum wait: a stream of Arm calls closer together than delay
// postpones the fire until the stream stops.
//
// Arm and Accept must be called from one goroutine. The scheduled callback
// only hands its generation to fire; the owner then calls Accept with it,
// which rejects fires from handles that were replaced or stopped.
type Coalescer struct {
	delay time.Duration
	sched Scheduler
	fire  func(gen uint64)

	gen     uint64
	pending Timer
}

func NewCoalescer(delay time.Duration, sched Scheduler, fire func(gen uint64)) *Coalescer {
	if sched == nil {
		sched = SystemScheduler
	}
	return &Coalescer{delay: delay, sched: sched, fire: fire}
}

// Arm (re)starts the delay.
func (c *Coalescer) Arm() {
	if c.pending != nil {
		c.pending.Stop()
	}

	c.gen++
	gen := c.gen
	c.pending = c.sched.AfterFunc(c.delay, func() { c.fire(gen) })
}

// Accept reports whether gen belongs to the live handle and consumes it.
func (c *Coalescer) Accept(gen uint64) bool {
	if c.pending == nil || gen != c.gen {
		return false
	}
	c.pending = nil
	return true
}

func (c *Coalescer) Pending() bool {
	return c.pending != nil
}

// Stop cancels the pending handle, if any.
func (c *Coalescer) Stop() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}
