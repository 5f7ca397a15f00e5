package services

import (
	"slices"
	"sync"
	"time"
)

// fakeScheduler runs callbacks on virtual time advanced by the test.
type fakeScheduler struct {
	mu        sync.Mutex
	now       time.Duration
	timers    []*fakeTimer
	scheduled int
}

type fakeTimer struct {
	s       *fakeScheduler
	due     time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{s: s, due: s.now + d, f: f}
	s.timers = append(s.timers, t)
	s.scheduled++
	return t
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves virtual time forward and runs every timer that came due,
// in due order, outside the lock.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d

	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.due <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(due, func(a, b *fakeTimer) int { return int(a.due - b.due) })
	for _, t := range due {
		t.f()
	}
}

func (s *fakeScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *fakeScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

func (s *fakeScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
