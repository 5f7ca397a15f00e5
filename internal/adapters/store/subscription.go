package store

import (
	"context"
	"delivery-tracker/internal/domain"
	"sync"
)

// channelSubscription is the Subscription handed out by the network-backed
// stores; a single relay goroutine owns sending and closing.
type channelSubscription struct {
	events chan domain.ChangeEvent

	mu  sync.Mutex
	err error
}

func newChannelSubscription() *channelSubscription {
	return &channelSubscription{events: make(chan domain.ChangeEvent, 64)}
}

func (s *channelSubscription) Events() <-chan domain.ChangeEvent { return s.events }

func (s *channelSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *channelSubscription) send(ctx context.Context, ev domain.ChangeEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *channelSubscription) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.events)
}
