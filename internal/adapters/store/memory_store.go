package store

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// MemoryStore is an in-process implementation of DeliveryEditor.
// Events reach each subscriber in write order and writers never block on
// slow subscribers.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	closed      bool
}

type memoryCollection struct {
	order   []string
	records map[string]domain.Delivery
	subs    map[*memorySubscription]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (m *MemoryStore) collection(name string) *memoryCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{
			records: make(map[string]domain.Delivery),
			subs:    make(map[*memorySubscription]struct{}),
		}
		m.collections[name] = c
	}
	return c
}

func (m *MemoryStore) check(op, collection string) error {
	if m.closed {
		return fmt.Errorf("memory store %s: %w", op, domain.ErrStoreUnavailable)
	}
	if strings.TrimSpace(collection) == "" {
		return fmt.Errorf("memory store %s: empty collection name: %w", op, domain.ErrWriteRejected)
	}
	return nil
}

func (m *MemoryStore) Insert(ctx context.Context, collection string, d domain.Delivery) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("memory store insert: %w: %w", domain.ErrStoreUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("insert", collection); err != nil {
		return "", err
	}

	key := ulid.Make().String()
	c := m.collection(collection)
	c.order = append(c.order, key)
	c.records[key] = d
	c.broadcast(domain.Added(key, d))

	return key, nil
}

func (m *MemoryStore) Update(ctx context.Context, collection string, key string, d domain.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("update", collection); err != nil {
		return err
	}

	c := m.collection(collection)
	if _, ok := c.records[key]; !ok {
		return fmt.Errorf("memory store update key=%q: %w", key, domain.ErrNotFound)
	}
	c.records[key] = d
	c.broadcast(domain.Changed(key, d))

	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, collection string, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("remove", collection); err != nil {
		return err
	}

	c := m.collection(collection)
	if _, ok := c.records[key]; !ok {
		return fmt.Errorf("memory store remove key=%q: %w", key, domain.ErrNotFound)
	}
	delete(c.records, key)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	c.broadcast(domain.Removed(key))

	return nil
}

// Subscribe backfills existing records in insertion order, then relays live
// events until ctx is cancelled or the store is closed.
func (m *MemoryStore) Subscribe(ctx context.Context, collection string) (ports.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("memory store subscribe: %w", domain.ErrStoreUnavailable)
	}

	c := m.collection(collection)
	sub := &memorySubscription{
		events: make(chan domain.ChangeEvent),
		wake:   make(chan struct{}, 1),
	}
	for _, key := range c.order {
		sub.push(domain.Added(key, c.records[key]))
	}
	c.subs[sub] = struct{}{}

	go sub.pump(ctx, func() {
		m.mu.Lock()
		delete(c.subs, sub)
		m.mu.Unlock()
	})

	return sub, nil
}

// Close ends every subscription with ErrStoreUnavailable and fails later calls.
func (m *MemoryStore) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for _, c := range m.collections {
		for sub := range c.subs {
			sub.shutdown(fmt.Errorf("memory store closed: %w", domain.ErrStoreUnavailable))
		}
	}
}

func (c *memoryCollection) broadcast(ev domain.ChangeEvent) {
	for sub := range c.subs {
		sub.push(ev)
	}
}

type memorySubscription struct {
	events chan domain.ChangeEvent
	wake   chan struct{}

	mu     sync.Mutex
	queue  []domain.ChangeEvent
	closed bool
	err    error
}

func (s *memorySubscription) Events() <-chan domain.ChangeEvent { return s.events }

func (s *memorySubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *memorySubscription) push(ev domain.ChangeEvent) {
	s.mu.Lock()
	if !s.closed {
		s.queue = append(s.queue, ev)
	}
	s.mu.Unlock()
	s.signal()
}

func (s *memorySubscription) shutdown(err error) {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.err = err
	}
	s.mu.Unlock()
	s.signal()
}

func (s *memorySubscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump drains the queue into events; detach runs before events is closed.
func (s *memorySubscription) pump(ctx context.Context, detach func()) {
	defer close(s.events)
	defer detach()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}

			select {
			case <-s.wake:
				continue
			case <-ctx.Done():
				return
			}
		}

		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
