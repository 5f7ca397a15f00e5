package services

import (
	"delivery-tracker/internal/domain"
	"slices"
	"strings"
	"sync"
)

// Mirror is the local reconstruction of a remote collection.
//
// Only the Synchronizer goroutine calls Apply. Readers (renderers, HTTP
// handlers) receive copies through Snapshot and Get, so the lock only
// protects the map against those concurrent reads.
type Mirror struct {
	mu      sync.RWMutex
	records map[string]domain.Delivery
}

func NewMirror() *Mirror {
	return &Mirror{records: make(map[string]domain.Delivery)}
}

// Apply performs the single mapping mutation an event implies and reports
// whether the mirror changed. Changed and removed events for absent keys are
// no-ops.
func (m *Mirror) Apply(ev domain.ChangeEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Kind {
	case domain.EventAdded:
		m.records[ev.Key] = ev.Delivery
		return true
	case domain.EventChanged:
		if _, ok := m.records[ev.Key]; !ok {
			return false
		}
		m.records[ev.Key] = ev.Delivery
		return true
	case domain.EventRemoved:
		if _, ok := m.records[ev.Key]; !ok {
			return false
		}
		delete(m.records, ev.Key)
		return true
	default:
		return false
	}
}

// Snapshot returns a copy of every entry ordered by key.
func (m *Mirror) Snapshot() []domain.KeyedDelivery {
	m.mu.RLock()
	out := make([]domain.KeyedDelivery, 0, len(m.records))
	for k, d := range m.records {
		out = append(out, domain.KeyedDelivery{Key: k, Delivery: d})
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.KeyedDelivery) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

func (m *Mirror) Get(key string) (domain.Delivery, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.records[key]
	return d, ok
}

func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}
