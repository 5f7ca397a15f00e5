package services

import (
	"delivery-tracker/internal/domain"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delivery(pkg string, status domain.Status) domain.Delivery {
	return domain.Delivery{PackageID: pkg, Status: status}
}

func TestMirrorLifecycle(t *testing.T) {
	m := NewMirror()

	assert.True(t, m.Apply(domain.Added("k1", delivery("PKG-001", domain.StatusPending))))
	assert.True(t, m.Apply(domain.Changed("k1", delivery("PKG-001", domain.StatusDelivered))))

	got, ok := m.Get("k1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusDelivered, got.Status)

	assert.True(t, m.Apply(domain.Removed("k1")))
	_, ok = m.Get("k1")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMirrorChangedForAbsentKeyIsNoop(t *testing.T) {
	m := NewMirror()
	m.Apply(domain.Added("k1", delivery("PKG-001", domain.StatusPending)))

	assert.False(t, m.Apply(domain.Changed("ghost", delivery("PKG-999", domain.StatusCancelled))))
	assert.False(t, m.Apply(domain.Removed("ghost")))

	snap := m.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "k1", snap[0].Key)
}

func TestMirrorChangedReplayIsIdempotent(t *testing.T) {
	once, twice := NewMirror(), NewMirror()
	add := domain.Added("k1", delivery("PKG-001", domain.StatusPending))
	change := domain.Changed("k1", delivery("PKG-001", domain.StatusInTransit))

	once.Apply(add)
	once.Apply(change)

	twice.Apply(add)
	twice.Apply(change)
	twice.Apply(change)

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestMirrorSnapshotIsACopy(t *testing.T) {
	m := NewMirror()
	m.Apply(domain.Added("k1", delivery("PKG-001", domain.StatusPending)))

	snap := m.Snapshot()
	snap[0].Status = domain.StatusCancelled

	got, _ := m.Get("k1")
	assert.Equal(t, domain.StatusPending, got.Status)
}

// Any event sequence must leave the mirror equal to a plain map model with
// changed restricted to present keys.
func TestMirrorMatchesReferenceModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{"a", "b", "c", "d"}
	statuses := []domain.Status{domain.StatusPending, domain.StatusInTransit, "Lost"}

	for run := 0; run < 200; run++ {
		m := NewMirror()
		model := map[string]domain.Delivery{}

		for step := 0; step < 30; step++ {
			key := keys[rng.Intn(len(keys))]
			d := delivery(key, statuses[rng.Intn(len(statuses))])

			var ev domain.ChangeEvent
			switch rng.Intn(3) {
			case 0:
				ev = domain.Added(key, d)
				model[key] = d
			case 1:
				ev = domain.Changed(key, d)
				if _, ok := model[key]; ok {
					model[key] = d
				}
			default:
				ev = domain.Removed(key)
				delete(model, key)
			}
			m.Apply(ev)
		}

		require.Equal(t, len(model), m.Len(), "run %d", run)
		for k, want := range model {
			got, ok := m.Get(k)
			require.True(t, ok, "run %d key %s", run, k)
			require.Equal(t, want, got, "run %d key %s", run, k)
		}
	}
}
