package store

import (
	"context"
	"delivery-tracker/internal/domain"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger, _ := test.NewNullLogger()
	return NewRedisStore(client, logger), mr
}

func TestRedisStoreInsertWritesHash(t *testing.T) {
	r, mr := newTestRedisStore(t)
	d := sample("PKG-001", domain.StatusPending)

	key, err := r.Insert(context.Background(), "deliveries", d)
	require.NoError(t, err)

	raw := mr.HGet("deliveries", key)
	require.NotEmpty(t, raw)

	var got domain.Delivery
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, d, got)
}

func TestRedisStoreBackfillThenLive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, _ := newTestRedisStore(t)

	k1, err := r.Insert(ctx, "deliveries", sample("PKG-001", domain.StatusPending))
	require.NoError(t, err)
	k2, err := r.Insert(ctx, "deliveries", sample("PKG-002", domain.StatusPending))
	require.NoError(t, err)

	sub, err := r.Subscribe(ctx, "deliveries")
	require.NoError(t, err)

	assert.Equal(t, domain.Added(k1, sample("PKG-001", domain.StatusPending)), nextEvent(t, sub))
	assert.Equal(t, k2, nextEvent(t, sub).Key)

	k3, err := r.Insert(ctx, "deliveries", sample("PKG-003", domain.StatusCancelled))
	require.NoError(t, err)
	ev := nextEvent(t, sub)
	assert.Equal(t, domain.EventAdded, ev.Kind)
	assert.Equal(t, k3, ev.Key)
	assert.Equal(t, domain.StatusCancelled, ev.Delivery.Status)

	changed := sample("PKG-001", domain.StatusDelivered)
	require.NoError(t, r.Update(ctx, "deliveries", k1, changed))
	assert.Equal(t, domain.Changed(k1, changed), nextEvent(t, sub))

	require.NoError(t, r.Remove(ctx, "deliveries", k2))
	assert.Equal(t, domain.Removed(k2), nextEvent(t, sub))
}

func TestRedisStoreEditsMissingKey(t *testing.T) {
	r, _ := newTestRedisStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, r.Update(ctx, "deliveries", "nope", sample("PKG", domain.StatusPending)), domain.ErrNotFound)
	assert.ErrorIs(t, r.Remove(ctx, "deliveries", "nope"), domain.ErrNotFound)
}

func TestRedisStoreMalformedBackfillRecord(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, mr := newTestRedisStore(t)
	mr.HSet("deliveries", "01BROKEN", "{not json")

	sub, err := r.Subscribe(ctx, "deliveries")
	require.NoError(t, err)

	assert.Equal(t, domain.Added("01BROKEN", domain.Delivery{}), nextEvent(t, sub))
}

func TestRedisStoreUnavailable(t *testing.T) {
	r, mr := newTestRedisStore(t)
	mr.Close()

	_, err := r.Insert(context.Background(), "deliveries", sample("PKG", domain.StatusPending))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = r.Subscribe(context.Background(), "deliveries")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestRedisStoreWrongTypeIsRejected(t *testing.T) {
	r, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set("deliveries", "a plain string"))

	_, err := r.Insert(context.Background(), "deliveries", sample("PKG", domain.StatusPending))
	assert.ErrorIs(t, err, domain.ErrWriteRejected)
}

func TestRedisStoreCancelClosesSubscription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, _ := newTestRedisStore(t)

	sub, err := r.Subscribe(ctx, "deliveries")
	require.NoError(t, err)

	cancel()
	waitClosed(t, sub)
	assert.NoError(t, sub.Err())
}

func TestRedisStoreTimingUsesStoreLogger(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger, hook := test.NewNullLogger()
	r := NewRedisStore(client, logger)

	err := r.Remove(context.Background(), "deliveries", "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "operation failed", entry.Message)
	assert.Equal(t, "redis.Remove", entry.Data["op"])
	assert.Equal(t, "redis", entry.Data["store"])
}
