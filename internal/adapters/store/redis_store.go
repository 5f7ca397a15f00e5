package store

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/obs"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Replace a field only if it exists, then announce the change.
var updateScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('PUBLISH', KEYS[2], ARGV[3])
return 1
`)

var removeScript = redis.NewScript(`
if redis.call('HDEL', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('PUBLISH', KEYS[2], ARGV[2])
return 1
`)

// RedisStore keeps each collection in a hash (field = key, value = record
// JSON) and announces mutations on the "<collection>:events" channel.
type RedisStore struct {
	Client *redis.Client
	log    logrus.FieldLogger
}

func NewRedisStore(client *redis.Client, log logrus.FieldLogger) *RedisStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisStore{Client: client, log: log.WithField("store", "redis")}
}

func eventsChannel(collection string) string {
	return collection + ":events"
}

func (r *RedisStore) Insert(ctx context.Context, collection string, d domain.Delivery) (_ string, err error) {
	defer obs.Time(obs.WithDefaultLogger(ctx, r.log), "redis.Insert")(&err)

	if r.Client == nil {
		return "", fmt.Errorf("redis store: client is nil: %w", domain.ErrStoreUnavailable)
	}

	key := ulid.Make().String()
	rec, msg, err := encodeRecordAndChange(collection, domain.Added(key, d))
	if err != nil {
		return "", fmt.Errorf("redis insert: %w: %w", domain.ErrWriteRejected, err)
	}

	_, err = r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, collection, key, rec)
		p.Publish(ctx, eventsChannel(collection), msg)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redis insert key=%q: %w", key, classifyRedisErr(err))
	}

	return key, nil
}

func (r *RedisStore) Update(ctx context.Context, collection string, key string, d domain.Delivery) (err error) {
	defer obs.Time(obs.WithDefaultLogger(ctx, r.log), "redis.Update")(&err)

	rec, msg, err := encodeRecordAndChange(collection, domain.Changed(key, d))
	if err != nil {
		return fmt.Errorf("redis update: %w: %w", domain.ErrWriteRejected, err)
	}

	n, err := updateScript.Run(ctx, r.Client, []string{collection, eventsChannel(collection)}, key, rec, msg).Int()
	if err != nil {
		return fmt.Errorf("redis update key=%q: %w", key, classifyRedisErr(err))
	}
	if n == 0 {
		return fmt.Errorf("redis update key=%q: %w", key, domain.ErrNotFound)
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, collection string, key string) (err error) {
	defer obs.Time(obs.WithDefaultLogger(ctx, r.log), "redis.Remove")(&err)

	msg, err := encodeChange(collection, domain.Removed(key))
	if err != nil {
		return fmt.Errorf("redis remove: %w: %w", domain.ErrWriteRejected, err)
	}

	n, err := removeScript.Run(ctx, r.Client, []string{collection, eventsChannel(collection)}, key, msg).Int()
	if err != nil {
		return fmt.Errorf("redis remove key=%q: %w", key, classifyRedisErr(err))
	}
	if n == 0 {
		return fmt.Errorf("redis remove key=%q: %w", key, domain.ErrNotFound)
	}
	return nil
}

// Subscribe waits for the channel subscription to be confirmed before
// reading the hash, so no mutation falls between backfill and live events.
// Overlapping events are replays of state already backfilled.
func (r *RedisStore) Subscribe(ctx context.Context, collection string) (ports.Subscription, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis store: client is nil: %w", domain.ErrStoreUnavailable)
	}

	ps := r.Client.Subscribe(ctx, eventsChannel(collection))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe %q: %w", collection, classifyRedisErr(err))
	}

	existing, err := r.Client.HGetAll(ctx, collection).Result()
	if err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe %q: backfill: %w", collection, classifyRedisErr(err))
	}

	// ULID keys sort in creation order.
	keys := make([]string, 0, len(existing))
	for k := range existing {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	backfill := make([]domain.ChangeEvent, 0, len(keys))
	for _, k := range keys {
		backfill = append(backfill, domain.Added(k, decodeRecord(k, []byte(existing[k]), r.log)))
	}

	sub := newChannelSubscription()
	go r.relay(ctx, ps, backfill, sub)

	return sub, nil
}

func (r *RedisStore) relay(ctx context.Context, ps *redis.PubSub, backfill []domain.ChangeEvent, sub *channelSubscription) {
	defer ps.Close()

	for _, ev := range backfill {
		if !sub.send(ctx, ev) {
			sub.finish(nil)
			return
		}
	}

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			sub.finish(nil)
			return
		case m, ok := <-msgs:
			if !ok {
				sub.finish(fmt.Errorf("redis pubsub closed: %w", domain.ErrStoreUnavailable))
				return
			}

			_, ev, err := decodeChange([]byte(m.Payload), r.log)
			if err != nil {
				r.log.WithError(err).WithField("channel", m.Channel).Warn("dropping unreadable notification")
				continue
			}
			if !sub.send(ctx, ev) {
				sub.finish(nil)
				return
			}
		}
	}
}

func encodeRecordAndChange(collection string, ev domain.ChangeEvent) ([]byte, []byte, error) {
	rec, err := json.Marshal(ev.Delivery)
	if err != nil {
		return nil, nil, err
	}
	msg, err := encodeChange(collection, ev)
	if err != nil {
		return nil, nil, err
	}
	return rec, msg, nil
}

// classifyRedisErr maps server error replies to ErrWriteRejected and
// everything else (network, timeouts, closed client) to ErrStoreUnavailable.
func classifyRedisErr(err error) error {
	var rerr redis.Error
	if errors.As(err, &rerr) && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %w", domain.ErrWriteRejected, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
