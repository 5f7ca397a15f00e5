package store

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/obs"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// NotifyChannel is the LISTEN channel fed by the store_records trigger.
const NotifyChannel = "store_changes"

// PostgresStore keeps records in store_records and relies on the trigger
// installed by repositories.InitSchema to announce every mutation.
type PostgresStore struct {
	Pool *pgxpool.Pool
	log  logrus.FieldLogger
}

func NewPostgresStore(pool *pgxpool.Pool, log logrus.FieldLogger) *PostgresStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PostgresStore{Pool: pool, log: log.WithField("store", "postgres")}
}

func (p *PostgresStore) Insert(ctx context.Context, collection string, d domain.Delivery) (_ string, err error) {
	defer obs.Time(obs.WithDefaultLogger(ctx, p.log), "postgres.Insert")(&err)

	if p.Pool == nil {
		return "", fmt.Errorf("postgres store: pool is nil: %w", domain.ErrStoreUnavailable)
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("postgres insert: marshal record: %w: %w", domain.ErrWriteRejected, err)
	}

	key := ulid.Make().String()
	q := `
	INSERT INTO store_records (collection, key, payload)
	VALUES ($1, $2, $3::jsonb);
	`
	if _, err := p.Pool.Exec(ctx, q, collection, key, string(payload)); err != nil {
		return "", fmt.Errorf("postgres insert key=%q: %w", key, classifyPgErr(err))
	}

	return key, nil
}

func (p *PostgresStore) Update(ctx context.Context, collection string, key string, d domain.Delivery) (err error) {
	defer obs.Time(obs.WithDefaultLogger(ctx, p.log), "postgres.Update")(&err)

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("postgres update: marshal record: %w: %w", domain.ErrWriteRejected, err)
	}

	q := `
	UPDATE store_records
	SET payload = $3::jsonb,
		updated_at = now()
	WHERE collection = $1
		AND key = $2;
	`
	tag, err := p.Pool.Exec(ctx, q, collection, key, string(payload))
	if err != nil {
		return fmt.Errorf("postgres update key=%q: %w", key, classifyPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres update key=%q: %w", key, domain.ErrNotFound)
	}
	return nil
}

func (p *PostgresStore) Remove(ctx context.Context, collection string, key string) (err error) {
	defer obs.Time(obs.WithDefaultLogger(ctx, p.log), "postgres.Remove")(&err)

	q := `
	DELETE FROM store_records
	WHERE collection = $1
		AND key = $2;
	`
	tag, err := p.Pool.Exec(ctx, q, collection, key)
	if err != nil {
		return fmt.Errorf("postgres remove key=%q: %w", key, classifyPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres remove key=%q: %w", key, domain.ErrNotFound)
	}
	return nil
}

// Subscribe holds one pooled connection for the life of the subscription.
// LISTEN is issued before the backfill query so no commit is missed; commits
// that land in between are seen twice, which replays the same state.
func (p *PostgresStore) Subscribe(ctx context.Context, collection string) (_ ports.Subscription, err error) {
	defer obs.Time(obs.WithDefaultLogger(ctx, p.log), "postgres.Subscribe")(&err)

	if p.Pool == nil {
		return nil, fmt.Errorf("postgres store: pool is nil: %w", domain.ErrStoreUnavailable)
	}

	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres subscribe: acquire conn: %w", classifyPgErr(err))
	}

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("postgres subscribe: listen: %w", classifyPgErr(err))
	}

	q := `
	SELECT key, payload
	FROM store_records
	WHERE collection = $1
	ORDER BY key;
	`
	rows, err := conn.Query(ctx, q, collection)
	if err != nil {
		p.release(conn)
		return nil, fmt.Errorf("postgres subscribe: backfill query: %w", classifyPgErr(err))
	}

	backfill := make([]domain.ChangeEvent, 0, 64)
	for rows.Next() {
		var key string
		var payload []byte
		if err := rows.Scan(&key, &payload); err != nil {
			rows.Close()
			p.release(conn)
			return nil, fmt.Errorf("postgres subscribe: scan row: %w", classifyPgErr(err))
		}
		backfill = append(backfill, domain.Added(key, decodeRecord(key, payload, p.log)))
	}
	if err := rows.Err(); err != nil {
		p.release(conn)
		return nil, fmt.Errorf("postgres subscribe: row iteration: %w", classifyPgErr(err))
	}

	sub := newChannelSubscription()
	go p.relay(ctx, conn, collection, backfill, sub)

	return sub, nil
}

func (p *PostgresStore) relay(
	ctx context.Context,
	conn *pgxpool.Conn,
	collection string,
	backfill []domain.ChangeEvent,
	sub *channelSubscription,
) {
	defer p.release(conn)

	for _, ev := range backfill {
		if !sub.send(ctx, ev) {
			sub.finish(nil)
			return
		}
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				sub.finish(nil)
				return
			}
			sub.finish(fmt.Errorf("postgres wait for notification: %w", classifyPgErr(err)))
			return
		}

		coll, ev, err := decodeChange([]byte(n.Payload), p.log)
		if err != nil {
			p.log.WithError(err).WithField("channel", n.Channel).Warn("dropping unreadable notification")
			continue
		}
		if coll != collection {
			continue
		}

		if ev.Kind != domain.EventRemoved {
			d, ok, err := p.loadRecord(ctx, conn, collection, ev.Key)
			if err != nil {
				if ctx.Err() != nil {
					sub.finish(nil)
					return
				}
				sub.finish(fmt.Errorf("postgres load record key=%q: %w", ev.Key, classifyPgErr(err)))
				return
			}
			if !ok {
				// deleted since; its removed notification follows
				continue
			}
			ev.Delivery = d
		}

		if !sub.send(ctx, ev) {
			sub.finish(nil)
			return
		}
	}
}

// loadRecord reads the current payload for key. Notifications carry only
// the key, so added and changed events are filled from the table.
func (p *PostgresStore) loadRecord(
	ctx context.Context,
	conn *pgxpool.Conn,
	collection string,
	key string,
) (domain.Delivery, bool, error) {
	q := `
	SELECT payload
	FROM store_records
	WHERE collection = $1
		AND key = $2;
	`
	var payload []byte
	if err := conn.QueryRow(ctx, q, collection, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Delivery{}, false, nil
		}
		return domain.Delivery{}, false, err
	}
	return decodeRecord(key, payload, p.log), true, nil
}

// release stops listening before returning the connection to the pool.
func (p *PostgresStore) release(conn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if !conn.Conn().IsClosed() {
		if _, err := conn.Exec(ctx, "UNLISTEN *"); err != nil {
			p.log.WithError(err).Debug("unlisten failed; closing connection")
			_ = conn.Conn().Close(ctx)
		}
	}
	conn.Release()
}

// classifyPgErr maps data and integrity violations (SQLSTATE classes 22 and
// 23) to ErrWriteRejected; everything else is treated as unavailability.
func classifyPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23") {
			return fmt.Errorf("%w: %w", domain.ErrWriteRejected, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
