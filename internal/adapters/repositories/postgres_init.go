package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Initialize the Postgres schema backing the store adapter: the record
// table and the trigger that announces every mutation on store_changes.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("init schema: pool is nil")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createRecordsQuery := `
	CREATE TABLE IF NOT EXISTS store_records (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, key)
	);
	`

	createNotifyFunctionQuery := `
	CREATE OR REPLACE FUNCTION notify_store_change() RETURNS trigger AS $$
	DECLARE
		msg jsonb;
	BEGIN
		IF TG_OP = 'DELETE' THEN
			msg := jsonb_build_object('collection', OLD.collection, 'op', 'removed', 'key', OLD.key);
		ELSIF TG_OP = 'UPDATE' THEN
			msg := jsonb_build_object('collection', NEW.collection, 'op', 'changed', 'key', NEW.key);
		ELSE
			msg := jsonb_build_object('collection', NEW.collection, 'op', 'added', 'key', NEW.key);
		END IF;
		-- records are read back by key; NOTIFY payloads are capped at 8000 bytes
		PERFORM pg_notify('store_changes', msg::text);
		RETURN NULL;
	END;
	$$ LANGUAGE plpgsql;
	`

	dropTriggerQuery := `
	DROP TRIGGER IF EXISTS store_records_notify ON store_records;
	`

	createTriggerQuery := `
	CREATE TRIGGER store_records_notify
	AFTER INSERT OR UPDATE OR DELETE ON store_records
	FOR EACH ROW EXECUTE FUNCTION notify_store_change();
	`

	statements := []string{
		createRecordsQuery,
		createNotifyFunctionQuery,
		dropTriggerQuery,
		createTriggerQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
