package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/obs"
	"delivery-tracker/internal/ports"
	"errors"
	"fmt"
	"time"
)

// ErrEditsUnsupported is returned when the configured store cannot update or
// remove records.
var ErrEditsUnsupported = errors.New("store does not support edits")

// SubmitDelivery stamps a new record with timestamp = lastUpdated = now and
// inserts it. The returned key is the one subscribers will see.
func SubmitDelivery(
	ctx context.Context,
	store ports.DeliveryStore,
	collection string,
	d domain.Delivery,
	now time.Time,
) (_ string, err error) {
	defer obs.Time(ctx, "services.SubmitDelivery")(&err)

	ts := domain.FormatISOTime(now)
	d.Timestamp = ts
	d.LastUpdated = ts

	key, err := store.Insert(ctx, collection, d)
	if err != nil {
		return "", fmt.Errorf("submit delivery: insert into %q: %w", collection, err)
	}

	return key, nil
}

// UpdateDelivery replaces the record under key and refreshes lastUpdated.
// An empty timestamp keeps the one currently mirrored, falling back to now.
func UpdateDelivery(
	ctx context.Context,
	store ports.DeliveryStore,
	reader ports.DeliveryReader,
	collection string,
	key string,
	d domain.Delivery,
	now time.Time,
) (err error) {
	defer obs.Time(ctx, "services.UpdateDelivery")(&err)

	editor, ok := store.(ports.DeliveryEditor)
	if !ok {
		return fmt.Errorf("update delivery: %w", ErrEditsUnsupported)
	}

	if d.Timestamp == "" {
		if cur, ok := reader.Get(key); ok && cur.Timestamp != "" {
			d.Timestamp = cur.Timestamp
		} else {
			d.Timestamp = domain.FormatISOTime(now)
		}
	}
	d.LastUpdated = domain.FormatISOTime(now)

	if err := editor.Update(ctx, collection, key, d); err != nil {
		return fmt.Errorf("update delivery key=%q: %w", key, err)
	}
	return nil
}

func RemoveDelivery(ctx context.Context, store ports.DeliveryStore, collection string, key string) (err error) {
	defer obs.Time(ctx, "services.RemoveDelivery")(&err)

	editor, ok := store.(ports.DeliveryEditor)
	if !ok {
		return fmt.Errorf("remove delivery: %w", ErrEditsUnsupported)
	}

	if err := editor.Remove(ctx, collection, key); err != nil {
		return fmt.Errorf("remove delivery key=%q: %w", key, err)
	}
	return nil
}
