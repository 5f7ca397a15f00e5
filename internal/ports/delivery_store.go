package ports

import (
	"context"
	"delivery-tracker/internal/domain"
)

// Contract for a push-based keyed record store.
type DeliveryStore interface {
	// Persist a record under a fresh store-assigned key and return that key.
	// Subscribers (including this process) later receive an added event.
	Insert(ctx context.Context, collection string, d domain.Delivery) (string, error)

	// Stream change events for a collection: one added event per existing
	// record first, then live events in store order.
	Subscribe(ctx context.Context, collection string) (Subscription, error)
}

// Subscription is a live event stream opened by DeliveryStore.Subscribe.
type Subscription interface {
	// Events is closed when the stream ends.
	Events() <-chan domain.ChangeEvent
	// Err reports why Events was closed; nil after context cancellation.
	Err() error
}
