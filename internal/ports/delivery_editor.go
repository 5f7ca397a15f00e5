package ports

import (
	"context"
	"delivery-tracker/internal/domain"
)

// Optional extension of DeliveryStore that supports in-place edits.
type DeliveryEditor interface {
	DeliveryStore
	// Replace the record stored under key; subscribers receive a changed event.
	Update(ctx context.Context, collection string, key string, d domain.Delivery) error
	// Delete the record stored under key; subscribers receive a removed event.
	Remove(ctx context.Context, collection string, key string) error
}
