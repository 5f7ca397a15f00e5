package ports

import "delivery-tracker/internal/domain"

// Port: read-only access to the locally mirrored collection.
type DeliveryReader interface {
	Snapshot() []domain.KeyedDelivery
	Get(key string) (domain.Delivery, bool)
	Len() int
}
