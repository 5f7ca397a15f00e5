package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"fmt"
	"time"
)

// SampleDeliveries are demo records for an empty collection.
func SampleDeliveries() []domain.Delivery {
	return []domain.Delivery{
		{
			PackageID:    "PKG-001",
			CustomerName: "John Doe",
			DriverName:   "Alice Johnson",
			Destination:  "123 Main St, New York, NY",
			Latitude:     40.7128,
			Longitude:    -74.0060,
			Status:       domain.StatusInTransit,
		},
		{
			PackageID:    "PKG-002",
			CustomerName: "Jane Smith",
			DriverName:   "Bob Williams",
			Destination:  "456 Oak Ave, Los Angeles, CA",
			Latitude:     34.0522,
			Longitude:    -118.2437,
			Status:       domain.StatusDelivered,
		},
		{
			PackageID:    "PKG-003",
			CustomerName: "Mike Brown",
			DriverName:   "Carol Davis",
			Destination:  "789 Pine Rd, Chicago, IL",
			Latitude:     41.8781,
			Longitude:    -87.6298,
			Status:       domain.StatusPending,
		},
	}
}

// SeedDeliveries submits each record through the store so live subscribers
// see ordinary added events. It stops at the first failure.
func SeedDeliveries(
	ctx context.Context,
	store ports.DeliveryStore,
	collection string,
	records []domain.Delivery,
	now func() time.Time,
) ([]string, error) {
	if now == nil {
		now = time.Now
	}

	keys := make([]string, 0, len(records))
	for i, d := range records {
		key, err := SubmitDelivery(ctx, store, collection, d, now())
		if err != nil {
			return keys, fmt.Errorf("seed deliveries: record #%d (%s): %w", i+1, d.PackageID, err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}
