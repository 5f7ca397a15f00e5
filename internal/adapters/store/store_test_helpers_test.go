package store

import (
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"testing"
	"time"
)

func sample(pkg string, status domain.Status) domain.Delivery {
	return domain.Delivery{
		PackageID:    pkg,
		CustomerName: "John Doe",
		DriverName:   "Alice",
		Destination:  "NYC",
		Latitude:     40.7128,
		Longitude:    -74.006,
		Status:       status,
		Timestamp:    "2024-01-01T00:00:00.000Z",
		LastUpdated:  "2024-01-01T00:00:00.000Z",
	}
}

func nextEvent(t *testing.T, sub ports.Subscription) domain.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscription closed: %v", sub.Err())
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return domain.ChangeEvent{}
	}
}

func waitClosed(t *testing.T, sub ports.Subscription) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription did not close")
		}
	}
}
