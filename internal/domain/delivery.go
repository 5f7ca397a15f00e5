package domain

import (
	"strings"
	"time"
)

// ISOTimeLayout matches the millisecond UTC form used for record timestamps.
const ISOTimeLayout = "2006-01-02T15:04:05.000Z"

// Represents a single delivery record as stored in the remote collection.
// Text fields are opaque; coordinates and status are not validated.
type Delivery struct {
	PackageID    string  `json:"packageId"`
	CustomerName string  `json:"customerName"`
	DriverName   string  `json:"driverName"`
	Destination  string  `json:"destination"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Status       Status  `json:"status"`
	Timestamp    string  `json:"timestamp"`
	LastUpdated  string  `json:"lastUpdated"`
}

// KeyedDelivery pairs a record with the key the store assigned to it.
type KeyedDelivery struct {
	Key string
	Delivery
}

func (d Delivery) Position() Coordinates {
	return Coordinates{Lat: d.Latitude, Lon: d.Longitude}
}

// CreatedAt parses Timestamp. Unparsable values yield the zero time.
func (d Delivery) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(d.Timestamp))
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatISOTime renders t the way record timestamps are written.
func FormatISOTime(t time.Time) string {
	return t.UTC().Format(ISOTimeLayout)
}
