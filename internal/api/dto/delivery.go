package dto

import "delivery-tracker/internal/domain"

// DeliveryRequest is the body of POST /deliveries and PUT /deliveries/{key}.
// Timestamp is ignored on create.
type DeliveryRequest struct {
	PackageID    string  `json:"packageId"`
	CustomerName string  `json:"customerName"`
	DriverName   string  `json:"driverName"`
	Destination  string  `json:"destination"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Status       string  `json:"status"`
	Timestamp    string  `json:"timestamp,omitempty"`
}

func (r DeliveryRequest) ToDomain() domain.Delivery {
	return domain.Delivery{
		PackageID:    r.PackageID,
		CustomerName: r.CustomerName,
		DriverName:   r.DriverName,
		Destination:  r.Destination,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Status:       domain.Status(r.Status),
		Timestamp:    r.Timestamp,
	}
}

type CreateDeliveryResponse struct {
	Key string `json:"key"`
}

type DeliveryResponse struct {
	Key string `json:"key"`
	domain.Delivery
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}
