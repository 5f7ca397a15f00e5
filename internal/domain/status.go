package domain

import "strings"

// Status is the delivery lifecycle label. Values outside the known set are
// kept as-is and rendered with neutral styling.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// KnownStatuses lists the chart buckets in display order.
var KnownStatuses = []Status{StatusPending, StatusInTransit, StatusDelivered, StatusCancelled}

// MarkerColor returns the map marker colour for s.
func (s Status) MarkerColor() string {
	switch s {
	case StatusPending:
		return "orange"
	case StatusInTransit:
		return "blue"
	case StatusDelivered:
		return "green"
	case StatusCancelled:
		return "red"
	default:
		return "gray"
	}
}

// ChartColor returns the chart segment colour for a known status.
func (s Status) ChartColor() string {
	switch s {
	case StatusPending:
		return "#ffc107"
	case StatusInTransit:
		return "#17a2b8"
	case StatusDelivered:
		return "#28a745"
	case StatusCancelled:
		return "#dc3545"
	default:
		return "#6c757d"
	}
}

// BadgeClass is the CSS modifier used by the list view, e.g. "in-transit".
// Only the first space is replaced.
func (s Status) BadgeClass() string {
	return strings.Replace(strings.ToLower(string(s)), " ", "-", 1)
}

// Bucket returns the chart index of s, or -1 for unknown values.
func (s Status) Bucket() int {
	for i, k := range KnownStatuses {
		if s == k {
			return i
		}
	}
	return -1
}
