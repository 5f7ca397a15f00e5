// Package views turns mirrored delivery records into frames for the list,
// map, chart and statistics surfaces. Renderers read their input and never
// modify it.
package views

import (
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
)

const (
	ViewList  = "list"
	ViewMap   = "map"
	ViewChart = "chart"
	ViewStats = "stats"
)

// All returns every renderer publishing to surface, in redraw order.
func All(surface ports.ViewSurface) []ports.Renderer {
	return []ports.Renderer{
		NewListRenderer(surface),
		NewMapRenderer(surface),
		NewStatsRenderer(surface),
		NewChartRenderer(surface),
	}
}

// countByStatus tallies records into the chart buckets; unknown statuses are
// not counted.
func countByStatus(records []domain.KeyedDelivery) [4]int {
	var counts [4]int
	for _, r := range records {
		if i := r.Status.Bucket(); i >= 0 {
			counts[i]++
		}
	}
	return counts
}
