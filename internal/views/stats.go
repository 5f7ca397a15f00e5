package views

import (
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
)

type StatsView struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	InTransit int `json:"inTransit"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
}

// StatsRenderer publishes the summary counters shown above the list.
type StatsRenderer struct {
	surface ports.ViewSurface
}

func NewStatsRenderer(surface ports.ViewSurface) *StatsRenderer {
	return &StatsRenderer{surface: surface}
}

func (r *StatsRenderer) Render(records []domain.KeyedDelivery) {
	c := countByStatus(records)
	r.surface.Publish(ViewStats, StatsView{
		Total:     len(records),
		Pending:   c[0],
		InTransit: c[1],
		Delivered: c[2],
		Cancelled: c[3],
	})
}
