package views

import (
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
)

const chartTitle = "Delivery Status Distribution"

type ChartView struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Data   [4]int   `json:"data"`
	Colors []string `json:"colors"`
}

// ChartRenderer publishes the Pending/In Transit/Delivered/Cancelled counts.
type ChartRenderer struct {
	surface ports.ViewSurface
}

func NewChartRenderer(surface ports.ViewSurface) *ChartRenderer {
	return &ChartRenderer{surface: surface}
}

func (r *ChartRenderer) Render(records []domain.KeyedDelivery) {
	r.surface.Publish(ViewChart, r.Build(records))
}

func (r *ChartRenderer) Build(records []domain.KeyedDelivery) ChartView {
	labels := make([]string, 0, len(domain.KnownStatuses))
	colors := make([]string, 0, len(domain.KnownStatuses))
	for _, s := range domain.KnownStatuses {
		labels = append(labels, string(s))
		colors = append(colors, s.ChartColor())
	}

	return ChartView{
		Title:  chartTitle,
		Labels: labels,
		Data:   countByStatus(records),
		Colors: colors,
	}
}
