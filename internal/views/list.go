package views

import (
	"bytes"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"fmt"
	"html/template"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// EmptyListPlaceholder is shown when the collection has no records.
const EmptyListPlaceholder = "No deliveries yet. Add one using the form above!"

const createdLayout = "1/2/2006, 3:04:05 PM"

var listTemplate = template.Must(template.New("list").Parse(`
{{- if .Empty -}}
<div class="loading">{{.Placeholder}}</div>
{{- else -}}
{{- range .Cards}}
<div class="delivery-card" data-key="{{.Key}}">
	<div class="delivery-header">
		<div class="delivery-id">{{.PackageID}}</div>
		<div class="status-badge status-{{.BadgeClass}}">{{.Status}}</div>
	</div>
	<div class="delivery-details">
		<div class="delivery-detail"><span class="detail-label">Customer</span><span class="detail-value">{{.CustomerName}}</span></div>
		<div class="delivery-detail"><span class="detail-label">Driver</span><span class="detail-value">{{.DriverName}}</span></div>
		<div class="delivery-detail"><span class="detail-label">Destination</span><span class="detail-value">{{.Destination}}</span></div>
		<div class="delivery-detail"><span class="detail-label">Coordinates</span><span class="detail-value">{{.Coordinates}}</span></div>
		<div class="delivery-detail"><span class="detail-label">Created</span><span class="detail-value" title="{{.CreatedAgo}}">{{.Created}}</span></div>
	</div>
</div>
{{- end}}
{{- end}}`))

type ListCard struct {
	Key          string `json:"key"`
	PackageID    string `json:"packageId"`
	Status       string `json:"status"`
	BadgeClass   string `json:"badgeClass"`
	CustomerName string `json:"customerName"`
	DriverName   string `json:"driverName"`
	Destination  string `json:"destination"`
	Coordinates  string `json:"coordinates"`
	Created      string `json:"created"`
	CreatedAgo   string `json:"createdAgo"`
}

type ListView struct {
	Empty       bool       `json:"empty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Cards       []ListCard `json:"cards"`
	HTML        string     `json:"html"`
}

// ListRenderer draws delivery cards, newest timestamp first.
type ListRenderer struct {
	surface  ports.ViewSurface
	now      func() time.Time
	location *time.Location
}

func NewListRenderer(surface ports.ViewSurface) *ListRenderer {
	return &ListRenderer{surface: surface, now: time.Now, location: time.Local}
}

func (r *ListRenderer) Render(records []domain.KeyedDelivery) {
	r.surface.Publish(ViewList, r.Build(records))
}

// Build sorts a copy of records by timestamp descending. Ties keep no
// particular order.
func (r *ListRenderer) Build(records []domain.KeyedDelivery) ListView {
	if len(records) == 0 {
		v := ListView{Empty: true, Placeholder: EmptyListPlaceholder, Cards: []ListCard{}}
		v.HTML = r.html(v)
		return v
	}

	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b domain.KeyedDelivery) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})

	now := r.now()
	cards := make([]ListCard, 0, len(sorted))
	for _, rec := range sorted {
		created, ago := "Invalid Date", ""
		if t := rec.CreatedAt(); !t.IsZero() {
			created = t.In(r.location).Format(createdLayout)
			ago = humanize.RelTime(t, now, "ago", "from now")
		}

		cards = append(cards, ListCard{
			Key:          rec.Key,
			PackageID:    rec.PackageID,
			Status:       string(rec.Status),
			BadgeClass:   rec.Status.BadgeClass(),
			CustomerName: rec.CustomerName,
			DriverName:   rec.DriverName,
			Destination:  rec.Destination,
			Coordinates:  fmt.Sprintf("%.4f, %.4f", rec.Latitude, rec.Longitude),
			Created:      created,
			CreatedAgo:   ago,
		})
	}

	v := ListView{Cards: cards}
	v.HTML = r.html(v)
	return v
}

func (r *ListRenderer) html(v ListView) string {
	var buf bytes.Buffer
	if err := listTemplate.Execute(&buf, v); err != nil {
		logrus.WithError(err).Error("render list html")
		return ""
	}
	return buf.String()
}
