package views

import (
	"bytes"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"html/template"

	"github.com/mmcloughlin/geohash"
	"github.com/sirupsen/logrus"
)

const (
	geohashPrecision = 7
	boundsPadding    = 0.1
	defaultZoom      = 4
)

// DefaultCenter is the initial map viewport centre (continental US).
var DefaultCenter = domain.Coordinates{Lat: 39.8283, Lon: -98.5795}

var popupTemplate = template.Must(template.New("popup").Parse(`<div class="popup">
	<h3>{{.PackageID}}</h3>
	<p><strong>Customer:</strong> {{.CustomerName}}</p>
	<p><strong>Driver:</strong> {{.DriverName}}</p>
	<p><strong>Status:</strong> {{.Status}}</p>
	<p><strong>Destination:</strong> {{.Destination}}</p>
</div>`))

type Marker struct {
	Key     string    `json:"key"`
	LatLng  []float64 `json:"latlng"`
	Color   string    `json:"color"`
	Status  string    `json:"status"`
	Geohash string    `json:"geohash"`
	Popup   string    `json:"popup"`
}

type MapView struct {
	Center  []float64   `json:"center"`
	Zoom    int         `json:"zoom"`
	Markers []Marker    `json:"markers"`
	Bounds  [][]float64 `json:"bounds,omitempty"`
}

// MapRenderer replaces the whole marker set on every redraw and asks the
// surface to fit the padded bounds of all markers when there are any.
type MapRenderer struct {
	surface ports.ViewSurface
}

func NewMapRenderer(surface ports.ViewSurface) *MapRenderer {
	return &MapRenderer{surface: surface}
}

func (r *MapRenderer) Render(records []domain.KeyedDelivery) {
	r.surface.Publish(ViewMap, r.Build(records))
}

func (r *MapRenderer) Build(records []domain.KeyedDelivery) MapView {
	v := MapView{
		Center:  DefaultCenter.CoordsToList(),
		Zoom:    defaultZoom,
		Markers: make([]Marker, 0, len(records)),
	}

	points := make([]domain.Coordinates, 0, len(records))
	for _, rec := range records {
		pos := rec.Position()
		points = append(points, pos)

		v.Markers = append(v.Markers, Marker{
			Key:     rec.Key,
			LatLng:  pos.CoordsToList(),
			Color:   rec.Status.MarkerColor(),
			Status:  string(rec.Status),
			Geohash: geohash.EncodeWithPrecision(pos.Lat, pos.Lon, geohashPrecision),
			Popup:   popup(rec.Delivery),
		})
	}

	if b, ok := domain.BoundsOf(points); ok {
		b = b.Pad(boundsPadding)
		v.Bounds = [][]float64{b.SouthWest.CoordsToList(), b.NorthEast.CoordsToList()}
	}

	return v
}

func popup(d domain.Delivery) string {
	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, d); err != nil {
		logrus.WithError(err).WithField("package_id", d.PackageID).Error("render map popup")
		return ""
	}
	return buf.String()
}
