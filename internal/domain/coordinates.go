package domain

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lat, lng], the order map surfaces expect.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lon} }

// Bounds is the smallest latitude/longitude box containing a set of points.
type Bounds struct {
	SouthWest Coordinates
	NorthEast Coordinates
}

// BoundsOf returns the bounding box of points and false when points is empty.
func BoundsOf(points []Coordinates) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lat = min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lon = min(b.SouthWest.Lon, p.Lon)
		b.NorthEast.Lat = max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lon = max(b.NorthEast.Lon, p.Lon)
	}
	return b, true
}

// Pad grows the box on every side by ratio of its height and width.
func (b Bounds) Pad(ratio float64) Bounds {
	dLat := (b.NorthEast.Lat - b.SouthWest.Lat) * ratio
	dLon := (b.NorthEast.Lon - b.SouthWest.Lon) * ratio
	return Bounds{
		SouthWest: Coordinates{Lat: b.SouthWest.Lat - dLat, Lon: b.SouthWest.Lon - dLon},
		NorthEast: Coordinates{Lat: b.NorthEast.Lat + dLat, Lon: b.NorthEast.Lon + dLon},
	}
}
