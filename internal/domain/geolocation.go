package domain

// Optional geographic position as delivered by the shops API: [lon, lat].
// Missing or short coordinate lists read as 0.0 for each absent component.
type GeoLocation struct {
	Coordinates []float64
}

func NewGeoLocation(lon, lat float64) GeoLocation {
	return GeoLocation{Coordinates: []float64{lon, lat}}
}

func (g GeoLocation) Longitude() float64 {
	if len(g.Coordinates) > 0 {
		return g.Coordinates[0]
	}
	return 0
}

func (g GeoLocation) Latitude() float64 {
	if len(g.Coordinates) > 1 {
		return g.Coordinates[1]
	}
	return 0
}

// Return coordinates as [lon, lat] with defaults applied, for map consumers.
func (g GeoLocation) CoordsToList() []float64 { return []float64{g.Longitude(), g.Latitude()} }

// HasCoordinates reports whether both components were present in the source data.
func (g GeoLocation) HasCoordinates() bool { return len(g.Coordinates) >= 2 }
