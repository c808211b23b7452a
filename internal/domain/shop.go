package domain

// Represents a single point of interest shown on the map.
// A Shop is built fresh on every fetch and never mutated afterwards;
// the directory replaces the whole collection instead of merging.
type Shop struct {
	ID       int
	Name     string
	Category string
	Location GeoLocation
}

func (s Shop) Longitude() float64 { return s.Location.Longitude() }

func (s Shop) Latitude() float64 { return s.Location.Latitude() }
