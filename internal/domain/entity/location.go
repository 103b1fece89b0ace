package entity

// Location is a geographic coordinate pair in decimal degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}
