// Package location provides LocationProvider implementations.
package location

import "github.com/bnema/duskd/internal/domain/entity"

// StaticProvider serves a fixed coordinate from configuration.
type StaticProvider struct {
	loc entity.Location
}

// NewStaticProvider creates a provider for a fixed latitude/longitude.
func NewStaticProvider(latitude, longitude float64) *StaticProvider {
	return &StaticProvider{loc: entity.Location{Latitude: latitude, Longitude: longitude}}
}

// CurrentLocation implements port.LocationProvider.
func (p *StaticProvider) CurrentLocation() (entity.Location, bool) {
	return p.loc, true
}

// Unavailable is a provider that never has a location. Used when the
// config declares no location source; the scheduler then sticks to the
// first style and never arms a timer.
type Unavailable struct{}

// CurrentLocation implements port.LocationProvider.
func (Unavailable) CurrentLocation() (entity.Location, bool) {
	return entity.Location{}, false
}
