package port

import "github.com/bnema/duskd/internal/domain/entity"

// LocationProvider supplies the user's current coordinates on demand.
// Implementations are queried synchronously and may report absence at
// any call (portal not running, permission denied, no fix yet).
type LocationProvider interface {
	// CurrentLocation returns the current location and whether one is
	// available right now.
	CurrentLocation() (entity.Location, bool)
}
