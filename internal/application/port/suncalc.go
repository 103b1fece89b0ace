package port

import (
	"time"

	"github.com/bnema/duskd/internal/domain/entity"
)

// SunCalculator computes solar events for a date and coordinate.
type SunCalculator interface {
	// SunTimes returns sunrise and sunset for the calendar day of date
	// at the given location, in date's time zone. ok is false when the
	// sun does not rise or set there that day (polar day/night).
	SunTimes(date time.Time, loc entity.Location) (sunrise, sunset time.Time, ok bool)
}
