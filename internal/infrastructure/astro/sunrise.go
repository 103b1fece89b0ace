// Package astro adapts the go-sunrise solar calculator to the
// SunCalculator port.
package astro

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/bnema/duskd/internal/domain/entity"
)

// Calculator computes sunrise and sunset from latitude/longitude.
type Calculator struct{}

// NewCalculator creates a solar calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// SunTimes returns sunrise and sunset for the calendar day of date at
// the given location, converted into date's time zone. During polar day
// or polar night the library reports zero times; those are surfaced as
// ok=false so the caller can disable automatic switching.
func (*Calculator) SunTimes(date time.Time, loc entity.Location) (time.Time, time.Time, bool) {
	rise, set := sunrise.SunriseSunset(
		loc.Latitude, loc.Longitude,
		date.Year(), date.Month(), date.Day(),
	)
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return rise.In(date.Location()), set.In(date.Location()), true
}
