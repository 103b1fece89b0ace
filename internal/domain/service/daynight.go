// Package service holds pure domain logic with no dependencies on
// infrastructure or external state.
package service

import "time"

const secondsPerDay = 24 * 60 * 60

// secondsSinceMidnight reduces an instant to its wall-clock time of day.
// The calendar date is discarded on purpose: sunrise and sunset inputs
// may carry a different date than now, only their clock time is
// meaningful for classification.
func secondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// IsNight classifies an instant as night relative to the given sunrise
// and sunset. Only time-of-day components are compared.
func IsNight(now, sunrise, sunset time.Time) bool {
	n := secondsSinceMidnight(now)
	return n < secondsSinceMidnight(sunrise) || n > secondsSinceMidnight(sunset)
}

// UntilNextBoundary returns the time until the next day/night crossing.
// At night the target is sunrise, wrapping past midnight when sunrise
// has already passed today. By day the target is sunset, which cannot
// be behind now in the time-of-day frame, so no wraparound is needed.
func UntilNextBoundary(now, sunrise, sunset time.Time) time.Duration {
	n := secondsSinceMidnight(now)

	if IsNight(now, sunrise, sunset) {
		delta := secondsSinceMidnight(sunrise) - n
		if delta < 0 {
			delta += secondsPerDay
		}
		return time.Duration(delta) * time.Second
	}

	return time.Duration(secondsSinceMidnight(sunset)-n) * time.Second
}
