package port

import "time"

// Clock abstracts the current time so the scheduler can be driven with
// a fixed reference instant in tests.
type Clock interface {
	Now() time.Time
}
