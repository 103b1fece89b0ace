package port

import "github.com/bnema/duskd/internal/domain/entity"

// StyleApplier executes a style's appearance payload. The scheduler
// treats the payload as opaque; failures are logged, never propagated.
type StyleApplier interface {
	Apply(style entity.Style) error
}

// Refresher forces the desktop to re-read appearance settings after a
// forced style switch. Opaque to the scheduling core.
type Refresher interface {
	ForceRefresh()
}
