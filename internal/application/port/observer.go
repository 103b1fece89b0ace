package port

import "github.com/bnema/duskd/internal/domain/entity"

// SchedulerObserver receives fire-and-forget notifications from the
// scheduler. Callbacks fire at most once per transition and are never
// batched.
type SchedulerObserver interface {
	// OnStyleApplied is called after a style transition completed.
	OnStyleApplied(style entity.Style)

	// OnRefreshed is called after a forced appearance refresh.
	OnRefreshed()
}
