package db

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/duskd/internal/application/port"
	"github.com/bnema/duskd/internal/domain/entity"
)

const recordTimeout = 5 * time.Second

// Recorder journals scheduler notifications. It is a fire-and-forget
// observer: journal failures are logged and dropped, never surfaced to
// the scheduler.
type Recorder struct {
	db  *DB
	log zerolog.Logger
}

// NewRecorder creates a journal-backed scheduler observer.
func NewRecorder(database *DB, logger *zerolog.Logger) *Recorder {
	r := &Recorder{db: database, log: zerolog.Nop()}
	if logger != nil {
		r.log = *logger
	}
	return r
}

// OnStyleApplied implements port.SchedulerObserver.
func (r *Recorder) OnStyleApplied(st entity.Style) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.db.RecordTransition(ctx, st.Name, string(st.Type)); err != nil {
		r.log.Warn().Err(err).Str("style", st.Name).Msg("failed to journal transition")
	}
}

// OnRefreshed implements port.SchedulerObserver.
func (r *Recorder) OnRefreshed() {
	r.log.Debug().Msg("appearance refresh forced")
}

// Ensure Recorder implements the observer port.
var _ port.SchedulerObserver = (*Recorder)(nil)
