// Package scheduler owns the current style selection and the single
// pending re-evaluation timer that keeps it aligned with sunrise and
// sunset at the user's location.
package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/duskd/internal/application/port"
	"github.com/bnema/duskd/internal/domain/entity"
	"github.com/bnema/duskd/internal/domain/service"
)

// boundaryGuard is added to every armed delay so the timer fires just
// past the boundary instant instead of racing the solar calculator's
// own rounding at the exact sunrise/sunset second.
const boundaryGuard = time.Second

// Deps carries the scheduler's collaborators. Location and Sun are
// required for automatic switching; Clock, Applier, Refresher and
// Observer may be nil and default to no-op implementations (Clock
// defaults to the system clock).
type Deps struct {
	Location  port.LocationProvider
	Sun       port.SunCalculator
	Clock     port.Clock
	Applier   port.StyleApplier
	Refresher port.Refresher
	Observer  port.SchedulerObserver
	Logger    *zerolog.Logger
}

// Scheduler selects the style matching the current day/night state and
// re-arms a single cancellable timer for the next solar boundary. All
// entry points may be called from any goroutine; a mutex serializes
// them so each runs to completion before the next.
type Scheduler struct {
	mu sync.Mutex

	styles     entity.StyleSet
	autoAdjust bool

	current    entity.StyleType
	hasCurrent bool

	timer *time.Timer
	armed time.Duration

	closed bool

	location  port.LocationProvider
	sun       port.SunCalculator
	clock     port.Clock
	applier   port.StyleApplier
	refresher port.Refresher
	observer  port.SchedulerObserver
	log       zerolog.Logger
}

// New creates a scheduler over the given style set. No style is applied
// and no timer is armed until the first call to Apply.
func New(styles entity.StyleSet, autoAdjust bool, deps Deps) *Scheduler {
	s := &Scheduler{
		styles:     styles,
		autoAdjust: autoAdjust,
		location:   deps.Location,
		sun:        deps.Sun,
		clock:      deps.Clock,
		applier:    deps.Applier,
		refresher:  deps.Refresher,
		observer:   deps.Observer,
		log:        zerolog.Nop(),
	}
	if s.location == nil {
		s.location = noLocation{}
	}
	if s.sun == nil {
		s.sun = noSun{}
	}
	if s.clock == nil {
		s.clock = systemClock{}
	}
	if s.applier == nil {
		s.applier = nopApplier{}
	}
	if s.refresher == nil {
		s.refresher = nopRefresher{}
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if deps.Logger != nil {
		s.log = *deps.Logger
	}
	return s
}

// Apply re-derives the target style and applies it if it differs from
// the current one, then re-arms the boundary timer. Idempotent: with
// unchanged inputs a second call applies and notifies nothing.
func (s *Scheduler) Apply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked()
	s.rearmLocked()
}

// ApplyType forces a switch to the given type, applying every style in
// the set that matches it. Used when the caller already knows which
// type should be active. No-op when the type is already current.
func (s *Scheduler) ApplyType(t entity.StyleType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyTypeLocked(t)
}

// HandleTimeChange re-evaluates after an external time signal (system
// clock adjusted, timezone changed, resume from sleep). Same effect as
// the boundary timer firing.
func (s *Scheduler) HandleTimeChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.evaluateLocked()
}

// HandlePreferenceChange re-runs the full selection and re-arms the
// deferral from the current clock reading.
func (s *Scheduler) HandlePreferenceChange() {
	s.Apply()
}

// SetStyles replaces the style set, re-applies and re-arms. Replacing
// with an empty set leaves the current style type untouched.
func (s *Scheduler) SetStyles(styles entity.StyleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles = styles
	s.applyLocked()
	s.rearmLocked()
}

// SetAutoAdjust toggles automatic switching. The current style is not
// re-applied; only the pending timer is reset (or cancelled).
func (s *Scheduler) SetAutoAdjust(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoAdjust = v
	s.rearmLocked()
}

// Current returns the currently applied style type, if any style has
// been applied yet.
func (s *Scheduler) Current() (entity.StyleType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasCurrent
}

// NextChange reports the delay the pending timer was armed with, and
// whether one is armed at all.
func (s *Scheduler) NextChange() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return 0, false
	}
	return s.armed, true
}

// Close cancels any pending timer. Safe to call multiple times; the
// scheduler ignores late timer callbacks after closing.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelLocked()
}

// applyLocked applies the derived target style on type change only.
func (s *Scheduler) applyLocked() {
	target, ok := s.selectLocked()
	if !ok {
		s.log.Debug().Msg("no applicable style, leaving current selection")
		return
	}
	if s.hasCurrent && s.current == target.Type {
		return
	}
	s.applyOne(target)
	s.current = target.Type
	s.hasCurrent = true
	s.observer.OnStyleApplied(target)
}

// selectLocked derives the target style for the current situation:
// no location or no auto mode falls back to the first style, otherwise
// the first style matching the day/night classification.
func (s *Scheduler) selectLocked() (entity.Style, bool) {
	loc, ok := s.location.CurrentLocation()
	if !ok {
		return s.styles.First()
	}
	if !s.autoAdjust || !s.styles.EligibleForAuto() {
		return s.styles.First()
	}
	now := s.clock.Now()
	sunrise, sunset, ok := s.sun.SunTimes(now, loc)
	if !ok {
		s.log.Debug().
			Float64("lat", loc.Latitude).
			Float64("lon", loc.Longitude).
			Msg("no sun times for location, falling back to first style")
		return s.styles.First()
	}
	return s.styles.StyleFor(s.classify(now, sunrise, sunset))
}

func (s *Scheduler) classify(now, sunrise, sunset time.Time) entity.StyleType {
	if service.IsNight(now, sunrise, sunset) {
		return entity.StyleTypeNight
	}
	return entity.StyleTypeDay
}

func (s *Scheduler) applyTypeLocked(t entity.StyleType) {
	if s.hasCurrent && s.current == t {
		return
	}
	s.cancelLocked()
	matches := s.styles.AllFor(t)
	if len(matches) == 0 {
		return
	}
	for _, st := range matches {
		s.applyOne(st)
	}
	s.current = t
	s.hasCurrent = true
	s.observer.OnStyleApplied(matches[0])
	s.refresher.ForceRefresh()
	s.observer.OnRefreshed()
}

// evaluateLocked rechecks the classification after a wake-up and
// switches only when it actually changed. A wake-up for a type the set
// does not cover skips the apply but still re-arms.
func (s *Scheduler) evaluateLocked() {
	defer s.rearmLocked()

	loc, ok := s.location.CurrentLocation()
	if !ok || !s.autoAdjust || !s.styles.EligibleForAuto() {
		return
	}
	now := s.clock.Now()
	sunrise, sunset, ok := s.sun.SunTimes(now, loc)
	if !ok {
		return
	}
	t := s.classify(now, sunrise, sunset)
	if s.hasCurrent && s.current == t {
		return
	}
	if len(s.styles.AllFor(t)) == 0 {
		s.log.Debug().Str("type", string(t)).Msg("no style for classified type, skipping apply")
		return
	}
	s.applyTypeLocked(t)
}

// rearmLocked cancels any pending timer unconditionally, then arms a
// new one for the next boundary when automatic switching is possible.
// At most one timer is ever outstanding.
func (s *Scheduler) rearmLocked() {
	s.cancelLocked()

	if !s.autoAdjust || !s.styles.EligibleForAuto() {
		return
	}
	loc, ok := s.location.CurrentLocation()
	if !ok {
		return
	}
	now := s.clock.Now()
	sunrise, sunset, ok := s.sun.SunTimes(now, loc)
	if !ok {
		s.log.Warn().
			Float64("lat", loc.Latitude).
			Float64("lon", loc.Longitude).
			Msg("no sun times for location, automatic switching disabled")
		return
	}

	delay := service.UntilNextBoundary(now, sunrise, sunset) + boundaryGuard
	s.armed = delay
	s.timer = time.AfterFunc(delay, s.deferralFired)
	s.log.Debug().Dur("delay", delay).Msg("next style evaluation armed")
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed = 0
}

func (s *Scheduler) deferralFired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.evaluateLocked()
}

func (s *Scheduler) applyOne(st entity.Style) {
	if err := s.applier.Apply(st); err != nil {
		s.log.Error().Err(err).Str("style", st.Name).Msg("failed to apply style")
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type noLocation struct{}

func (noLocation) CurrentLocation() (entity.Location, bool) { return entity.Location{}, false }

type noSun struct{}

func (noSun) SunTimes(time.Time, entity.Location) (time.Time, time.Time, bool) {
	return time.Time{}, time.Time{}, false
}

type nopApplier struct{}

func (nopApplier) Apply(entity.Style) error { return nil }

type nopRefresher struct{}

func (nopRefresher) ForceRefresh() {}

type nopObserver struct{}

func (nopObserver) OnStyleApplied(entity.Style) {}
func (nopObserver) OnRefreshed()                {}
