package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/duskd/internal/domain/entity"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 15, hour, minute, 0, 0, time.UTC)
}

// fakeLocation implements port.LocationProvider.
type fakeLocation struct {
	loc entity.Location
	ok  bool
}

func (f *fakeLocation) CurrentLocation() (entity.Location, bool) { return f.loc, f.ok }

// fakeSun implements port.SunCalculator with fixed sunrise/sunset.
type fakeSun struct {
	sunrise time.Time
	sunset  time.Time
	ok      bool
}

func (f *fakeSun) SunTimes(time.Time, entity.Location) (time.Time, time.Time, bool) {
	return f.sunrise, f.sunset, f.ok
}

// fakeClock implements port.Clock with a settable instant.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

// recordingApplier implements port.StyleApplier.
type recordingApplier struct {
	applied []string
	err     error
}

func (r *recordingApplier) Apply(st entity.Style) error {
	r.applied = append(r.applied, st.Name)
	return r.err
}

// recordingObserver implements port.SchedulerObserver.
type recordingObserver struct {
	styles    []entity.Style
	refreshed int
}

func (r *recordingObserver) OnStyleApplied(st entity.Style) { r.styles = append(r.styles, st) }
func (r *recordingObserver) OnRefreshed()                   { r.refreshed++ }

// recordingRefresher implements port.Refresher.
type recordingRefresher struct {
	count int
}

func (r *recordingRefresher) ForceRefresh() { r.count++ }

type fixture struct {
	location  *fakeLocation
	sun       *fakeSun
	clock     *fakeClock
	applier   *recordingApplier
	observer  *recordingObserver
	refresher *recordingRefresher
}

func newFixture() *fixture {
	return &fixture{
		location:  &fakeLocation{loc: entity.Location{Latitude: 48.85, Longitude: 2.35}, ok: true},
		sun:       &fakeSun{sunrise: at(6, 0), sunset: at(18, 0), ok: true},
		clock:     &fakeClock{now: at(12, 0)},
		applier:   &recordingApplier{},
		observer:  &recordingObserver{},
		refresher: &recordingRefresher{},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Location:  f.location,
		Sun:       f.sun,
		Clock:     f.clock,
		Applier:   f.applier,
		Refresher: f.refresher,
		Observer:  f.observer,
	}
}

func twoStyles() entity.StyleSet {
	return entity.NewStyleSet(
		entity.Style{Name: "paper", Type: entity.StyleTypeDay},
		entity.Style{Name: "ink", Type: entity.StyleTypeNight},
	)
}

func TestApply_NightSelectsNightStyle(t *testing.T) {
	f := newFixture()
	f.clock.now = at(3, 0)
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()

	require.Equal(t, []string{"ink"}, f.applier.applied)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, entity.StyleTypeNight, cur)

	// Boundary at 06:00 plus the one second guard.
	delay, armed := s.NextChange()
	require.True(t, armed)
	assert.Equal(t, 3*time.Hour+time.Second, delay)
}

func TestApply_DaySelectsDayStyle(t *testing.T) {
	f := newFixture()
	f.clock.now = at(12, 0)
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()

	require.Equal(t, []string{"paper"}, f.applier.applied)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, entity.StyleTypeDay, cur)

	delay, armed := s.NextChange()
	require.True(t, armed)
	assert.Equal(t, 6*time.Hour+time.Second, delay)
}

func TestApply_Idempotent(t *testing.T) {
	f := newFixture()
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()
	s.Apply()

	assert.Equal(t, []string{"paper"}, f.applier.applied)
	assert.Len(t, f.observer.styles, 1)
}

func TestApply_NoLocationUsesFirstStyle(t *testing.T) {
	f := newFixture()
	f.location.ok = false
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()
	s.Apply()
	s.Apply()

	// First style applied exactly once, no deferral armed.
	assert.Equal(t, []string{"paper"}, f.applier.applied)
	_, armed := s.NextChange()
	assert.False(t, armed)
}

func TestApply_SingleStyleNeverArms(t *testing.T) {
	f := newFixture()
	set := entity.NewStyleSet(entity.Style{Name: "solo", Type: entity.StyleTypeNight})
	s := New(set, true, f.deps())
	defer s.Close()

	s.Apply()

	assert.Equal(t, []string{"solo"}, f.applier.applied)
	_, armed := s.NextChange()
	assert.False(t, armed)
}

func TestApply_EmptySetDoesNothing(t *testing.T) {
	f := newFixture()
	s := New(entity.NewStyleSet(), true, f.deps())
	defer s.Close()

	s.Apply()

	assert.Empty(t, f.applier.applied)
	_, ok := s.Current()
	assert.False(t, ok)
	_, armed := s.NextChange()
	assert.False(t, armed)
}

func TestApply_AutoAdjustOffUsesFirstStyle(t *testing.T) {
	f := newFixture()
	f.clock.now = at(3, 0) // would classify night
	s := New(twoStyles(), false, f.deps())
	defer s.Close()

	s.Apply()

	assert.Equal(t, []string{"paper"}, f.applier.applied)
	_, armed := s.NextChange()
	assert.False(t, armed)
}

func TestApply_NoSunTimesDegrades(t *testing.T) {
	f := newFixture()
	f.sun.ok = false // polar day/night
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()

	// Falls back to the first style and arms nothing.
	assert.Equal(t, []string{"paper"}, f.applier.applied)
	_, armed := s.NextChange()
	assert.False(t, armed)
}

func TestSetAutoAdjust_OffCancelsWithoutReapply(t *testing.T) {
	f := newFixture()
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()
	_, armed := s.NextChange()
	require.True(t, armed)

	s.SetAutoAdjust(false)

	assert.Equal(t, []string{"paper"}, f.applier.applied)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, entity.StyleTypeDay, cur)
	_, armed = s.NextChange()
	assert.False(t, armed)
}

func TestSetStyles_EmptyKeepsCurrent(t *testing.T) {
	f := newFixture()
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()
	require.Equal(t, []string{"paper"}, f.applier.applied)

	s.SetStyles(entity.NewStyleSet())

	assert.Equal(t, []string{"paper"}, f.applier.applied)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, entity.StyleTypeDay, cur)
	_, armed := s.NextChange()
	assert.False(t, armed)
}

func TestSetStyles_ReplacementApplies(t *testing.T) {
	f := newFixture()
	f.clock.now = at(3, 0)
	s := New(entity.NewStyleSet(entity.Style{Name: "old", Type: entity.StyleTypeDay}), true, f.deps())
	defer s.Close()

	s.Apply()
	require.Equal(t, []string{"old"}, f.applier.applied)

	s.SetStyles(twoStyles())

	// Night now classifiable with two styles: switches to the night style.
	assert.Equal(t, []string{"old", "ink"}, f.applier.applied)
	delay, armed := s.NextChange()
	require.True(t, armed)
	assert.Equal(t, 3*time.Hour+time.Second, delay)
}

func TestHandleTimeChange_SwitchesWhenClassificationChanged(t *testing.T) {
	f := newFixture()
	f.clock.now = at(3, 0)
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()
	require.Equal(t, []string{"ink"}, f.applier.applied)

	// System clock jumps to midday.
	f.clock.now = at(12, 0)
	s.HandleTimeChange()

	assert.Equal(t, []string{"ink", "paper"}, f.applier.applied)
	cur, _ := s.Current()
	assert.Equal(t, entity.StyleTypeDay, cur)

	// Forced switch triggers a refresh notification.
	assert.Equal(t, 1, f.refresher.count)
	assert.Equal(t, 1, f.observer.refreshed)

	delay, armed := s.NextChange()
	require.True(t, armed)
	assert.Equal(t, 6*time.Hour+time.Second, delay)
}

func TestHandleTimeChange_SpuriousWakeupIsNoop(t *testing.T) {
	f := newFixture()
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()
	require.Len(t, f.applier.applied, 1)

	s.HandleTimeChange()

	// Classification unchanged: no apply, no refresh, timer re-armed.
	assert.Len(t, f.applier.applied, 1)
	assert.Zero(t, f.refresher.count)
	_, armed := s.NextChange()
	assert.True(t, armed)
}

func TestHandleTimeChange_MissingTypeSkipsApplyButRearms(t *testing.T) {
	f := newFixture()
	f.clock.now = at(3, 0) // night, but the set only covers day
	set := entity.NewStyleSet(
		entity.Style{Name: "paper", Type: entity.StyleTypeDay},
		entity.Style{Name: "paper-alt", Type: entity.StyleTypeDay},
	)
	s := New(set, true, f.deps())
	defer s.Close()

	s.HandleTimeChange()

	assert.Empty(t, f.applier.applied)
	_, ok := s.Current()
	assert.False(t, ok)

	delay, armed := s.NextChange()
	require.True(t, armed)
	assert.Equal(t, 3*time.Hour+time.Second, delay)
}

func TestApplyType_AppliesEveryMatchingStyle(t *testing.T) {
	f := newFixture()
	set := entity.NewStyleSet(
		entity.Style{Name: "paper", Type: entity.StyleTypeDay},
		entity.Style{Name: "ink", Type: entity.StyleTypeNight},
		entity.Style{Name: "ink-accent", Type: entity.StyleTypeNight},
	)
	s := New(set, true, f.deps())
	defer s.Close()

	s.ApplyType(entity.StyleTypeNight)

	// Compound set: both night styles applied, one notification, one refresh.
	assert.Equal(t, []string{"ink", "ink-accent"}, f.applier.applied)
	require.Len(t, f.observer.styles, 1)
	assert.Equal(t, "ink", f.observer.styles[0].Name)
	assert.Equal(t, 1, f.refresher.count)

	// Already current: repeat is a no-op.
	s.ApplyType(entity.StyleTypeNight)
	assert.Len(t, f.applier.applied, 2)
	assert.Equal(t, 1, f.refresher.count)
}

func TestApplyType_CancelsPendingDeferral(t *testing.T) {
	f := newFixture()
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()
	_, armed := s.NextChange()
	require.True(t, armed)

	s.ApplyType(entity.StyleTypeNight)

	_, armed = s.NextChange()
	assert.False(t, armed)
}

func TestApply_ApplierFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.applier.err = errors.New("gsettings unavailable")
	s := New(twoStyles(), true, f.deps())
	defer s.Close()

	s.Apply()

	// The failure is swallowed; selection and timer still advance.
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, entity.StyleTypeDay, cur)
	_, armed := s.NextChange()
	assert.True(t, armed)
}

func TestClose_CancelsAndIsIdempotent(t *testing.T) {
	f := newFixture()
	s := New(twoStyles(), true, f.deps())

	s.Apply()
	_, armed := s.NextChange()
	require.True(t, armed)

	s.Close()
	_, armed = s.NextChange()
	assert.False(t, armed)

	s.Close()
	s.HandleTimeChange() // ignored after close
	assert.Len(t, f.applier.applied, 1)
}

func TestNew_NilCollaboratorsAreTolerated(t *testing.T) {
	s := New(twoStyles(), true, Deps{})
	defer s.Close()

	// No location provider behaves as location absent.
	s.Apply()
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, entity.StyleTypeDay, cur)
	_, armed := s.NextChange()
	assert.False(t, armed)
}
