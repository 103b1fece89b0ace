// Package signals subscribes to desktop and system events that
// invalidate the current day/night evaluation: clock or timezone
// changes via timedate1, resume from sleep via logind, and appearance
// preference changes via the settings portal.
package signals

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	timedatePath   = dbus.ObjectPath("/org/freedesktop/timedate1")
	loginManager   = "org.freedesktop.login1.Manager"
	propsChanged   = "org.freedesktop.DBus.Properties.PropertiesChanged"
	prepareSignal  = loginManager + ".PrepareForSleep"
	portalPath     = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	portalSettings = "org.freedesktop.portal.Settings"
	settingChanged = portalSettings + ".SettingChanged"

	appearanceNS = "org.freedesktop.appearance"
)

// Listener invokes its callbacks whenever the system time context or
// the desktop appearance preference may have shifted under the
// scheduler.
type Listener struct {
	onTimeChange       func()
	onPreferenceChange func()
	log                zerolog.Logger
}

// NewListener creates a listener calling onTimeChange for clock and
// resume signals and onPreferenceChange for appearance setting
// changes. Either callback may be nil. The callbacks must be safe to
// call from the listener's goroutine.
func NewListener(onTimeChange, onPreferenceChange func(), logger *zerolog.Logger) *Listener {
	l := &Listener{
		onTimeChange:       onTimeChange,
		onPreferenceChange: onPreferenceChange,
		log:                zerolog.Nop(),
	}
	if logger != nil {
		l.log = *logger
	}
	return l
}

// Run subscribes on the system bus (and the session bus when one is
// reachable) and dispatches until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	timeMatch := []dbus.MatchOption{
		dbus.WithMatchObjectPath(timedatePath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	}
	if err := conn.AddMatchSignal(timeMatch...); err != nil {
		return fmt.Errorf("subscribe timedate1 changes: %w", err)
	}
	defer func() { _ = conn.RemoveMatchSignal(timeMatch...) }()

	sleepMatch := []dbus.MatchOption{
		dbus.WithMatchInterface(loginManager),
		dbus.WithMatchMember("PrepareForSleep"),
	}
	if err := conn.AddMatchSignal(sleepMatch...); err != nil {
		return fmt.Errorf("subscribe logind sleep signals: %w", err)
	}
	defer func() { _ = conn.RemoveMatchSignal(sleepMatch...) }()

	sigs := make(chan *dbus.Signal, 8)
	conn.Signal(sigs)
	defer conn.RemoveSignal(sigs)

	// The settings portal lives on the session bus; a headless system
	// service has none, so failure here only disables preference
	// signals.
	sessionSigs := make(chan *dbus.Signal, 8)
	if session, serr := dbus.SessionBus(); serr == nil {
		portalMatch := []dbus.MatchOption{
			dbus.WithMatchObjectPath(portalPath),
			dbus.WithMatchInterface(portalSettings),
			dbus.WithMatchMember("SettingChanged"),
		}
		if merr := session.AddMatchSignal(portalMatch...); merr == nil {
			session.Signal(sessionSigs)
			defer session.RemoveSignal(sessionSigs)
			defer func() { _ = session.RemoveMatchSignal(portalMatch...) }()
		} else {
			l.log.Debug().Err(merr).Msg("settings portal unavailable")
		}
	} else {
		l.log.Debug().Err(serr).Msg("no session bus, preference signals disabled")
	}

	l.log.Debug().Msg("system signal listener started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-sigs:
			if sig == nil {
				continue
			}
			l.dispatch(sig)
		case sig := <-sessionSigs:
			if sig == nil {
				continue
			}
			l.dispatch(sig)
		}
	}
}

func (l *Listener) dispatch(sig *dbus.Signal) {
	switch sig.Name {
	case propsChanged:
		if sig.Path != timedatePath {
			return
		}
		l.log.Debug().Msg("system time or timezone changed")
		l.fireTimeChange()
	case prepareSignal:
		// PrepareForSleep(false) fires on resume; that is the moment
		// the wall clock may have jumped past a boundary.
		if len(sig.Body) == 1 {
			if entering, ok := sig.Body[0].(bool); ok && !entering {
				l.log.Debug().Msg("resumed from sleep")
				l.fireTimeChange()
			}
		}
	case settingChanged:
		if len(sig.Body) < 2 {
			return
		}
		ns, _ := sig.Body[0].(string)
		key, _ := sig.Body[1].(string)
		if ns != appearanceNS || key != "color-scheme" {
			return
		}
		l.log.Debug().Msg("appearance preference changed")
		if l.onPreferenceChange != nil {
			l.onPreferenceChange()
		}
	}
}

func (l *Listener) fireTimeChange() {
	if l.onTimeChange != nil {
		l.onTimeChange()
	}
}
