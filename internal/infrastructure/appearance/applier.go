// Package appearance applies a style's payload to the desktop through
// gsettings and user-configured hook commands.
package appearance

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/bnema/duskd/internal/domain/entity"
)

const (
	interfaceSchema  = "org.gnome.desktop.interface"
	backgroundSchema = "org.gnome.desktop.background"
)

// runner executes an external command. Swapped out in tests.
type runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", name, err, string(out))
	}
	return nil
}

// Applier writes a style's settings with gsettings and then runs its
// hook commands. Field order is fixed: color scheme first so theme
// switches land on an already-switched scheme.
type Applier struct {
	run runner
	log zerolog.Logger
}

// NewApplier creates a gsettings-backed applier.
func NewApplier(logger *zerolog.Logger) *Applier {
	a := &Applier{run: execRunner, log: zerolog.Nop()}
	if logger != nil {
		a.log = *logger
	}
	return a
}

// Available returns true if the gsettings command can be found.
func Available() bool {
	_, err := exec.LookPath("gsettings")
	return err == nil
}

// Apply implements port.StyleApplier. Empty payload fields are skipped.
// Individual failures do not stop the remaining actions; all errors are
// joined into the return value.
func (a *Applier) Apply(st entity.Style) error {
	var errs []error

	settings := []struct {
		schema string
		key    string
		value  string
	}{
		{interfaceSchema, "color-scheme", st.ColorScheme},
		{interfaceSchema, "gtk-theme", st.GTKTheme},
		{interfaceSchema, "icon-theme", st.IconTheme},
		{interfaceSchema, "cursor-theme", st.CursorTheme},
		{backgroundSchema, "picture-uri", st.Wallpaper},
		{backgroundSchema, "picture-uri-dark", st.Wallpaper},
	}
	for _, s := range settings {
		if s.value == "" {
			continue
		}
		if err := a.run("gsettings", "set", s.schema, s.key, s.value); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range st.Commands {
		if err := a.run("sh", "-c", cmd); err != nil {
			errs = append(errs, fmt.Errorf("hook %q: %w", cmd, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("apply style %q: %w", st.Name, errors.Join(errs...))
	}
	a.log.Info().Str("style", st.Name).Str("type", string(st.Type)).Msg("style applied")
	return nil
}

// CommandRefresher runs a user-configured shell command to force the
// desktop to re-read appearance settings. A no-op when unconfigured.
type CommandRefresher struct {
	command string
	run     runner
	log     zerolog.Logger
}

// NewCommandRefresher creates a refresher for the given shell command.
func NewCommandRefresher(command string, logger *zerolog.Logger) *CommandRefresher {
	r := &CommandRefresher{command: command, run: execRunner, log: zerolog.Nop()}
	if logger != nil {
		r.log = *logger
	}
	return r
}

// ForceRefresh implements port.Refresher.
func (r *CommandRefresher) ForceRefresh() {
	if r.command == "" {
		return
	}
	if err := r.run("sh", "-c", r.command); err != nil {
		r.log.Warn().Err(err).Msg("refresh command failed")
		return
	}
	r.log.Debug().Msg("appearance refresh forced")
}
