package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/duskd/internal/application/port"
	"github.com/bnema/duskd/internal/config"
	"github.com/bnema/duskd/internal/db"
	"github.com/bnema/duskd/internal/infrastructure/appearance"
	"github.com/bnema/duskd/internal/infrastructure/astro"
	"github.com/bnema/duskd/internal/infrastructure/location"
	"github.com/bnema/duskd/internal/infrastructure/signals"
	"github.com/bnema/duskd/internal/logging"
	"github.com/bnema/duskd/internal/scheduler"
)

// NewRunCmd creates the daemon command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the appearance scheduler daemon",
		Long: `Applies the style matching the current day/night state and keeps it
correct as time passes: a single timer is armed for the next sunrise or
sunset boundary, and system signals (clock changes, resume from sleep,
config edits) trigger immediate re-evaluation.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDaemon()
		},
	}
}

func runDaemon() error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Get()

	log := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Format)
	log.Info().
		Str("location_mode", string(cfg.Location.Mode)).
		Bool("auto_adjust", cfg.AutoAdjust).
		Int("styles", len(cfg.Styles)).
		Msg("duskd starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !appearance.Available() {
		log.Warn().Msg("gsettings not found, only style hook commands will run")
	}

	// The journal is best-effort: run without it if the database fails.
	var observer port.SchedulerObserver
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Warn().Err(err).Msg("transition journal disabled")
	} else {
		defer database.Close()
		observer = db.NewRecorder(database, &log)
	}

	sched := scheduler.New(cfg.StyleSet(), cfg.AutoAdjust, scheduler.Deps{
		Location:  buildLocationProvider(cfg, &log),
		Sun:       astro.NewCalculator(),
		Applier:   appearance.NewApplier(&log),
		Refresher: appearance.NewCommandRefresher(cfg.RefreshCommand, &log),
		Observer:  observer,
		Logger:    &log,
	})
	defer sched.Close()

	sched.Apply()

	config.OnConfigChange(func(c *config.Config) {
		log.Info().Msg("configuration reloaded")
		sched.SetStyles(c.StyleSet())
		sched.SetAutoAdjust(c.AutoAdjust)
	})
	if err := config.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watching disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	listener := signals.NewListener(sched.HandleTimeChange, sched.HandlePreferenceChange, &log)
	g.Go(func() error {
		// A missing system bus should not take the daemon down; the
		// boundary timer alone still keeps the style correct.
		if err := listener.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("system signal listener stopped")
		}
		return nil
	})

	<-ctx.Done()
	log.Info().Msg("duskd shutting down")
	_ = g.Wait()
	return nil
}

// buildLocationProvider selects the provider for the configured mode.
func buildLocationProvider(cfg *config.Config, log *zerolog.Logger) port.LocationProvider {
	switch cfg.Location.Mode {
	case config.LocationModeStatic:
		return location.NewStaticProvider(cfg.Location.Latitude, cfg.Location.Longitude)
	case config.LocationModeNone:
		return location.Unavailable{}
	default:
		return location.NewGeoClueProvider("duskd", log)
	}
}
