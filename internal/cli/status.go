package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/duskd/internal/config"
	"github.com/bnema/duskd/internal/domain/entity"
	"github.com/bnema/duskd/internal/domain/service"
	"github.com/bnema/duskd/internal/infrastructure/astro"
)

// NewStatusCmd creates the one-shot status command. It computes the
// current classification offline, without talking to a running daemon.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's sun times and the style that would apply now",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showStatus()
		},
	}
}

func showStatus() error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Get()
	styles := cfg.StyleSet()

	loc, ok := buildLocationProvider(cfg, nil).CurrentLocation()
	if !ok {
		fmt.Println("location: unavailable")
		if first, ok := styles.First(); ok {
			fmt.Printf("style: %s (first style, automatic switching off)\n", first.Name)
		} else {
			fmt.Println("style: none configured")
		}
		return nil
	}

	fmt.Printf("location: %.4f, %.4f (%s)\n", loc.Latitude, loc.Longitude, cfg.Location.Mode)

	now := time.Now()
	sunrise, sunset, ok := astro.NewCalculator().SunTimes(now, loc)
	if !ok {
		fmt.Println("sun: does not rise or set here today (polar day/night)")
		if first, ok := styles.First(); ok {
			fmt.Printf("style: %s (first style, automatic switching off)\n", first.Name)
		}
		return nil
	}

	fmt.Printf("sunrise: %s\n", sunrise.Local().Format("15:04:05"))
	fmt.Printf("sunset: %s\n", sunset.Local().Format("15:04:05"))

	target := entity.StyleTypeDay
	if service.IsNight(now, sunrise, sunset) {
		target = entity.StyleTypeNight
	}
	fmt.Printf("now: %s (%s)\n", now.Format("15:04:05"), target)

	if style, ok := styles.StyleFor(target); ok {
		fmt.Printf("style: %s\n", style.Name)
	} else {
		fmt.Printf("style: none configured for %s\n", target)
	}

	next := service.UntilNextBoundary(now, sunrise, sunset)
	fmt.Printf("next change: in %s\n", next.Round(time.Second))
	return nil
}
