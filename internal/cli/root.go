// Package cli provides the command-line interface for duskd.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/duskd/internal/config"
)

// NewRootCmd creates the root command for duskd
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "duskd",
		Short: "Automatic day/night appearance switching for Linux desktops",
		Long: `duskd watches sunrise and sunset at your location and switches between
your configured day and night appearance styles at the right moment,
without polling. Run it as a daemon with "duskd run".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("duskd %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", buildDate)
		},
	}

	// Init command
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize duskd configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := config.Init(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			if err := config.GenerateSchemaFile(); err != nil {
				return fmt.Errorf("failed to generate config schema: %w", err)
			}

			cfg := config.Get()
			fmt.Printf("duskd %s - Initialization complete!\n", version)
			fmt.Println("Journal database at:", cfg.Database.Path)

			xdgDirs, err := config.GetXDGDirs()
			if err == nil {
				fmt.Println("Configuration directories:")
				fmt.Printf("- Config: %s\n", xdgDirs.ConfigHome)
				fmt.Printf("- State: %s\n", xdgDirs.StateHome)
			}

			fmt.Println("Configured styles:")
			for _, style := range cfg.Styles {
				fmt.Printf("- %s (%s)\n", style.Name, style.Type)
			}
			return nil
		},
	}

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}
