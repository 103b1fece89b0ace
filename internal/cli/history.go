package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/duskd/internal/config"
	"github.com/bnema/duskd/internal/db"
)

const defaultHistoryLimit = 20

// NewHistoryCmd creates the transition journal listing command.
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent style transitions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showHistory(limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Maximum number of entries to show")

	return cmd
}

func showHistory(limit int) error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Get()

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer database.Close()

	transitions, err := database.RecentTransitions(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(transitions) == 0 {
		fmt.Println("No transitions recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "APPLIED\tSTYLE\tTYPE")
	for _, tr := range transitions {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			tr.AppliedAt.Local().Format("2006-01-02 15:04:05"),
			tr.Style,
			tr.StyleType,
		)
	}
	return w.Flush()
}
