package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate counts for everything stored in the database:
games, date range, seasons, teams, players, events and stints,
followed by a per-season breakdown.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Games == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'pbplineups import <game.json>' to add one.")
		return nil
	}
	report.PrintOverview(os.Stdout, ov)

	seasons, err := db.GetSeasonCounts()
	if err != nil {
		return fmt.Errorf("get season counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Seasons ---\n\n")
	report.PrintSeasonCounts(os.Stdout, seasons)
	return nil
}
