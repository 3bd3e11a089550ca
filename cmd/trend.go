package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/aggregator"
	"github.com/pable/go-pbp-lineups/internal/report"
)

var trendSeason string

var trendCmd = &cobra.Command{
	Use:   "trend <player_id>",
	Short: "Chronological per-game plus-minus trend for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendSeason, "season", "", "season id (required)")
	_ = trendCmd.MarkFlagRequired("season")
}

func runTrend(cmd *cobra.Command, args []string) error {
	playerID, err := parseID(args[0], "player id")
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	points, err := aggregator.Trend(db, playerID, trendSeason)
	if err != nil {
		return fmt.Errorf("trend: %w", err)
	}
	if len(points) == 0 {
		fmt.Println("no games found")
		return nil
	}
	report.PrintTrendTable(os.Stdout, points)
	fmt.Fprintf(os.Stdout, "Season +/-: %s over %d games\n", signedColor(points[len(points)-1].Cumulative), len(points))
	return nil
}
