package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/aggregator"
	"github.com/pable/go-pbp-lineups/internal/report"
)

var onoffSeason string

var onoffCmd = &cobra.Command{
	Use:   "onoff <player_id>",
	Short: "Season on/off split for a player",
	Long: `Compare the team's per-stint scoring margin with the player on court against
the margin with the player off court, over one season's stored stints.
The player's team is the team of their most recent game in the season.`,
	Args: cobra.ExactArgs(1),
	RunE: runOnOff,
}

func init() {
	onoffCmd.Flags().StringVar(&onoffSeason, "season", "", "season id (required)")
	_ = onoffCmd.MarkFlagRequired("season")
}

func runOnOff(cmd *cobra.Command, args []string) error {
	playerID, err := parseID(args[0], "player id")
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	split, err := aggregator.OnOff(db, playerID, onoffSeason)
	if err != nil {
		return fmt.Errorf("on/off: %w", err)
	}
	if split.TeamID == 0 {
		fmt.Fprintf(os.Stderr, "Player %d has no games in season %s\n", playerID, onoffSeason)
		return nil
	}
	report.PrintOnOffTable(os.Stdout, split)
	fmt.Fprintf(os.Stdout, "On-court +/-: %s\n", signedColor(split.PlusMinus))
	return nil
}
