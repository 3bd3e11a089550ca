package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/report"
)

var showTeamID int64

var showCmd = &cobra.Command{
	Use:   "show <game_id>",
	Short: "Show a game's stored stints without recomputing",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int64Var(&showTeamID, "team", 0, "only show this team's stints")
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID, err := parseID(args[0], "game id")
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	game, err := db.GetGame(gameID)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game %d stored\n", gameID)
		return nil
	}
	stints, err := db.GetStints(gameID)
	if err != nil {
		return fmt.Errorf("get stints: %w", err)
	}
	roster, err := db.GetRoster(gameID)
	if err != nil {
		return fmt.Errorf("get roster: %w", err)
	}

	report.PrintGameHeader(os.Stdout, *game)
	if len(stints) == 0 {
		fmt.Fprintf(os.Stdout, "No stints stored. Run 'pbplineups stints %d' to compute them.\n", gameID)
		return nil
	}
	report.PrintStintTable(os.Stdout, filterTeam(stints, showTeamID), rosterNames(roster))
	return nil
}
