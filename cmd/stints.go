package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/model"
	"github.com/pable/go-pbp-lineups/internal/pipeline"
	"github.com/pable/go-pbp-lineups/internal/report"
)

var stintsTeamID int64

var stintsCmd = &cobra.Command{
	Use:   "stints <game_id>",
	Short: "Recompute a game's stints, replace the stored set, and print them",
	Args:  cobra.ExactArgs(1),
	RunE:  runStints,
}

func init() {
	stintsCmd.Flags().Int64Var(&stintsTeamID, "team", 0, "only print this team's stints")
}

func runStints(cmd *cobra.Command, args []string) error {
	gameID, err := parseID(args[0], "game id")
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	proc := pipeline.NewProcessor(db, pipelineOptions(), pipeline.WithLogger(logger))
	res, err := proc.ProcessGame(gameID)
	if err != nil {
		return err
	}
	game, err := db.GetGame(gameID)
	if err != nil {
		return fmt.Errorf("get game: %w", err)
	}
	roster, err := db.GetRoster(gameID)
	if err != nil {
		return fmt.Errorf("get roster: %w", err)
	}

	report.PrintGameHeader(os.Stdout, *game)
	report.PrintStintTable(os.Stdout, filterTeam(res.Stints, stintsTeamID), rosterNames(roster))
	if len(res.Anomalies) > 0 {
		cWarn.Fprintf(os.Stdout, "\n%d anomalies:\n", len(res.Anomalies))
		report.PrintAnomalyTable(os.Stdout, res.Anomalies)
	}
	return nil
}

func filterTeam(stints []model.Stint, teamID int64) []model.Stint {
	if teamID == 0 {
		return stints
	}
	var out []model.Stint
	for _, s := range stints {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	return out
}

func rosterNames(roster []model.RosterEntry) map[int64]string {
	names := make(map[int64]string, len(roster))
	for _, r := range roster {
		names[r.PlayerID] = r.Name
	}
	return names
}
