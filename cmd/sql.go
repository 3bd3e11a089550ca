package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the lineups database",
	Long: `Run an arbitrary SQL query against the lineups database and print results as a table.

Schema overview:
  games(game_id, season_id, game_date, home_team_id, away_team_id)
  roster(game_id, player_id, name, team_id)
  player_minutes(game_id, player_id, team_id, minutes)
  events(game_id, event_order, quarter, clock_seconds, team_id, player_id,
    event_type, home_score, away_score, description)
  stints(game_id, stint_order, team_id, quarter, players, start_event_order,
    end_event_order, start_clock, end_clock, start_score_for, start_score_against,
    end_score_for, end_score_against, duration_seconds)
  runs(run_id, started_at, games, stints, anomalies, failed)

Note: quarter is stored as a number (5 = OT, 6 = OT2) and players as a
comma-separated list of five ids: WHERE ',' || players || ',' LIKE '%,101,%'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
