package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/pipeline"
	"github.com/pable/go-pbp-lineups/internal/report"
)

var plusminusPlayerID int64

var plusminusCmd = &cobra.Command{
	Use:   "plusminus <game_id>",
	Short: "Per-player plus-minus for one game",
	Long: `Recompute the game's stints from its current events, replace the stored
set, and print each player's plus-minus.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlusMinus,
}

func init() {
	plusminusCmd.Flags().Int64Var(&plusminusPlayerID, "player", 0, "highlight player id")
}

func runPlusMinus(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("get game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game %d stored\n", gameID)
		return nil
	}

	proc := pipeline.NewProcessor(db, pipelineOptions(), pipeline.WithLogger(logger))
	res, err := proc.ProcessGame(gameID)
	if err != nil {
		return err
	}

	report.PrintGameHeader(os.Stdout, *game)
	report.PrintPlusMinusTable(os.Stdout, res.PlusMinus, plusminusPlayerID)
	return nil
}
