package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/pipeline"
)

var resolveDryRun bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <game_id>",
	Short: "Fill missing player ids on substitution events from their descriptions",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "report without saving")
}

func runResolve(cmd *cobra.Command, args []string) error {
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
	in, err := proc.Load(gameID)
	if err != nil {
		return err
	}
	res := pipeline.ComputeGame(in, pipelineOptions())

	unresolved := 0
	for _, e := range res.Events {
		if e.Type.IsSubstitution() && !e.HasPlayer() {
			unresolved++
		}
	}
	fmt.Fprintf(os.Stdout, "Game %d: resolved %d substitution events, %d still without a player\n",
		gameID, len(res.Resolved), unresolved)

	if resolveDryRun || len(res.Resolved) == 0 {
		return nil
	}
	if err := db.SetEventPlayers(gameID, res.Resolved); err != nil {
		return fmt.Errorf("save resolved players: %w", err)
	}
	return nil
}
