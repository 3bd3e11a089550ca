package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/parser"
	"github.com/pable/go-pbp-lineups/internal/pipeline"
)

var importProcess bool

var importCmd = &cobra.Command{
	Use:   "import <game.json>...",
	Short: "Import normalized play-by-play game files",
	Long: `Import one or more normalized game files (game, roster, minutes, events).
Re-importing a game replaces its roster, minutes and events.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importProcess, "process", false, "compute stints right after importing")
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	proc := pipeline.NewProcessor(db, pipelineOptions(), pipeline.WithLogger(logger))
	for _, path := range args {
		gf, err := parser.ParseGameFile(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if err := pipeline.ImportGameFile(db, gf); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Imported game %d (%d events, %d roster entries)\n",
			gf.Game.GameID, len(gf.Events), len(gf.Roster))

		if !importProcess {
			continue
		}
		res, err := proc.ProcessGame(gf.Game.GameID)
		if err != nil {
			return err
		}
		printComputeSummary(gf.Game.GameID, res)
	}
	return nil
}

func printComputeSummary(gameID int64, res pipeline.GameResult) {
	line := fmt.Sprintf("  game %d: %d stints, %d resolved subs", gameID, len(res.Stints), len(res.Resolved))
	fmt.Fprintln(os.Stdout, cMuted.Sprint(line))
	if n := len(res.Anomalies); n > 0 {
		cWarn.Fprintf(os.Stdout, "  %d anomalies (see 'pbplineups stints %d')\n", n, gameID)
	}
}
