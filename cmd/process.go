package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/metrics"
	"github.com/pable/go-pbp-lineups/internal/pipeline"
)

var (
	processSeason  string
	processWorkers int
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Recompute stints for every stored game (or one season)",
	Long: `Recompute stints for stored games across a pool of workers and record the run.
Each game's stints are replaced, so re-running is safe. When metrics_file is
configured, run counters are written there in Prometheus text format.`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processSeason, "season", "", "only process this season")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "concurrent games (default from config)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ids, err := db.SeasonGameIDs(processSeason)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stdout, "No games to process. Run 'pbplineups import <game.json>' first.")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	proc := pipeline.NewProcessor(db, pipelineOptions(),
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
		pipeline.WithWorkers(cfg.Workers),
	)

	fmt.Fprintf(os.Stdout, "Processing %d games with %d workers...\n", len(ids), cfg.Workers)
	run, err := proc.ProcessAll(ctx, ids)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s: %d games, %d stints\n", run.RunID, run.Games, run.Stints)
	if run.Anomalies > 0 {
		cWarn.Fprintf(os.Stdout, "  %d anomalies logged\n", run.Anomalies)
	}
	if run.Failed > 0 {
		cNeg.Fprintf(os.Stdout, "  %d games failed\n", run.Failed)
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Info("metrics written", "path", cfg.MetricsFile)
	}
	return nil
}
