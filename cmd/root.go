package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/config"
	"github.com/pable/go-pbp-lineups/internal/logging"
	"github.com/pable/go-pbp-lineups/internal/pipeline"
	"github.com/pable/go-pbp-lineups/internal/storage"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var (
	cWarn  = color.New(color.FgYellow)
	cPos   = color.New(color.FgGreen)
	cNeg   = color.New(color.FgRed)
	cMuted = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:               "pbplineups",
	Short:             "Basketball lineup stint and plus-minus tool",
	Long:              "Import play-by-play game files, reconstruct five-man stints, and compute plus-minus and on/off splits.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.pbplineups/lineups.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $PBP_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(stintsCmd)
	rootCmd.AddCommand(plusminusCmd)
	rootCmd.AddCommand(onoffCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig layers config file and environment, then explicit flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("workers") {
		c.Workers = processWorkers
	}
	if err := c.Validate(); err != nil {
		return err
	}
	lvl, _ := c.Level()
	cfg = c
	dbPath = c.DBPath
	logger = logging.New(lvl, os.Stderr)
	return nil
}

func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func pipelineOptions() pipeline.Options {
	return pipeline.Options{Overflow: cfg.Overflow(), Markers: cfg.SubMarkers}
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

// signedColor renders n with a sign, green when positive and red when negative.
func signedColor(n int) string {
	switch {
	case n > 0:
		return cPos.Sprintf("+%d", n)
	case n < 0:
		return cNeg.Sprintf("%d", n)
	default:
		return "0"
	}
}
