package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded batch runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	report.PrintRunTable(os.Stdout, runs)
	return nil
}
