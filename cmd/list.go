package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pbp-lineups/internal/report"
)

var listSeason string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSeason, "season", "", "only list this season")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := db.ListGames(listSeason)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	report.PrintGameList(os.Stdout, games)
	return nil
}
