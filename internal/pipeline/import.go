package pipeline

import (
	"fmt"

	"github.com/pable/go-pbp-lineups/internal/model"
	"github.com/pable/go-pbp-lineups/internal/parser"
)

// Importer is the persistence surface needed to store a parsed game file.
type Importer interface {
	InsertGame(g model.Game) error
	ReplaceRoster(gameID int64, roster []model.RosterEntry) error
	ReplacePlayerMinutes(gameID int64, minutes []model.PlayerMinutes) error
	ReplaceEvents(gameID int64, events []model.Event) error
	ReplaceStints(gameID int64, stints []model.Stint) error
}

// ImportGameFile stores a parsed game file. Re-importing a game replaces its
// roster, minutes, and events and clears its stints, which were derived from
// the old events.
func ImportGameFile(db Importer, gf *parser.GameFile) error {
	id := gf.Game.GameID
	if err := db.InsertGame(gf.Game); err != nil {
		return fmt.Errorf("insert game %d: %w", id, err)
	}
	if err := db.ReplaceRoster(id, gf.Roster); err != nil {
		return fmt.Errorf("replace roster %d: %w", id, err)
	}
	if err := db.ReplacePlayerMinutes(id, gf.Minutes); err != nil {
		return fmt.Errorf("replace minutes %d: %w", id, err)
	}
	if err := db.ReplaceEvents(id, gf.Events); err != nil {
		return fmt.Errorf("replace events %d: %w", id, err)
	}
	if err := db.ReplaceStints(id, nil); err != nil {
		return fmt.Errorf("clear stints %d: %w", id, err)
	}
	return nil
}
