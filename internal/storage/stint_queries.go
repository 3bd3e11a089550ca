package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-pbp-lineups/internal/model"
)

const stintColumns = `s.game_id, s.stint_order, s.team_id, s.quarter, s.players,
		       s.start_event_order, s.end_event_order, s.start_clock, s.end_clock,
		       s.start_score_for, s.start_score_against, s.end_score_for, s.end_score_against,
		       s.duration_seconds`

// ReplaceStints deletes a game's stored stints and inserts the new list in one transaction.
// Recomputation always replaces, so stored stints match the latest run exactly.
func (db *DB) ReplaceStints(gameID int64, stints []model.Stint) error {
	exists, err := db.GameExists(gameID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("replace stints for %d: %w", gameID, ErrGameNotFound)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM stints WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("clear stints: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO stints(
			game_id, stint_order, team_id, quarter, players,
			start_event_order, end_event_order, start_clock, end_clock,
			start_score_for, start_score_against, end_score_for, end_score_against,
			duration_seconds
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stints {
		_, err = stmt.Exec(
			gameID, s.StintOrder, s.TeamID, int(s.Quarter), s.Players.String(),
			s.StartEventOrder, s.EndEventOrder, s.StartClock, s.EndClock,
			s.StartScoreFor, s.StartScoreAgainst, s.EndScoreFor, s.EndScoreAgainst,
			s.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("insert stint %d: %w", s.StintOrder, err)
		}
	}
	return tx.Commit()
}

// GetStints returns a game's stored stints in stint order.
func (db *DB) GetStints(gameID int64) ([]model.Stint, error) {
	rows, err := db.conn.Query(`
		SELECT `+stintColumns+`
		FROM stints s WHERE s.game_id = ?
		ORDER BY s.stint_order`, gameID)
	if err != nil {
		return nil, err
	}
	return scanStints(rows)
}

// GetTeamSeasonStints returns every stored stint of a team in a season, by game date then order.
func (db *DB) GetTeamSeasonStints(teamID int64, seasonID string) ([]model.Stint, error) {
	rows, err := db.conn.Query(`
		SELECT `+stintColumns+`
		FROM stints s
		JOIN games g ON g.game_id = s.game_id
		WHERE s.team_id = ? AND g.season_id = ?
		ORDER BY g.game_date, s.game_id, s.stint_order`, teamID, seasonID)
	if err != nil {
		return nil, err
	}
	return scanStints(rows)
}

// PlayerTeam returns the team a player was rostered for in the season's most recent game.
func (db *DB) PlayerTeam(playerID int64, seasonID string) (int64, bool, error) {
	var teamID int64
	err := db.conn.QueryRow(`
		SELECT r.team_id FROM roster r
		JOIN games g ON g.game_id = r.game_id
		WHERE r.player_id = ? AND g.season_id = ?
		ORDER BY g.game_date DESC, g.game_id DESC LIMIT 1`, playerID, seasonID).Scan(&teamID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return teamID, true, nil
}

// SeasonGameIDs lists the ids of a season's games in date order. An empty season lists all.
func (db *DB) SeasonGameIDs(seasonID string) ([]int64, error) {
	rows, err := db.conn.Query(`
		SELECT game_id FROM games
		WHERE ? = '' OR season_id = ?
		ORDER BY game_date, game_id`, seasonID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanStints(rows *sql.Rows) ([]model.Stint, error) {
	defer rows.Close()

	var out []model.Stint
	for rows.Next() {
		var s model.Stint
		var quarter int
		var players string
		if err := rows.Scan(
			&s.GameID, &s.StintOrder, &s.TeamID, &quarter, &players,
			&s.StartEventOrder, &s.EndEventOrder, &s.StartClock, &s.EndClock,
			&s.StartScoreFor, &s.StartScoreAgainst, &s.EndScoreFor, &s.EndScoreAgainst,
			&s.DurationSeconds,
		); err != nil {
			return nil, err
		}
		lineup, err := model.ParseLineup(players)
		if err != nil {
			return nil, fmt.Errorf("stint %d/%d: %w", s.GameID, s.StintOrder, err)
		}
		s.Quarter = model.Quarter(quarter)
		s.Players = lineup
		out = append(out, s)
	}
	return out, rows.Err()
}
