package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-pbp-lineups/internal/model"
)

// GameExists returns true if a game with the given id is already stored.
func (db *DB) GameExists(gameID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame upserts a game record. Child rows are kept.
func (db *DB) InsertGame(g model.Game) error {
	_, err := db.conn.Exec(`
		INSERT INTO games(game_id, season_id, game_date, home_team_id, away_team_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			season_id = excluded.season_id,
			game_date = excluded.game_date,
			home_team_id = excluded.home_team_id,
			away_team_id = excluded.away_team_id`,
		g.GameID, g.SeasonID, g.GameDate, g.HomeTeamID, g.AwayTeamID,
	)
	return err
}

// GetGame returns the game with the given id, or nil if it is not stored.
func (db *DB) GetGame(gameID int64) (*model.Game, error) {
	var g model.Game
	err := db.conn.QueryRow(`
		SELECT game_id, season_id, game_date, home_team_id, away_team_id
		FROM games WHERE game_id = ?`, gameID).
		Scan(&g.GameID, &g.SeasonID, &g.GameDate, &g.HomeTeamID, &g.AwayTeamID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGames returns stored games with event and stint counts, newest first.
// An empty seasonID lists every season.
func (db *DB) ListGames(seasonID string) ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT g.game_id, g.season_id, g.game_date, g.home_team_id, g.away_team_id,
		       (SELECT COUNT(1) FROM events e WHERE e.game_id = g.game_id),
		       (SELECT COUNT(1) FROM stints s WHERE s.game_id = g.game_id)
		FROM games g
		WHERE ? = '' OR g.season_id = ?
		ORDER BY g.game_date DESC, g.game_id DESC`, seasonID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var s model.GameSummary
		if err := rows.Scan(&s.GameID, &s.SeasonID, &s.GameDate, &s.HomeTeamID, &s.AwayTeamID,
			&s.Events, &s.Stints); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplaceRoster swaps a game's roster rows in a transaction.
func (db *DB) ReplaceRoster(gameID int64, roster []model.RosterEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM roster WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO roster(game_id, player_id, name, team_id) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range roster {
		if _, err := stmt.Exec(gameID, r.PlayerID, r.Name, r.TeamID); err != nil {
			return fmt.Errorf("insert roster for %d: %w", r.PlayerID, err)
		}
	}
	return tx.Commit()
}

// GetRoster returns a game's roster ordered by team, then player id.
func (db *DB) GetRoster(gameID int64) ([]model.RosterEntry, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, name, team_id FROM roster
		WHERE game_id = ? ORDER BY team_id, player_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RosterEntry
	for rows.Next() {
		var r model.RosterEntry
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.TeamID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplacePlayerMinutes swaps a game's minutes rows in a transaction.
func (db *DB) ReplacePlayerMinutes(gameID int64, minutes []model.PlayerMinutes) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM player_minutes WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("clear minutes: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO player_minutes(game_id, player_id, team_id, minutes) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range minutes {
		if _, err := stmt.Exec(gameID, m.PlayerID, m.TeamID, m.Minutes); err != nil {
			return fmt.Errorf("insert minutes for %d: %w", m.PlayerID, err)
		}
	}
	return tx.Commit()
}

// GetPlayerMinutes returns a game's minutes rows ordered by minutes desc.
func (db *DB) GetPlayerMinutes(gameID int64) ([]model.PlayerMinutes, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, team_id, minutes FROM player_minutes
		WHERE game_id = ? ORDER BY minutes DESC, player_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMinutes
	for rows.Next() {
		m := model.PlayerMinutes{GameID: gameID}
		if err := rows.Scan(&m.PlayerID, &m.TeamID, &m.Minutes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ReplaceEvents swaps a game's play-by-play in a transaction.
func (db *DB) ReplaceEvents(gameID int64, events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO events(
			game_id, event_order, quarter, clock_seconds, team_id, player_id,
			event_type, home_score, away_score, description
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err = stmt.Exec(
			gameID, e.EventOrder, int(e.Quarter), e.ClockSeconds, e.TeamID, nullPlayer(e.PlayerID),
			e.Type.String(), e.HomeScore, e.AwayScore, e.Description,
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", e.EventOrder, err)
		}
	}
	return tx.Commit()
}

// GetEvents returns a game's events in event order.
func (db *DB) GetEvents(gameID int64) ([]model.Event, error) {
	rows, err := db.conn.Query(`
		SELECT event_order, quarter, clock_seconds, team_id, player_id,
		       event_type, home_score, away_score, description
		FROM events WHERE game_id = ?
		ORDER BY event_order`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e := model.Event{GameID: gameID}
		var quarter int
		var playerID sql.NullInt64
		var typ string
		if err := rows.Scan(&e.EventOrder, &quarter, &e.ClockSeconds, &e.TeamID, &playerID,
			&typ, &e.HomeScore, &e.AwayScore, &e.Description); err != nil {
			return nil, err
		}
		e.Quarter = model.Quarter(quarter)
		e.PlayerID = playerID.Int64
		e.Type = model.ParseEventType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetEventPlayers stores resolved player ids for events that had none.
// resolved maps event_order to player id.
func (db *DB) SetEventPlayers(gameID int64, resolved map[int]int64) error {
	if len(resolved) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE events SET player_id = ? WHERE game_id = ? AND event_order = ? AND player_id IS NULL`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for order, playerID := range resolved {
		if _, err := stmt.Exec(playerID, gameID, order); err != nil {
			return fmt.Errorf("set player on event %d: %w", order, err)
		}
	}
	return tx.Commit()
}

// InsertRun records a batch recomputation.
func (db *DB) InsertRun(r model.RunRecord) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO runs(run_id, started_at, games, stints, anomalies, failed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.StartedAt, r.Games, r.Stints, r.Anomalies, r.Failed,
	)
	return err
}

// ListRuns returns recorded runs, newest first.
func (db *DB) ListRuns() ([]model.RunRecord, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, started_at, games, stints, anomalies, failed
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.Games, &r.Stints, &r.Anomalies, &r.Failed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func nullPlayer(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
