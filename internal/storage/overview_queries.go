package storage

import (
	"fmt"

	"github.com/pable/go-pbp-lineups/internal/model"
)

// GetDBOverview returns database-wide counts and the stored date range.
func (db *DB) GetDBOverview() (model.DBOverview, error) {
	var ov model.DBOverview
	err := db.conn.QueryRow(`
		SELECT
			(SELECT COUNT(1) FROM games),
			(SELECT COUNT(DISTINCT season_id) FROM games),
			(SELECT COUNT(1) FROM (
				SELECT home_team_id FROM games UNION SELECT away_team_id FROM games)),
			(SELECT COUNT(DISTINCT player_id) FROM roster),
			(SELECT COUNT(1) FROM events),
			(SELECT COUNT(1) FROM stints),
			COALESCE((SELECT MIN(game_date) FROM games), ''),
			COALESCE((SELECT MAX(game_date) FROM games), '')`).
		Scan(&ov.Games, &ov.Seasons, &ov.Teams, &ov.Players, &ov.Events, &ov.Stints,
			&ov.EarliestGame, &ov.LatestGame)
	if err != nil {
		return ov, fmt.Errorf("overview: %w", err)
	}
	return ov, nil
}

// GetSeasonCounts returns game and stint counts per season, newest season first.
func (db *DB) GetSeasonCounts() ([]model.SeasonCount, error) {
	rows, err := db.conn.Query(`
		SELECT g.season_id, COUNT(DISTINCT g.game_id), COUNT(s.stint_order)
		FROM games g
		LEFT JOIN stints s ON s.game_id = g.game_id
		GROUP BY g.season_id
		ORDER BY g.season_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonCount
	for rows.Next() {
		var c model.SeasonCount
		if err := rows.Scan(&c.SeasonID, &c.Games, &c.Stints); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
