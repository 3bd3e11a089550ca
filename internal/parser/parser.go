// Package parser loads normalized play-by-play game files into model types.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pable/go-pbp-lineups/internal/model"
)

// ErrInvalidGameFile wraps every validation failure in a game file.
var ErrInvalidGameFile = errors.New("invalid game file")

// GameFile is the parsed content of one normalized game document.
type GameFile struct {
	Game    model.Game
	Roster  []model.RosterEntry
	Minutes []model.PlayerMinutes
	Events  []model.Event
}

type fileGame struct {
	GameID     int64  `json:"game_id"`
	SeasonID   string `json:"season_id"`
	GameDate   string `json:"game_date"`
	HomeTeamID int64  `json:"home_team_id"`
	AwayTeamID int64  `json:"away_team_id"`
}

type fileRoster struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	TeamID   int64  `json:"team_id"`
}

type fileMinutes struct {
	PlayerID int64   `json:"player_id"`
	TeamID   int64   `json:"team_id"`
	Minutes  float64 `json:"minutes"`
}

type fileEvent struct {
	EventOrder  int    `json:"event_order"`
	Quarter     string `json:"quarter"`
	GameClock   string `json:"game_clock"`
	TeamID      int64  `json:"team_id"`
	PlayerID    *int64 `json:"player_id"`
	EventType   string `json:"event_type"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	Description string `json:"description"`
}

type fileDoc struct {
	Game    fileGame      `json:"game"`
	Roster  []fileRoster  `json:"roster"`
	Minutes []fileMinutes `json:"minutes"`
	Events  []fileEvent   `json:"events"`
}

// ParseGameFile opens and parses the game file at path.
func ParseGameFile(path string) (*GameFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a game document. Events come back sorted by event_order.
func Parse(r io.Reader) (*GameFile, error) {
	var doc fileDoc
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidGameFile, err)
	}

	g := doc.Game
	if g.GameID == 0 {
		return nil, fmt.Errorf("%w: missing game_id", ErrInvalidGameFile)
	}
	if g.HomeTeamID == 0 || g.AwayTeamID == 0 || g.HomeTeamID == g.AwayTeamID {
		return nil, fmt.Errorf("%w: game %d needs two distinct team ids", ErrInvalidGameFile, g.GameID)
	}

	out := &GameFile{
		Game: model.Game{
			GameID:     g.GameID,
			SeasonID:   g.SeasonID,
			GameDate:   g.GameDate,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
		},
	}
	for _, r := range doc.Roster {
		out.Roster = append(out.Roster, model.RosterEntry{PlayerID: r.PlayerID, Name: r.Name, TeamID: r.TeamID})
	}
	for _, m := range doc.Minutes {
		out.Minutes = append(out.Minutes, model.PlayerMinutes{
			GameID: g.GameID, PlayerID: m.PlayerID, TeamID: m.TeamID, Minutes: m.Minutes,
		})
	}

	seen := make(map[int]struct{}, len(doc.Events))
	for _, fe := range doc.Events {
		if _, dup := seen[fe.EventOrder]; dup {
			return nil, fmt.Errorf("%w: duplicate event_order %d", ErrInvalidGameFile, fe.EventOrder)
		}
		seen[fe.EventOrder] = struct{}{}

		q, err := model.ParseQuarter(fe.Quarter)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", ErrInvalidGameFile, fe.EventOrder, err)
		}
		clock, err := model.ParseClock(fe.GameClock)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", ErrInvalidGameFile, fe.EventOrder, err)
		}
		e := model.Event{
			GameID:       g.GameID,
			EventOrder:   fe.EventOrder,
			Quarter:      q,
			ClockSeconds: clock,
			TeamID:       fe.TeamID,
			Type:         model.ParseEventType(fe.EventType),
			HomeScore:    fe.HomeScore,
			AwayScore:    fe.AwayScore,
			Description:  fe.Description,
		}
		if fe.PlayerID != nil {
			e.PlayerID = *fe.PlayerID
		}
		out.Events = append(out.Events, e)
	}
	sort.Slice(out.Events, func(i, j int) bool { return out.Events[i].EventOrder < out.Events[j].EventOrder })
	return out, nil
}
