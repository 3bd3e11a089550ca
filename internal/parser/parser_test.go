package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-pbp-lineups/internal/model"
)

const sampleDoc = `{
  "game": {"game_id": 77, "season_id": "2024", "game_date": "2024-10-20", "home_team_id": 1, "away_team_id": 2},
  "roster": [{"player_id": 11, "name": "Ana Silva", "team_id": 1}],
  "minutes": [{"player_id": 11, "team_id": 1, "minutes": 31.5}],
  "events": [
    {"event_order": 2, "quarter": "Q1", "game_clock": "09:41", "team_id": 1, "player_id": 11, "event_type": "made_shot", "home_score": 2, "away_score": 0, "description": "Ana Silva layup"},
    {"event_order": 1, "quarter": "Q1", "game_clock": "10:00", "team_id": 0, "event_type": "period_start", "home_score": 0, "away_score": 0},
    {"event_order": 3, "quarter": "OT2", "game_clock": "4:05", "team_id": 1, "player_id": null, "event_type": "sub_in", "home_score": 2, "away_score": 0, "description": "Ana Silva Substitution IN"},
    {"event_order": 4, "quarter": "Q4", "game_clock": "00:00", "team_id": 2, "event_type": "jump_ball", "home_score": 2, "away_score": 0}
  ]
}`

func TestParse(t *testing.T) {
	gf, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if gf.Game.GameID != 77 || gf.Game.SeasonID != "2024" || gf.Game.HomeTeamID != 1 {
		t.Errorf("game: %+v", gf.Game)
	}
	if len(gf.Roster) != 1 || len(gf.Minutes) != 1 || gf.Minutes[0].GameID != 77 {
		t.Errorf("roster/minutes: %+v %+v", gf.Roster, gf.Minutes)
	}
	if len(gf.Events) != 4 {
		t.Fatalf("want 4 events, got %d", len(gf.Events))
	}
	if gf.Events[0].EventOrder != 1 || gf.Events[0].Type != model.EventPeriodStart {
		t.Errorf("events not sorted: %+v", gf.Events[0])
	}
	e := gf.Events[1]
	if e.ClockSeconds != 581 || e.PlayerID != 11 || e.Type != model.EventMadeShot {
		t.Errorf("event 2: %+v", e)
	}
	sub := gf.Events[2]
	if sub.Quarter != 6 || sub.ClockSeconds != 245 || sub.HasPlayer() || sub.Type != model.EventSubIn {
		t.Errorf("event 3: %+v", sub)
	}
	if gf.Events[3].Type != model.EventOther {
		t.Errorf("unknown type should map to other, got %v", gf.Events[3].Type)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"no game id":    `{"game": {"home_team_id": 1, "away_team_id": 2}}`,
		"same teams":    `{"game": {"game_id": 1, "home_team_id": 1, "away_team_id": 1}}`,
		"bad quarter":   `{"game": {"game_id": 1, "home_team_id": 1, "away_team_id": 2}, "events": [{"event_order": 1, "quarter": "Q9", "game_clock": "10:00"}]}`,
		"bad clock":     `{"game": {"game_id": 1, "home_team_id": 1, "away_team_id": 2}, "events": [{"event_order": 1, "quarter": "Q1", "game_clock": "10-00"}]}`,
		"dup order":     `{"game": {"game_id": 1, "home_team_id": 1, "away_team_id": 2}, "events": [{"event_order": 1, "quarter": "Q1", "game_clock": "10:00"}, {"event_order": 1, "quarter": "Q1", "game_clock": "09:00"}]}`,
		"unknown field": `{"game": {"game_id": 1, "home_team_id": 1, "away_team_id": 2}, "extra": true}`,
		"not json":      `nope`,
	}
	for name, doc := range cases {
		if _, err := Parse(strings.NewReader(doc)); !errors.Is(err, ErrInvalidGameFile) {
			t.Errorf("%s: want ErrInvalidGameFile, got %v", name, err)
		}
	}
}

func TestParseGameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	gf, err := ParseGameFile(path)
	if err != nil {
		t.Fatalf("ParseGameFile: %v", err)
	}
	if gf.Game.GameID != 77 {
		t.Errorf("game id: %d", gf.Game.GameID)
	}
	if _, err := ParseGameFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
