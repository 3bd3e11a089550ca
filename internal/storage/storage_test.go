package storage

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pable/go-pbp-lineups/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertGame(t *testing.T, db *DB, g model.Game) {
	t.Helper()
	if err := db.InsertGame(g); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
}

func sampleStints(gameID, team int64) []model.Stint {
	return []model.Stint{
		{
			GameID: gameID, TeamID: team, Quarter: 1, StintOrder: 1,
			Players:         model.Lineup{1, 2, 3, 4, 5},
			StartEventOrder: 1, EndEventOrder: 10, StartClock: 600, EndClock: 300,
			StartScoreFor: 0, StartScoreAgainst: 0, EndScoreFor: 8, EndScoreAgainst: 5,
			DurationSeconds: 300,
		},
		{
			GameID: gameID, TeamID: team, Quarter: 1, StintOrder: 2,
			Players:         model.Lineup{2, 3, 4, 5, 6},
			StartEventOrder: 10, EndEventOrder: 20, StartClock: 300, EndClock: 0,
			StartScoreFor: 8, StartScoreAgainst: 5, EndScoreFor: 12, EndScoreAgainst: 13,
			DurationSeconds: 300,
		},
	}
}

func TestGameInsertAndGet(t *testing.T) {
	db := openMemDB(t)

	g := model.Game{GameID: 42, SeasonID: "2024", GameDate: "2024-11-02", HomeTeamID: 1, AwayTeamID: 2}
	insertGame(t, db, g)

	exists, err := db.GameExists(42)
	if err != nil {
		t.Fatalf("GameExists: %v", err)
	}
	if !exists {
		t.Error("expected game to exist after insert")
	}

	got, err := db.GetGame(42)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got == nil || *got != g {
		t.Errorf("GetGame: want %+v, got %+v", g, got)
	}

	missing, err := db.GetGame(7)
	if err != nil {
		t.Fatalf("GetGame missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown game")
	}
}

func TestListGames(t *testing.T) {
	db := openMemDB(t)

	insertGame(t, db, model.Game{GameID: 1, SeasonID: "2023", GameDate: "2023-01-01", HomeTeamID: 1, AwayTeamID: 2})
	insertGame(t, db, model.Game{GameID: 2, SeasonID: "2024", GameDate: "2024-02-01", HomeTeamID: 2, AwayTeamID: 1})
	insertGame(t, db, model.Game{GameID: 3, SeasonID: "2024", GameDate: "2024-03-01", HomeTeamID: 1, AwayTeamID: 3})
	if err := db.ReplaceStints(3, sampleStints(3, 1)); err != nil {
		t.Fatalf("ReplaceStints: %v", err)
	}

	all, err := db.ListGames("")
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(all) != 3 || all[0].GameID != 3 {
		t.Fatalf("want 3 games newest first, got %+v", all)
	}
	if all[0].Stints != 2 {
		t.Errorf("stint count: want 2, got %d", all[0].Stints)
	}

	season, err := db.ListGames("2024")
	if err != nil {
		t.Fatalf("ListGames season: %v", err)
	}
	if len(season) != 2 {
		t.Errorf("want 2 games in 2024, got %d", len(season))
	}

	ids, err := db.SeasonGameIDs("2024")
	if err != nil {
		t.Fatalf("SeasonGameIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{2, 3}) {
		t.Errorf("SeasonGameIDs: got %v", ids)
	}
}

func TestEventsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	insertGame(t, db, model.Game{GameID: 5, SeasonID: "2024", HomeTeamID: 1, AwayTeamID: 2})

	events := []model.Event{
		{GameID: 5, EventOrder: 2, Quarter: 1, ClockSeconds: 590, TeamID: 1, PlayerID: 11, Type: model.EventMadeShot, HomeScore: 2, Description: "layup"},
		{GameID: 5, EventOrder: 1, Quarter: 1, ClockSeconds: 600, TeamID: 0, Type: model.EventPeriodStart},
		{GameID: 5, EventOrder: 3, Quarter: 5, ClockSeconds: 300, TeamID: 2, Type: model.EventSubIn, HomeScore: 2, Description: "Bo Sub IN"},
	}
	if err := db.ReplaceEvents(5, events); err != nil {
		t.Fatalf("ReplaceEvents: %v", err)
	}

	got, err := db.GetEvents(5)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 events, got %d", len(got))
	}
	if got[0].EventOrder != 1 || got[1] != events[0] || got[2].Quarter != 5 || got[2].Type != model.EventSubIn {
		t.Errorf("unexpected events %+v", got)
	}
	if got[2].HasPlayer() {
		t.Error("null player id should read back as 0")
	}

	if err := db.SetEventPlayers(5, map[int]int64{3: 22, 2: 99}); err != nil {
		t.Fatalf("SetEventPlayers: %v", err)
	}
	got, _ = db.GetEvents(5)
	if got[2].PlayerID != 22 {
		t.Errorf("resolved player: want 22, got %d", got[2].PlayerID)
	}
	if got[1].PlayerID != 11 {
		t.Errorf("existing player id must not be overwritten, got %d", got[1].PlayerID)
	}
}

func TestRosterAndMinutes(t *testing.T) {
	db := openMemDB(t)
	insertGame(t, db, model.Game{GameID: 5, SeasonID: "2024", GameDate: "2024-01-01", HomeTeamID: 1, AwayTeamID: 2})
	insertGame(t, db, model.Game{GameID: 6, SeasonID: "2024", GameDate: "2024-02-01", HomeTeamID: 3, AwayTeamID: 2})

	if err := db.ReplaceRoster(5, []model.RosterEntry{{PlayerID: 11, Name: "Ana", TeamID: 1}, {PlayerID: 21, Name: "Bo", TeamID: 2}}); err != nil {
		t.Fatalf("ReplaceRoster: %v", err)
	}
	// traded to team 3 for the later game
	if err := db.ReplaceRoster(6, []model.RosterEntry{{PlayerID: 11, Name: "Ana", TeamID: 3}}); err != nil {
		t.Fatalf("ReplaceRoster: %v", err)
	}
	roster, err := db.GetRoster(5)
	if err != nil || len(roster) != 2 || roster[0].Name != "Ana" {
		t.Fatalf("GetRoster: %+v %v", roster, err)
	}

	team, ok, err := db.PlayerTeam(11, "2024")
	if err != nil || !ok || team != 3 {
		t.Errorf("PlayerTeam: want (3, true), got (%d, %v, %v)", team, ok, err)
	}
	if _, ok, _ := db.PlayerTeam(11, "1999"); ok {
		t.Error("player should not be found in another season")
	}

	mins := []model.PlayerMinutes{{PlayerID: 11, TeamID: 1, Minutes: 20.5}, {PlayerID: 12, TeamID: 1, Minutes: 33}}
	if err := db.ReplacePlayerMinutes(5, mins); err != nil {
		t.Fatalf("ReplacePlayerMinutes: %v", err)
	}
	got, err := db.GetPlayerMinutes(5)
	if err != nil || len(got) != 2 || got[0].PlayerID != 12 || got[1].Minutes != 20.5 || got[0].GameID != 5 {
		t.Errorf("GetPlayerMinutes: %+v %v", got, err)
	}
}

func TestReplaceStints(t *testing.T) {
	db := openMemDB(t)
	insertGame(t, db, model.Game{GameID: 9, SeasonID: "2024", GameDate: "2024-01-01", HomeTeamID: 1, AwayTeamID: 2})

	stints := sampleStints(9, 1)
	if err := db.ReplaceStints(9, stints); err != nil {
		t.Fatalf("ReplaceStints: %v", err)
	}
	// Second write replaces rather than appends.
	if err := db.ReplaceStints(9, stints); err != nil {
		t.Fatalf("ReplaceStints again: %v", err)
	}

	got, err := db.GetStints(9)
	if err != nil {
		t.Fatalf("GetStints: %v", err)
	}
	if !reflect.DeepEqual(got, stints) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", stints, got)
	}

	if err := db.ReplaceStints(9, stints[:1]); err != nil {
		t.Fatalf("ReplaceStints shorter: %v", err)
	}
	got, _ = db.GetStints(9)
	if len(got) != 1 {
		t.Errorf("want 1 stint after replace, got %d", len(got))
	}

	err = db.ReplaceStints(404, stints)
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("want ErrGameNotFound, got %v", err)
	}
}

func TestGetTeamSeasonStints(t *testing.T) {
	db := openMemDB(t)
	insertGame(t, db, model.Game{GameID: 1, SeasonID: "2024", GameDate: "2024-01-02", HomeTeamID: 1, AwayTeamID: 2})
	insertGame(t, db, model.Game{GameID: 2, SeasonID: "2024", GameDate: "2024-01-01", HomeTeamID: 2, AwayTeamID: 1})
	insertGame(t, db, model.Game{GameID: 3, SeasonID: "2023", GameDate: "2023-01-01", HomeTeamID: 1, AwayTeamID: 2})

	for _, id := range []int64{1, 2, 3} {
		stints := append(sampleStints(id, 1), sampleStints(id, 2)...)
		for i := range stints {
			stints[i].StintOrder = i + 1
		}
		if err := db.ReplaceStints(id, stints); err != nil {
			t.Fatalf("ReplaceStints %d: %v", id, err)
		}
	}

	got, err := db.GetTeamSeasonStints(1, "2024")
	if err != nil {
		t.Fatalf("GetTeamSeasonStints: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("want 4 stints, got %d", len(got))
	}
	if got[0].GameID != 2 {
		t.Errorf("want earliest game first, got %d", got[0].GameID)
	}
	for _, s := range got {
		if s.TeamID != 1 || s.GameID == 3 {
			t.Errorf("unexpected stint %+v", s)
		}
	}
}

func TestRunsAndQueryRaw(t *testing.T) {
	db := openMemDB(t)
	r := model.RunRecord{RunID: "abc", StartedAt: "2024-05-01T10:00:00Z", Games: 3, Stints: 40, Anomalies: 1}
	if err := db.InsertRun(r); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	runs, err := db.ListRuns()
	if err != nil || len(runs) != 1 || runs[0] != r {
		t.Errorf("ListRuns: %+v %v", runs, err)
	}

	cols, rows, err := db.QueryRaw("SELECT run_id, games, NULL AS x FROM runs")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"run_id", "games", "x"}) {
		t.Errorf("cols: %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "abc" || rows[0][1] != "3" || rows[0][2] != "NULL" {
		t.Errorf("rows: %v", rows)
	}
}

func TestOverviewAndSeasonCounts(t *testing.T) {
	db := openMemDB(t)

	empty, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview empty: %v", err)
	}
	if empty != (model.DBOverview{}) {
		t.Errorf("empty db overview: %+v", empty)
	}

	insertGame(t, db, model.Game{GameID: 1, SeasonID: "2023", GameDate: "2023-10-01", HomeTeamID: 10, AwayTeamID: 20})
	insertGame(t, db, model.Game{GameID: 2, SeasonID: "2024", GameDate: "2024-10-05", HomeTeamID: 10, AwayTeamID: 30})
	if err := db.ReplaceRoster(1, []model.RosterEntry{{PlayerID: 1, Name: "A", TeamID: 10}, {PlayerID: 2, Name: "B", TeamID: 20}}); err != nil {
		t.Fatalf("ReplaceRoster: %v", err)
	}
	if err := db.ReplaceRoster(2, []model.RosterEntry{{PlayerID: 1, Name: "A", TeamID: 10}}); err != nil {
		t.Fatalf("ReplaceRoster: %v", err)
	}
	if err := db.ReplaceStints(2, sampleStints(2, 10)); err != nil {
		t.Fatalf("ReplaceStints: %v", err)
	}

	ov, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	want := model.DBOverview{
		Games: 2, Seasons: 2, Teams: 3, Players: 2, Stints: 2,
		EarliestGame: "2023-10-01", LatestGame: "2024-10-05",
	}
	if ov != want {
		t.Errorf("overview: want %+v, got %+v", want, ov)
	}

	counts, err := db.GetSeasonCounts()
	if err != nil {
		t.Fatalf("GetSeasonCounts: %v", err)
	}
	wantCounts := []model.SeasonCount{{SeasonID: "2024", Games: 1, Stints: 2}, {SeasonID: "2023", Games: 1, Stints: 0}}
	if !reflect.DeepEqual(counts, wantCounts) {
		t.Errorf("season counts: want %+v, got %+v", wantCounts, counts)
	}
}
