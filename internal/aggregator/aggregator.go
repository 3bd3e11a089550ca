// Package aggregator turns stints into per-player scoring differential metrics.
package aggregator

import (
	"fmt"
	"math"
	"sort"

	"github.com/pable/go-pbp-lineups/internal/model"
)

// PlusMinusByPlayer credits every player in each stint with the stint's net differential.
func PlusMinusByPlayer(stints []model.Stint) map[int64]int {
	out := make(map[int64]int)
	for i := range stints {
		diff := stints[i].Diff()
		for _, p := range stints[i].Players {
			out[p] += diff
		}
	}
	return out
}

// PlusMinus computes per-player plus-minus for one game's stints, with names taken from roster.
// Rows are ordered by plus-minus desc, then player id.
func PlusMinus(gameID int64, stints []model.Stint, roster []model.RosterEntry) []model.PlayerPlusMinus {
	names := make(map[int64]string, len(roster))
	for _, r := range roster {
		names[r.PlayerID] = r.Name
	}

	type accum struct {
		teamID    int64
		plusMinus int
		stints    int
	}
	accums := make(map[int64]*accum)
	for i := range stints {
		s := &stints[i]
		diff := s.Diff()
		for _, p := range s.Players {
			acc := accums[p]
			if acc == nil {
				acc = &accum{teamID: s.TeamID}
				accums[p] = acc
			}
			acc.plusMinus += diff
			acc.stints++
		}
	}

	out := make([]model.PlayerPlusMinus, 0, len(accums))
	for id, acc := range accums {
		out = append(out, model.PlayerPlusMinus{
			GameID:    gameID,
			PlayerID:  id,
			TeamID:    acc.teamID,
			Name:      names[id],
			PlusMinus: acc.plusMinus,
			Stints:    acc.stints,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus > out[j].PlusMinus
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// StintSource is the persisted-stint store the on/off analysis reads from.
type StintSource interface {
	// PlayerTeam returns the team the player belongs to in the season.
	PlayerTeam(playerID int64, seasonID string) (teamID int64, ok bool, err error)
	// GetTeamSeasonStints returns every stored stint of the team in the season.
	GetTeamSeasonStints(teamID int64, seasonID string) ([]model.Stint, error)
}

// OnOff loads the player's team stints for the season and splits them by presence.
// A player unknown to the season yields a zeroed split, not an error.
func OnOff(src StintSource, playerID int64, seasonID string) (model.OnOffSplit, error) {
	teamID, ok, err := src.PlayerTeam(playerID, seasonID)
	if err != nil {
		return model.OnOffSplit{}, fmt.Errorf("player team: %w", err)
	}
	if !ok {
		return model.OnOffSplit{PlayerID: playerID, SeasonID: seasonID}, nil
	}
	stints, err := src.GetTeamSeasonStints(teamID, seasonID)
	if err != nil {
		return model.OnOffSplit{}, fmt.Errorf("team season stints: %w", err)
	}
	return OnOffFromStints(playerID, seasonID, teamID, stints), nil
}

// OnOffFromStints partitions a team's stints into player-on and player-off buckets.
// on_off_diff is the difference of mean per-stint differentials, rounded to one decimal.
// A player with no on-court stints gets all zeros.
func OnOffFromStints(playerID int64, seasonID string, teamID int64, stints []model.Stint) model.OnOffSplit {
	split := model.OnOffSplit{PlayerID: playerID, SeasonID: seasonID, TeamID: teamID}
	for i := range stints {
		s := &stints[i]
		if s.TeamID != teamID {
			continue
		}
		if s.Players.Contains(playerID) {
			split.OnStints++
			split.OnCourtPtsFor += s.PointsFor()
			split.OnCourtPtsAgainst += s.PointsAgainst()
		} else {
			split.OffStints++
			split.OffCourtPtsFor += s.PointsFor()
			split.OffCourtPtsAgainst += s.PointsAgainst()
		}
	}
	if split.OnStints == 0 {
		return model.OnOffSplit{PlayerID: playerID, SeasonID: seasonID, TeamID: teamID}
	}
	split.PlusMinus = split.OnCourtPtsFor - split.OnCourtPtsAgainst
	split.OnOffDiff = round1(split.OnAvg() - split.OffAvg())
	return split
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Trend loads the player's team stints for the season and returns the player's
// per-game plus-minus in stored game order. Games the player sat out are omitted.
func Trend(src StintSource, playerID int64, seasonID string) ([]model.TrendPoint, error) {
	teamID, ok, err := src.PlayerTeam(playerID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("player team: %w", err)
	}
	if !ok {
		return nil, nil
	}
	stints, err := src.GetTeamSeasonStints(teamID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("team season stints: %w", err)
	}
	return TrendFromStints(playerID, stints), nil
}

// TrendFromStints groups the player's on-court stints by game, keeping the
// order in which games first appear.
func TrendFromStints(playerID int64, stints []model.Stint) []model.TrendPoint {
	var out []model.TrendPoint
	index := make(map[int64]int)
	for i := range stints {
		s := &stints[i]
		if !s.Players.Contains(playerID) {
			continue
		}
		j, ok := index[s.GameID]
		if !ok {
			j = len(out)
			index[s.GameID] = j
			out = append(out, model.TrendPoint{GameID: s.GameID})
		}
		out[j].Stints++
		out[j].Seconds += s.DurationSeconds
		out[j].PlusMinus += s.Diff()
	}
	running := 0
	for i := range out {
		running += out[i].PlusMinus
		out[i].Cumulative = running
	}
	return out
}
