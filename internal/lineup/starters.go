package lineup

import (
	"sort"

	"github.com/pable/go-pbp-lineups/internal/model"
)

// InferStarters returns the five players on court for teamID at the start of quarter.
//
// Players are collected from the team's events in order until its first substitution.
// A sub_out at that point adds the departing player; a sub_in does not. Short sets are
// backfilled from minutes (descending). ok is false when five players cannot be assembled.
func InferStarters(events []model.Event, teamID int64, quarter model.Quarter, minutes []model.PlayerMinutes) (model.Lineup, bool) {
	var seen []int64
	seenSet := make(map[int64]struct{})
	add := func(id int64) {
		if id == 0 {
			return
		}
		if _, ok := seenSet[id]; ok {
			return
		}
		seenSet[id] = struct{}{}
		seen = append(seen, id)
	}

	for _, e := range events {
		if e.Quarter != quarter || e.TeamID != teamID {
			continue
		}
		if e.Type == model.EventSubOut {
			add(e.PlayerID)
			break
		}
		if e.Type == model.EventSubIn {
			break
		}
		add(e.PlayerID)
	}

	ranked := rankByMinutes(minutes, teamID)

	// More than five before the first substitution means a bench player was logged
	// (e.g. a technical foul); keep the five with most minutes, then first seen.
	if len(seen) > model.LineupSize {
		rank := make(map[int64]int, len(ranked))
		for i, pm := range ranked {
			rank[pm.PlayerID] = i
		}
		order := make(map[int64]int, len(seen))
		for i, id := range seen {
			order[id] = i
		}
		sort.SliceStable(seen, func(i, j int) bool {
			ri, iok := rank[seen[i]]
			rj, jok := rank[seen[j]]
			if iok != jok {
				return iok
			}
			if iok && ri != rj {
				return ri < rj
			}
			return order[seen[i]] < order[seen[j]]
		})
		seen = seen[:model.LineupSize]
	}

	for _, pm := range ranked {
		if len(seen) >= model.LineupSize {
			break
		}
		add(pm.PlayerID)
	}

	if len(seen) != model.LineupSize {
		return model.Lineup{}, false
	}
	l, err := model.NewLineup(seen)
	if err != nil {
		return model.Lineup{}, false
	}
	return l, true
}

// rankByMinutes returns teamID's minutes rows ordered by minutes desc, then player id.
func rankByMinutes(minutes []model.PlayerMinutes, teamID int64) []model.PlayerMinutes {
	var out []model.PlayerMinutes
	for _, pm := range minutes {
		if pm.TeamID == teamID && pm.PlayerID != 0 {
			out = append(out, pm)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
