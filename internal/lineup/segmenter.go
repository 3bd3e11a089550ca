// Package lineup reconstructs the five-player lineups each team had on court from a
// game's play-by-play and splits the game into stints.
package lineup

import (
	"fmt"
	"sort"

	"github.com/pable/go-pbp-lineups/internal/model"
)

// OverflowPolicy decides what happens when a sub_in would put six players on court.
type OverflowPolicy int

const (
	// OverflowReject closes the open stint, reports the overflow, and emits nothing
	// until a later substitution brings the lineup back to five.
	OverflowReject OverflowPolicy = iota
	// OverflowTruncate keeps the five lowest player ids and carries on.
	OverflowTruncate
)

func (p OverflowPolicy) String() string {
	if p == OverflowTruncate {
		return "truncate"
	}
	return "reject"
}

// ParseOverflowPolicy parses "reject" or "truncate".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "reject", "":
		return OverflowReject, nil
	case "truncate":
		return OverflowTruncate, nil
	}
	return OverflowReject, fmt.Errorf("unknown overflow policy %q", s)
}

// Options tunes segmentation.
type Options struct {
	Overflow OverflowPolicy
}

// Result is the output of Segment.
type Result struct {
	Stints    []model.Stint
	Anomalies []model.Anomaly
}

// Segment splits a game into stints for both teams. Stints are ordered team-major
// (home, then away), then by quarter, then chronologically, and numbered from 1.
// The input slice is not modified.
func Segment(game model.Game, events []model.Event, minutes []model.PlayerMinutes, opts Options) Result {
	sorted := append([]model.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].EventOrder < sorted[j].EventOrder })

	// Quarter slices plus the running score just before each quarter's first event.
	type quarterSpan struct {
		quarter    model.Quarter
		events     []model.Event
		homeBefore int
		awayBefore int
	}
	var spans []quarterSpan
	byQuarter := make(map[model.Quarter]int)
	homeRun, awayRun := 0, 0
	for _, e := range sorted {
		idx, ok := byQuarter[e.Quarter]
		if !ok {
			idx = len(spans)
			byQuarter[e.Quarter] = idx
			spans = append(spans, quarterSpan{quarter: e.Quarter, homeBefore: homeRun, awayBefore: awayRun})
		}
		spans[idx].events = append(spans[idx].events, e)
		homeRun, awayRun = e.HomeScore, e.AwayScore
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].quarter < spans[j].quarter })

	s := &segmenter{game: game, opts: opts}
	for _, teamID := range []int64{game.HomeTeamID, game.AwayTeamID} {
		if teamID == 0 {
			continue
		}
		for _, span := range spans {
			starters, ok := InferStarters(span.events, teamID, span.quarter, minutes)
			if !ok {
				s.report(model.Anomaly{
					Kind:    model.AnomalyStartersUnresolved,
					TeamID:  teamID,
					Quarter: span.quarter,
					Detail:  "fewer than 5 players from events and minutes; quarter skipped",
				})
				continue
			}
			startFor, startAgainst := span.homeBefore, span.awayBefore
			if teamID != game.HomeTeamID {
				startFor, startAgainst = startAgainst, startFor
			}
			s.walkQuarter(teamID, span.quarter, span.events, starters, startFor, startAgainst)
		}
	}
	return Result{Stints: s.stints, Anomalies: s.anomalies}
}

type segmenter struct {
	game      model.Game
	opts      Options
	stints    []model.Stint
	anomalies []model.Anomaly

	// per (team, quarter) state
	teamID       int64
	quarter      model.Quarter
	lineup       map[int64]struct{}
	open         bool
	startOrder   int
	startClock   int
	startFor     int
	startAgainst int
}

func (s *segmenter) report(a model.Anomaly) {
	a.GameID = s.game.GameID
	s.anomalies = append(s.anomalies, a)
}

func (s *segmenter) walkQuarter(teamID int64, quarter model.Quarter, events []model.Event, starters model.Lineup, startFor, startAgainst int) {
	s.teamID, s.quarter = teamID, quarter
	s.lineup = make(map[int64]struct{}, model.LineupSize+1)
	for _, id := range starters {
		s.lineup[id] = struct{}{}
	}

	first := events[0]
	s.open = true
	s.startOrder, s.startClock = first.EventOrder, first.ClockSeconds
	s.startFor, s.startAgainst = startFor, startAgainst

	for _, e := range events {
		if e.TeamID != teamID || !e.HasPlayer() {
			continue
		}
		switch e.Type {
		case model.EventSubOut:
			s.subOut(e)
		case model.EventSubIn:
			s.subIn(e)
		}
	}

	last := events[len(events)-1]
	if s.open && len(s.lineup) != model.LineupSize {
		s.report(model.Anomaly{
			Kind:       model.AnomalyPartialDiscarded,
			TeamID:     teamID,
			Quarter:    quarter,
			EventOrder: last.EventOrder,
			Detail:     fmt.Sprintf("lineup has %d players at end of quarter", len(s.lineup)),
		})
	}
	s.closeAt(last)
}

func (s *segmenter) subOut(e model.Event) {
	if _, ok := s.lineup[e.PlayerID]; !ok {
		s.report(model.Anomaly{
			Kind:       model.AnomalyUnknownSubOut,
			TeamID:     s.teamID,
			Quarter:    s.quarter,
			EventOrder: e.EventOrder,
			PlayerID:   e.PlayerID,
			Detail:     "sub_out for a player not on court",
		})
		return
	}
	s.closeAt(e)
	delete(s.lineup, e.PlayerID)
	s.openAt(e)
}

func (s *segmenter) subIn(e model.Event) {
	if _, ok := s.lineup[e.PlayerID]; ok {
		return
	}
	if len(s.lineup) < model.LineupSize {
		s.lineup[e.PlayerID] = struct{}{}
		return
	}

	s.report(model.Anomaly{
		Kind:       model.AnomalyLineupOverflow,
		TeamID:     s.teamID,
		Quarter:    s.quarter,
		EventOrder: e.EventOrder,
		PlayerID:   e.PlayerID,
		Detail:     fmt.Sprintf("sub_in with %d players already on court (policy %s)", len(s.lineup), s.opts.Overflow),
	})

	switch s.opts.Overflow {
	case OverflowTruncate:
		s.lineup[e.PlayerID] = struct{}{}
		ids := s.lineupIDs()
		for _, id := range ids[model.LineupSize:] {
			delete(s.lineup, id)
		}
	default:
		s.closeAt(e)
		s.lineup[e.PlayerID] = struct{}{}
		s.openAt(e)
	}
}

func (s *segmenter) openAt(e model.Event) {
	s.open = true
	s.startOrder, s.startClock = e.EventOrder, e.ClockSeconds
	s.startFor, s.startAgainst = s.game.ScoresFor(s.teamID, e)
}

// closeAt ends the open stint at e and emits it if exactly five players were on court.
func (s *segmenter) closeAt(e model.Event) {
	if !s.open {
		return
	}
	s.open = false
	if len(s.lineup) != model.LineupSize {
		return
	}
	players, err := model.NewLineup(s.lineupIDs())
	if err != nil {
		return
	}
	endFor, endAgainst := s.game.ScoresFor(s.teamID, e)
	duration := s.startClock - e.ClockSeconds
	if duration < 0 {
		duration = 0
	}
	s.stints = append(s.stints, model.Stint{
		GameID:            s.game.GameID,
		TeamID:            s.teamID,
		Quarter:           s.quarter,
		StintOrder:        len(s.stints) + 1,
		Players:           players,
		StartEventOrder:   s.startOrder,
		EndEventOrder:     e.EventOrder,
		StartClock:        s.startClock,
		EndClock:          e.ClockSeconds,
		StartScoreFor:     s.startFor,
		StartScoreAgainst: s.startAgainst,
		EndScoreFor:       endFor,
		EndScoreAgainst:   endAgainst,
		DurationSeconds:   duration,
	})
}

func (s *segmenter) lineupIDs() []int64 {
	ids := make([]int64, 0, len(s.lineup))
	for id := range s.lineup {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
