package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EventType is the closed set of play-by-play event kinds the lineup engine understands.
type EventType int

const (
	EventOther EventType = iota
	EventSubIn
	EventSubOut
	EventMadeShot
	EventMissedShot
	EventFreeThrow
	EventRebound
	EventFoul
	EventTurnover
	EventTimeout
	EventPeriodStart
	EventPeriodEnd
)

var eventTypeNames = map[EventType]string{
	EventOther:       "other",
	EventSubIn:       "sub_in",
	EventSubOut:      "sub_out",
	EventMadeShot:    "made_shot",
	EventMissedShot:  "missed_shot",
	EventFreeThrow:   "free_throw",
	EventRebound:     "rebound",
	EventFoul:        "foul",
	EventTurnover:    "turnover",
	EventTimeout:     "timeout",
	EventPeriodStart: "period_start",
	EventPeriodEnd:   "period_end",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "other"
}

// IsSubstitution reports whether t is a sub_in or sub_out.
func (t EventType) IsSubstitution() bool {
	return t == EventSubIn || t == EventSubOut
}

// ParseEventType maps a wire name to an EventType. Unknown names map to EventOther.
func ParseEventType(s string) EventType {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range eventTypeNames {
		if name == s {
			return t
		}
	}
	return EventOther
}

// Quarter identifies a period: 1-4 are regulation, 5 is OT, 6 is OT2, and so on.
type Quarter int

func (q Quarter) String() string {
	switch {
	case q >= 1 && q <= 4:
		return "Q" + strconv.Itoa(int(q))
	case q == 5:
		return "OT"
	case q > 5:
		return "OT" + strconv.Itoa(int(q)-4)
	default:
		return "?"
	}
}

// ParseQuarter parses "Q1".."Q4", "OT", "OT2", ... (case-insensitive).
func ParseQuarter(s string) (Quarter, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case u == "OT":
		return 5, nil
	case strings.HasPrefix(u, "OT"):
		n, err := strconv.Atoi(u[2:])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid quarter %q", s)
		}
		return Quarter(4 + n), nil
	case strings.HasPrefix(u, "Q"):
		n, err := strconv.Atoi(u[1:])
		if err != nil || n < 1 || n > 4 {
			return 0, fmt.Errorf("invalid quarter %q", s)
		}
		return Quarter(n), nil
	}
	return 0, fmt.Errorf("invalid quarter %q", s)
}

// ParseClock converts a countdown "MM:SS" period clock into seconds remaining.
func ParseClock(s string) (int, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return m*60 + sec, nil
}

// FormatClock renders seconds remaining as "MM:SS".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ---- Raw inputs ----

// Event is one play-by-play record. Scores are running totals after the event.
type Event struct {
	GameID       int64
	EventOrder   int
	Quarter      Quarter
	ClockSeconds int // countdown within the period
	TeamID       int64
	PlayerID     int64 // 0 if unknown
	Type         EventType
	HomeScore    int
	AwayScore    int
	Description  string
}

// HasPlayer reports whether the event carries a player id.
func (e *Event) HasPlayer() bool { return e.PlayerID != 0 }

// Game holds the external games-table fields the engine needs.
type Game struct {
	GameID     int64
	SeasonID   string
	GameDate   string // "YYYY-MM-DD"
	HomeTeamID int64
	AwayTeamID int64
}

// ScoresFor returns (for, against) from the team's point of view.
func (g *Game) ScoresFor(teamID int64, e Event) (scoreFor, scoreAgainst int) {
	if teamID == g.HomeTeamID {
		return e.HomeScore, e.AwayScore
	}
	return e.AwayScore, e.HomeScore
}

// RosterEntry maps a player's display name to their id and team for one game.
type RosterEntry struct {
	PlayerID int64
	Name     string
	TeamID   int64
}

// PlayerMinutes is the total minutes a player logged in one game.
type PlayerMinutes struct {
	GameID   int64
	PlayerID int64
	TeamID   int64
	Minutes  float64
}

// ---- Derived ----

// LineupSize is the number of players a team has on court.
const LineupSize = 5

// Lineup is a sorted set of exactly five player ids.
type Lineup [LineupSize]int64

// NewLineup builds a Lineup from exactly five distinct ids.
func NewLineup(ids []int64) (Lineup, error) {
	var l Lineup
	if len(ids) != LineupSize {
		return l, fmt.Errorf("lineup needs %d players, got %d", LineupSize, len(ids))
	}
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return l, fmt.Errorf("duplicate player %d in lineup", sorted[i])
		}
	}
	copy(l[:], sorted)
	return l, nil
}

// Contains reports whether id is in the lineup.
func (l Lineup) Contains(id int64) bool {
	for _, p := range l {
		if p == id {
			return true
		}
	}
	return false
}

// String renders the lineup as comma-separated ids.
func (l Lineup) String() string {
	parts := make([]string, len(l))
	for i, p := range l {
		parts[i] = strconv.FormatInt(p, 10)
	}
	return strings.Join(parts, ",")
}

// ParseLineup is the inverse of Lineup.String.
func ParseLineup(s string) (Lineup, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return Lineup{}, fmt.Errorf("parse lineup %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return NewLineup(ids)
}

// Stint is a span of one quarter during which one team's five players did not change.
// Scores are team-relative: "for" is the team's own running score.
type Stint struct {
	GameID            int64
	TeamID            int64
	Quarter           Quarter
	StintOrder        int
	Players           Lineup
	StartEventOrder   int
	EndEventOrder     int
	StartClock        int
	EndClock          int
	StartScoreFor     int
	StartScoreAgainst int
	EndScoreFor       int
	EndScoreAgainst   int
	DurationSeconds   int
}

// PointsFor is the team's scoring during the stint.
func (s *Stint) PointsFor() int { return s.EndScoreFor - s.StartScoreFor }

// PointsAgainst is the opponent's scoring during the stint.
func (s *Stint) PointsAgainst() int { return s.EndScoreAgainst - s.StartScoreAgainst }

// Diff is the net scoring differential of the stint.
func (s *Stint) Diff() int { return s.PointsFor() - s.PointsAgainst() }

// AnomalyKind classifies a data problem found while segmenting.
type AnomalyKind string

const (
	AnomalyStartersUnresolved AnomalyKind = "starters_unresolved"
	AnomalyLineupOverflow     AnomalyKind = "lineup_overflow"
	AnomalyUnknownSubOut      AnomalyKind = "unknown_sub_out"
	AnomalyPartialDiscarded   AnomalyKind = "partial_stint_discarded"
)

// Anomaly records an input inconsistency. Anomalies never abort processing.
type Anomaly struct {
	Kind       AnomalyKind
	GameID     int64
	TeamID     int64
	Quarter    Quarter
	EventOrder int // 0 when not tied to one event
	PlayerID   int64
	Detail     string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s game=%d team=%d %s event=%d player=%d: %s",
		a.Kind, a.GameID, a.TeamID, a.Quarter, a.EventOrder, a.PlayerID, a.Detail)
}

// PlayerPlusMinus is one player's plus-minus for one game.
type PlayerPlusMinus struct {
	GameID    int64
	PlayerID  int64
	TeamID    int64
	Name      string
	PlusMinus int
	Stints    int
}

// OnOffSplit compares a team's scoring with a player on and off court over a season.
type OnOffSplit struct {
	PlayerID           int64
	SeasonID           string
	TeamID             int64
	OnStints           int
	OffStints          int
	OnCourtPtsFor      int
	OnCourtPtsAgainst  int
	OffCourtPtsFor     int
	OffCourtPtsAgainst int
	OnOffDiff          float64
	PlusMinus          int
}

// OnAvg is the mean per-stint differential with the player on court.
func (s *OnOffSplit) OnAvg() float64 {
	if s.OnStints == 0 {
		return 0
	}
	return float64(s.OnCourtPtsFor-s.OnCourtPtsAgainst) / float64(s.OnStints)
}

// OffAvg is the mean per-stint differential with the player off court.
func (s *OnOffSplit) OffAvg() float64 {
	if s.OffStints == 0 {
		return 0
	}
	return float64(s.OffCourtPtsFor-s.OffCourtPtsAgainst) / float64(s.OffStints)
}

// GameSummary is a lightweight record for list commands.
type GameSummary struct {
	Game
	Events int
	Stints int
}

// RunRecord describes one batch recomputation.
type RunRecord struct {
	RunID     string
	StartedAt string
	Games     int
	Stints    int
	Anomalies int
	Failed    int
}

// TrendPoint is a player's plus-minus in one game of a season trend.
type TrendPoint struct {
	GameID     int64
	Stints     int
	Seconds    int
	PlusMinus  int
	Cumulative int
}

// DBOverview holds database-wide counts for the summary command.
type DBOverview struct {
	Games        int
	Seasons      int
	Teams        int
	Players      int
	Events       int
	Stints       int
	EarliestGame string
	LatestGame   string
}

// SeasonCount is the per-season breakdown of stored data.
type SeasonCount struct {
	SeasonID string
	Games    int
	Stints   int
}
