package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-pbp-lineups/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// signed formats n with an explicit sign; zero prints as "0".
func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// PrintGameHeader prints a one-line summary header for the game.
func PrintGameHeader(w io.Writer, g model.Game) {
	fmt.Fprintf(w, "\nGame: %d  |  Season: %s  |  Date: %s  |  Home: %d  |  Away: %d\n\n",
		g.GameID, g.SeasonID, g.GameDate, g.HomeTeamID, g.AwayTeamID)
}

// PrintStintTable prints stints in stint order. names maps player id to display
// name; ids without a name print as numbers.
func PrintStintTable(w io.Writer, stints []model.Stint, names map[int64]string) {
	table := newTable(w)
	table.Header("#", "TEAM", "QTR", "START", "END", "SECS", "FOR", "AGST", "DIFF", "LINEUP")

	for _, s := range stints {
		table.Append(
			strconv.Itoa(s.StintOrder),
			strconv.FormatInt(s.TeamID, 10),
			s.Quarter.String(),
			model.FormatClock(s.StartClock),
			model.FormatClock(s.EndClock),
			strconv.Itoa(s.DurationSeconds),
			strconv.Itoa(s.PointsFor()),
			strconv.Itoa(s.PointsAgainst()),
			signed(s.Diff()),
			lineupLabel(s.Players, names),
		)
	}
	table.Render()
}

func lineupLabel(l model.Lineup, names map[int64]string) string {
	out := ""
	for i, id := range l {
		if i > 0 {
			out += ", "
		}
		if n, ok := names[id]; ok && n != "" {
			out += n
		} else {
			out += strconv.FormatInt(id, 10)
		}
	}
	return out
}

// PrintPlusMinusTable prints per-player plus-minus rows.
// If focusPlayerID is non-zero, that player's row is marked with ">".
func PrintPlusMinusTable(w io.Writer, rows []model.PlayerPlusMinus, focusPlayerID int64) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "ID", "TEAM", "STINTS", "+/-")

	for _, r := range rows {
		marker := " "
		if focusPlayerID != 0 && r.PlayerID == focusPlayerID {
			marker = ">"
		}
		name := r.Name
		if name == "" {
			name = "—"
		}
		table.Append(
			marker,
			name,
			strconv.FormatInt(r.PlayerID, 10),
			strconv.FormatInt(r.TeamID, 10),
			strconv.Itoa(r.Stints),
			signed(r.PlusMinus),
		)
	}
	table.Render()
}

// PrintOnOffTable prints a player's season on/off split.
func PrintOnOffTable(w io.Writer, s model.OnOffSplit) {
	table := newTable(w)
	table.Header("", "STINTS", "PTS_FOR", "PTS_AGST", "NET", "AVG/STINT", "SAMPLE")

	table.Append(
		"ON",
		strconv.Itoa(s.OnStints),
		strconv.Itoa(s.OnCourtPtsFor),
		strconv.Itoa(s.OnCourtPtsAgainst),
		signed(s.OnCourtPtsFor-s.OnCourtPtsAgainst),
		fmt.Sprintf("%.2f", s.OnAvg()),
		sampleFlag(s.OnStints),
	)
	table.Append(
		"OFF",
		strconv.Itoa(s.OffStints),
		strconv.Itoa(s.OffCourtPtsFor),
		strconv.Itoa(s.OffCourtPtsAgainst),
		signed(s.OffCourtPtsFor-s.OffCourtPtsAgainst),
		fmt.Sprintf("%.2f", s.OffAvg()),
		sampleFlag(s.OffStints),
	)
	table.Render()
	fmt.Fprintf(w, "Player %d  |  Team %d  |  Season %s  |  +/- %s  |  On/Off diff %.1f\n",
		s.PlayerID, s.TeamID, s.SeasonID, signed(s.PlusMinus), s.OnOffDiff)
}

// sampleFlag rates how far a per-stint average can be trusted.
func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// PrintGameList prints stored games.
func PrintGameList(w io.Writer, games []model.GameSummary) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games stored yet.")
		return
	}
	table := newTable(w)
	table.Header("GAME", "SEASON", "DATE", "HOME", "AWAY", "EVENTS", "STINTS")
	for _, g := range games {
		table.Append(
			strconv.FormatInt(g.GameID, 10),
			g.SeasonID,
			g.GameDate,
			strconv.FormatInt(g.HomeTeamID, 10),
			strconv.FormatInt(g.AwayTeamID, 10),
			strconv.Itoa(g.Events),
			strconv.Itoa(g.Stints),
		)
	}
	table.Render()
}

// PrintRunTable prints recorded batch runs.
func PrintRunTable(w io.Writer, runs []model.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	table := newTable(w)
	table.Header("RUN", "STARTED", "GAMES", "FAILED", "STINTS", "ANOMALIES")
	for _, r := range runs {
		table.Append(
			r.RunID,
			r.StartedAt,
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Stints),
			strconv.Itoa(r.Anomalies),
		)
	}
	table.Render()
}

// PrintAnomalyTable prints data-quality anomalies found while segmenting.
func PrintAnomalyTable(w io.Writer, anomalies []model.Anomaly) {
	if len(anomalies) == 0 {
		return
	}
	table := newTable(w)
	table.Header("KIND", "TEAM", "QTR", "EVENT", "PLAYER", "DETAIL")
	for _, a := range anomalies {
		player := "—"
		if a.PlayerID != 0 {
			player = strconv.FormatInt(a.PlayerID, 10)
		}
		table.Append(
			string(a.Kind),
			strconv.FormatInt(a.TeamID, 10),
			a.Quarter.String(),
			strconv.Itoa(a.EventOrder),
			player,
			a.Detail,
		)
	}
	table.Render()
}

// PrintRows prints the result of a raw query.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, r := range rows {
		cells := make([]any, len(r))
		for i, v := range r {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// PrintTrendTable prints a player's chronological per-game plus-minus.
func PrintTrendTable(w io.Writer, points []model.TrendPoint) {
	table := newTable(w)
	table.Header("GAME", "STINTS", "MIN", "+/-", "CUM")
	for _, p := range points {
		table.Append(
			strconv.FormatInt(p.GameID, 10),
			strconv.Itoa(p.Stints),
			fmt.Sprintf("%.1f", float64(p.Seconds)/60),
			signed(p.PlusMinus),
			signed(p.Cumulative),
		)
	}
	table.Render()
}

// PrintOverview prints database-wide counts.
func PrintOverview(w io.Writer, ov model.DBOverview) {
	fmt.Fprintf(w, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(w, "  Games stored  : %d\n", ov.Games)
	fmt.Fprintf(w, "  Date range    : %s → %s\n", ov.EarliestGame, ov.LatestGame)
	fmt.Fprintf(w, "  Seasons       : %d\n", ov.Seasons)
	fmt.Fprintf(w, "  Teams         : %d\n", ov.Teams)
	fmt.Fprintf(w, "  Players seen  : %d\n", ov.Players)
	fmt.Fprintf(w, "  Events        : %d\n", ov.Events)
	fmt.Fprintf(w, "  Stints        : %d\n", ov.Stints)
}

// PrintSeasonCounts prints the per-season breakdown.
func PrintSeasonCounts(w io.Writer, counts []model.SeasonCount) {
	table := newTable(w)
	table.Header("SEASON", "GAMES", "STINTS", "STINTS/GAME")
	for _, c := range counts {
		per := "—"
		if c.Games > 0 {
			per = fmt.Sprintf("%.1f", float64(c.Stints)/float64(c.Games))
		}
		table.Append(c.SeasonID, strconv.Itoa(c.Games), strconv.Itoa(c.Stints), per)
	}
	table.Render()
}
