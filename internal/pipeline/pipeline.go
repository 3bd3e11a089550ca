// Package pipeline composes resolution, segmentation, and plus-minus into
// per-game and batch recomputation against a store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-pbp-lineups/internal/aggregator"
	"github.com/pable/go-pbp-lineups/internal/lineup"
	"github.com/pable/go-pbp-lineups/internal/logging"
	"github.com/pable/go-pbp-lineups/internal/metrics"
	"github.com/pable/go-pbp-lineups/internal/model"
	"github.com/pable/go-pbp-lineups/internal/resolver"
	"github.com/pable/go-pbp-lineups/internal/storage"
)

// Options controls how a game is computed.
type Options struct {
	Overflow lineup.OverflowPolicy
	// Markers overrides the resolver's substitution words when non-empty.
	Markers []string
}

// GameInput is everything needed to compute one game.
type GameInput struct {
	Game    model.Game
	Roster  []model.RosterEntry
	Minutes []model.PlayerMinutes
	Events  []model.Event
}

// GameResult is the output of ComputeGame.
type GameResult struct {
	// Events is the resolved copy of the input events.
	Events []model.Event
	// Resolved maps event order to the player id filled in by the resolver.
	Resolved  map[int]int64
	Stints    []model.Stint
	Anomalies []model.Anomaly
	PlusMinus []model.PlayerPlusMinus
}

// ComputeGame resolves null players on a copy of the events, segments stints,
// and aggregates plus-minus. The input is not modified.
func ComputeGame(in GameInput, opts Options) GameResult {
	events := make([]model.Event, len(in.Events))
	copy(events, in.Events)

	var ropts []resolver.Option
	if len(opts.Markers) > 0 {
		ropts = append(ropts, resolver.WithMarkers(opts.Markers))
	}
	resolver.New(in.Roster, ropts...).Resolve(events)

	resolved := make(map[int]int64)
	for i := range events {
		if !in.Events[i].HasPlayer() && events[i].HasPlayer() {
			resolved[events[i].EventOrder] = events[i].PlayerID
		}
	}

	seg := lineup.Segment(in.Game, events, in.Minutes, lineup.Options{Overflow: opts.Overflow})
	return GameResult{
		Events:    events,
		Resolved:  resolved,
		Stints:    seg.Stints,
		Anomalies: seg.Anomalies,
		PlusMinus: aggregator.PlusMinus(in.Game.GameID, seg.Stints, in.Roster),
	}
}

// Store is the persistence surface the processor needs.
type Store interface {
	GetGame(gameID int64) (*model.Game, error)
	GetRoster(gameID int64) ([]model.RosterEntry, error)
	GetPlayerMinutes(gameID int64) ([]model.PlayerMinutes, error)
	GetEvents(gameID int64) ([]model.Event, error)
	SetEventPlayers(gameID int64, resolved map[int]int64) error
	ReplaceStints(gameID int64, stints []model.Stint) error
	InsertRun(r model.RunRecord) error
}

// Processor recomputes stored games.
type Processor struct {
	store   Store
	opts    Options
	log     *slog.Logger
	metrics *metrics.Manager
	workers int
	now     func() time.Time
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger used for anomalies and failures.
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics records per-game counters into m.
func WithMetrics(m *metrics.Manager) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// WithWorkers sets the batch concurrency. Values below 1 are ignored.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// NewProcessor returns a Processor over store.
func NewProcessor(store Store, opts Options, popts ...ProcessorOption) *Processor {
	p := &Processor{
		store:   store,
		opts:    opts,
		log:     logging.Discard(),
		workers: 1,
		now:     time.Now,
	}
	for _, o := range popts {
		o(p)
	}
	return p
}

// Load reads a game's inputs from the store.
func (p *Processor) Load(gameID int64) (GameInput, error) {
	g, err := p.store.GetGame(gameID)
	if err != nil {
		return GameInput{}, fmt.Errorf("get game %d: %w", gameID, err)
	}
	if g == nil {
		return GameInput{}, fmt.Errorf("game %d: %w", gameID, storage.ErrGameNotFound)
	}
	in := GameInput{Game: *g}
	if in.Roster, err = p.store.GetRoster(gameID); err != nil {
		return GameInput{}, fmt.Errorf("get roster %d: %w", gameID, err)
	}
	if in.Minutes, err = p.store.GetPlayerMinutes(gameID); err != nil {
		return GameInput{}, fmt.Errorf("get minutes %d: %w", gameID, err)
	}
	if in.Events, err = p.store.GetEvents(gameID); err != nil {
		return GameInput{}, fmt.Errorf("get events %d: %w", gameID, err)
	}
	return in, nil
}

// ProcessGame recomputes one game, persists resolved player ids, and replaces
// its stints. Running it twice leaves the store unchanged.
func (p *Processor) ProcessGame(gameID int64) (GameResult, error) {
	start := p.now()
	in, err := p.Load(gameID)
	if err != nil {
		return GameResult{}, err
	}
	res := ComputeGame(in, p.opts)

	if len(res.Resolved) > 0 {
		if err := p.store.SetEventPlayers(gameID, res.Resolved); err != nil {
			return GameResult{}, fmt.Errorf("set event players %d: %w", gameID, err)
		}
	}
	if err := p.store.ReplaceStints(gameID, res.Stints); err != nil {
		return GameResult{}, fmt.Errorf("replace stints %d: %w", gameID, err)
	}

	for _, a := range res.Anomalies {
		p.log.Warn("lineup anomaly",
			"kind", string(a.Kind),
			"game_id", a.GameID,
			"team_id", a.TeamID,
			"quarter", a.Quarter.String(),
			"event_order", a.EventOrder,
			"player_id", a.PlayerID,
			"detail", a.Detail)
	}
	p.log.Debug("game processed",
		"game_id", gameID,
		"resolved", len(res.Resolved),
		"stints", len(res.Stints),
		"anomalies", len(res.Anomalies))

	if p.metrics != nil {
		p.metrics.ObserveGame(len(res.Stints), res.Anomalies, p.now().Sub(start))
	}
	return res, nil
}

// ProcessAll recomputes gameIDs across the configured number of workers and
// records a run. A failing game is counted and logged; it does not stop the
// batch. Cancelling ctx stops scheduling new games.
func (p *Processor) ProcessAll(ctx context.Context, gameIDs []int64) (model.RunRecord, error) {
	run := model.RunRecord{
		RunID:     uuid.NewString(),
		StartedAt: p.now().UTC().Format(time.RFC3339),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, id := range gameIDs {
		if ctx.Err() != nil {
			break
		}
		id := id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.ProcessGame(id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				run.Failed++
				p.log.Error("process game failed", "game_id", id, "err", err)
				if p.metrics != nil {
					p.metrics.GameFailed()
				}
				return nil
			}
			run.Games++
			run.Stints += len(res.Stints)
			run.Anomalies += len(res.Anomalies)
			return nil
		})
	}
	waitErr := g.Wait()

	if p.metrics != nil {
		p.metrics.RunFinished(p.now())
	}
	if err := p.store.InsertRun(run); err != nil {
		return run, fmt.Errorf("insert run: %w", err)
	}
	p.log.Info("run finished",
		"run_id", run.RunID,
		"games", run.Games,
		"failed", run.Failed,
		"stints", run.Stints,
		"anomalies", run.Anomalies)
	if waitErr != nil {
		return run, fmt.Errorf("process all: %w", waitErr)
	}
	return run, nil
}
