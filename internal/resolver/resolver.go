// Package resolver fills in missing player ids on substitution events by matching
// the free-text description against the game's roster.
package resolver

import (
	"regexp"
	"strings"

	"github.com/pable/go-pbp-lineups/internal/model"
)

// DefaultMarkers are the substitution words recognized in event descriptions.
var DefaultMarkers = []string{"Substitution", "Substituição", "Substitución", "Sub"}

type nameKey struct {
	name   string
	teamID int64
}

// Resolver maps (name, team) to a player id for one game's roster.
type Resolver struct {
	pattern   *regexp.Regexp
	byName    map[nameKey]int64
	ambiguous map[nameKey]bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMarkers replaces the substitution marker words. Empty input keeps the defaults.
func WithMarkers(markers []string) Option {
	return func(r *Resolver) {
		if len(markers) > 0 {
			r.pattern = compilePattern(markers)
		}
	}
}

// New indexes roster by normalized name within team. Names shared by two players
// of the same team are never resolved.
func New(roster []model.RosterEntry, opts ...Option) *Resolver {
	r := &Resolver{
		pattern:   compilePattern(DefaultMarkers),
		byName:    make(map[nameKey]int64),
		ambiguous: make(map[nameKey]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, e := range roster {
		k := nameKey{normalize(e.Name), e.TeamID}
		if k.name == "" {
			continue
		}
		if prev, ok := r.byName[k]; ok && prev != e.PlayerID {
			r.ambiguous[k] = true
			continue
		}
		r.byName[k] = e.PlayerID
	}
	return r
}

// compilePattern matches "<name> <marker> <IN|OUT>", allowing "(", ":" or "-" before the direction.
func compilePattern(markers []string) *regexp.Regexp {
	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			quoted = append(quoted, regexp.QuoteMeta(m))
		}
	}
	return regexp.MustCompile(`(?i)^\s*(.+?)\s+(?:` + strings.Join(quoted, "|") + `)\s*[(:\-]?\s*(in|out)\b`)
}

// ExtractName pulls the player name and direction ("IN" or "OUT") out of a description.
func (r *Resolver) ExtractName(description string) (name, direction string, ok bool) {
	m := r.pattern.FindStringSubmatch(description)
	if m == nil {
		return "", "", false
	}
	name = strings.TrimSpace(m[1])
	if name == "" {
		return "", "", false
	}
	return name, strings.ToUpper(m[2]), true
}

// Lookup returns the player id for name on teamID. It fails for unknown and ambiguous names.
func (r *Resolver) Lookup(name string, teamID int64) (int64, bool) {
	k := nameKey{normalize(name), teamID}
	if r.ambiguous[k] {
		return 0, false
	}
	id, ok := r.byName[k]
	return id, ok
}

// Resolve sets PlayerID on substitution events that lack one and whose description
// names a rostered player with a direction matching the event type. It returns the
// number of events resolved.
func (r *Resolver) Resolve(events []model.Event) int {
	resolved := 0
	for i := range events {
		e := &events[i]
		if !e.Type.IsSubstitution() || e.HasPlayer() {
			continue
		}
		name, direction, ok := r.ExtractName(e.Description)
		if !ok || direction != wantDirection(e.Type) {
			continue
		}
		if id, ok := r.Lookup(name, e.TeamID); ok {
			e.PlayerID = id
			resolved++
		}
	}
	return resolved
}

// wantDirection is the description direction that agrees with a substitution type.
func wantDirection(t model.EventType) string {
	if t == model.EventSubIn {
		return "IN"
	}
	return "OUT"
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
