// Package meta scores how well a team checks the most used species of the
// current metagame.
//
// A member "checks" a threat when it resists the threat's own types, or when
// it hits the threat super-effectively with one of its own types and outspeeds
// it. Moves, abilities and items are not considered.
package meta

import (
	"errors"
	"log/slog"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/typechart"
)

// DefaultTopK is how many ranked threats are scored.
const DefaultTopK = 15

// SpeciesLookup resolves a species by name.
type SpeciesLookup interface {
	Lookup(name string) (*game.Species, bool)
}

// ThreatRanking returns the k most used threats, highest usage first.
type ThreatRanking interface {
	Top(k int) []game.ThreatEntry
}

type Analyzer struct {
	chart   *typechart.Chart
	species SpeciesLookup
	threats ThreatRanking
	topK    int
}

type Option func(*Analyzer)

// WithTopK overrides DefaultTopK. Values below 1 are ignored.
func WithTopK(k int) Option {
	return func(a *Analyzer) {
		if k > 0 {
			a.topK = k
		}
	}
}

func NewAnalyzer(chart *typechart.Chart, species SpeciesLookup, threats ThreatRanking, opts ...Option) (*Analyzer, error) {
	if chart == nil || species == nil || threats == nil {
		return nil, errors.New("meta analyzer needs a chart, species lookup and threat ranking")
	}
	a := &Analyzer{chart: chart, species: species, threats: threats, topK: DefaultTopK}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// TopK returns the number of threats considered.
func (a *Analyzer) TopK() int {
	return a.topK
}

// HasCheck reports whether any member checks threat.
func (a *Analyzer) HasCheck(members []*game.Species, threat *game.Species) bool {
	for _, m := range members {
		if a.checks(m, threat) {
			return true
		}
	}
	return false
}

func (a *Analyzer) checks(member, threat *game.Species) bool {
	if a.bestHit(threat, member) < 1 {
		return true
	}
	return a.bestHit(member, threat) > 1 && member.Stats.Spe > threat.Stats.Spe
}

// bestHit is the highest multiplier any of attacker's own types gets against defender.
func (a *Analyzer) bestHit(attacker, defender *game.Species) float64 {
	best := 0.0
	for _, t := range attacker.Types() {
		if m := a.chart.MustMatchup(t, defender.Types()); m > best {
			best = m
		}
	}
	return best
}

type rankedThreat struct {
	entry   game.ThreatEntry
	species *game.Species
}

// ranked resolves the top-k threats, dropping those the species lookup does not know.
func (a *Analyzer) ranked() []rankedThreat {
	top := a.threats.Top(a.topK)
	out := make([]rankedThreat, 0, len(top))
	for _, e := range top {
		s, ok := a.species.Lookup(e.Name)
		if !ok {
			slog.Debug("skipping unknown threat", "name", e.Name)
			continue
		}
		out = append(out, rankedThreat{entry: e, species: s})
	}
	return out
}

// CoverageScore is the usage-weighted share of the top threats the team checks.
// An empty ranking or zero total weight scores 0.
func (a *Analyzer) CoverageScore(team game.Team) float64 {
	members := team[:]
	var covered, total float64
	for _, rt := range a.ranked() {
		total += rt.entry.Usage
		if a.HasCheck(members, rt.species) {
			covered += rt.entry.Usage
		}
	}
	if total == 0 {
		return 0
	}
	return covered / total
}

// UncheckedThreats lists, in ranking order, the top threats no member checks.
func (a *Analyzer) UncheckedThreats(members []*game.Species) []string {
	var out []string
	for _, rt := range a.ranked() {
		if !a.HasCheck(members, rt.species) {
			out = append(out, rt.entry.Name)
		}
	}
	return out
}

// ThreatsHandled lists threats unchecked by before that after checks.
func (a *Analyzer) ThreatsHandled(before, after []*game.Species) []string {
	still := make(map[string]struct{})
	for _, name := range a.UncheckedThreats(after) {
		still[name] = struct{}{}
	}
	var out []string
	for _, name := range a.UncheckedThreats(before) {
		if _, ok := still[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
