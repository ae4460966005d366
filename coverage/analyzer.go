// Package coverage scores offensive and defensive type coverage of a team.
//
// Offense uses each member's own types as a stand-in for its attacks (the
// STAB proxy); per-move typing is not modeled.
package coverage

import (
	"errors"
	"fmt"
	"math"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/typechart"
)

// Weights combines the offensive and defensive scores.
type Weights struct {
	Offensive float64 `yaml:"offensive" json:"offensive"`
	Defensive float64 `yaml:"defensive" json:"defensive"`
}

// DefaultWeights is 60% offense, 40% defense.
func DefaultWeights() Weights {
	return Weights{Offensive: 0.6, Defensive: 0.4}
}

// weightSumTolerance absorbs YAML decimals such as 0.7 + 0.3.
const weightSumTolerance = 1e-9

// Validate requires non-negative weights summing to 1, which keeps
// TypeCoverageScore within [0,1].
func (w Weights) Validate() error {
	if w.Offensive < 0 || w.Defensive < 0 || math.IsNaN(w.Offensive) || math.IsNaN(w.Defensive) {
		return errors.New("coverage weights must be non-negative")
	}
	if sum := w.Offensive + w.Defensive; math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("coverage weights must sum to 1, got %v", sum)
	}
	return nil
}

type Analyzer struct {
	chart   *typechart.Chart
	weights Weights
}

type Option func(*Analyzer)

// WithWeights overrides DefaultWeights.
func WithWeights(w Weights) Option {
	return func(a *Analyzer) { a.weights = w }
}

func NewAnalyzer(chart *typechart.Chart, opts ...Option) (*Analyzer, error) {
	if chart == nil {
		return nil, errors.New("type chart required")
	}
	a := &Analyzer{chart: chart, weights: DefaultWeights()}
	for _, o := range opts {
		o(a)
	}
	if err := a.weights.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Weights returns the configured weights.
func (a *Analyzer) Weights() Weights {
	return a.weights
}

// OffensiveScore is the share of the 18 defending types that at least one
// member's own type hits super-effectively.
func (a *Analyzer) OffensiveScore(team game.Team) float64 {
	var covered [game.NumTypes]bool
	n := 0
	for _, mon := range team {
		for _, atk := range mon.Types() {
			for _, def := range game.AllTypes() {
				e, _ := a.chart.Effectiveness(atk, def)
				if e > 1 && !covered[def.Index()] {
					covered[def.Index()] = true
					n++
				}
			}
		}
	}
	return float64(n) / game.NumTypes
}

// DefensiveScore is 1 - liabilities/18.
func (a *Analyzer) DefensiveScore(team game.Team) float64 {
	return 1 - float64(len(a.Liabilities(team[:])))/game.NumTypes
}

// TypeCoverageScore is the weighted sum of the offensive and defensive scores.
func (a *Analyzer) TypeCoverageScore(team game.Team) float64 {
	return a.weights.Offensive*a.OffensiveScore(team) + a.weights.Defensive*a.DefensiveScore(team)
}

// tally counts, per attacking type, members weak to it and members resisting it
// (immunities count as resistances).
func (a *Analyzer) tally(members []*game.Species) (weak, resist [game.NumTypes]int) {
	for _, atk := range game.AllTypes() {
		for _, mon := range members {
			m := a.chart.MustMatchup(atk, mon.Types())
			switch {
			case m > 1:
				weak[atk.Index()]++
			case m < 1:
				resist[atk.Index()]++
			}
		}
	}
	return weak, resist
}

// Weaknesses maps attacking types to the number of members weak to them.
// Types nobody is weak to are omitted.
func (a *Analyzer) Weaknesses(members []*game.Species) map[game.Type]int {
	weak, _ := a.tally(members)
	return nonZero(weak)
}

// Resistances maps attacking types to the number of members resisting them.
func (a *Analyzer) Resistances(members []*game.Species) map[game.Type]int {
	_, resist := a.tally(members)
	return nonZero(resist)
}

// Liabilities lists attacking types with at least two weak members and no resistant member.
func (a *Analyzer) Liabilities(members []*game.Species) []game.Type {
	weak, resist := a.tally(members)
	var out []game.Type
	for _, atk := range game.AllTypes() {
		if isLiability(weak[atk.Index()], resist[atk.Index()]) {
			out = append(out, atk)
		}
	}
	return out
}

// WeaknessesCovered lists types that were liabilities for before and are
// strictly better for after: more resists or fewer weaknesses.
func (a *Analyzer) WeaknessesCovered(before, after []*game.Species) []game.Type {
	bw, br := a.tally(before)
	aw, ar := a.tally(after)

	var out []game.Type
	for _, atk := range game.AllTypes() {
		i := atk.Index()
		if !isLiability(bw[i], br[i]) {
			continue
		}
		if ar[i] > br[i] || aw[i] < bw[i] {
			out = append(out, atk)
		}
	}
	return out
}

func isLiability(weak, resist int) bool {
	return weak >= 2 && resist == 0
}

func nonZero(counts [game.NumTypes]int) map[game.Type]int {
	out := make(map[game.Type]int)
	for _, t := range game.AllTypes() {
		if c := counts[t.Index()]; c > 0 {
			out[t] = c
		}
	}
	return out
}
