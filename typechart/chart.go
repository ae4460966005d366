// Package typechart holds the fixed 18x18 type effectiveness matrix.
package typechart

import (
	"fmt"
	"sort"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
)

// Table is indexed [attacker.Index()][defender.Index()].
type Table [game.NumTypes][game.NumTypes]float64

// Chart is read-only after construction and safe for concurrent use.
type Chart struct {
	m Table
}

// New validates every cell against {0, 0.5, 1, 2}.
func New(t Table) (*Chart, error) {
	for i := range t {
		for j, v := range t[i] {
			if !validMultiplier(v) {
				return nil, fmt.Errorf("invalid multiplier %v for %s -> %s",
					v, game.Type(i+1), game.Type(j+1))
			}
		}
	}
	return &Chart{m: t}, nil
}

// Default returns the standard chart.
func Default() *Chart {
	return &Chart{m: StandardTable()}
}

func validMultiplier(v float64) bool {
	return v == 0 || v == 0.5 || v == 1 || v == 2
}

// Table returns a copy of the underlying matrix.
func (c *Chart) Table() Table {
	return c.m
}

// Effectiveness is the single-type multiplier of atk against def.
func (c *Chart) Effectiveness(atk, def game.Type) (float64, error) {
	if !atk.Valid() {
		return 0, &game.UnknownTypeError{Name: atk.String()}
	}
	if !def.Valid() {
		return 0, &game.UnknownTypeError{Name: def.String()}
	}
	return c.m[atk.Index()][def.Index()], nil
}

// EffectivenessByName parses both names before looking them up.
func (c *Chart) EffectivenessByName(atk, def string) (float64, error) {
	a, err := game.ParseType(atk)
	if err != nil {
		return 0, err
	}
	d, err := game.ParseType(def)
	if err != nil {
		return 0, err
	}
	return c.Effectiveness(a, d)
}

// Matchup multiplies atk's effectiveness across one or two defending types.
func (c *Chart) Matchup(atk game.Type, def []game.Type) (float64, error) {
	if len(def) < 1 || len(def) > 2 {
		return 0, fmt.Errorf("expected 1 or 2 defending types, got %d", len(def))
	}
	mult := 1.0
	for _, d := range def {
		e, err := c.Effectiveness(atk, d)
		if err != nil {
			return 0, err
		}
		mult *= e
	}
	return mult, nil
}

// MustMatchup is Matchup for callers holding already-validated types, such as
// the types of a game.Species. It panics on an invalid type.
func (c *Chart) MustMatchup(atk game.Type, def []game.Type) float64 {
	m, err := c.Matchup(atk, def)
	if err != nil {
		panic(err)
	}
	return m
}

// DefensiveProfile maps every attacking type to its multiplier against def.
func (c *Chart) DefensiveProfile(def []game.Type) (map[game.Type]float64, error) {
	out := make(map[game.Type]float64, game.NumTypes)
	for _, atk := range game.AllTypes() {
		m, err := c.Matchup(atk, def)
		if err != nil {
			return nil, err
		}
		out[atk] = m
	}
	return out, nil
}

// Weaknesses lists attacking types with multiplier > 1, in chart order.
func (c *Chart) Weaknesses(def []game.Type) ([]game.Type, error) {
	return c.filter(def, func(m float64) bool { return m > 1 })
}

// Resistances lists attacking types with multiplier < 1 (immunities included).
func (c *Chart) Resistances(def []game.Type) ([]game.Type, error) {
	return c.filter(def, func(m float64) bool { return m < 1 })
}

// Immunities lists attacking types with multiplier == 0.
func (c *Chart) Immunities(def []game.Type) ([]game.Type, error) {
	return c.filter(def, func(m float64) bool { return m == 0 })
}

func (c *Chart) filter(def []game.Type, keep func(float64) bool) ([]game.Type, error) {
	profile, err := c.DefensiveProfile(def)
	if err != nil {
		return nil, err
	}
	out := make([]game.Type, 0)
	for atk, m := range profile {
		if keep(m) {
			out = append(out, atk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
