package game

import (
	"errors"
	"fmt"
)

// TeamSize is the only team length the scoring engine accepts.
const TeamSize = 6

// ErrIncompleteTeam is returned when a team does not have exactly TeamSize members.
var ErrIncompleteTeam = errors.New("team must have exactly 6 members")

type BaseStats struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	SpA int `json:"spa"`
	SpD int `json:"spd"`
	Spe int `json:"spe"`
}

// Bulk is the mean of the three defensive stats.
func (s BaseStats) Bulk() float64 {
	return float64(s.HP+s.Def+s.SpD) / 3
}

// Physical reports whether the attack stat is strictly higher than special attack.
func (s BaseStats) Physical() bool {
	return s.Atk > s.SpA
}

// Species is immutable once built by NewSpecies: types, sprite and movepool
// are only reachable through copying accessors.
type Species struct {
	Name  string
	Stats BaseStats

	types  []Type
	sprite string
	moves  map[string]struct{}
}

type SpeciesOption func(*Species)

// WithSprite sets the image URL shown next to the species.
func WithSprite(url string) SpeciesOption {
	return func(s *Species) { s.sprite = url }
}

// NewSpecies validates types and copies the movepool.
func NewSpecies(name string, types []Type, stats BaseStats, movepool []string, opts ...SpeciesOption) (*Species, error) {
	if name == "" {
		return nil, errors.New("species name required")
	}
	if len(types) < 1 || len(types) > 2 {
		return nil, fmt.Errorf("species %s: expected 1 or 2 types, got %d", name, len(types))
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("species %s: %w", name, &UnknownTypeError{Name: t.String()})
		}
	}
	if len(types) == 2 && types[0] == types[1] {
		return nil, fmt.Errorf("species %s: duplicate type %s", name, types[0])
	}

	moves := make(map[string]struct{}, len(movepool))
	for _, m := range movepool {
		moves[m] = struct{}{}
	}
	s := &Species{
		Name:  name,
		Stats: stats,
		types: append([]Type(nil), types...),
		moves: moves,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Types returns a copy of the one or two species types, primary first.
func (s *Species) Types() []Type {
	return append([]Type(nil), s.types...)
}

func (s *Species) Sprite() string {
	return s.sprite
}

// CanLearn reports whether move is in the species movepool.
func (s *Species) CanLearn(move string) bool {
	_, ok := s.moves[move]
	return ok
}

// LearnsAny reports whether the movepool intersects moves.
func (s *Species) LearnsAny(moves []string) bool {
	for _, m := range moves {
		if s.CanLearn(m) {
			return true
		}
	}
	return false
}

// MoveCount returns the movepool size.
func (s *Species) MoveCount() int {
	return len(s.moves)
}

// HasType reports whether t is one of the species types.
func (s *Species) HasType(t Type) bool {
	for _, st := range s.types {
		if st == t {
			return true
		}
	}
	return false
}

// Team is an ordered selection of exactly six species. It is never mutated by the engine.
type Team [TeamSize]*Species

// NewTeam requires exactly TeamSize non-nil members.
func NewTeam(members ...*Species) (Team, error) {
	var t Team
	if len(members) != TeamSize {
		return t, fmt.Errorf("%w: got %d", ErrIncompleteTeam, len(members))
	}
	for i, m := range members {
		if m == nil {
			return t, fmt.Errorf("%w: member %d is missing", ErrIncompleteTeam, i)
		}
		t[i] = m
	}
	return t, nil
}

// Members returns the team as a fresh slice.
func (t Team) Members() []*Species {
	return append([]*Species(nil), t[:]...)
}

// Names returns member names in team order.
func (t Team) Names() []string {
	out := make([]string, 0, TeamSize)
	for _, m := range t {
		out = append(out, m.Name)
	}
	return out
}

// ThreatEntry is one row of an external usage ranking.
type ThreatEntry struct {
	Name       string  `json:"name"`
	Usage      float64 `json:"usage_pct"`
	Tier       string  `json:"tier,omitempty"`
	Generation int     `json:"generation,omitempty"`
	Month      string  `json:"month,omitempty"`
}
