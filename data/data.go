// Package data loads the static reference data the scoring engine reads:
// species, type chart and usage ranking. Everything here is built once at
// startup and is read-only afterwards.
package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
)

type RawBaseStats struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	SpA int `json:"spa"`
	SpD int `json:"spd"`
	Spe int `json:"spe"`
}

type RawPokemonData struct {
	Name      string       `json:"name"`
	Types     []string     `json:"types"`
	BaseStats RawBaseStats `json:"baseStats"`
	Learnset  []string     `json:"learnset"`
	Sprite    string       `json:"sprite"`
}

// Pokedex is the species provider. Lookups go through ToID so display names,
// replay names and ids all resolve to the same entry.
type Pokedex struct {
	byID  map[string]*game.Species
	order []string
}

// NewPokedex indexes already-built species. Two species with the same id are an error.
func NewPokedex(species ...*game.Species) (*Pokedex, error) {
	p := &Pokedex{byID: make(map[string]*game.Species, len(species))}
	for _, s := range species {
		id := ToID(s.Name)
		if _, dup := p.byID[id]; dup {
			return nil, fmt.Errorf("duplicate species: %s", s.Name)
		}
		p.byID[id] = s
		p.order = append(p.order, s.Name)
	}
	return p, nil
}

// LoadPokedex reads a pokedex JSON file.
func LoadPokedex(path string) (*Pokedex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pokedex: %w", err)
	}
	defer file.Close()

	p, err := ParsePokedex(file)
	if err != nil {
		return nil, fmt.Errorf("reading pokedex %s: %w", path, err)
	}
	return p, nil
}

// ParsePokedex accepts either a JSON list of entries or an object keyed by species id.
func ParsePokedex(r io.Reader) (*Pokedex, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw []RawPokemonData
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '{' {
		var keyed map[string]RawPokemonData
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			raw = append(raw, keyed[k])
		}
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	species := make([]*game.Species, 0, len(raw))
	for _, entry := range raw {
		s, err := entry.toSpecies()
		if err != nil {
			return nil, err
		}
		species = append(species, s)
	}
	return NewPokedex(species...)
}

func (r RawPokemonData) toSpecies() (*game.Species, error) {
	types := make([]game.Type, 0, len(r.Types))
	for _, name := range r.Types {
		t, err := game.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("species %s: %w", r.Name, err)
		}
		types = append(types, t)
	}
	stats := game.BaseStats{
		HP:  r.BaseStats.HP,
		Atk: r.BaseStats.Atk,
		Def: r.BaseStats.Def,
		SpA: r.BaseStats.SpA,
		SpD: r.BaseStats.SpD,
		Spe: r.BaseStats.Spe,
	}
	return game.NewSpecies(r.Name, types, stats, r.Learnset, game.WithSprite(r.Sprite))
}

// Lookup resolves a species by display name or id.
func (p *Pokedex) Lookup(name string) (*game.Species, bool) {
	s, ok := p.byID[ToID(name)]
	return s, ok
}

// Exists reports whether name resolves.
func (p *Pokedex) Exists(name string) bool {
	_, ok := p.Lookup(name)
	return ok
}

// Len is the number of species.
func (p *Pokedex) Len() int {
	return len(p.order)
}

// AllNames returns display names in load order.
func (p *Pokedex) AllNames() []string {
	return append([]string(nil), p.order...)
}

// All returns every species in load order.
func (p *Pokedex) All() []*game.Species {
	return p.filter(func(*game.Species) bool { return true })
}

// FilterByType returns species having type t, in load order.
func (p *Pokedex) FilterByType(t game.Type) []*game.Species {
	return p.filter(func(s *game.Species) bool { return s.HasType(t) })
}

// FilterByMove returns species that can learn move, in load order.
func (p *Pokedex) FilterByMove(move string) []*game.Species {
	return p.filter(func(s *game.Species) bool { return s.CanLearn(move) })
}

func (p *Pokedex) filter(keep func(*game.Species) bool) []*game.Species {
	var out []*game.Species
	for _, name := range p.order {
		s := p.byID[ToID(name)]
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Resolve looks up every name and reports the ones that did not resolve.
func (p *Pokedex) Resolve(names []string) (found []*game.Species, missing []string) {
	for _, n := range names {
		if s, ok := p.Lookup(n); ok {
			found = append(found, s)
		} else {
			missing = append(missing, n)
		}
	}
	return found, missing
}
