// Package features turns a six-species team into the fixed-order vector used
// for win prediction.
package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeungjosh/pokemon-real-data-experiment/coverage"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/meta"
	"github.com/yeungjosh/pokemon-real-data-experiment/roles"
)

// Size is the vector length.
const Size = 7

// FeatureNames labels each Vector index.
var FeatureNames = [Size]string{
	"type_score",
	"meta_score",
	"role_score",
	"avg_speed",
	"type_diversity",
	"balance",
	"avg_bulk",
}

// Vector is one team's features, ordered as FeatureNames.
type Vector [Size]float64

// Map keys each value by its feature name.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, Size)
	for i, name := range FeatureNames {
		out[name] = v[i]
	}
	return out
}

// ErrUnresolvedSpecies is matched by every *UnresolvedSpeciesError.
var ErrUnresolvedSpecies = errors.New("unresolved species")

// UnresolvedSpeciesError lists every requested name the species lookup did not know.
type UnresolvedSpeciesError struct {
	Names []string
}

func (e *UnresolvedSpeciesError) Error() string {
	return fmt.Sprintf("unresolved species: %s", strings.Join(e.Names, ", "))
}

func (e *UnresolvedSpeciesError) Is(target error) bool {
	return target == ErrUnresolvedSpecies
}

type Builder struct {
	species  meta.SpeciesLookup
	coverage *coverage.Analyzer
	meta     *meta.Analyzer
	roles    *roles.Detector
}

func NewBuilder(species meta.SpeciesLookup, cov *coverage.Analyzer, m *meta.Analyzer, r *roles.Detector) (*Builder, error) {
	if species == nil || cov == nil || m == nil || r == nil {
		return nil, errors.New("feature builder needs a species lookup and all three analyzers")
	}
	return &Builder{species: species, coverage: cov, meta: m, roles: r}, nil
}

// Resolve looks up every name and fails unless all of them resolve to exactly
// TeamSize species. Missing names are never padded or dropped.
func (b *Builder) Resolve(names []string) (game.Team, error) {
	members := make([]*game.Species, 0, len(names))
	var missing []string
	for _, n := range names {
		s, ok := b.species.Lookup(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		members = append(members, s)
	}
	if len(missing) > 0 {
		return game.Team{}, &UnresolvedSpeciesError{Names: missing}
	}
	return game.NewTeam(members...)
}

// Build resolves names and computes their vector.
func (b *Builder) Build(names []string) (Vector, error) {
	team, err := b.Resolve(names)
	if err != nil {
		return Vector{}, err
	}
	return b.BuildTeam(team), nil
}

// BuildTeam computes the vector of an already resolved team.
func (b *Builder) BuildTeam(team game.Team) Vector {
	var (
		speed, bulk float64
		physical    int
		types       = make(map[game.Type]struct{})
	)
	for _, m := range team {
		speed += float64(m.Stats.Spe)
		bulk += m.Stats.Bulk()
		if m.Stats.Physical() {
			physical++
		}
		for _, t := range m.Types() {
			types[t] = struct{}{}
		}
	}

	return Vector{
		b.coverage.TypeCoverageScore(team),
		b.meta.CoverageScore(team),
		b.roles.DiversityScore(team),
		speed / game.TeamSize,
		float64(len(types)),
		float64(min(physical, game.TeamSize-physical)) / 3,
		bulk / game.TeamSize,
	}
}
