// Package report explains what a set of additions does for a partial team and
// renders team summaries for the terminal and the web page.
package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yeungjosh/pokemon-real-data-experiment/coverage"
	"github.com/yeungjosh/pokemon-real-data-experiment/features"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/meta"
	"github.com/yeungjosh/pokemon-real-data-experiment/roles"
)

type Explainer struct {
	coverage *coverage.Analyzer
	meta     *meta.Analyzer
	roles    *roles.Detector
	features *features.Builder
}

func NewExplainer(cov *coverage.Analyzer, m *meta.Analyzer, r *roles.Detector, b *features.Builder) (*Explainer, error) {
	if cov == nil || m == nil || r == nil || b == nil {
		return nil, errors.New("explainer needs all analyzers and a feature builder")
	}
	return &Explainer{coverage: cov, meta: m, roles: r, features: b}, nil
}

// Explanation is the difference between two team snapshots.
type Explanation struct {
	Before            []string `json:"before" yaml:"before"`
	After             []string `json:"after" yaml:"after"`
	WeaknessesCovered []string `json:"weaknesses_covered" yaml:"weaknesses_covered"`
	ThreatsHandled    []string `json:"threats_handled" yaml:"threats_handled"`
	RolesAdded        []string `json:"roles_added" yaml:"roles_added"`

	// Set only when the side is a full team.
	BeforeFeatures map[string]float64 `json:"before_features,omitempty" yaml:"before_features,omitempty"`
	AfterFeatures  map[string]float64 `json:"after_features,omitempty" yaml:"after_features,omitempty"`
}

// Gains counts everything after improved on.
func (e Explanation) Gains() int {
	return len(e.WeaknessesCovered) + len(e.ThreatsHandled) + len(e.RolesAdded)
}

// Explain compares two snapshots. Neither slice is modified.
func (x *Explainer) Explain(before, after []*game.Species) Explanation {
	e := Explanation{
		Before:            names(before),
		After:             names(after),
		WeaknessesCovered: typeNames(x.coverage.WeaknessesCovered(before, after)),
		ThreatsHandled:    orEmpty(x.meta.ThreatsHandled(before, after)),
		RolesAdded:        orEmpty(x.roles.RolesAdded(before, after)),
	}
	if team, err := game.NewTeam(before...); err == nil {
		e.BeforeFeatures = x.features.BuildTeam(team).Map()
	}
	if team, err := game.NewTeam(after...); err == nil {
		e.AfterFeatures = x.features.BuildTeam(team).Map()
	}
	return e
}

// Suggestion is one candidate addition and what it brings.
type Suggestion struct {
	Species     string      `json:"species" yaml:"species"`
	Explanation Explanation `json:"explanation" yaml:"explanation"`
}

// Suggest ranks candidates by how much adding each one alone improves partial.
// Candidates already on the team are skipped. Ties keep candidate order.
func (x *Explainer) Suggest(partial, candidates []*game.Species, k int) ([]Suggestion, error) {
	if len(partial) >= game.TeamSize {
		return nil, fmt.Errorf("team already has %d members", len(partial))
	}
	onTeam := make(map[string]bool, len(partial))
	for _, m := range partial {
		onTeam[m.Name] = true
	}

	var out []Suggestion
	for _, c := range candidates {
		if onTeam[c.Name] {
			continue
		}
		after := append(append([]*game.Species(nil), partial...), c)
		out = append(out, Suggestion{Species: c.Name, Explanation: x.Explain(partial, after)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Explanation.Gains() > out[j].Explanation.Gains()
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// TeamReport summarizes one team for rendering.
type TeamReport struct {
	Title       string             `json:"title" yaml:"title"`
	Members     []string           `json:"members" yaml:"members"`
	Features    map[string]float64 `json:"features,omitempty" yaml:"features,omitempty"`
	Weaknesses  map[string]int     `json:"weaknesses" yaml:"weaknesses"`
	Liabilities []string           `json:"liabilities" yaml:"liabilities"`
	Unchecked   []string           `json:"unchecked_threats" yaml:"unchecked_threats"`
	Roles       []string           `json:"roles" yaml:"roles"`
	// Missing lists revealed species the pokedex could not resolve. They are
	// not part of Members and the diagnostics do not account for them.
	Missing     []string           `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Report summarizes members, which may be a partial team. Features are only
// computed for a full team.
func (x *Explainer) Report(title string, members []*game.Species) TeamReport {
	r := TeamReport{
		Title:       title,
		Members:     names(members),
		Weaknesses:  make(map[string]int),
		Liabilities: typeNames(x.coverage.Liabilities(members)),
		Unchecked:   orEmpty(x.meta.UncheckedThreats(members)),
		Roles:       []string{},
	}
	for t, n := range x.coverage.Weaknesses(members) {
		r.Weaknesses[t.String()] = n
	}
	for _, role := range x.roles.TeamRoles(members).Roles() {
		r.Roles = append(r.Roles, role.DisplayName())
	}
	if team, err := game.NewTeam(members...); err == nil {
		r.Features = x.features.BuildTeam(team).Map()
	}
	return r
}

func names(members []*game.Species) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Name)
	}
	return out
}

func typeNames(types []game.Type) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.String())
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
