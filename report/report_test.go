package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeungjosh/pokemon-real-data-experiment/coverage"
	"github.com/yeungjosh/pokemon-real-data-experiment/data"
	"github.com/yeungjosh/pokemon-real-data-experiment/features"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/meta"
	"github.com/yeungjosh/pokemon-real-data-experiment/roles"
)

func setup(t *testing.T) (*Explainer, *data.Pokedex) {
	t.Helper()
	ds, err := data.Load(data.Paths{
		Pokedex: "../data/raw/pokedex.json",
		Usage:   "../data/raw/usage_ou.csv",
		Tier:    data.DefaultTier,
	})
	require.NoError(t, err)

	cov, err := coverage.NewAnalyzer(ds.Chart)
	require.NoError(t, err)
	m, err := meta.NewAnalyzer(ds.Chart, ds.Pokedex, ds.Usage)
	require.NoError(t, err)
	r := roles.NewDetector()
	b, err := features.NewBuilder(ds.Pokedex, cov, m, r)
	require.NoError(t, err)
	x, err := NewExplainer(cov, m, r, b)
	require.NoError(t, err)
	return x, ds.Pokedex
}

func resolve(t *testing.T, dex *data.Pokedex, names ...string) []*game.Species {
	t.Helper()
	found, missing := dex.Resolve(names)
	require.Empty(t, missing)
	return found
}

func TestExplain(t *testing.T) {
	x, dex := setup(t)

	before := resolve(t, dex, "Kingambit", "Toxapex")
	after := resolve(t, dex, "Kingambit", "Toxapex", "Corviknight")

	e := x.Explain(before, after)
	assert.Equal(t, []string{"Kingambit", "Toxapex"}, e.Before)
	assert.Equal(t, []string{"Hazard Control", "Pivot"}, e.RolesAdded)
	assert.NotNil(t, e.WeaknessesCovered)
	assert.NotNil(t, e.ThreatsHandled)
	assert.Nil(t, e.BeforeFeatures)
	assert.Nil(t, e.AfterFeatures)
	assert.Equal(t, len(e.WeaknessesCovered)+len(e.ThreatsHandled)+2, e.Gains())

	same := x.Explain(after, after)
	assert.Equal(t, 0, same.Gains())
}

func TestExplainFullTeams(t *testing.T) {
	x, dex := setup(t)
	full := resolve(t, dex, "Great Tusk", "Kingambit", "Dragapult", "Corviknight", "Toxapex", "Clefable")

	e := x.Explain(full[:3], full)
	assert.Nil(t, e.BeforeFeatures)
	require.NotNil(t, e.AfterFeatures)
	assert.Equal(t, 1.0, e.AfterFeatures["role_score"])
	assert.Contains(t, RenderExplanationText(e), "Corviknight")
}

func TestSuggest(t *testing.T) {
	x, dex := setup(t)
	partial := resolve(t, dex, "Kingambit", "Toxapex", "Clefable")
	candidates := resolve(t, dex, "Kingambit", "Great Tusk", "Dragapult", "Blissey", "Corviknight")

	got, err := x.Suggest(partial, candidates, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, s := range got {
		assert.NotEqual(t, "Kingambit", s.Species)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Explanation.Gains(), s.Explanation.Gains())
		}
	}

	all, err := x.Suggest(partial, candidates, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	full := resolve(t, dex, "Great Tusk", "Kingambit", "Dragapult", "Corviknight", "Toxapex", "Clefable")
	_, err = x.Suggest(full, candidates, 3)
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	x, dex := setup(t)

	partial := x.Report("p1", resolve(t, dex, "Garchomp", "Dragonite"))
	assert.Nil(t, partial.Features)
	assert.Equal(t, 2, partial.Weaknesses["Ice"])
	assert.Equal(t, 2, partial.Weaknesses["Dragon"])
	assert.Contains(t, partial.Liabilities, "Dragon")

	full := x.Report("p2", resolve(t, dex, "Great Tusk", "Kingambit", "Dragapult", "Corviknight", "Toxapex", "Clefable"))
	require.NotNil(t, full.Features)
	assert.Len(t, full.Features, features.Size)
	assert.Equal(t, []string{"Hazard Setter", "Hazard Control", "Pivot", "Speed Control"}, full.Roles)
}

func TestRenderHTML(t *testing.T) {
	r := TeamReport{
		Title:       "<p1>",
		Members:     []string{"Garchomp", "Dragonite"},
		Weaknesses:  map[string]int{"Ice": 2, "Fairy": 2, "Rock": 1},
		Liabilities: []string{"Ice", "Dragon", "Fairy"},
		Unchecked:   []string{"Kingambit"},
		Roles:       []string{"Hazard Setter"},
	}
	out := RenderHTML(r)
	assert.Contains(t, out, "&lt;p1&gt;")
	assert.NotContains(t, out, "<p1>")
	assert.Contains(t, out, "Team incomplete")
	assert.Contains(t, out, "Fairy x2, Ice x2, Rock x1")
	assert.Contains(t, out, "<li>Kingambit</li>")

	r.Features = map[string]float64{"type_score": 0.5, "avg_speed": 90.5, "type_diversity": 9}
	out = RenderHTML(r)
	assert.Contains(t, out, "<td>type_score</td><td>50%</td>")
	assert.Contains(t, out, "<td>avg_speed</td><td>90.5</td>")
	assert.Contains(t, out, "<td>type_diversity</td><td>9</td>")
	assert.NotContains(t, out, "Not in pokedex")

	r.Features = nil
	r.Missing = []string{"Missingno", "<Glitch>"}
	out = RenderHTML(r)
	assert.Contains(t, out, "<b>Not in pokedex:</b> Missingno, &lt;Glitch&gt; (report covers 2 of 4)")
}

func TestRenderText(t *testing.T) {
	out := RenderText(TeamReport{
		Title:   "Sample",
		Members: []string{"Garchomp", "Dragonite"},
		Roles:   []string{},
	})
	assert.Contains(t, out, "Sample")
	assert.Contains(t, out, "Garchomp, Dragonite")
	assert.Contains(t, out, "team incomplete")
	assert.NotContains(t, out, "not in pokedex")

	out = RenderText(TeamReport{
		Title:   "Partial",
		Members: []string{"Garchomp"},
		Roles:   []string{},
		Missing: []string{"Missingno"},
	})
	assert.Contains(t, out, "not in pokedex: Missingno (report covers 1 of 2)")
}
