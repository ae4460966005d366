// Package engine wires the loaded reference data into the analyzers, the
// feature builder and the explainer.
package engine

import (
	"fmt"
	"time"

	"github.com/yeungjosh/pokemon-real-data-experiment/config"
	"github.com/yeungjosh/pokemon-real-data-experiment/coverage"
	"github.com/yeungjosh/pokemon-real-data-experiment/data"
	"github.com/yeungjosh/pokemon-real-data-experiment/dataset"
	"github.com/yeungjosh/pokemon-real-data-experiment/features"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/meta"
	"github.com/yeungjosh/pokemon-real-data-experiment/metrics"
	"github.com/yeungjosh/pokemon-real-data-experiment/report"
	"github.com/yeungjosh/pokemon-real-data-experiment/roles"
)

// Engine holds read-only references only; it is safe for concurrent use.
type Engine struct {
	Dataset   *data.Dataset
	Coverage  *coverage.Analyzer
	Meta      *meta.Analyzer
	Roles     *roles.Detector
	Builder   *features.Builder
	Explainer *report.Explainer
}

func New(ds *data.Dataset, s config.Scoring) (*Engine, error) {
	cov, err := coverage.NewAnalyzer(ds.Chart, coverage.WithWeights(s.Weights))
	if err != nil {
		return nil, fmt.Errorf("coverage analyzer: %w", err)
	}
	m, err := meta.NewAnalyzer(ds.Chart, ds.Pokedex, ds.Usage, meta.WithTopK(s.TopK))
	if err != nil {
		return nil, fmt.Errorf("meta analyzer: %w", err)
	}
	r := roles.NewDetector(roles.WithFastSpeed(s.FastSpeed))
	b, err := features.NewBuilder(ds.Pokedex, cov, m, r)
	if err != nil {
		return nil, err
	}
	x, err := report.NewExplainer(cov, m, r, b)
	if err != nil {
		return nil, err
	}
	return &Engine{Dataset: ds, Coverage: cov, Meta: m, Roles: r, Builder: b, Explainer: x}, nil
}

// Load reads the reference data and builds an engine from cfg.
func Load(cfg *config.Config) (*Engine, error) {
	ds, err := data.Load(cfg.Data.Paths())
	if err != nil {
		return nil, err
	}
	return New(ds, cfg.Scoring)
}

// Score resolves names into a team, builds its feature vector and records
// scoring metrics under source.
func (e *Engine) Score(source string, names []string) (game.Team, features.Vector, error) {
	start := time.Now()
	team, err := e.Builder.Resolve(names)
	if err != nil {
		metrics.ScoreDuration.Observe(time.Since(start).Seconds())
		metrics.BuildFailures.WithLabelValues(dataset.FailureReason(err)).Inc()
		return team, features.Vector{}, err
	}
	v := e.Builder.BuildTeam(team)
	metrics.ScoreDuration.Observe(time.Since(start).Seconds())
	metrics.TeamsScored.WithLabelValues(source).Inc()
	return team, v, nil
}

// Resolve looks up names for diagnostics over partial teams. Every name must resolve.
func (e *Engine) Resolve(names []string) ([]*game.Species, error) {
	found, missing := e.Dataset.Pokedex.Resolve(names)
	if len(missing) > 0 {
		return nil, &features.UnresolvedSpeciesError{Names: missing}
	}
	if len(found) > game.TeamSize {
		return nil, fmt.Errorf("%w: got %d", game.ErrIncompleteTeam, len(found))
	}
	return found, nil
}

// Threat is one ranked meta threat, flagged when the pokedex cannot resolve it.
type Threat struct {
	Rank      int     `json:"rank" yaml:"rank"`
	Name      string  `json:"name" yaml:"name"`
	Usage     float64 `json:"usage_pct" yaml:"usage_pct"`
	InPokedex bool    `json:"in_pokedex" yaml:"in_pokedex"`
}

// Threats lists the k most used threats. k < 1 uses the configured top-K.
func (e *Engine) Threats(k int) []Threat {
	if k < 1 {
		k = e.Meta.TopK()
	}
	top := e.Dataset.Usage.Top(k)
	out := make([]Threat, 0, len(top))
	for i, t := range top {
		out = append(out, Threat{
			Rank:      i + 1,
			Name:      t.Name,
			Usage:     t.Usage,
			InPokedex: e.Dataset.Pokedex.Exists(t.Name),
		})
	}
	return out
}
