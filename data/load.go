package data

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yeungjosh/pokemon-real-data-experiment/typechart"
)

// Paths locates the reference data files. An empty ChartPath selects the
// built-in chart; an empty UsagePath yields an empty threat ranking.
type Paths struct {
	Pokedex string
	Chart   string
	Usage   string
	Tier    string
}

// Dataset is the session's read-only reference data.
type Dataset struct {
	Pokedex *Pokedex
	Chart   *typechart.Chart
	Usage   *Usage
}

// Load reads everything once. Any failure is fatal to the session; there is no retry.
func Load(p Paths) (*Dataset, error) {
	start := time.Now()
	if p.Pokedex == "" {
		return nil, errors.New("pokedex path required")
	}

	dex, err := LoadPokedex(p.Pokedex)
	if err != nil {
		return nil, err
	}

	chart := typechart.Default()
	if p.Chart != "" {
		if chart, err = LoadTypeChart(p.Chart); err != nil {
			return nil, err
		}
	}

	usage, _ := NewUsage(nil)
	if p.Usage != "" {
		if usage, err = LoadUsage(p.Usage, p.Tier); err != nil {
			return nil, err
		}
	}

	missing := 0
	for _, name := range usage.Names() {
		if !dex.Exists(name) {
			missing++
		}
	}
	if missing > 0 {
		slog.Warn("ranked threats missing from pokedex", "count", missing)
	}

	slog.Debug("reference data loaded",
		"species", dex.Len(),
		"threats", usage.Len(),
		"builtin_chart", p.Chart == "",
		"duration", time.Since(start).String())

	return &Dataset{Pokedex: dex, Chart: chart, Usage: usage}, nil
}

// String summarizes the dataset for logs.
func (d *Dataset) String() string {
	return fmt.Sprintf("species=%d threats=%d", d.Pokedex.Len(), d.Usage.Len())
}
