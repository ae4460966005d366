package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/typechart"
)

// LoadTypeChart reads a nested {"Fire": {"Grass": 2, ...}, ...} chart file.
func LoadTypeChart(path string) (*typechart.Chart, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening type chart: %w", err)
	}
	defer file.Close()

	c, err := ParseTypeChart(file)
	if err != nil {
		return nil, fmt.Errorf("reading type chart %s: %w", path, err)
	}
	return c, nil
}

// ParseTypeChart requires all 18x18 entries. Unknown type names are rejected
// rather than skipped, and missing pairs are an error rather than neutral.
func ParseTypeChart(r io.Reader) (*typechart.Chart, error) {
	var raw map[string]map[string]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	var (
		tbl  typechart.Table
		seen [game.NumTypes][game.NumTypes]bool
	)
	for atkName, row := range raw {
		atk, err := game.ParseType(atkName)
		if err != nil {
			return nil, err
		}
		for defName, v := range row {
			def, err := game.ParseType(defName)
			if err != nil {
				return nil, err
			}
			tbl[atk.Index()][def.Index()] = v
			seen[atk.Index()][def.Index()] = true
		}
	}

	for _, atk := range game.AllTypes() {
		for _, def := range game.AllTypes() {
			if !seen[atk.Index()][def.Index()] {
				return nil, fmt.Errorf("type chart missing %s -> %s", atk, def)
			}
		}
	}
	return typechart.New(tbl)
}
