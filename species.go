package main

import (
	"fmt"
	"strings"

	urfave "github.com/urfave/cli/v2"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
)

var (
	typeFilterFlag = &urfave.StringFlag{
		Name:  "type",
		Usage: "Only species of this type (optional)",
	}

	moveFilterFlag = &urfave.StringFlag{
		Name:  "move",
		Usage: "Only species that learn this move (optional)",
	}

	speciesCmd = &urfave.Command{
		Name:      "species",
		Aliases:   []string{"dex"},
		Usage:     "List pokedex species, optionally filtered by type and move",
		UsageText: `showdown species --type Steel --move "Stealth Rock"`,
		Action:    cmdSpecies,
		Flags:     []urfave.Flag{typeFilterFlag, moveFilterFlag},
	}
)

type speciesRow struct {
	Name   string         `json:"name" yaml:"name"`
	Types  []string       `json:"types" yaml:"types"`
	Stats  game.BaseStats `json:"stats" yaml:"stats"`
	Sprite string         `json:"sprite,omitempty" yaml:"sprite,omitempty"`
}

func cmdSpecies(c *urfave.Context) error {
	e, err := loadEngine(c)
	if err != nil {
		return err
	}
	dex := e.Dataset.Pokedex

	list := dex.All()
	if name := c.String(typeFilterFlag.Name); name != "" {
		t, err := game.ParseType(name)
		if err != nil {
			return err
		}
		list = dex.FilterByType(t)
	}
	if move := c.String(moveFilterFlag.Name); move != "" {
		learners := make(map[string]bool)
		for _, s := range dex.FilterByMove(move) {
			learners[s.Name] = true
		}
		var kept []*game.Species
		for _, s := range list {
			if learners[s.Name] {
				kept = append(kept, s)
			}
		}
		list = kept
	}

	rows := make([]speciesRow, 0, len(list))
	for _, s := range list {
		var types []string
		for _, t := range s.Types() {
			types = append(types, t.String())
		}
		rows = append(rows, speciesRow{Name: s.Name, Types: types, Stats: s.Stats, Sprite: s.Sprite()})
	}

	app := getConfig(c)
	if app.Format != formatText {
		return encode(c.App.Writer, app.Format, rows)
	}
	for _, r := range rows {
		fmt.Fprintf(c.App.Writer, "%-20s %-16s spe %3d\n", r.Name, strings.Join(r.Types, "/"), r.Stats.Spe)
	}
	return nil
}
