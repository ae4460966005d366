package main

import (
	"errors"
	"fmt"

	urfave "github.com/urfave/cli/v2"

	"github.com/yeungjosh/pokemon-real-data-experiment/features"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/report"
)

var (
	topFlag = &urfave.IntFlag{
		Name:  "top",
		Usage: "Number of threats to list (optional, defaults to scoring.top_k)",
	}

	scoreCmd = &urfave.Command{
		Name:      "score",
		Usage:     "Score a team of six",
		ArgsUsage: "<species>...",
		UsageText: `showdown score "Great Tusk" Kingambit Dragapult Corviknight Toxapex Clefable
   showdown --format json score "Great Tusk,Kingambit,Dragapult,Corviknight,Toxapex,Clefable"`,
		Action: cmdScore,
	}

	threatsCmd = &urfave.Command{
		Name:   "threats",
		Usage:  "List the most used threats of the configured tier",
		Action: cmdThreats,
		Flags:  []urfave.Flag{topFlag},
	}
)

type scoreResult struct {
	Team     []string           `json:"team" yaml:"team"`
	Vector   features.Vector    `json:"vector" yaml:"vector"`
	Features map[string]float64 `json:"features" yaml:"features"`
	Report   report.TeamReport  `json:"report" yaml:"report"`
}

func cmdScore(c *urfave.Context) error {
	names := teamArgs(c.Args().Slice())
	if len(names) == 0 {
		return urfave.ShowSubcommandHelp(c)
	}

	e, err := loadEngine(c)
	if err != nil {
		return err
	}

	team, v, err := e.Score("cli", names)
	if err != nil {
		var unresolved *features.UnresolvedSpeciesError
		if errors.As(err, &unresolved) || errors.Is(err, game.ErrIncompleteTeam) {
			return urfave.Exit(err.Error(), 2)
		}
		return fmt.Errorf("scoring team: %w", err)
	}
	rep := e.Explainer.Report("Team", team.Members())

	app := getConfig(c)
	if app.Format == formatText {
		_, err := fmt.Fprintln(c.App.Writer, report.RenderText(rep))
		return err
	}
	return encode(c.App.Writer, app.Format, scoreResult{
		Team:     names,
		Vector:   v,
		Features: v.Map(),
		Report:   rep,
	})
}

func cmdThreats(c *urfave.Context) error {
	e, err := loadEngine(c)
	if err != nil {
		return err
	}
	threats := e.Threats(c.Int(topFlag.Name))

	app := getConfig(c)
	if app.Format != formatText {
		return encode(c.App.Writer, app.Format, threats)
	}
	for _, t := range threats {
		note := ""
		if !t.InPokedex {
			note = "  (not in pokedex, ignored)"
		}
		fmt.Fprintf(c.App.Writer, "%2d. %-20s %5.1f%%%s\n", t.Rank, t.Name, t.Usage, note)
	}
	return nil
}
