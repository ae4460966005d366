package main

import (
	"fmt"

	urfave "github.com/urfave/cli/v2"

	"github.com/yeungjosh/pokemon-real-data-experiment/report"
)

var (
	beforeFlag = &urfave.StringFlag{
		Name:  "before",
		Usage: "Comma separated team before the change (optional, empty team otherwise)",
	}

	afterFlag = &urfave.StringFlag{
		Name:     "after",
		Usage:    "Comma separated team after the change",
		Required: true,
	}

	limitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Number of suggestions to show",
		Value: 5,
	}

	explainCmd = &urfave.Command{
		Name:      "explain",
		Usage:     "Show what a change to a team covers, handles and adds",
		UsageText: `showdown explain --before "Great Tusk,Kingambit" --after "Great Tusk,Kingambit,Toxapex"`,
		Action:    cmdExplain,
		Flags:     []urfave.Flag{beforeFlag, afterFlag},
	}

	suggestCmd = &urfave.Command{
		Name:      "suggest",
		Usage:     "Rank pokedex species by what they would add to a partial team",
		ArgsUsage: "<species>...",
		UsageText: `showdown suggest --limit 3 "Great Tusk" Kingambit`,
		Action:    cmdSuggest,
		Flags:     []urfave.Flag{limitFlag},
	}
)

func cmdExplain(c *urfave.Context) error {
	e, err := loadEngine(c)
	if err != nil {
		return err
	}
	before, err := e.Resolve(teamArgs([]string{c.String(beforeFlag.Name)}))
	if err != nil {
		return fmt.Errorf("before: %w", err)
	}
	after, err := e.Resolve(teamArgs([]string{c.String(afterFlag.Name)}))
	if err != nil {
		return fmt.Errorf("after: %w", err)
	}

	x := e.Explainer.Explain(before, after)
	app := getConfig(c)
	if app.Format == formatText {
		_, err := fmt.Fprintln(c.App.Writer, report.RenderExplanationText(x))
		return err
	}
	return encode(c.App.Writer, app.Format, x)
}

func cmdSuggest(c *urfave.Context) error {
	names := teamArgs(c.Args().Slice())
	if len(names) == 0 {
		return urfave.ShowSubcommandHelp(c)
	}

	e, err := loadEngine(c)
	if err != nil {
		return err
	}
	partial, err := e.Resolve(names)
	if err != nil {
		return err
	}

	suggestions, err := e.Explainer.Suggest(partial, e.Dataset.Pokedex.All(), c.Int(limitFlag.Name))
	if err != nil {
		return err
	}

	app := getConfig(c)
	if app.Format != formatText {
		return encode(c.App.Writer, app.Format, suggestions)
	}
	for _, s := range suggestions {
		fmt.Fprintln(c.App.Writer, report.RenderExplanationText(s.Explanation))
	}
	return nil
}
