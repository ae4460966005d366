package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	urfave "github.com/urfave/cli/v2"

	"github.com/yeungjosh/pokemon-real-data-experiment/client"
	"github.com/yeungjosh/pokemon-real-data-experiment/dataset"
)

var (
	ladderFlag = &urfave.StringFlag{
		Name:  "ladder",
		Usage: "Battle format to scrape (optional, defaults to replays.format)",
	}

	targetFlag = &urfave.IntFlag{
		Name:  "target",
		Usage: "Number of valid battles to keep",
		Value: 100,
	}

	minRatingFlag = &urfave.IntFlag{
		Name:  "min-rating",
		Usage: "Minimum rating of both players (optional, defaults to replays.min_rating)",
	}

	pagesFlag = &urfave.IntFlag{
		Name:  "pages",
		Usage: "Maximum search pages to walk (optional, 0 walks until the target is met)",
	}

	outFlag = &urfave.StringFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Usage:    "Output file path",
		Required: true,
	}

	inFlag = &urfave.StringFlag{
		Name:     "in",
		Aliases:  []string{"i"},
		Usage:    "Battle JSONL file written by scrape",
		Required: true,
	}

	workersFlag = &urfave.IntFlag{
		Name:  "workers",
		Usage: "Concurrent battle scoring (optional, defaults to dataset.workers)",
	}

	scrapeCmd = &urfave.Command{
		Name:      "scrape",
		Usage:     "Download rated replays and write their team previews as JSON lines",
		UsageText: `showdown scrape --ladder gen9ou --target 500 --min-rating 1500 --out battles.jsonl`,
		Action:    cmdScrape,
		Flags:     []urfave.Flag{ladderFlag, targetFlag, minRatingFlag, pagesFlag, outFlag},
	}

	datasetCmd = &urfave.Command{
		Name:      "dataset",
		Aliases:   []string{"export"},
		Usage:     "Score scraped battles into a labeled CSV, one row per side",
		UsageText: `showdown dataset --in battles.jsonl --out features.csv`,
		Action:    cmdDataset,
		Flags:     []urfave.Flag{inFlag, outFlag, workersFlag},
	}
)

func cmdScrape(c *urfave.Context) error {
	app := getConfig(c)
	rc := app.Config.Replays

	opts := dataset.ScrapeOptions{
		Format:    rc.Format,
		Target:    c.Int(targetFlag.Name),
		MinRating: rc.MinRating,
		MaxPages:  c.Int(pagesFlag.Name),
	}
	if f := c.String(ladderFlag.Name); f != "" {
		opts.Format = f
	}
	if c.IsSet(minRatingFlag.Name) {
		opts.MinRating = c.Int(minRatingFlag.Name)
	}
	if opts.Target < 1 {
		return fmt.Errorf("target must be positive, got %d", opts.Target)
	}

	f, err := os.Create(c.String(outFlag.Name))
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("scraping replays", "format", opts.Format, "target", opts.Target, "min_rating", opts.MinRating)
	stats, err := dataset.Scrape(ctx, client.NewReplayClient(rc.BaseURL, rc.Interval), opts, f)
	if err != nil {
		return fmt.Errorf("scraping replays: %w", err)
	}
	return encode(c.App.Writer, app.Format, stats)
}

func cmdDataset(c *urfave.Context) error {
	app := getConfig(c)

	in, err := os.Open(c.String(inFlag.Name))
	if err != nil {
		return fmt.Errorf("opening battles: %w", err)
	}
	defer in.Close()

	battles, err := dataset.ReadBattles(in)
	if err != nil {
		return err
	}

	e, err := loadEngine(c)
	if err != nil {
		return err
	}

	workers := app.Config.Dataset.Workers
	if c.IsSet(workersFlag.Name) {
		workers = c.Int(workersFlag.Name)
	}

	rows, summary, err := dataset.Build(c.Context, e.Builder, battles, workers)
	if err != nil {
		return fmt.Errorf("building dataset: %w", err)
	}

	out, err := os.Create(c.String(outFlag.Name))
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := dataset.WriteCSV(out, rows); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return encode(c.App.Writer, app.Format, summary)
}
