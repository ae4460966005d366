package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/yeungjosh/pokemon-real-data-experiment/client"
	"github.com/yeungjosh/pokemon-real-data-experiment/metrics"
	"github.com/yeungjosh/pokemon-real-data-experiment/parser"
)

// ReplaySource lists and downloads replays.
type ReplaySource interface {
	Search(ctx context.Context, format string, page int) ([]string, error)
	Fetch(ctx context.Context, id string) (*client.Replay, error)
}

type ScrapeOptions struct {
	Format    string
	Target    int
	MinRating int
	// MaxPages stops paging early; 0 means until Target is met or results run out.
	MaxPages int
}

type ScrapeStats struct {
	Attempts int `json:"attempts" yaml:"attempts"`
	Kept     int `json:"kept" yaml:"kept"`
	Rejected int `json:"rejected" yaml:"rejected"`
	Errors   int `json:"errors" yaml:"errors"`
	Pages    int `json:"pages" yaml:"pages"`
}

// Scrape pages through recent replays of opts.Format and writes every valid
// battle to w as a JSON line until opts.Target battles are kept. Fetch errors
// skip that replay; search errors stop the scrape.
func Scrape(ctx context.Context, src ReplaySource, opts ScrapeOptions, w io.Writer) (ScrapeStats, error) {
	var stats ScrapeStats
	enc := json.NewEncoder(w)

	for page := 1; opts.MaxPages == 0 || page <= opts.MaxPages; page++ {
		if stats.Kept >= opts.Target {
			return stats, nil
		}
		ids, err := src.Search(ctx, opts.Format, page)
		if err != nil {
			return stats, err
		}
		stats.Pages++
		if len(ids) == 0 {
			slog.Info("no more replays", "page", page)
			return stats, nil
		}

		for _, id := range ids {
			if stats.Kept >= opts.Target {
				return stats, nil
			}
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Attempts++

			r, err := src.Fetch(ctx, id)
			if err != nil {
				stats.Errors++
				metrics.ReplaysFetched.WithLabelValues("error").Inc()
				slog.Warn("fetch failed", "replay", id, "error", err)
				continue
			}

			b, err := parser.ParseLog(r.Log)
			if err == nil {
				err = parser.Validate(b, opts.MinRating)
			}
			if err != nil {
				stats.Rejected++
				metrics.ReplaysFetched.WithLabelValues("rejected").Inc()
				slog.Debug("replay rejected", "replay", id, "reason", err)
				continue
			}

			b.ID = r.ID
			if b.Format == "" {
				b.Format = r.Format
			}
			rec := b.Record()
			rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
			if err := enc.Encode(rec); err != nil {
				return stats, fmt.Errorf("writing battle %s: %w", id, err)
			}
			stats.Kept++
			metrics.ReplaysFetched.WithLabelValues("kept").Inc()

			if stats.Kept%10 == 0 {
				slog.Info("scrape progress", "kept", stats.Kept, "target", opts.Target, "attempts", stats.Attempts)
			}
		}
	}
	return stats, nil
}
