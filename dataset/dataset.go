// Package dataset turns scraped battles into labeled feature rows.
package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yeungjosh/pokemon-real-data-experiment/features"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/metrics"
)

// DefaultWorkers bounds concurrent battle scoring.
const DefaultWorkers = 8

// Scorer builds a feature vector from six species names.
type Scorer interface {
	Build(names []string) (features.Vector, error)
}

// Row is one team of one battle. Label is 1 for the winning side.
type Row struct {
	BattleID string
	Side     string
	Features features.Vector
	Label    int
}

type Summary struct {
	Battles int `json:"battles" yaml:"battles"`
	Rows    int `json:"rows" yaml:"rows"`
	Winners int `json:"winners" yaml:"winners"`
	Losers  int `json:"losers" yaml:"losers"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// ReadBattles reads one JSON battle record per line. Blank lines are ignored.
func ReadBattles(r io.Reader) ([]game.Record, error) {
	var out []game.Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec game.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scored struct {
	p1, p2 features.Vector
	ok     bool
}

// Build scores both teams of every battle with at most workers goroutines.
// Battles without a winner, or where either team fails to build, are skipped.
// Rows keep battle order, p1 before p2.
func Build(ctx context.Context, s Scorer, battles []game.Record, workers int) ([]Row, Summary, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}
	results := make([]scored, len(battles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range battles {
		i := i // per-iteration copy; go directive is 1.21 (pre-loopvar)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = scoreBattle(s, battles[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	sum := Summary{Battles: len(battles)}
	rows := make([]Row, 0, 2*len(battles))
	for i, res := range results {
		if !res.ok {
			sum.Skipped++
			continue
		}
		b := battles[i]
		p1Label := 0
		if b.Winner == "p1" {
			p1Label = 1
		}
		rows = append(rows,
			Row{BattleID: b.ID, Side: "p1", Features: res.p1, Label: p1Label},
			Row{BattleID: b.ID, Side: "p2", Features: res.p2, Label: 1 - p1Label},
		)
		sum.Winners++
		sum.Losers++
	}
	sum.Rows = len(rows)
	return rows, sum, nil
}

func scoreBattle(s Scorer, b game.Record) scored {
	if b.Winner != "p1" && b.Winner != "p2" {
		slog.Debug("skipping battle without winner", "battle", b.ID)
		return scored{}
	}
	p1, err := buildTeam(s, b.P1Team)
	if err != nil {
		slog.Debug("skipping battle", "battle", b.ID, "side", "p1", "error", err)
		return scored{}
	}
	p2, err := buildTeam(s, b.P2Team)
	if err != nil {
		slog.Debug("skipping battle", "battle", b.ID, "side", "p2", "error", err)
		return scored{}
	}
	return scored{p1: p1, p2: p2, ok: true}
}

func buildTeam(s Scorer, names []string) (features.Vector, error) {
	v, err := s.Build(names)
	if err != nil {
		metrics.BuildFailures.WithLabelValues(FailureReason(err)).Inc()
		return v, err
	}
	metrics.TeamsScored.WithLabelValues("dataset").Inc()
	return v, nil
}

// FailureReason maps a build error to a metrics label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, features.ErrUnresolvedSpecies):
		return "unresolved"
	case errors.Is(err, game.ErrIncompleteTeam):
		return "incomplete"
	default:
		return "other"
	}
}

// Header is the CSV header written by WriteCSV.
func Header() []string {
	h := append([]string{"battle_id", "side"}, features.FeatureNames[:]...)
	return append(h, "label")
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	rec := make([]string, 0, len(Header()))
	for _, r := range rows {
		rec = append(rec[:0], r.BattleID, r.Side)
		for _, v := range r.Features {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rec = append(rec, strconv.Itoa(r.Label))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
