package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
)

// DefaultTier is the competitive tier the threat ranking is filtered to.
const DefaultTier = "OU"

// Usage is the threat ranking provider: entries sorted by usage, descending.
type Usage struct {
	entries []game.ThreatEntry
}

// NewUsage validates weights and sorts entries by usage, highest first.
// Ties keep their input order.
func NewUsage(entries []game.ThreatEntry) (*Usage, error) {
	out := append([]game.ThreatEntry(nil), entries...)
	for _, e := range out {
		if math.IsNaN(e.Usage) || e.Usage < 0 || e.Usage > 100 {
			return nil, fmt.Errorf("usage for %s out of range [0,100]: %v", e.Name, e.Usage)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Usage > out[j].Usage })
	return &Usage{entries: out}, nil
}

// LoadUsage reads a usage CSV and keeps the rows for tier ("" keeps all).
func LoadUsage(path, tier string) (*Usage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening usage stats: %w", err)
	}
	defer file.Close()

	u, err := ParseUsage(file, tier)
	if err != nil {
		return nil, fmt.Errorf("reading usage stats %s: %w", path, err)
	}
	return u, nil
}

// ParseUsage reads CSV with a header naming at least name and usage_pct;
// tier, generation and month are optional.
func ParseUsage(r io.Reader, tier string) (*Usage, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewUsage(nil)
		}
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "usage_pct"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("usage header missing column %q", required)
		}
	}

	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var entries []game.ThreatEntry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		e := game.ThreatEntry{
			Name:  get(rec, "name"),
			Tier:  get(rec, "tier"),
			Month: get(rec, "month"),
		}
		if tier != "" && !strings.EqualFold(e.Tier, tier) {
			continue
		}
		if e.Usage, err = strconv.ParseFloat(get(rec, "usage_pct"), 64); err != nil {
			return nil, fmt.Errorf("usage for %s: %w", e.Name, err)
		}
		if g := get(rec, "generation"); g != "" {
			if e.Generation, err = strconv.Atoi(g); err != nil {
				return nil, fmt.Errorf("generation for %s: %w", e.Name, err)
			}
		}
		entries = append(entries, e)
	}
	return NewUsage(entries)
}

// Top returns the k most used entries. k larger than the list returns everything.
func (u *Usage) Top(k int) []game.ThreatEntry {
	if k <= 0 {
		return nil
	}
	if k > len(u.entries) {
		k = len(u.entries)
	}
	return append([]game.ThreatEntry(nil), u.entries[:k]...)
}

// Weight returns the usage of name, 0 when unranked.
func (u *Usage) Weight(name string) float64 {
	id := ToID(name)
	for _, e := range u.entries {
		if ToID(e.Name) == id {
			return e.Usage
		}
	}
	return 0
}

// Names lists ranked names, most used first.
func (u *Usage) Names() []string {
	out := make([]string, 0, len(u.entries))
	for _, e := range u.entries {
		out = append(out, e.Name)
	}
	return out
}

func (u *Usage) Len() int {
	return len(u.entries)
}
