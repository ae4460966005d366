package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultReplayURL serves search.json and {id}.json.
	DefaultReplayURL = "https://replay.pokemonshowdown.com"

	// DefaultReplayInterval paces consecutive replay requests.
	DefaultReplayInterval = 500 * time.Millisecond

	replayTimeout = 10 * time.Second
)

// Replay is the subset of a replay document used for scoring.
type Replay struct {
	ID         string   `json:"id"`
	Format     string   `json:"format"`
	Players    []string `json:"players"`
	Log        string   `json:"log"`
	UploadTime int64    `json:"uploadtime"`
	Rating     int      `json:"rating"`
}

// ReplayClient reads the public replay archive. Every request waits on a
// shared limiter; failures are returned, never retried.
type ReplayClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewReplayClient paces requests one per interval. A non-positive interval disables pacing.
func NewReplayClient(baseURL string, interval time.Duration) *ReplayClient {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &ReplayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: replayTimeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Search returns the ids on one page of recent replays for format.
func (c *ReplayClient) Search(ctx context.Context, format string, page int) ([]string, error) {
	q := url.Values{}
	q.Set("format", format)
	q.Set("page", strconv.Itoa(page))

	var results []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/search.json?"+q.Encode(), &results); err != nil {
		return nil, fmt.Errorf("searching %s page %d: %w", format, page, err)
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

// Fetch downloads one replay by id.
func (c *ReplayClient) Fetch(ctx context.Context, id string) (*Replay, error) {
	var r Replay
	if err := c.getJSON(ctx, c.baseURL+"/"+url.PathEscape(id)+".json", &r); err != nil {
		return nil, fmt.Errorf("fetching replay %s: %w", id, err)
	}
	return &r, nil
}

func (c *ReplayClient) getJSON(ctx context.Context, u string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
