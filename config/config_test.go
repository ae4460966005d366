package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 15, c.Scoring.TopK)
	assert.Equal(t, 100, c.Scoring.FastSpeed)
	assert.Equal(t, 0.6, c.Scoring.Weights.Offensive)
	assert.Equal(t, "OU", c.Data.Tier)
	assert.Equal(t, 500*time.Millisecond, c.Replays.Interval)

	same, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, c, same)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
data:
  pokedex: /srv/pokedex.json
  tier: UU
scoring:
  top_k: 20
  weights:
    offensive: 0.5
    defensive: 0.5
replays:
  interval: 2s
log:
  level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/pokedex.json", c.Data.Pokedex)
	assert.Equal(t, "UU", c.Data.Tier)
	assert.Equal(t, "data/raw/usage_ou.csv", c.Data.Usage)
	assert.Equal(t, 20, c.Scoring.TopK)
	assert.Equal(t, 100, c.Scoring.FastSpeed)
	assert.Equal(t, 0.5, c.Scoring.Weights.Defensive)
	assert.Equal(t, 2*time.Second, c.Replays.Interval)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)

	p := c.Data.Paths()
	assert.Equal(t, "/srv/pokedex.json", p.Pokedex)
	assert.Equal(t, "UU", p.Tier)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "scoring: [1, 2"},
		{"zero top k", "scoring:\n  top_k: 0\n"},
		{"negative weight", "scoring:\n  weights:\n    offensive: -1\n    defensive: 1\n"},
		{"weights above one", "scoring:\n  weights:\n    offensive: 1\n    defensive: 1\n"},
		{"no pokedex", "data:\n  pokedex: \"\"\n"},
		{"no workers", "dataset:\n  workers: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	b, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(b), "top_k: 15")

	c, err := Load(writeConfig(t, string(b)))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
