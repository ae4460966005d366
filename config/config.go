// Package config loads the YAML settings shared by every command.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yeungjosh/pokemon-real-data-experiment/client"
	"github.com/yeungjosh/pokemon-real-data-experiment/coverage"
	"github.com/yeungjosh/pokemon-real-data-experiment/data"
	"github.com/yeungjosh/pokemon-real-data-experiment/dataset"
	"github.com/yeungjosh/pokemon-real-data-experiment/meta"
	"github.com/yeungjosh/pokemon-real-data-experiment/parser"
	"github.com/yeungjosh/pokemon-real-data-experiment/roles"
)

type Config struct {
	Data    Data    `yaml:"data"`
	Scoring Scoring `yaml:"scoring"`
	Server  Server  `yaml:"server"`
	Replays Replays `yaml:"replays"`
	Dataset Dataset `yaml:"dataset"`
	Log     Log     `yaml:"log"`
}

// Data points at the reference files. An empty chart uses the built-in table.
type Data struct {
	Pokedex string `yaml:"pokedex"`
	Chart   string `yaml:"chart"`
	Usage   string `yaml:"usage"`
	Tier    string `yaml:"tier"`
}

// Paths converts to loader input.
func (d Data) Paths() data.Paths {
	return data.Paths{Pokedex: d.Pokedex, Chart: d.Chart, Usage: d.Usage, Tier: d.Tier}
}

type Scoring struct {
	TopK      int              `yaml:"top_k"`
	FastSpeed int              `yaml:"fast_speed"`
	Weights   coverage.Weights `yaml:"weights"`
}

type Server struct {
	Address      string   `yaml:"address"`
	ShowdownURL  string   `yaml:"showdown_url"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type Replays struct {
	BaseURL   string        `yaml:"base_url"`
	Interval  time.Duration `yaml:"interval"`
	Format    string        `yaml:"format"`
	MinRating int           `yaml:"min_rating"`
}

type Dataset struct {
	Workers int `yaml:"workers"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns settings that work from the repository root.
func Default() *Config {
	return &Config{
		Data: Data{
			Pokedex: "data/raw/pokedex.json",
			Usage:   "data/raw/usage_ou.csv",
			Tier:    data.DefaultTier,
		},
		Scoring: Scoring{
			TopK:      meta.DefaultTopK,
			FastSpeed: roles.FastSpeed,
			Weights:   coverage.DefaultWeights(),
		},
		Server: Server{
			Address:     ":42069",
			ShowdownURL: client.DefaultServerURL,
		},
		Replays: Replays{
			BaseURL:   client.DefaultReplayURL,
			Interval:  client.DefaultReplayInterval,
			Format:    "gen9ou",
			MinRating: parser.DefaultMinRating,
		},
		Dataset: Dataset{Workers: dataset.DefaultWorkers},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Data.Pokedex == "" {
		return errors.New("data.pokedex is required")
	}
	if c.Scoring.TopK < 1 {
		return errors.New("scoring.top_k must be positive")
	}
	if c.Scoring.FastSpeed < 1 {
		return errors.New("scoring.fast_speed must be positive")
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	if c.Replays.Interval < 0 {
		return errors.New("replays.interval must not be negative")
	}
	if c.Dataset.Workers < 1 {
		return errors.New("dataset.workers must be positive")
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
