package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yeungjosh/pokemon-real-data-experiment/config"
	"github.com/yeungjosh/pokemon-real-data-experiment/engine"
	"github.com/yeungjosh/pokemon-real-data-experiment/logging"
)

const (
	appConfigKey = "app-config"

	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	configFlag = &urfave.StringFlag{
		Name:    "config",
		Usage:   "Path to a YAML config file (optional, defaults are used otherwise)",
		EnvVars: []string{"SHOWDOWN_CONFIG"},
	}

	debugFlag = &urfave.BoolFlag{
		Name:    "debug",
		Usage:   "Prints verbose logs (optional, default: false)",
		EnvVars: []string{"SHOWDOWN_DEBUG"},
	}

	formatFlag = &urfave.StringFlag{
		Name:    "format",
		Usage:   "Output format [text, json, yaml]",
		Value:   formatText,
		EnvVars: []string{"SHOWDOWN_FORMAT"},
	}
)

type appConfig struct {
	Config *config.Config
	Format string
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "showdown",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "Score competitive Pokemon teams against the current meta",
		Flags: []urfave.Flag{
			configFlag,
			debugFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			scoreCmd,
			explainCmd,
			suggestCmd,
			threatsCmd,
			speciesCmd,
			serveCmd,
			scrapeCmd,
			datasetCmd,
			configCmd,
		},
		Before: func(c *urfave.Context) error {
			cfg, err := config.Load(c.String(configFlag.Name))
			if err != nil {
				return err
			}
			if c.Bool(debugFlag.Name) {
				cfg.Log.Level = "debug"
			}
			logging.Init(cfg.Log.Level, cfg.Log.Format)

			f := strings.ToLower(c.String(formatFlag.Name))
			switch f {
			case formatText, formatJSON:
			case formatYAML, "yml":
				f = formatYAML
			default:
				return fmt.Errorf("unsupported output format %q", f)
			}

			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata[appConfigKey] = &appConfig{Config: cfg, Format: f}
			return nil
		},
	}
}

func loadEngine(c *urfave.Context) (*engine.Engine, error) {
	e, err := engine.Load(getConfig(c).Config)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	return e, nil
}

// encode writes v as JSON, or as YAML for every other format.
func encode(w io.Writer, format string, v any) error {
	if format == formatJSON {
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	}
	e := yaml.NewEncoder(w)
	defer e.Close()
	return e.Encode(v)
}

// teamArgs accepts species as separate arguments, comma separated, or both.
func teamArgs(args []string) []string {
	var out []string
	for _, a := range args {
		for _, name := range strings.Split(a, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
