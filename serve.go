package main

import (
	"os"
	"os/signal"
	"syscall"

	urfave "github.com/urfave/cli/v2"

	"github.com/yeungjosh/pokemon-real-data-experiment/server"
)

var (
	addressFlag = &urfave.StringFlag{
		Name:    "address",
		Aliases: []string{"addr"},
		Usage:   "Address to listen on (optional, defaults to server.address)",
		EnvVars: []string{"SHOWDOWN_ADDRESS"},
	}

	serveCmd = &urfave.Command{
		Name:    "serve",
		Aliases: []string{"server"},
		Usage:   "Start the HTTP API and live battle page",
		Action:  cmdServe,
		Flags:   []urfave.Flag{addressFlag},
	}
)

func cmdServe(c *urfave.Context) error {
	cfg := getConfig(c).Config
	e, err := loadEngine(c)
	if err != nil {
		return err
	}

	addr := cfg.Server.Address
	if a := c.String(addressFlag.Name); a != "" {
		addr = a
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(e, server.Options{
		ShowdownURL:  cfg.Server.ShowdownURL,
		AllowOrigins: cfg.Server.AllowOrigins,
	})
	return s.Run(ctx, addr)
}
