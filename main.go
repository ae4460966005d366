package main

import (
	"log/slog"
	"os"

	"github.com/yeungjosh/pokemon-real-data-experiment/logging"
)

func main() {
	logging.Init("info", "text")

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}
