package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/berkvakar/athleticfinance-web/internal/buildinfo"
	"github.com/berkvakar/athleticfinance-web/internal/cli"
	"github.com/berkvakar/athleticfinance-web/internal/config"
	"github.com/berkvakar/athleticfinance-web/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
