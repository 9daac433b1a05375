// Command dlcplan computes the CET plan of a numeric-outcome DLC. It loads
// configuration, validates it, applies command-line overrides and runs the
// selected mode once.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanyoungcy/dlcplan/internal/app"
	"github.com/alanyoungcy/dlcplan/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	contractPath := flag.String("contract", "", "path to contract descriptor")
	mode := flag.String("mode", "", "plan, ranges, groups or verify")
	output := flag.String("out", "", `output path ("-" for stdout)`)
	expect := flag.String("expect", "", "fingerprint to check in verify mode")
	from := flag.Uint64("from", 0, "first outcome in groups mode")
	to := flag.Uint64("to", 0, "last outcome in groups mode")
	flag.Parse()

	// Logs go to stderr; stdout carries the result.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Flags win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "contract":
			cfg.Contract.Path = *contractPath
		case "mode":
			cfg.Mode = *mode
		case "out":
			cfg.Output.Path = *output
		case "expect":
			cfg.Verify.Fingerprint = *expect
		case "from":
			cfg.Groups.From = *from
		case "to":
			cfg.Groups.To = *to
		}
	})

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	application := app.New(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = application.Run(ctx)
	application.Close()
	stop()

	if err != nil {
		// context.Canceled is expected when interrupted.
		if errors.Is(err, context.Canceled) {
			logger.Info("dlcplan interrupted")
			os.Exit(130)
		}
		logger.Error("dlcplan exited with error", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
