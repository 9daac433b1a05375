package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alanyoungcy/dlcplan/internal/config"
	"github.com/alanyoungcy/dlcplan/internal/contract"
	"github.com/alanyoungcy/dlcplan/internal/service"
)

// Dependencies bundles everything the application modes need. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Contract *contract.Descriptor
	Plans    *service.PlanService

	// Output receives the JSON result of the mode.
	Output io.Writer
}

// Wire loads the contract, builds the plan service and opens the output sink.
// The cleanup function closes the sink and must be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// ── Contract ──
	d, err := contract.Load(cfg.Contract.Path)
	if err != nil {
		return nil, cleanup, fmt.Errorf("wire: %w", err)
	}
	logger.DebugContext(ctx, "contract loaded",
		slog.String("path", cfg.Contract.Path),
		slog.Int("base", d.Oracle.Base),
		slog.Int("num_digits", d.Oracle.NumDigits),
		slog.Int("pieces", len(d.PayoutFunction.Pieces)),
	)

	// ── Services ──
	plans := service.NewPlanService(service.PlanConfig{
		Parallel:   cfg.Engine.Parallel,
		MaxWorkers: cfg.Engine.MaxWorkers,
	}, logger)

	// ── Output ──
	var out io.Writer = os.Stdout
	if cfg.Output.Path != "-" {
		if dir := filepath.Dir(cfg.Output.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, cleanup, fmt.Errorf("wire: output dir: %w", err)
			}
		}
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("wire: open output: %w", err)
		}
		closers = append(closers, func() {
			if err := f.Close(); err != nil {
				logger.Warn("close output failed", slog.String("error", err.Error()))
			}
		})
		out = f
	}

	return &Dependencies{
		Contract: d,
		Plans:    plans,
		Output:   out,
	}, cleanup, nil
}
