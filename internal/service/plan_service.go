package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/dlcplan/internal/contract"
	"github.com/alanyoungcy/dlcplan/internal/crypto"
	"github.com/alanyoungcy/dlcplan/internal/digits"
	"github.com/alanyoungcy/dlcplan/internal/domain"
	"github.com/alanyoungcy/dlcplan/internal/payout"
)

// PlanConfig holds the tunables of plan construction. They affect speed only;
// the plan is identical for every setting.
type PlanConfig struct {
	Parallel   bool
	MaxWorkers int
}

// PlanService turns contract descriptors into CET plans.
type PlanService struct {
	cfg    PlanConfig
	logger *slog.Logger
}

// NewPlanService creates a PlanService.
func NewPlanService(cfg PlanConfig, logger *slog.Logger) *PlanService {
	return &PlanService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "plan_service")),
	}
}

// Ranges validates d and returns the merged payout ranges of its payout
// function.
func (s *PlanService) Ranges(ctx context.Context, d *contract.Descriptor) ([]domain.PayoutRange, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	f, err := d.Function()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ranges, err := f.Ranges(ctx, d.TotalCollateral, d.Intervals(), payout.Options{
		Parallel:   s.cfg.Parallel,
		MaxWorkers: s.cfg.MaxWorkers,
	})
	if err != nil {
		return nil, fmt.Errorf("plan_service: ranges: %w", err)
	}

	s.logger.DebugContext(ctx, "plan_service: ranges computed",
		slog.Int("pieces", len(f.Pieces)),
		slog.Int("ranges", len(ranges)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return ranges, nil
}

// Groups returns the digit prefixes covering [from, to] in the oracle
// decomposition of d.
func (s *PlanService) Groups(d *contract.Descriptor, from, to uint64) ([]domain.DigitPrefix, error) {
	groups, err := digits.GroupByIgnoringDigits(from, to, d.Oracle.Base, d.Oracle.NumDigits)
	if err != nil {
		return nil, fmt.Errorf("plan_service: groups [%d, %d]: %w", from, to, err)
	}
	return groups, nil
}

// Build computes the full CET plan of d: every payout range with the digit
// prefixes that settle it, stamped with its fingerprint and ID.
func (s *PlanService) Build(ctx context.Context, d *contract.Descriptor) (*domain.CETPlan, error) {
	ranges, err := s.Ranges(ctx, d)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcomes := make([]domain.CETOutcome, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	switch {
	case !s.cfg.Parallel:
		g.SetLimit(1)
	case s.cfg.MaxWorkers > 0:
		g.SetLimit(s.cfg.MaxWorkers)
	}
	for i, r := range ranges {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prefixes, err := s.Groups(d, r.From, r.To)
			if err != nil {
				return err
			}
			outcomes[i] = domain.CETOutcome{Range: r, Prefixes: prefixes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := &domain.CETPlan{
		Base:            d.Oracle.Base,
		NumDigits:       d.Oracle.NumDigits,
		TotalCollateral: d.TotalCollateral,
		Outcomes:        outcomes,
	}
	crypto.Stamp(plan)

	s.logger.InfoContext(ctx, "plan_service: plan built",
		slog.String("plan_id", plan.ID),
		slog.String("fingerprint", plan.Fingerprint),
		slog.Int("ranges", len(plan.Outcomes)),
		slog.Int("cets", plan.PrefixCount()),
		slog.Duration("grouping_elapsed", time.Since(start)),
	)
	return plan, nil
}

// Verify rebuilds the plan of d and checks it against the fingerprint a
// counterparty reported. The rebuilt plan is returned in both cases.
func (s *PlanService) Verify(ctx context.Context, d *contract.Descriptor, expected string) (*domain.CETPlan, error) {
	plan, err := s.Build(ctx, d)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(expected), plan.Fingerprint) {
		s.logger.WarnContext(ctx, "plan_service: fingerprint mismatch",
			slog.String("expected", expected),
			slog.String("computed", plan.Fingerprint),
		)
		return plan, fmt.Errorf("plan_service: expected %s, computed %s: %w", expected, plan.Fingerprint, domain.ErrFingerprintMismatch)
	}
	s.logger.InfoContext(ctx, "plan_service: fingerprint verified", slog.String("plan_id", plan.ID))
	return plan, nil
}
