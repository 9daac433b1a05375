package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// rangesReport is the output of ranges mode.
type rangesReport struct {
	Count  int                  `json:"count"`
	Ranges []domain.PayoutRange `json:"ranges"`
}

// groupsReport is the output of groups mode.
type groupsReport struct {
	From     uint64               `json:"from"`
	To       uint64               `json:"to"`
	Prefixes []domain.DigitPrefix `json:"prefixes"`
}

// verifyReport is the output of verify mode. It is written on mismatch too so
// the operator can see both fingerprints.
type verifyReport struct {
	ID       string `json:"id"`
	Expected string `json:"expected"`
	Computed string `json:"computed"`
	Verified bool   `json:"verified"`
	Ranges   int    `json:"ranges"`
	CETs     int    `json:"cets"`
}

// PlanMode builds the full CET plan and writes it.
func (a *App) PlanMode(ctx context.Context, deps *Dependencies) error {
	plan, err := deps.Plans.Build(ctx, deps.Contract)
	if err != nil {
		return fmt.Errorf("app: plan: %w", err)
	}
	return a.write(deps.Output, plan)
}

// RangesMode writes only the merged payout ranges, skipping digit grouping.
func (a *App) RangesMode(ctx context.Context, deps *Dependencies) error {
	ranges, err := deps.Plans.Ranges(ctx, deps.Contract)
	if err != nil {
		return fmt.Errorf("app: ranges: %w", err)
	}
	return a.write(deps.Output, rangesReport{Count: len(ranges), Ranges: ranges})
}

// GroupsMode writes the digit prefixes covering the configured outcome range.
func (a *App) GroupsMode(ctx context.Context, deps *Dependencies) error {
	from, to := a.cfg.Groups.From, a.cfg.Groups.To
	prefixes, err := deps.Plans.Groups(deps.Contract, from, to)
	if err != nil {
		return fmt.Errorf("app: groups: %w", err)
	}
	a.logger.DebugContext(ctx, "groups computed",
		slog.Uint64("from", from),
		slog.Uint64("to", to),
		slog.Int("prefixes", len(prefixes)),
	)
	return a.write(deps.Output, groupsReport{From: from, To: to, Prefixes: prefixes})
}

// VerifyMode rebuilds the plan and compares it with the configured
// fingerprint. A mismatch is reported and returned as an error.
func (a *App) VerifyMode(ctx context.Context, deps *Dependencies) error {
	expected := a.cfg.Verify.Fingerprint
	plan, err := deps.Plans.Verify(ctx, deps.Contract, expected)
	if err != nil && !errors.Is(err, domain.ErrFingerprintMismatch) {
		return fmt.Errorf("app: verify: %w", err)
	}

	report := verifyReport{
		ID:       plan.ID,
		Expected: expected,
		Computed: plan.Fingerprint,
		Verified: err == nil,
		Ranges:   len(plan.Outcomes),
		CETs:     plan.PrefixCount(),
	}
	if werr := a.write(deps.Output, report); werr != nil {
		return werr
	}
	if err != nil {
		return fmt.Errorf("app: verify: %w", err)
	}
	return nil
}

func (a *App) write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if a.cfg.Output.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("app: write output: %w", err)
	}
	return nil
}
