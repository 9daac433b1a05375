package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/dlcplan/internal/contract"
	"github.com/alanyoungcy/dlcplan/internal/digits"
	"github.com/alanyoungcy/dlcplan/internal/domain"
)

const callContract = `
total_collateral = 1000

[oracle]
base = 10
num_digits = 3

[[rounding_intervals]]
begin = 0
modulus = 100

[payout_function]
start = { outcome = 0, payout = 0 }

[[payout_function.pieces]]
type = "line"
end = { outcome = 250, payout = 0 }

[[payout_function.pieces]]
type = "line"
end = { outcome = 750, payout = 1000 }

[[payout_function.pieces]]
type = "line"
end = { outcome = 999, payout = 1000 }
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parse(t *testing.T, text string) *contract.Descriptor {
	t.Helper()
	d, err := contract.Parse(text)
	require.NoError(t, err)
	return d
}

func TestPlanServiceBuild(t *testing.T) {
	d := parse(t, callContract)
	svc := NewPlanService(PlanConfig{Parallel: true, MaxWorkers: 4}, testLogger())

	plan, err := svc.Build(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, 10, plan.Base)
	require.Equal(t, 3, plan.NumDigits)
	require.Equal(t, uint64(1000), plan.TotalCollateral)
	require.NotEmpty(t, plan.ID)
	require.Len(t, plan.Fingerprint, 64)

	// Every outcome is settled by exactly one CET carrying its range's payout.
	for x := uint64(0); x <= d.MaxOutcome(); x++ {
		ds, err := digits.Decompose(x, plan.Base, plan.NumDigits)
		require.NoError(t, err)
		hits := 0
		for _, o := range plan.Outcomes {
			for _, p := range o.Prefixes {
				if hasPrefix(ds, p) {
					hits++
					require.True(t, o.Range.Contains(x), "outcome %d matched outside %s", x, o.Range)
				}
			}
		}
		require.Equal(t, 1, hits, "outcome %d", x)
	}

	first, last := plan.Outcomes[0], plan.Outcomes[len(plan.Outcomes)-1]
	require.Equal(t, domain.PayoutRange{From: 0, To: 274, Payout: 0}, first.Range)
	require.Equal(t, domain.PayoutRange{From: 725, To: 999, Payout: 1000}, last.Range)
}

func TestPlanServiceDeterministic(t *testing.T) {
	d := parse(t, callContract)

	var fingerprints []string
	for i, cfg := range []PlanConfig{{}, {Parallel: true}, {Parallel: true, MaxWorkers: 2}} {
		t.Run(fmt.Sprintf("[%d]parallel=%t", i, cfg.Parallel), func(t *testing.T) {
			plan, err := NewPlanService(cfg, testLogger()).Build(context.Background(), d)
			require.NoError(t, err)
			fingerprints = append(fingerprints, plan.Fingerprint)
		})
	}
	require.Len(t, fingerprints, 3)
	require.Equal(t, fingerprints[0], fingerprints[1])
	require.Equal(t, fingerprints[0], fingerprints[2])
}

func TestPlanServiceVerify(t *testing.T) {
	d := parse(t, callContract)
	svc := NewPlanService(PlanConfig{}, testLogger())

	plan, err := svc.Build(context.Background(), d)
	require.NoError(t, err)

	got, err := svc.Verify(context.Background(), d, plan.Fingerprint)
	require.NoError(t, err)
	require.Equal(t, plan.ID, got.ID)

	_, err = svc.Verify(context.Background(), d, " "+strings.ToUpper(plan.Fingerprint)+"\n")
	require.NoError(t, err)

	other := parse(t, strings.Replace(callContract, "modulus = 100", "modulus = 50", 1))
	got, err = svc.Verify(context.Background(), other, plan.Fingerprint)
	require.ErrorIs(t, err, domain.ErrFingerprintMismatch)
	require.NotNil(t, got)
	require.NotEqual(t, plan.Fingerprint, got.Fingerprint)
}

func TestPlanServiceInvalidContract(t *testing.T) {
	d := parse(t, strings.Replace(callContract, "outcome = 999,", "outcome = 900,", 1))
	svc := NewPlanService(PlanConfig{}, testLogger())

	_, err := svc.Build(context.Background(), d)
	require.ErrorIs(t, err, domain.ErrInvalidContract)
}

func TestPlanServiceUnsupportedCurve(t *testing.T) {
	text := strings.Replace(callContract, `type = "line"
end = { outcome = 750, payout = 1000 }`, `type = "hyperbola"
use_positive_piece = true
a = "1"
c = "0.5"
d = "-1"
end = { outcome = 750, payout = 1000 }`, 1)
	require.NotEqual(t, callContract, text)
	d := parse(t, text)

	_, err := NewPlanService(PlanConfig{Parallel: true}, testLogger()).Build(context.Background(), d)
	require.ErrorIs(t, err, domain.ErrUnsupportedInversion)
}

func TestPlanServiceGroups(t *testing.T) {
	d := parse(t, callContract)
	svc := NewPlanService(PlanConfig{}, testLogger())

	groups, err := svc.Groups(d, 100, 200)
	require.NoError(t, err)
	require.Equal(t, []domain.DigitPrefix{{1}, {2, 0, 0}}, groups)

	_, err = svc.Groups(d, 10, 1000)
	require.ErrorIs(t, err, domain.ErrInvalidDomain)
}

func hasPrefix(ds []int, prefix domain.DigitPrefix) bool {
	for i, d := range prefix {
		if ds[i] != d {
			return false
		}
	}
	return true
}
