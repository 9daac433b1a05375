// Package curve evaluates and inverts the payout curve pieces of a DLC payout
// function. All arithmetic is exact decimal; divisions and square roots are
// performed at fixed precisions so both counterparties derive identical
// values.
package curve

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

const (
	// divisionPrecision is the number of fractional digits kept by every
	// division. It must never change between releases: counterparties on
	// different versions would derive different CET sets.
	divisionPrecision = 32

	// sqrtPrecision is the number of fractional digits of a floor square root.
	sqrtPrecision = 24
)

var (
	two  = decimal.NewFromInt(2)
	four = decimal.NewFromInt(4)

	maxOutcome = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
)

// Curve is one continuous piece of a payout function. The set of
// implementations is closed: Line and Hyperbola.
type Curve interface {
	// Evaluate returns the exact payout at outcome, or ErrNoSolution where the
	// curve is undefined.
	Evaluate(outcome uint64) (decimal.Decimal, error)

	// Invert returns the real-valued outcome at which the curve reaches payout.
	// It fails with ErrNoSolution when no such outcome exists and with
	// ErrUnsupportedInversion when the curve has no closed-form inverse.
	Invert(payout decimal.Decimal) (decimal.Decimal, error)

	isCurve()
}

// InvertOutcome inverts c at payout and converts the result to an integer
// outcome: lines round to the nearest outcome, hyperbolas truncate. Results
// outside the uint64 outcome space are reported as ErrNoSolution.
func InvertOutcome(c Curve, payout decimal.Decimal) (uint64, error) {
	x, err := c.Invert(payout)
	if err != nil {
		return 0, err
	}

	switch c.(type) {
	case *Line:
		x = x.Round(0)
	case *Hyperbola:
		x = x.Truncate(0)
	default:
		return 0, fmt.Errorf("curve: %T: %w", c, domain.ErrUnsupportedInversion)
	}

	if x.IsNegative() || x.GreaterThan(maxOutcome) {
		return 0, fmt.Errorf("curve: outcome %s out of range: %w", x, domain.ErrNoSolution)
	}
	return x.BigInt().Uint64(), nil
}

// Outcome converts an outcome to a decimal.
func Outcome(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

func div(num, den decimal.Decimal) (decimal.Decimal, error) {
	if den.IsZero() {
		return decimal.Zero, domain.ErrNoSolution
	}
	return num.DivRound(den, divisionPrecision), nil
}

// sqrt returns the floor square root of v at sqrtPrecision fractional digits.
func sqrt(v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsNegative() {
		return decimal.Zero, domain.ErrNoSolution
	}
	scaled := v.Shift(2 * sqrtPrecision).BigInt()
	return decimal.NewFromBigInt(new(big.Int).Sqrt(scaled), -sqrtPrecision), nil
}
