package payout

import (
	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/curve"
)

// RoundPayout rounds payout to the nearest multiple of modulus. Ties go to the
// higher multiple. A zero modulus is treated as 1.
func RoundPayout(payout decimal.Decimal, modulus uint64) decimal.Decimal {
	if modulus == 0 {
		modulus = 1
	}
	m := curve.Outcome(modulus)

	rem := payout.Mod(m)
	if rem.IsNegative() {
		rem = rem.Add(m)
	}
	low := payout.Sub(rem)
	high := low.Add(m)

	if payout.Sub(high).Abs().LessThanOrEqual(payout.Sub(low).Abs()) {
		return high
	}
	return low
}

// clampPayout limits p to [0, total]. p must be integral.
func clampPayout(p decimal.Decimal, total uint64) uint64 {
	if p.Sign() <= 0 {
		return 0
	}
	if p.GreaterThanOrEqual(curve.Outcome(total)) {
		return total
	}
	return p.BigInt().Uint64()
}
