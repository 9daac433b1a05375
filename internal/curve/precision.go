package curve

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// PrecisionDigits is the number of fractional decimal digits carried by the
// extra-precision fields of serialized payout curves.
const PrecisionDigits = 16

// precisionLimit is 10^PrecisionDigits.
const precisionLimit uint64 = 10_000_000_000_000_000

// FromPrecision returns p / 10^16.
func FromPrecision(p uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(p), -PrecisionDigits)
}

// GetPrecision returns the fractional part of |x| as an integer count of
// 10^-16 units. It fails with ErrPrecisionOverflow when x carries more than
// 16 fractional digits.
func GetPrecision(x decimal.Decimal) (uint64, error) {
	abs := x.Abs()
	scaled := abs.Sub(abs.Truncate(0)).Shift(PrecisionDigits)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("curve: %s: %w", x, domain.ErrPrecisionOverflow)
	}
	return scaled.BigInt().Uint64(), nil
}

// Coefficient is the serialized form of a signed hyperbola coefficient:
// an integer part plus a 16-digit fractional part.
type Coefficient struct {
	Negative  bool   `json:"negative"`
	Integer   uint64 `json:"integer"`
	Precision uint64 `json:"precision"`
}

// Validate rejects fractional parts that do not fit in 16 digits.
func (c Coefficient) Validate() error {
	if c.Precision >= precisionLimit {
		return fmt.Errorf("curve: coefficient precision %d: %w", c.Precision, domain.ErrPrecisionOverflow)
	}
	return nil
}

// Decimal returns the coefficient value.
func (c Coefficient) Decimal() decimal.Decimal {
	d := Outcome(c.Integer).Add(FromPrecision(c.Precision))
	if c.Negative {
		return d.Neg()
	}
	return d
}

// CoefficientFrom splits d into its serialized form.
func CoefficientFrom(d decimal.Decimal) (Coefficient, error) {
	precision, err := GetPrecision(d)
	if err != nil {
		return Coefficient{}, err
	}
	integer := d.Abs().Truncate(0)
	if integer.GreaterThan(maxOutcome) {
		return Coefficient{}, fmt.Errorf("curve: coefficient %s exceeds integer range: %w", d, domain.ErrInvalidCurve)
	}
	return Coefficient{
		Negative:  d.IsNegative(),
		Integer:   integer.BigInt().Uint64(),
		Precision: precision,
	}, nil
}
