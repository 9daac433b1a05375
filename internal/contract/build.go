package contract

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/dlcplan/internal/curve"
	"github.com/alanyoungcy/dlcplan/internal/digits"
	"github.com/alanyoungcy/dlcplan/internal/domain"
	"github.com/alanyoungcy/dlcplan/internal/payout"
)

// MaxOutcome returns the largest outcome the oracle can attest to.
func (d *Descriptor) MaxOutcome() uint64 {
	return digits.MaxOutcome(d.Oracle.Base, d.Oracle.NumDigits)
}

// Intervals returns the rounding policy.
func (d *Descriptor) Intervals() domain.RoundingIntervals {
	out := make(domain.RoundingIntervals, len(d.RoundingIntervals))
	for i, in := range d.RoundingIntervals {
		out[i] = domain.RoundingInterval{Begin: in.Begin, Modulus: in.Modulus}
	}
	return out
}

// Validate returns every problem with the descriptor in one error wrapping
// ErrInvalidContract. A valid payout function covers the whole outcome domain:
// an outcome without a CET could not be settled.
func (d *Descriptor) Validate() error {
	var errs []string

	if d.Oracle.Base < 2 {
		errs = append(errs, fmt.Sprintf("oracle: base must be >= 2, got %d", d.Oracle.Base))
	}
	if d.Oracle.NumDigits < 1 {
		errs = append(errs, fmt.Sprintf("oracle: num_digits must be >= 1, got %d", d.Oracle.NumDigits))
	}
	if d.TotalCollateral == 0 {
		errs = append(errs, "total_collateral must be > 0")
	}
	if err := d.Intervals().Validate(); err != nil {
		errs = append(errs, "rounding_intervals: "+err.Error())
	}

	pf := d.PayoutFunction
	if len(pf.Pieces) == 0 {
		errs = append(errs, "payout_function: no pieces")
	} else if d.Oracle.Base >= 2 && d.Oracle.NumDigits >= 1 {
		from, to := pf.Start.Outcome, pf.Pieces[len(pf.Pieces)-1].End.Outcome
		if from != 0 || to != d.MaxOutcome() {
			errs = append(errs, fmt.Sprintf("payout_function: spans [%d, %d], must span [0, %d]", from, to, d.MaxOutcome()))
		}
	}
	if _, err := d.Function(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", domain.ErrInvalidContract, strings.Join(errs, "\n  - "))
	}
	return nil
}

// Function builds the payout function. It fails on unknown piece types,
// malformed coefficients, and endpoints that are out of order or exceed the
// collateral.
func (d *Descriptor) Function() (payout.Function, error) {
	pf := d.PayoutFunction
	f := payout.Function{
		Start:  payout.Endpoint(pf.Start),
		Pieces: make([]payout.Piece, 0, len(pf.Pieces)),
	}

	prev := pf.Start
	for i, p := range pf.Pieces {
		c, err := p.toCurve(prev)
		if err != nil {
			return payout.Function{}, fmt.Errorf("payout_function: piece %d (%s): %w", i, p.Type, err)
		}
		f.Pieces = append(f.Pieces, payout.Piece{Curve: c, End: payout.Endpoint(p.End)})
		prev = p.End
	}

	if err := f.Validate(d.TotalCollateral); err != nil {
		return payout.Function{}, fmt.Errorf("payout_function: %w", err)
	}
	return f, nil
}

func (p Piece) toCurve(prev Endpoint) (curve.Curve, error) {
	switch p.Type {
	case PieceLine:
		return curve.NewLine(
			curve.Point{Outcome: prev.Outcome, Payout: curve.Outcome(prev.Payout)},
			curve.Point{Outcome: p.End.Outcome, Payout: curve.Outcome(p.End.Payout)},
		)

	case PiecePolynomial:
		wire := curve.PolynomialPiece{Points: make([]curve.PayoutPoint, len(p.Points))}
		for i, pt := range p.Points {
			wire.Points[i] = curve.PayoutPoint(pt)
		}
		if n := len(wire.Points); n > 0 && (wire.Points[0].EventOutcome != prev.Outcome || wire.Points[n-1].EventOutcome != p.End.Outcome) {
			return nil, fmt.Errorf("points must start at %d and end at %d: %w", prev.Outcome, p.End.Outcome, domain.ErrInvalidCurve)
		}
		return wire.ToCurve()

	case PieceHyperbola:
		values := []Number{p.TranslateOutcome, p.TranslatePayout, p.A, p.B, p.C, p.D}
		coeffs := make([]curve.Coefficient, len(values))
		for i, n := range values {
			c, err := curve.CoefficientFrom(n.Value)
			if err != nil {
				return nil, err
			}
			coeffs[i] = c
		}
		wire := curve.HyperbolaPiece{
			UsePositivePiece: p.UsePositivePiece,
			TranslateOutcome: coeffs[0],
			TranslatePayout:  coeffs[1],
			A:                coeffs[2],
			B:                coeffs[3],
			C:                coeffs[4],
			D:                coeffs[5],
		}
		return wire.ToCurve()

	default:
		return nil, fmt.Errorf("unknown piece type %q: %w", p.Type, domain.ErrInvalidCurve)
	}
}
