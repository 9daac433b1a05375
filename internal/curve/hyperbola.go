package curve

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// HyperbolaParams are the coefficients of
//
//	payout(x) = c*u/(2a) + 2ad/u + f2,  u = (x-f1) ± sqrt((x-f1)^2 - 4ab)
//
// Positive selects the + root. With b = c = 0 the curve reduces to the
// translated rectangular hyperbola a*d/(x-f1) + f2.
type HyperbolaParams struct {
	A, B, C, D decimal.Decimal
	F1, F2     decimal.Decimal
	Positive   bool
}

// Hyperbola is a HyperbolaParams curve.
type Hyperbola struct {
	p HyperbolaParams
}

// NewHyperbola validates p and returns the curve. a must be non-zero.
func NewHyperbola(p HyperbolaParams) (*Hyperbola, error) {
	if p.A.IsZero() {
		return nil, fmt.Errorf("curve: hyperbola with a = 0: %w", domain.ErrInvalidCurve)
	}
	return &Hyperbola{p: p}, nil
}

// Params returns the coefficients.
func (h *Hyperbola) Params() HyperbolaParams {
	return h.p
}

// Evaluate returns the payout at outcome. The curve is undefined on its
// asymptote and where the discriminant is negative.
func (h *Hyperbola) Evaluate(outcome uint64) (decimal.Decimal, error) {
	p := h.p
	s := Outcome(outcome).Sub(p.F1)

	var root decimal.Decimal
	if p.B.IsZero() {
		root = s.Abs()
	} else {
		var err error
		root, err = sqrt(s.Mul(s).Sub(four.Mul(p.A).Mul(p.B)))
		if err != nil {
			return decimal.Zero, fmt.Errorf("curve: hyperbola at %d: negative discriminant: %w", outcome, err)
		}
	}
	if !p.Positive {
		root = root.Neg()
	}

	u := s.Add(root)
	second, err := div(two.Mul(p.A).Mul(p.D), u)
	if err != nil {
		return decimal.Zero, fmt.Errorf("curve: hyperbola at %d: asymptote: %w", outcome, err)
	}
	payout := second.Add(p.F2)

	if !p.C.IsZero() {
		first, err := div(p.C.Mul(u), two.Mul(p.A))
		if err != nil {
			return decimal.Zero, err
		}
		payout = payout.Add(first)
	}
	return payout, nil
}

// Invert solves payout(x) = y for x. Only c = 0 has a closed form:
//
//	x = (-a*d^2 - b*f2^2 + 2*b*f2*y - b*y^2 + d*f1*f2 - d*f1*y) / (d*(f2 - y))
func (h *Hyperbola) Invert(y decimal.Decimal) (decimal.Decimal, error) {
	p := h.p
	if !p.C.IsZero() {
		return decimal.Zero, fmt.Errorf("curve: hyperbola with c = %s: %w", p.C, domain.ErrUnsupportedInversion)
	}

	num := p.A.Mul(p.D).Mul(p.D).Neg().
		Sub(p.B.Mul(p.F2).Mul(p.F2)).
		Add(two.Mul(p.B).Mul(p.F2).Mul(y)).
		Sub(p.B.Mul(y).Mul(y)).
		Add(p.D.Mul(p.F1).Mul(p.F2)).
		Sub(p.D.Mul(p.F1).Mul(y))
	den := p.D.Mul(p.F2.Sub(y))

	x, err := div(num, den)
	if err != nil {
		return decimal.Zero, fmt.Errorf("curve: hyperbola never reaches %s: %w", y, err)
	}
	return x, nil
}

func (*Hyperbola) isCurve() {}
