package curve

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// Piece is the serialized description of a curve.
type Piece interface {
	ToCurve() (Curve, error)
}

// PayoutPoint is a serialized curve point. The payout is OutcomePayout plus
// ExtraPrecision / 10^16.
type PayoutPoint struct {
	EventOutcome   uint64 `json:"event_outcome"`
	OutcomePayout  uint64 `json:"outcome_payout"`
	ExtraPrecision uint64 `json:"extra_precision"`
}

// Point returns the decimal form of p.
func (p PayoutPoint) Point() Point {
	return Point{
		Outcome: p.EventOutcome,
		Payout:  Outcome(p.OutcomePayout).Add(FromPrecision(p.ExtraPrecision)),
	}
}

// PayoutPointFrom serializes pt. Negative payouts cannot be represented.
func PayoutPointFrom(pt Point) (PayoutPoint, error) {
	if pt.Payout.IsNegative() {
		return PayoutPoint{}, fmt.Errorf("curve: negative payout %s: %w", pt.Payout, domain.ErrInvalidCurve)
	}
	precision, err := GetPrecision(pt.Payout)
	if err != nil {
		return PayoutPoint{}, err
	}
	integer := pt.Payout.Truncate(0)
	if integer.GreaterThan(maxOutcome) {
		return PayoutPoint{}, fmt.Errorf("curve: payout %s: %w", pt.Payout, domain.ErrInvalidCurve)
	}
	return PayoutPoint{
		EventOutcome:   pt.Outcome,
		OutcomePayout:  integer.BigInt().Uint64(),
		ExtraPrecision: precision,
	}, nil
}

// PolynomialPiece is a curve through a list of points. Only two-point
// polynomials (lines) are supported.
type PolynomialPiece struct {
	Points []PayoutPoint `json:"points"`
}

// ToCurve returns the Line through the two points.
func (p PolynomialPiece) ToCurve() (Curve, error) {
	if len(p.Points) != 2 {
		return nil, fmt.Errorf("curve: polynomial with %d points: %w", len(p.Points), domain.ErrUnsupportedInversion)
	}
	for _, pt := range p.Points {
		if pt.ExtraPrecision >= precisionLimit {
			return nil, fmt.Errorf("curve: point at %d: %w", pt.EventOutcome, domain.ErrPrecisionOverflow)
		}
	}
	return NewLine(p.Points[0].Point(), p.Points[1].Point())
}

// PolynomialPieceFrom serializes l.
func PolynomialPieceFrom(l *Line) (PolynomialPiece, error) {
	p0, p1 := l.Points()
	a, err := PayoutPointFrom(p0)
	if err != nil {
		return PolynomialPiece{}, err
	}
	b, err := PayoutPointFrom(p1)
	if err != nil {
		return PolynomialPiece{}, err
	}
	return PolynomialPiece{Points: []PayoutPoint{a, b}}, nil
}

// HyperbolaPiece is the serialized form of a Hyperbola.
type HyperbolaPiece struct {
	UsePositivePiece bool        `json:"use_positive_piece"`
	TranslateOutcome Coefficient `json:"translate_outcome"`
	TranslatePayout  Coefficient `json:"translate_payout"`
	A                Coefficient `json:"a"`
	B                Coefficient `json:"b"`
	C                Coefficient `json:"c"`
	D                Coefficient `json:"d"`
}

// ToCurve decodes the coefficients into a Hyperbola.
func (h HyperbolaPiece) ToCurve() (Curve, error) {
	for _, c := range []Coefficient{h.TranslateOutcome, h.TranslatePayout, h.A, h.B, h.C, h.D} {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return NewHyperbola(HyperbolaParams{
		A:        h.A.Decimal(),
		B:        h.B.Decimal(),
		C:        h.C.Decimal(),
		D:        h.D.Decimal(),
		F1:       h.TranslateOutcome.Decimal(),
		F2:       h.TranslatePayout.Decimal(),
		Positive: h.UsePositivePiece,
	})
}

// HyperbolaPieceFrom serializes h.
func HyperbolaPieceFrom(h *Hyperbola) (HyperbolaPiece, error) {
	p := h.Params()
	values := []decimal.Decimal{p.F1, p.F2, p.A, p.B, p.C, p.D}
	coeffs := make([]Coefficient, len(values))
	for i, v := range values {
		c, err := CoefficientFrom(v)
		if err != nil {
			return HyperbolaPiece{}, err
		}
		coeffs[i] = c
	}
	return HyperbolaPiece{
		UsePositivePiece: p.Positive,
		TranslateOutcome: coeffs[0],
		TranslatePayout:  coeffs[1],
		A:                coeffs[2],
		B:                coeffs[3],
		C:                coeffs[4],
		D:                coeffs[5],
	}, nil
}
