package curve

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// Point is a payout at an outcome.
type Point struct {
	Outcome uint64
	Payout  decimal.Decimal
}

// Line is the straight segment through two points.
type Line struct {
	p0, p1 Point
}

// NewLine returns the line through p0 and p1. The two outcomes must differ.
func NewLine(p0, p1 Point) (*Line, error) {
	if p0.Outcome == p1.Outcome {
		return nil, fmt.Errorf("curve: line through a single outcome %d: %w", p0.Outcome, domain.ErrInvalidCurve)
	}
	return &Line{p0: p0, p1: p1}, nil
}

// Points returns the defining points.
func (l *Line) Points() (Point, Point) {
	return l.p0, l.p1
}

// Evaluate returns p0.payout + (x - p0.outcome) * dPayout / dOutcome. The
// product is formed before the single division so endpoints evaluate exactly.
func (l *Line) Evaluate(outcome uint64) (decimal.Decimal, error) {
	dx := Outcome(outcome).Sub(Outcome(l.p0.Outcome))
	run := Outcome(l.p1.Outcome).Sub(Outcome(l.p0.Outcome))
	rise := l.p1.Payout.Sub(l.p0.Payout)

	q, err := div(dx.Mul(rise), run)
	if err != nil {
		return decimal.Zero, err
	}
	return l.p0.Payout.Add(q), nil
}

// Invert returns p0.outcome + (payout - p0.payout) * dOutcome / dPayout. A
// flat line has no inverse.
func (l *Line) Invert(payout decimal.Decimal) (decimal.Decimal, error) {
	dy := payout.Sub(l.p0.Payout)
	run := Outcome(l.p1.Outcome).Sub(Outcome(l.p0.Outcome))
	rise := l.p1.Payout.Sub(l.p0.Payout)

	q, err := div(dy.Mul(run), rise)
	if err != nil {
		return decimal.Zero, fmt.Errorf("curve: flat line: %w", err)
	}
	return Outcome(l.p0.Outcome).Add(q), nil
}

func (*Line) isCurve() {}
