// Package payout turns payout curves into the ordered list of outcome ranges
// that share one rounded payout. The work per curve piece is proportional to
// the number of distinct rounded payouts, not to the size of the outcome
// domain.
package payout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/curve"
	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// maxCorrection bounds the linear off-by-one walks around an inverted
// boundary before falling back to bisection.
const maxCorrection = 64

var half = decimal.New(5, -1)

// SplitIntoRanges partitions [from, to] into ranges of constant rounded payout
// for curve c. The payout at from is fromPayout and at to is toPayout,
// whatever the curve yields there. Every other outcome x is paid
// RoundPayout(c(x), modulus(x)) clamped to [0, totalCollateral]. Outcomes
// before the first one whose raw payout lies within [0, totalCollateral] are
// paid fromPayout.
//
// intervals is copied and sorted; the caller's slice is not modified. Curves
// without a closed-form inverse fail with ErrUnsupportedInversion; their
// ranges are never approximated by scanning.
func SplitIntoRanges(
	from, to uint64,
	fromPayout, toPayout, totalCollateral uint64,
	c curve.Curve,
	intervals domain.RoundingIntervals,
) ([]domain.PayoutRange, error) {
	if to <= from {
		return nil, fmt.Errorf("payout: range [%d, %d]: %w", from, to, domain.ErrInvalidDomain)
	}
	if fromPayout > totalCollateral || toPayout > totalCollateral {
		return nil, fmt.Errorf("payout: boundary payouts %d, %d exceed collateral %d: %w",
			fromPayout, toPayout, totalCollateral, domain.ErrInvalidDomain)
	}
	if err := intervals.Validate(); err != nil {
		return nil, fmt.Errorf("payout: %w", err)
	}

	if _, err := curve.InvertOutcome(c, curve.Outcome(totalCollateral)); errors.Is(err, domain.ErrUnsupportedInversion) {
		return nil, fmt.Errorf("payout: [%d, %d]: %w", from, to, err)
	}

	s := &splitter{
		curve:     c,
		total:     totalCollateral,
		totalDec:  curve.Outcome(totalCollateral),
		intervals: intervals.Sorted(),
	}

	start, ok, err := s.findStart(from, to)
	if err != nil {
		return nil, fmt.Errorf("payout: [%d, %d]: %w", from, to, err)
	}
	if !ok {
		return nil, fmt.Errorf("payout: [%d, %d]: %w", from, to, domain.ErrNoValidOutcome)
	}
	if start > from {
		s.emit(from, start-1, fromPayout)
	}

	for x := start; ; {
		end := to
		if next, ok := s.intervals.NextBegin(x); ok && next-1 < end {
			end = next - 1
		}
		if err := s.walk(x, end, s.intervals.ModulusAt(x)); err != nil {
			return nil, fmt.Errorf("payout: [%d, %d]: %w", x, end, err)
		}
		if end == to {
			break
		}
		x = end + 1
	}

	ranges := pinBoundaries(s.ranges, from, fromPayout, to, toPayout)
	return MergePayouts(ranges), nil
}

type splitter struct {
	curve     curve.Curve
	total     uint64
	totalDec  decimal.Decimal
	intervals domain.RoundingIntervals

	ranges []domain.PayoutRange
	last   uint64
	dir    int
}

func (s *splitter) value(x uint64) (decimal.Decimal, bool) {
	v, err := s.curve.Evaluate(x)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func (s *splitter) inCollateral(x uint64) bool {
	v, ok := s.value(x)
	return ok && v.Sign() >= 0 && v.LessThanOrEqual(s.totalDec)
}

// rounded returns the clamped rounded payout at x.
func (s *splitter) rounded(x, modulus uint64) (uint64, bool) {
	v, ok := s.value(x)
	if !ok {
		return 0, false
	}
	return clampPayout(RoundPayout(v, modulus), s.total), true
}

func (s *splitter) emit(from, to, payout uint64) {
	s.ranges = append(s.ranges, domain.PayoutRange{From: from, To: to, Payout: payout})
	s.last = payout
}

// findStart returns an outcome in [from, to] whose raw payout lies within
// collateral. Candidates are from+1 and the inverses of both collateral
// bounds; each is moved forward to a valid outcome and then back while its
// predecessor is still valid. Only ErrNoSolution from the inversion is
// tolerated.
func (s *splitter) findStart(from, to uint64) (uint64, bool, error) {
	if s.inCollateral(from) {
		return from, true, nil
	}

	candidates := []uint64{from + 1}
	for _, p := range []decimal.Decimal{s.totalDec, decimal.Zero} {
		y, err := curve.InvertOutcome(s.curve, p)
		switch {
		case err == nil:
			candidates = append(candidates, min(max(y, from), to))
		case !errors.Is(err, domain.ErrNoSolution):
			return 0, false, err
		}
	}

	var best uint64
	found := false
	for _, y := range candidates {
		for i := 0; i < maxCorrection && y < to && !s.inCollateral(y); i++ {
			y++
		}
		if !s.inCollateral(y) {
			continue
		}
		for i := 0; i < maxCorrection && y > from && s.inCollateral(y-1); i++ {
			y--
		}
		if !found || y < best {
			best, found = y, true
		}
	}
	return best, found, nil
}

// walk emits ranges covering [x, end], all of which share modulus.
func (s *splitter) walk(x, end, modulus uint64) error {
	for {
		v, ok := s.value(x)
		if !ok {
			s.emit(x, end, s.undefinedPayout())
			return nil
		}
		r := clampPayout(RoundPayout(v, modulus), s.total)
		if x == end {
			s.emit(x, x, r)
			return nil
		}

		dir := s.direction(x, end, v)
		if dir == 0 {
			s.emit(x, end, r)
			return nil
		}
		s.dir = dir

		b, found, err := s.boundary(x, end, r, modulus, dir)
		if err != nil {
			return err
		}
		if !found {
			s.emit(x, end, r)
			return nil
		}
		s.emit(x, b-1, r)
		x = b
	}
}

// undefinedPayout is paid where the curve has no value: the collateral bound
// the curve was heading towards, or the previous payout when no direction has
// been observed.
func (s *splitter) undefinedPayout() uint64 {
	switch {
	case s.dir > 0:
		return s.total
	case s.dir < 0:
		return 0
	default:
		return s.last
	}
}

// direction compares the curve at x with the end of the segment, falling back
// to x+1 when the end is undefined.
func (s *splitter) direction(x, end uint64, v decimal.Decimal) int {
	if ve, ok := s.value(end); ok {
		return ve.Cmp(v)
	}
	if v1, ok := s.value(x + 1); ok {
		return v1.Cmp(v)
	}
	return 0
}

// boundary returns the first outcome in (x, end] whose rounded payout differs
// from r. The inverse at the midpoint between r and its neighbour in the
// direction of travel is used as a starting guess and corrected against the
// curve. Bisection stands in for the guess only when the inversion has no
// solution.
func (s *splitter) boundary(x, end, r, modulus uint64, dir int) (uint64, bool, error) {
	crossed := func(y uint64) bool {
		p, ok := s.rounded(y, modulus)
		return !ok || p != r
	}

	target := curve.Outcome(r).Add(curve.Outcome(modulus).Mul(half))
	if dir < 0 {
		target = curve.Outcome(r).Sub(curve.Outcome(modulus).Mul(half))
	}

	y, err := curve.InvertOutcome(s.curve, target)
	if err != nil {
		if !errors.Is(err, domain.ErrNoSolution) {
			return 0, false, err
		}
		if !crossed(end) {
			return 0, false, nil
		}
		return bisect(x+1, end, crossed), true, nil
	}
	y = min(max(y, x+1), end)

	if crossed(y) {
		for i := 0; i < maxCorrection; i++ {
			if y == x+1 || !crossed(y-1) {
				return y, true, nil
			}
			y--
		}
		return bisect(x+1, y, crossed), true, nil
	}

	for i := 0; i < maxCorrection; i++ {
		if y == end {
			return 0, false, nil
		}
		y++
		if crossed(y) {
			return y, true, nil
		}
	}
	if !crossed(end) {
		return 0, false, nil
	}
	return bisect(y+1, end, crossed), true, nil
}

// bisect returns the smallest y in [lo, hi] with pred(y). pred(hi) must hold
// and pred must be monotone over the interval.
func bisect(lo, hi uint64, pred func(uint64) bool) uint64 {
	for lo < hi {
		mid := lo + (hi-lo)/2
		if pred(mid) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// pinBoundaries forces the payouts at from and to, splitting the first or
// last range when needed.
func pinBoundaries(ranges []domain.PayoutRange, from, fromPayout, to, toPayout uint64) []domain.PayoutRange {
	out := make([]domain.PayoutRange, 0, len(ranges)+2)

	first := ranges[0]
	if first.Payout != fromPayout {
		out = append(out, domain.PayoutRange{From: from, To: from, Payout: fromPayout})
		first.From = from + 1
	}
	if first.From <= first.To {
		out = append(out, first)
	}
	out = append(out, ranges[1:]...)

	n := len(out) - 1
	last := out[n]
	if last.Payout != toPayout {
		if last.From == to {
			out[n].Payout = toPayout
		} else {
			out[n].To = to - 1
			out = append(out, domain.PayoutRange{From: to, To: to, Payout: toPayout})
		}
	}
	return out
}
