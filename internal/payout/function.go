package payout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/dlcplan/internal/curve"
	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// Endpoint is an outcome with the exact payout a contract assigns to it.
type Endpoint struct {
	Outcome uint64
	Payout  uint64
}

// Piece is one curve of a piecewise payout function. It covers the outcomes
// from the previous piece's End (or the function Start) through End.
type Piece struct {
	Curve curve.Curve
	End   Endpoint
}

// Function is a piecewise payout function.
type Function struct {
	Start  Endpoint
	Pieces []Piece
}

// Options controls how pieces are evaluated. Results do not depend on them.
type Options struct {
	Parallel   bool
	MaxWorkers int
}

// Validate checks that the pieces are present, their endpoints strictly
// increase, and no endpoint pays more than totalCollateral.
func (f Function) Validate(totalCollateral uint64) error {
	if len(f.Pieces) == 0 {
		return fmt.Errorf("payout: function has no pieces: %w", domain.ErrInvalidCurve)
	}
	if f.Start.Payout > totalCollateral {
		return fmt.Errorf("payout: start payout %d exceeds collateral %d: %w", f.Start.Payout, totalCollateral, domain.ErrInvalidCurve)
	}
	prev := f.Start
	for i, p := range f.Pieces {
		if p.Curve == nil {
			return fmt.Errorf("payout: piece %d has no curve: %w", i, domain.ErrInvalidCurve)
		}
		if p.End.Outcome <= prev.Outcome {
			return fmt.Errorf("payout: piece %d ends at %d, not after %d: %w", i, p.End.Outcome, prev.Outcome, domain.ErrInvalidCurve)
		}
		if p.End.Payout > totalCollateral {
			return fmt.Errorf("payout: piece %d end payout %d exceeds collateral %d: %w", i, p.End.Payout, totalCollateral, domain.ErrInvalidCurve)
		}
		prev = p.End
	}
	return nil
}

// Span returns the first and last outcome covered by f.
func (f Function) Span() (uint64, uint64) {
	if len(f.Pieces) == 0 {
		return f.Start.Outcome, f.Start.Outcome
	}
	return f.Start.Outcome, f.Pieces[len(f.Pieces)-1].End.Outcome
}

// Ranges splits every piece and returns the merged, ordered ranges of the
// whole function. Pieces after the first drop their first outcome, which the
// previous piece already reports at its end payout. With opts.Parallel the
// pieces are split concurrently; the output is identical either way.
func (f Function) Ranges(ctx context.Context, totalCollateral uint64, intervals domain.RoundingIntervals, opts Options) ([]domain.PayoutRange, error) {
	if err := f.Validate(totalCollateral); err != nil {
		return nil, err
	}

	results := make([][]domain.PayoutRange, len(f.Pieces))

	g, ctx := errgroup.WithContext(ctx)
	switch {
	case !opts.Parallel:
		g.SetLimit(1)
	case opts.MaxWorkers > 0:
		g.SetLimit(opts.MaxWorkers)
	}

	prev := f.Start
	for i, p := range f.Pieces {
		begin := prev
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ranges, err := SplitIntoRanges(begin.Outcome, p.End.Outcome, begin.Payout, p.End.Payout, totalCollateral, p.Curve, intervals)
			if err != nil {
				return fmt.Errorf("payout: split piece %d: %w", i, err)
			}
			if i > 0 {
				ranges = dropFirstOutcome(ranges)
			}
			results[i] = ranges
			return nil
		})
		prev = p.End
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.PayoutRange
	for _, r := range results {
		all = append(all, r...)
	}
	return MergePayouts(all), nil
}

func dropFirstOutcome(ranges []domain.PayoutRange) []domain.PayoutRange {
	if len(ranges) == 0 {
		return ranges
	}
	if ranges[0].From == ranges[0].To {
		return ranges[1:]
	}
	out := make([]domain.PayoutRange, len(ranges))
	copy(out, ranges)
	out[0].From++
	return out
}
