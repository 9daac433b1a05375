package payout

import "github.com/alanyoungcy/dlcplan/internal/domain"

// MergePayouts coalesces adjacent ranges that share a payout. The input is not
// modified.
func MergePayouts(ranges []domain.PayoutRange) []domain.PayoutRange {
	out := make([]domain.PayoutRange, 0, len(ranges))
	for _, r := range ranges {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Payout == r.Payout && last.To+1 == r.From {
				last.To = r.To
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
