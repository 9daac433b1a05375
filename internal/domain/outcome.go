package domain

import (
	"fmt"
	"sort"
)

// RoundingInterval applies Modulus to every outcome from Begin up to the next
// interval's Begin.
type RoundingInterval struct {
	Begin   uint64
	Modulus uint64
}

// RoundingIntervals is a rounding policy. Lookups expect ascending Begin order;
// use Sorted to obtain an ordered copy of caller-supplied intervals.
type RoundingIntervals []RoundingInterval

// Validate reports ErrInvalidRounding for an empty policy or a zero modulus.
func (ri RoundingIntervals) Validate() error {
	if len(ri) == 0 {
		return fmt.Errorf("%w: no intervals", ErrInvalidRounding)
	}
	for i, in := range ri {
		if in.Modulus == 0 {
			return fmt.Errorf("%w: interval %d (begin %d) has zero modulus", ErrInvalidRounding, i, in.Begin)
		}
	}
	return nil
}

// Sorted returns an ascending copy. The receiver is left untouched.
func (ri RoundingIntervals) Sorted() RoundingIntervals {
	out := make(RoundingIntervals, len(ri))
	copy(out, ri)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Begin < out[j].Begin })
	return out
}

// ModulusAt returns the modulus of the interval with the greatest Begin <= x,
// or 1 when no interval starts at or before x.
func (ri RoundingIntervals) ModulusAt(x uint64) uint64 {
	i := sort.Search(len(ri), func(i int) bool { return ri[i].Begin > x })
	if i == 0 {
		return 1
	}
	return ri[i-1].Modulus
}

// NextBegin returns the smallest Begin strictly greater than x.
func (ri RoundingIntervals) NextBegin(x uint64) (uint64, bool) {
	i := sort.Search(len(ri), func(i int) bool { return ri[i].Begin > x })
	if i == len(ri) {
		return 0, false
	}
	return ri[i].Begin, true
}

// PayoutRange is an inclusive run of outcomes sharing one rounded payout.
type PayoutRange struct {
	From   uint64 `json:"index_from"`
	To     uint64 `json:"index_to"`
	Payout uint64 `json:"payout"`
}

// Contains reports whether x lies within the range.
func (r PayoutRange) Contains(x uint64) bool {
	return x >= r.From && x <= r.To
}

func (r PayoutRange) String() string {
	return fmt.Sprintf("[%d..%d]=%d", r.From, r.To, r.Payout)
}

// DigitPrefix holds the high-order oracle digits of a group of outcomes; the
// omitted low-order positions are wildcards.
type DigitPrefix []int
