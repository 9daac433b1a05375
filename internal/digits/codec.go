// Package digits converts oracle outcomes to and from base-N digit sequences
// and compresses contiguous outcome ranges into digit prefixes.
package digits

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// Decompose returns the numDigits least-significant base-N digits of value,
// most significant first. Higher digits are dropped, so the result encodes
// value mod base^numDigits. It fails with ErrInvalidDomain when base is below
// 2 or numDigits below 1.
func Decompose(value uint64, base, numDigits int) ([]int, error) {
	if err := checkBase(base, numDigits); err != nil {
		return nil, err
	}
	return decompose(value, base, numDigits), nil
}

func checkBase(base, numDigits int) error {
	if base < 2 {
		return fmt.Errorf("digits: base %d: %w", base, domain.ErrInvalidDomain)
	}
	if numDigits < 1 {
		return fmt.Errorf("digits: %d digits: %w", numDigits, domain.ErrInvalidDomain)
	}
	return nil
}

// decompose expects a validated base and digit count.
func decompose(value uint64, base, numDigits int) []int {
	out := make([]int, numDigits)
	b := uint64(base)
	for i := numDigits - 1; i >= 0; i-- {
		out[i] = int(value % b)
		value /= b
	}
	return out
}

// Recompose is the inverse of Decompose.
func Recompose(digits []int, base int) uint64 {
	var v uint64
	for _, d := range digits {
		v = v*uint64(base) + uint64(d)
	}
	return v
}

// MaxOutcome returns base^numDigits - 1, saturating at math.MaxUint64 when the
// domain does not fit in 64 bits.
func MaxOutcome(base, numDigits int) uint64 {
	size := uint64(1)
	for i := 0; i < numDigits; i++ {
		hi, lo := bits.Mul64(size, uint64(base))
		if hi != 0 {
			return math.MaxUint64
		}
		size = lo
	}
	return size - 1
}
