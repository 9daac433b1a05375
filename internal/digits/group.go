package digits

import (
	"fmt"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// GroupByIgnoringDigits compresses the inclusive outcome range [start, end]
// into digit prefixes. Every outcome of the range matches exactly one prefix
// and no outcome outside it matches any. The number of prefixes is bounded by
// roughly 2*numDigits*base, independent of end-start. Prefixes are returned in
// ascending order of the outcomes they cover.
func GroupByIgnoringDigits(start, end uint64, base, numDigits int) ([]domain.DigitPrefix, error) {
	if err := checkBase(base, numDigits); err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("digits: start %d > end %d: %w", start, end, domain.ErrInvalidDomain)
	}
	if maxOutcome := MaxOutcome(base, numDigits); end > maxOutcome {
		return nil, fmt.Errorf("digits: end %d exceeds %d-digit base-%d domain: %w", end, numDigits, base, domain.ErrInvalidDomain)
	}

	startDigits := decompose(start, base, numDigits)
	endDigits := decompose(end, base, numDigits)

	n := commonPrefixLen(startDigits, endDigits)
	prefix := startDigits[:n]
	s := startDigits[n:]
	e := endDigits[n:]

	if start == end || (n > 0 && allEqual(s, 0) && allEqual(e, base-1)) {
		return []domain.DigitPrefix{clone(prefix)}, nil
	}

	if len(s) == 1 {
		out := make([]domain.DigitPrefix, 0, e[0]-s[0]+1)
		for d := s[0]; d <= e[0]; d++ {
			out = append(out, withPrefix(prefix, []int{d}))
		}
		return out, nil
	}

	var out []domain.DigitPrefix
	for _, g := range frontGroups(s, base) {
		out = append(out, withPrefix(prefix, g))
	}
	for d := s[0] + 1; d < e[0]; d++ {
		out = append(out, withPrefix(prefix, []int{d}))
	}
	for _, g := range backGroups(e, base) {
		out = append(out, withPrefix(prefix, g))
	}
	return out, nil
}

// frontGroups covers [s, the end of the subtree rooted at s[0]]. Trailing zeros
// of s are already wildcards; each remaining position from the least
// significant upward contributes the digits above it.
func frontGroups(s []int, base int) [][]int {
	sig := trimTrailing(s, 0)
	if len(sig) == 0 {
		return [][]int{{s[0]}}
	}
	out := [][]int{clone(sig)}
	for i := len(sig) - 1; i >= 1; i-- {
		for d := sig[i] + 1; d < base; d++ {
			out = append(out, appendDigit(sig[:i], d))
		}
	}
	return out
}

// backGroups mirrors frontGroups: it covers [the start of the subtree rooted at
// e[0], e], stripping a trailing run of base-1 digits and emitting digits below
// each position from the most significant downward.
func backGroups(e []int, base int) [][]int {
	sig := trimTrailing(e, base-1)
	if len(sig) == 0 {
		return [][]int{{e[0]}}
	}
	var out [][]int
	for i := 1; i < len(sig); i++ {
		for d := 0; d < sig[i]; d++ {
			out = append(out, appendDigit(sig[:i], d))
		}
	}
	return append(out, clone(sig))
}

func commonPrefixLen(a, b []int) int {
	n := 0
	for n < len(a) && a[n] == b[n] {
		n++
	}
	return n
}

func allEqual(ds []int, v int) bool {
	for _, d := range ds {
		if d != v {
			return false
		}
	}
	return true
}

func trimTrailing(ds []int, v int) []int {
	end := len(ds)
	for end > 0 && ds[end-1] == v {
		end--
	}
	return ds[:end]
}

func appendDigit(head []int, d int) []int {
	out := make([]int, len(head)+1)
	copy(out, head)
	out[len(head)] = d
	return out
}

func withPrefix(prefix, tail []int) domain.DigitPrefix {
	out := make(domain.DigitPrefix, 0, len(prefix)+len(tail))
	out = append(out, prefix...)
	return append(out, tail...)
}

func clone(ds []int) domain.DigitPrefix {
	out := make(domain.DigitPrefix, len(ds))
	copy(out, ds)
	return out
}
