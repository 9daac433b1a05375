package domain

// CETOutcome pairs one payout range with the digit prefixes the oracle can
// attest to for it. The transaction builder signs one CET per prefix.
type CETOutcome struct {
	Range    PayoutRange   `json:"range"`
	Prefixes []DigitPrefix `json:"prefixes"`
}

// CETPlan is the full, deterministic set of outcome groups for a contract.
// Both counterparties derive it independently and compare Fingerprint.
type CETPlan struct {
	ID              string       `json:"id"`
	Fingerprint     string       `json:"fingerprint"`
	Base            int          `json:"base"`
	NumDigits       int          `json:"num_digits"`
	TotalCollateral uint64       `json:"total_collateral"`
	Outcomes        []CETOutcome `json:"outcomes"`
}

// PrefixCount returns the number of CETs the plan requires.
func (p *CETPlan) PrefixCount() int {
	n := 0
	for _, o := range p.Outcomes {
		n += len(o.Prefixes)
	}
	return n
}

// Ranges returns the payout ranges of the plan in order.
func (p *CETPlan) Ranges() []PayoutRange {
	out := make([]PayoutRange, len(p.Outcomes))
	for i, o := range p.Outcomes {
		out[i] = o.Range
	}
	return out
}
