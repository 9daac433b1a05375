package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

func samplePlan() *domain.CETPlan {
	return &domain.CETPlan{
		Base:            10,
		NumDigits:       3,
		TotalCollateral: 100,
		Outcomes: []domain.CETOutcome{
			{
				Range:    domain.PayoutRange{From: 0, To: 199, Payout: 100},
				Prefixes: []domain.DigitPrefix{{0}, {1}},
			},
			{
				Range:    domain.PayoutRange{From: 200, To: 999, Payout: 0},
				Prefixes: []domain.DigitPrefix{{2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}},
			},
		},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a, b := samplePlan(), samplePlan()
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	Stamp(a)
	Stamp(b)
	require.Equal(t, a.Fingerprint, b.Fingerprint)
	require.Equal(t, a.ID, b.ID)

	raw, err := hex.DecodeString(a.Fingerprint)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	id, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(5), id.Version())
}

func TestFingerprintIgnoresStamp(t *testing.T) {
	p := samplePlan()
	before := Fingerprint(p)
	Stamp(p)
	require.Equal(t, before, Fingerprint(p))
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint(samplePlan())

	mutations := map[string]func(p *domain.CETPlan){
		"payout":     func(p *domain.CETPlan) { p.Outcomes[0].Range.Payout = 99 },
		"range end":  func(p *domain.CETPlan) { p.Outcomes[0].Range.To = 198 },
		"prefix":     func(p *domain.CETPlan) { p.Outcomes[1].Prefixes[0] = domain.DigitPrefix{2, 0} },
		"collateral": func(p *domain.CETPlan) { p.TotalCollateral = 101 },
		"base":       func(p *domain.CETPlan) { p.Base = 16 },
		"dropped":    func(p *domain.CETPlan) { p.Outcomes = p.Outcomes[:1] },
		"regrouped": func(p *domain.CETPlan) {
			p.Outcomes[0].Prefixes = []domain.DigitPrefix{{0, 1}}
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := samplePlan()
			mutate(p)
			require.NotEqual(t, base, Fingerprint(p))
		})
	}
}
