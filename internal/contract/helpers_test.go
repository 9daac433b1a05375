package contract

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func hyperbolaWith(dLine string) string {
	return `
total_collateral = 100

[oracle]
base = 10
num_digits = 6

[[rounding_intervals]]
begin = 0
modulus = 10

[payout_function]
start = { outcome = 0, payout = 100 }

[[payout_function.pieces]]
type = "hyperbola"
use_positive_piece = true
a = "1"
` + dLine + `
end = { outcome = 999999, payout = 0 }
`
}

func replace(text, old, new string) string {
	if !strings.Contains(text, old) {
		panic("replace: " + old + " not found")
	}
	return strings.Replace(text, old, new, 1)
}

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
