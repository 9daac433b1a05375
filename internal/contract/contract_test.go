package contract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/dlcplan/internal/curve"
	"github.com/alanyoungcy/dlcplan/internal/domain"
	"github.com/alanyoungcy/dlcplan/internal/payout"
)

const lineContract = `
total_collateral = 1000

[oracle]
base = 10
num_digits = 3

[[rounding_intervals]]
begin = 0
modulus = 100

[payout_function]
start = { outcome = 0, payout = 0 }

[[payout_function.pieces]]
type = "line"
end = { outcome = 999, payout = 1000 }
`

func TestLoadHyperbola(t *testing.T) {
	d, err := Load("testdata/hyperbola.toml")
	require.NoError(t, err)
	require.NoError(t, d.Validate())

	require.Equal(t, uint64(100), d.TotalCollateral)
	require.Equal(t, Oracle{Base: 10, NumDigits: 6}, d.Oracle)
	require.Equal(t, uint64(999_999), d.MaxOutcome())
	require.Equal(t, domain.RoundingIntervals{{Begin: 0, Modulus: 10}}, d.Intervals())

	f, err := d.Function()
	require.NoError(t, err)
	require.Len(t, f.Pieces, 1)
	h, ok := f.Pieces[0].Curve.(*curve.Hyperbola)
	require.True(t, ok)
	require.True(t, h.Params().Positive)
	require.Equal(t, "500000", h.Params().D.String())

	ranges, err := f.Ranges(context.Background(), d.TotalCollateral, d.Intervals(), payout.Options{})
	require.NoError(t, err)
	require.Equal(t, domain.PayoutRange{From: 0, To: 5263, Payout: 100}, ranges[0])
	require.Equal(t, domain.PayoutRange{From: 100_001, To: 999_999, Payout: 0}, ranges[len(ranges)-1])
}

func TestLoadCollar(t *testing.T) {
	d, err := Load("testdata/collar.toml")
	require.NoError(t, err)
	require.NoError(t, d.Validate())

	f, err := d.Function()
	require.NoError(t, err)
	require.Len(t, f.Pieces, 3)
	_, isLine := f.Pieces[1].Curve.(*curve.Line)
	require.True(t, isLine)

	ranges, err := f.Ranges(context.Background(), d.TotalCollateral, d.Intervals(), payout.Options{Parallel: true})
	require.NoError(t, err)
	require.Equal(t, uint64(0), ranges[0].From)
	require.Equal(t, uint64(1023), ranges[len(ranges)-1].To)
	require.Equal(t, domain.PayoutRange{From: 0, To: 214, Payout: 0}, ranges[0])
	require.Equal(t, uint64(1000), ranges[len(ranges)-1].Payout)
	for i := 1; i < len(ranges); i++ {
		require.Equal(t, ranges[i-1].To+1, ranges[i].From)
	}
}

func TestNumber(t *testing.T) {
	type TC struct {
		name string
		toml string
		want string
	}

	tcs := []TC{
		{name: "string", toml: `d = "-12.5"`, want: "-12.5"},
		{name: "integer", toml: `d = 42`, want: "42"},
		{name: "wire triple", toml: `d = { negative = true, integer = 3, precision = 2500000000000000 }`, want: "-3.25"},
		{name: "wire triple defaults", toml: `d = { integer = 7 }`, want: "7"},
	}

	for i, tc := range tcs {
		t.Run(fmt.Sprintf("[%d]%s", i, tc.name), func(t *testing.T) {
			d, err := Parse(hyperbolaWith(tc.toml))
			require.NoError(t, err)
			got := d.PayoutFunction.Pieces[0].D.Value
			require.Truef(t, got.Equal(decimalOf(t, tc.want)), "want %s, got %s", tc.want, got)
		})
	}
}

func TestNumberRejected(t *testing.T) {
	tcs := []string{
		`d = 1.5`,
		`d = "twelve"`,
		`d = { integer = -1 }`,
		`d = { integer = 1, sign = "minus" }`,
		`d = { negative = "yes" }`,
		`d = { precision = 10000000000000000 }`,
		`d = true`,
	}

	for i, text := range tcs {
		t.Run(fmt.Sprintf("[%d]%s", i, text), func(t *testing.T) {
			_, err := Parse(hyperbolaWith(text))
			require.Error(t, err)
		})
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse("mystery = 1\n" + lineContract)
	require.ErrorContains(t, err, "unknown keys: mystery")
}

func TestValidate(t *testing.T) {
	type TC struct {
		name    string
		text    string
		message string
	}

	tcs := []TC{
		{
			name:    "short span",
			text:    replace(lineContract, "outcome = 999,", "outcome = 998,"),
			message: "must span [0, 999]",
		},
		{
			name:    "bad base",
			text:    replace(lineContract, "base = 10", "base = 1"),
			message: "base must be >= 2",
		},
		{
			name:    "no collateral",
			text:    replace(lineContract, "total_collateral = 1000", "total_collateral = 0"),
			message: "total_collateral must be > 0",
		},
		{
			name:    "zero modulus",
			text:    replace(lineContract, "modulus = 100", "modulus = 0"),
			message: "zero modulus",
		},
		{
			name:    "payout over collateral",
			text:    replace(lineContract, "payout = 1000 }", "payout = 1001 }"),
			message: "exceeds collateral",
		},
		{
			name:    "unknown piece",
			text:    replace(lineContract, `type = "line"`, `type = "spline"`),
			message: `unknown piece type "spline"`,
		},
		{
			name:    "polynomial points off endpoints",
			text:    replace(lineContract, `type = "line"`, "type = \"polynomial\"\npoints = [{ event_outcome = 1 }, { event_outcome = 999, outcome_payout = 1000 }]"),
			message: "points must start at 0",
		},
		{
			name:    "coefficient too precise",
			text:    hyperbolaWith(`d = "0.00000000000000001"`),
			message: "more than 16 fractional digits",
		},
	}

	for i, tc := range tcs {
		t.Run(fmt.Sprintf("[%d]%s", i, tc.name), func(t *testing.T) {
			d, err := Parse(tc.text)
			require.NoError(t, err)
			err = d.Validate()
			require.ErrorIs(t, err, domain.ErrInvalidContract)
			require.ErrorContains(t, err, tc.message)
		})
	}
}

func TestHyperbolaWithCRejectedWhenSplit(t *testing.T) {
	d, err := Parse(hyperbolaWith("d = \"500000\"\nc = \"0.0001\""))
	require.NoError(t, err)
	require.NoError(t, d.Validate())

	f, err := d.Function()
	require.NoError(t, err)
	_, err = f.Ranges(context.Background(), d.TotalCollateral, d.Intervals(), payout.Options{})
	require.ErrorIs(t, err, domain.ErrUnsupportedInversion)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/absent.toml")
	require.Error(t, err)
}
