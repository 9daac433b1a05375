// Package contract decodes the numeric terms of a DLC offer from TOML: the
// oracle's digit decomposition, the collateral, the rounding policy and the
// piecewise payout function.
package contract

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/dlcplan/internal/curve"
)

// Piece types.
const (
	PieceLine       = "line"
	PiecePolynomial = "polynomial"
	PieceHyperbola  = "hyperbola"
)

// Descriptor holds the terms of one contract.
type Descriptor struct {
	TotalCollateral   uint64             `toml:"total_collateral"`
	Oracle            Oracle             `toml:"oracle"`
	RoundingIntervals []RoundingInterval `toml:"rounding_intervals"`
	PayoutFunction    PayoutFunction     `toml:"payout_function"`
}

// Oracle describes how the oracle decomposes the outcome it attests to.
type Oracle struct {
	Base      int `toml:"base"`
	NumDigits int `toml:"num_digits"`
}

// RoundingInterval applies Modulus from Begin onward.
type RoundingInterval struct {
	Begin   uint64 `toml:"begin"`
	Modulus uint64 `toml:"modulus"`
}

// Endpoint fixes the payout at an outcome.
type Endpoint struct {
	Outcome uint64 `toml:"outcome"`
	Payout  uint64 `toml:"payout"`
}

// PayoutFunction starts at Start and continues through each piece's End.
type PayoutFunction struct {
	Start  Endpoint `toml:"start"`
	Pieces []Piece  `toml:"pieces"`
}

// Piece is one curve of the payout function. A line joins the previous
// endpoint to End. A polynomial lists its points explicitly. A hyperbola
// carries its coefficients.
type Piece struct {
	Type string   `toml:"type"`
	End  Endpoint `toml:"end"`

	Points []PayoutPoint `toml:"points"`

	UsePositivePiece bool   `toml:"use_positive_piece"`
	TranslateOutcome Number `toml:"translate_outcome"`
	TranslatePayout  Number `toml:"translate_payout"`
	A                Number `toml:"a"`
	B                Number `toml:"b"`
	C                Number `toml:"c"`
	D                Number `toml:"d"`
}

// PayoutPoint is a polynomial point in wire form.
type PayoutPoint struct {
	EventOutcome   uint64 `toml:"event_outcome"`
	OutcomePayout  uint64 `toml:"outcome_payout"`
	ExtraPrecision uint64 `toml:"extra_precision"`
}

// Number is an exact decimal written either as a string ("-12.5"), an
// integer, or the wire triple { negative, integer, precision }. Floats are
// rejected.
type Number struct {
	Value decimal.Decimal
}

// UnmarshalTOML implements toml.Unmarshaler.
func (n *Number) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("contract: number %q: %w", v, err)
		}
		n.Value = d
	case int64:
		n.Value = decimal.NewFromInt(v)
	case map[string]any:
		c, err := coefficientFromTable(v)
		if err != nil {
			return err
		}
		n.Value = c.Decimal()
	default:
		return fmt.Errorf("contract: number must be a string, integer or table, got %T", v)
	}
	return nil
}

func coefficientFromTable(t map[string]any) (curve.Coefficient, error) {
	var c curve.Coefficient
	for k, v := range t {
		switch k {
		case "negative":
			b, ok := v.(bool)
			if !ok {
				return c, fmt.Errorf("contract: coefficient negative must be a bool, got %T", v)
			}
			c.Negative = b
		case "integer", "precision":
			n, ok := v.(int64)
			if !ok || n < 0 {
				return c, fmt.Errorf("contract: coefficient %s must be a non-negative integer, got %v", k, v)
			}
			if k == "integer" {
				c.Integer = uint64(n)
			} else {
				c.Precision = uint64(n)
			}
		default:
			return c, fmt.Errorf("contract: unknown coefficient field %q", k)
		}
	}
	return c, c.Validate()
}
