package domain

import "errors"

var (
	ErrInvalidDomain        = errors.New("invalid outcome domain")
	ErrNoValidOutcome       = errors.New("no outcome yields a payout within collateral")
	ErrUnsupportedInversion = errors.New("curve inversion not supported")
	ErrNoSolution           = errors.New("no solution")
	ErrInvalidCurve         = errors.New("invalid payout curve")
	ErrInvalidRounding      = errors.New("invalid rounding intervals")
	ErrPrecisionOverflow    = errors.New("more than 16 fractional digits")
	ErrInvalidContract      = errors.New("invalid contract descriptor")
	ErrFingerprintMismatch  = errors.New("plan fingerprint mismatch")
)
