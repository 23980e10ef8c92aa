package revshare

import "errors"

var (
	// ErrInvalidInput indicates a non-positive revenue amount or a roster
	// without any paid contributor.
	ErrInvalidInput = errors.New("revshare: invalid input")

	// ErrInvalidPolicy indicates fairness policy parameters are out of range.
	ErrInvalidPolicy = errors.New("revshare: invalid fairness policy")

	// ErrInvalidTier indicates a tier name outside the closed enumeration.
	ErrInvalidTier = errors.New("revshare: invalid tier")

	// ErrInvalidDate indicates a payout date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("revshare: invalid payout date")

	// ErrNilCalculation indicates a nil calculation was passed.
	ErrNilCalculation = errors.New("revshare: nil calculation")

	// ErrConservationViolated indicates tier totals do not add up to revenue.
	ErrConservationViolated = errors.New("revshare: payout conservation violated")

	// ErrDigestMismatch indicates a payout record was altered after commit.
	ErrDigestMismatch = errors.New("revshare: payout record digest mismatch")
)
