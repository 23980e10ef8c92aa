package revshare

import (
	"fmt"
	"math"
)

// Default fairness policy constants. Changing them changes payout output.
const (
	DefaultRatioThreshold = 5.0
	DefaultMainFloor      = 0.30
)

// Policy holds the fairness rebalancing parameters.
type Policy struct {
	// RatioThreshold is the (assistant+thanks)/main ratio that must be
	// exceeded before the floor is considered.
	RatioThreshold float64

	// MainFloor is the minimum aggregate fraction of revenue for the Main tier.
	MainFloor float64
}

// DefaultPolicy returns the 5:1 ratio / 30% floor policy.
func DefaultPolicy() Policy {
	return Policy{
		RatioThreshold: DefaultRatioThreshold,
		MainFloor:      DefaultMainFloor,
	}
}

// Validate checks the policy parameters are usable.
func (p Policy) Validate() error {
	if math.IsNaN(p.RatioThreshold) || math.IsInf(p.RatioThreshold, 0) || p.RatioThreshold < 0 {
		return fmt.Errorf("%w: ratio threshold %v", ErrInvalidPolicy, p.RatioThreshold)
	}
	if math.IsNaN(p.MainFloor) || p.MainFloor <= 0 || p.MainFloor >= 1 {
		return fmt.Errorf("%w: main floor %v must be in (0, 1)", ErrInvalidPolicy, p.MainFloor)
	}
	return nil
}
