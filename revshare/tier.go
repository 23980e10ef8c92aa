package revshare

import (
	"fmt"
	"strings"
)

// Tier is the contributor rank that determines payout weight.
type Tier string

const (
	TierMain      Tier = "main"
	TierAssistant Tier = "assistant"
	TierThanks    Tier = "thanks"
	TierFan       Tier = "fan"
)

// Share weights, in Main-tier-equivalent units per contributor.
const (
	WeightMain      = 1.0
	WeightAssistant = 0.5
	WeightThanks    = 0.167
	WeightFan       = 0.0
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierMain, TierAssistant, TierThanks, TierFan}

// PaidTiers lists the tiers that take part in a payout, in display order.
var PaidTiers = []Tier{TierMain, TierAssistant, TierThanks}

// ParseTier converts a tier name (case-insensitive) into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return t, nil
}

// Valid reports whether t is one of the four recognized tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierMain, TierAssistant, TierThanks, TierFan:
		return true
	}
	return false
}

// Weight returns the share weight for t. Unknown tiers weigh nothing.
func (t Tier) Weight() float64 {
	switch t {
	case TierMain:
		return WeightMain
	case TierAssistant:
		return WeightAssistant
	case TierThanks:
		return WeightThanks
	default:
		return WeightFan
	}
}

// Paid reports whether contributors of this tier receive a share.
func (t Tier) Paid() bool {
	return t.Valid() && t != TierFan
}

// Label returns the long human-readable tier heading.
func (t Tier) Label() string {
	switch t {
	case TierMain:
		return "Main Tier - Essential Contributors"
	case TierAssistant:
		return "Assistant Tier - Valuable Contributors"
	case TierThanks:
		return "Special Thanks - Meaningful Contributors"
	case TierFan:
		return "Fan Tier - Minor Contributors"
	default:
		return "Unknown"
	}
}

// String returns the wire form of t.
func (t Tier) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTier, string(t))
	}
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown tiers.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// rank orders tiers for display; lower ranks first.
func (t Tier) rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return len(Tiers)
}
