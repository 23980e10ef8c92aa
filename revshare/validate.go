package revshare

import (
	"fmt"
	"math"
)

// conservationEpsilon is the relative tolerance for float sums.
const conservationEpsilon = 1e-9

// ValidateConservation checks that the tier totals of calc add up to its
// revenue.
func ValidateConservation(calc *Calculation) error {
	if calc == nil {
		return ErrNilCalculation
	}
	var total float64
	for _, t := range PaidTiers {
		total += calc.TierTotal(t)
	}
	if math.Abs(total-calc.Revenue) > conservationEpsilon*math.Max(1, calc.Revenue) {
		return fmt.Errorf("%w: tiers=%v revenue=%v", ErrConservationViolated, total, calc.Revenue)
	}
	return nil
}

// ValidateRecord checks that a record's member list agrees with its tier
// counts and shares, and that its digest (if any) matches.
func ValidateRecord(r *PayoutRecord) error {
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	var counts Counts
	for i, m := range r.Members {
		var share float64
		switch m.Tier {
		case TierMain:
			counts.Main++
			share = r.MainShare
		case TierAssistant:
			counts.Assistant++
			share = r.AssistantShare
		case TierThanks:
			counts.Thanks++
			share = r.ThanksShare
		default:
			return fmt.Errorf("%w: member %d of record %s has tier %q", ErrInvalidTier, i, r.ID, m.Tier)
		}
		if m.Amount != share {
			return fmt.Errorf("member %d of record %s: amount %v != tier share %v", i, r.ID, m.Amount, share)
		}
	}
	if counts.Main != r.MainCount || counts.Assistant != r.AssistantCount || counts.Thanks != r.ThanksCount {
		return fmt.Errorf("record %s: member tiers %d/%d/%d != counts %d/%d/%d", r.ID,
			counts.Main, counts.Assistant, counts.Thanks, r.MainCount, r.AssistantCount, r.ThanksCount)
	}
	return VerifyRecord(r)
}
