package revshare

import (
	"fmt"
	"math"
	"sort"
)

// ComputeDefault runs Compute with DefaultPolicy.
func ComputeDefault(revenue float64, roster []Contributor) (*Calculation, error) {
	return Compute(revenue, roster, DefaultPolicy())
}

// Compute splits revenue across the paid tiers of roster.
//
// Each tier receives count * weight * mainShare, where mainShare is the
// price of one Main-tier-equivalent unit. When DecideFairness reports an
// adjustment, the Main tier is raised to policy.MainFloor of revenue and
// the remainder is split across Assistant and Thanks by their weights.
// Fan contributors are neither counted nor paid. A contributor with an
// unrecognized tier fails the whole calculation. The roster is not modified.
func Compute(revenue float64, roster []Contributor, policy Policy) (*Calculation, error) {
	if math.IsNaN(revenue) || math.IsInf(revenue, 0) || revenue <= 0 {
		return nil, fmt.Errorf("%w: revenue must be positive, got %v", ErrInvalidInput, revenue)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	var counts Counts
	for _, c := range roster {
		switch c.Tier {
		case TierMain:
			counts.Main++
		case TierAssistant:
			counts.Assistant++
		case TierThanks:
			counts.Thanks++
		case TierFan:
		default:
			return nil, fmt.Errorf("%w: contributor %s: %w %q", ErrInvalidInput, c.ID, ErrInvalidTier, c.Tier)
		}
	}
	if counts.Total() == 0 {
		return nil, fmt.Errorf("%w: no contributors in main, assistant or thanks tiers", ErrInvalidInput)
	}

	mainShare := revenue / counts.Units()
	assistantShare := mainShare * WeightAssistant
	thanksShare := mainShare * WeightThanks

	decision := DecideFairness(counts, mainShare, revenue, policy)
	if decision.Adjusted() {
		mainTotal := revenue * policy.MainFloor
		mainShare = mainTotal / float64(counts.Main)
		otherBase := (revenue - mainTotal) / counts.otherUnits()
		assistantShare = otherBase * WeightAssistant
		thanksShare = otherBase * WeightThanks
	}

	calc := &Calculation{
		Revenue:        revenue,
		MainShare:      mainShare,
		AssistantShare: assistantShare,
		ThanksShare:    thanksShare,
		Counts:         counts,
		Decision:       decision,
	}
	calc.Members = memberPayouts(roster, calc)
	return calc, nil
}

// memberPayouts lists paid contributors grouped by tier, keeping the
// roster's order within a tier.
func memberPayouts(roster []Contributor, calc *Calculation) []MemberPayout {
	members := make([]MemberPayout, 0, calc.Counts.Total())
	for _, c := range roster {
		if !c.Tier.Paid() {
			continue
		}
		members = append(members, MemberPayout{
			MemberID: c.ID,
			Name:     c.Name,
			Tier:     c.Tier,
			Amount:   calc.ShareOf(c.Tier),
		})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Tier.rank() < members[j].Tier.rank()
	})
	return members
}
