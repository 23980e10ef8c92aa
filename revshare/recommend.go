package revshare

// Per-member amounts that make a payout worth the transfer fees.
const (
	MonthlyMinimum   = 50.0
	QuarterlyMinimum = 15.0
)

// Frequency is a suggested payout cadence.
type Frequency int

const (
	Monthly Frequency = iota
	Quarterly
	Hold
)

// String returns the name of the cadence.
func (f Frequency) String() string {
	switch f {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Hold:
		return "hold"
	default:
		return "unknown"
	}
}

// Recommendation suggests how often to pay out revenue of this size.
type Recommendation struct {
	Frequency Frequency
	PerMember float64 // revenue divided evenly across paid contributors
}

// Recommend suggests a cadence from the even per-member split of calc.
func Recommend(calc *Calculation) Recommendation {
	n := calc.Counts.Total()
	if n == 0 {
		return Recommendation{Frequency: Hold}
	}
	per := calc.Revenue / float64(n)
	switch {
	case per >= MonthlyMinimum:
		return Recommendation{Frequency: Monthly, PerMember: per}
	case per >= QuarterlyMinimum:
		return Recommendation{Frequency: Quarterly, PerMember: per}
	default:
		return Recommendation{Frequency: Hold, PerMember: per}
	}
}

// Advice returns a one-sentence explanation of the recommendation.
func (r Recommendation) Advice() string {
	switch r.Frequency {
	case Monthly:
		return "Monthly payouts recommended: the per-member amount justifies monthly transfers."
	case Quarterly:
		return "Quarterly payouts recommended: accumulate three months of revenue to keep transfer fees low."
	default:
		return "Hold and accumulate: transfer fees would consume a significant share of this payout."
	}
}
