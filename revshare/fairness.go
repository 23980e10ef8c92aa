package revshare

import "fmt"

// DecisionKind tags the outcome of the fairness check.
type DecisionKind int

const (
	// Unadjusted means the linear weighting stands.
	Unadjusted DecisionKind = iota
	// Adjusted means the Main-tier floor replaced the linear weighting.
	Adjusted
)

// String returns the name of the decision kind.
func (k DecisionKind) String() string {
	switch k {
	case Unadjusted:
		return "Unadjusted"
	case Adjusted:
		return "Adjusted"
	default:
		return "Unknown"
	}
}

// Decision is the result of DecideFairness. Ratio, Threshold, Floor and
// MainFraction are recorded for both kinds so callers can explain either.
type Decision struct {
	Kind         DecisionKind
	Ratio        float64 // (assistant+thanks) / max(main, 1)
	Threshold    float64
	Floor        float64
	MainFraction float64 // Main tier's share of revenue before adjustment
}

// Adjusted reports whether the floor was applied.
func (d Decision) Adjusted() bool { return d.Kind == Adjusted }

// Explanation returns a human-readable reason for an adjustment, or "".
func (d Decision) Explanation() string {
	if d.Kind != Adjusted {
		return ""
	}
	return fmt.Sprintf("The assistant/thanks to main contributor ratio (%.1f:1) exceeded the threshold of %g:1. "+
		"Self-adjusting fairness guaranteed the main tier at least %.0f%% of total revenue "+
		"(it would otherwise have received %.1f%%).",
		d.Ratio, d.Threshold, d.Floor*100, d.MainFraction*100)
}

// DecideFairness runs the two-stage fairness check against the unadjusted
// per-member Main share. The ratio gate uses max(main, 1) as denominator;
// rosters without a Main contributor never pass the floor gate, since the
// floor cannot be split across zero members.
func DecideFairness(counts Counts, mainShare, revenue float64, policy Policy) Decision {
	denom := counts.Main
	if denom == 0 {
		denom = 1
	}
	d := Decision{
		Kind:      Unadjusted,
		Ratio:     float64(counts.Assistant+counts.Thanks) / float64(denom),
		Threshold: policy.RatioThreshold,
		Floor:     policy.MainFloor,
	}
	if revenue > 0 {
		d.MainFraction = mainShare * float64(counts.Main) / revenue
	}

	if d.Ratio <= policy.RatioThreshold {
		return d
	}
	if counts.Main == 0 {
		return d
	}
	if d.MainFraction < policy.MainFloor {
		d.Kind = Adjusted
	}
	return d
}
