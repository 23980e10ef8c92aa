package revshare

import "time"

// Contributor is a roster entry. Only Tier affects the payout; the other
// metadata is carried for credits and payment.
type Contributor struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Tier     Tier      `json:"tier"`
	Email    string    `json:"email,omitempty"`
	Payment  string    `json:"payment,omitempty"` // payment address or paymail handle
	Role     string    `json:"role,omitempty"`
	JoinDate time.Time `json:"joinDate"`
}

// Counts is the number of paid contributors per tier at calculation time.
type Counts struct {
	Main      int `json:"main"`
	Assistant int `json:"assistant"`
	Thanks    int `json:"thanks"`
}

// Total returns the number of paid contributors.
func (c Counts) Total() int { return c.Main + c.Assistant + c.Thanks }

// Units returns the number of Main-tier-equivalent share units.
func (c Counts) Units() float64 {
	return float64(c.Main)*WeightMain + c.otherUnits()
}

func (c Counts) otherUnits() float64 {
	return float64(c.Assistant)*WeightAssistant + float64(c.Thanks)*WeightThanks
}

// Of returns the count for tier t. Fan and unknown tiers are always zero.
func (c Counts) Of(t Tier) int {
	switch t {
	case TierMain:
		return c.Main
	case TierAssistant:
		return c.Assistant
	case TierThanks:
		return c.Thanks
	default:
		return 0
	}
}

// MemberPayout is one contributor's amount, frozen at calculation time.
type MemberPayout struct {
	MemberID string  `json:"id"`
	Name     string  `json:"name"`
	Tier     Tier    `json:"tier"`
	Amount   float64 `json:"amount"`
}

// Calculation is the transient result of one Compute call. Amounts keep
// full float64 precision; rounding belongs to presentation.
type Calculation struct {
	Revenue        float64
	MainShare      float64
	AssistantShare float64
	ThanksShare    float64
	Counts         Counts
	Decision       Decision
	Members        []MemberPayout
}

// ShareOf returns the per-member amount for tier t.
func (c *Calculation) ShareOf(t Tier) float64 {
	switch t {
	case TierMain:
		return c.MainShare
	case TierAssistant:
		return c.AssistantShare
	case TierThanks:
		return c.ThanksShare
	default:
		return 0
	}
}

// TierTotal returns the aggregate amount allocated to tier t.
func (c *Calculation) TierTotal(t Tier) float64 {
	return c.ShareOf(t) * float64(c.Counts.Of(t))
}

// FairnessAdjusted reports whether the Main-tier floor was applied.
func (c *Calculation) FairnessAdjusted() bool { return c.Decision.Adjusted() }

// FairnessExplanation describes why the floor was applied, or is empty.
func (c *Calculation) FairnessExplanation() string { return c.Decision.Explanation() }

// PayoutRecord is an immutable history entry created by committing a
// Calculation. Members are copied so later roster edits do not alter it.
type PayoutRecord struct {
	ID                string         `json:"id"`
	Date              string         `json:"date"` // YYYY-MM-DD
	Revenue           float64        `json:"revenue"`
	Notes             string         `json:"notes"`
	MainCount         int            `json:"mainCount"`
	AssistantCount    int            `json:"assistantCount"`
	ThanksCount       int            `json:"thanksCount"`
	MainShare         float64        `json:"mainShare"`
	AssistantShare    float64        `json:"assistantShare"`
	ThanksShare       float64        `json:"thanksShare"`
	AdjustmentApplied bool           `json:"adjustmentApplied"`
	Members           []MemberPayout `json:"members"`
	CommittedAt       time.Time      `json:"committedAt"`
	Digest            string         `json:"digest,omitempty"` // hex BLAKE2b-256, see Digest
}

// TotalContributors returns the number of paid contributors in the record.
func (r *PayoutRecord) TotalContributors() int {
	return r.MainCount + r.AssistantCount + r.ThanksCount
}

// Day parses the record date.
func (r *PayoutRecord) Day() (time.Time, error) {
	return ParseDate(r.Date)
}
