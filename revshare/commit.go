package revshare

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of PayoutRecord.Date.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD payout date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Record freezes the calculation into a PayoutRecord. The caller supplies
// the id, payout date, notes and commit time; the result carries a digest
// over its financial content.
func (c *Calculation) Record(id, date, notes string, committedAt time.Time) (PayoutRecord, error) {
	if c == nil {
		return PayoutRecord{}, ErrNilCalculation
	}
	if _, err := ParseDate(date); err != nil {
		return PayoutRecord{}, err
	}

	members := make([]MemberPayout, len(c.Members))
	copy(members, c.Members)

	rec := PayoutRecord{
		ID:                id,
		Date:              date,
		Revenue:           c.Revenue,
		Notes:             notes,
		MainCount:         c.Counts.Main,
		AssistantCount:    c.Counts.Assistant,
		ThanksCount:       c.Counts.Thanks,
		MainShare:         c.MainShare,
		AssistantShare:    c.AssistantShare,
		ThanksShare:       c.ThanksShare,
		AdjustmentApplied: c.FairnessAdjusted(),
		Members:           members,
		CommittedAt:       committedAt.UTC(),
	}
	rec.Digest = DigestHex(&rec)
	return rec, nil
}
