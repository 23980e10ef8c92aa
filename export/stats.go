package export

import (
	"sort"

	"github.com/bitfsorg/tiershare/revshare"
)

// Overview summarizes the payout history.
type Overview struct {
	TotalRevenue float64
	Payouts      int
	Average      float64
	LastDate     string // latest payout date, empty when there is no history
}

// Summarize computes the history overview.
func Summarize(records []revshare.PayoutRecord) Overview {
	var o Overview
	for _, r := range records {
		o.TotalRevenue += r.Revenue
		if r.Date > o.LastDate {
			o.LastDate = r.Date
		}
	}
	o.Payouts = len(records)
	if o.Payouts > 0 {
		o.Average = o.TotalRevenue / float64(o.Payouts)
	}
	return o
}

// Chronological returns a copy of records ordered by payout date, oldest
// first. Records on the same date keep their commit order.
func Chronological(records []revshare.PayoutRecord) []revshare.PayoutRecord {
	sorted := make([]revshare.PayoutRecord, len(records))
	copy(sorted, records)
	// YYYY-MM-DD sorts lexically in date order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}
