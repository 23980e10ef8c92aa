// Package export renders payout history and credits as CSV and Markdown.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bitfsorg/tiershare/revshare"
)

// TimelineHeader is the column order of the CSV timeline.
var TimelineHeader = []string{
	"Date", "Total Revenue",
	"Main Count", "Main Share",
	"Assistant Count", "Assistant Share",
	"Thanks Count", "Thanks Share",
	"Total Contributors", "Adjustment Applied", "Notes",
}

// Amount formats a monetary value with two decimals and no grouping.
func Amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteTimelineCSV writes one row per payout record in chronological
// order. Notes containing commas, quotes or newlines, or starting with a
// space, are quoted with doubled inner quotes.
func WriteTimelineCSV(w io.Writer, records []revshare.PayoutRecord) error {
	if len(records) == 0 {
		return ErrNoPayouts
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(TimelineHeader); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}
	for _, r := range Chronological(records) {
		row := []string{
			r.Date,
			Amount(r.Revenue),
			strconv.Itoa(r.MainCount),
			Amount(r.MainShare),
			strconv.Itoa(r.AssistantCount),
			Amount(r.AssistantShare),
			strconv.Itoa(r.ThanksCount),
			Amount(r.ThanksShare),
			strconv.Itoa(r.TotalContributors()),
			yesNo(r.AdjustmentApplied),
			r.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
