package ledger

import (
	"fmt"

	"github.com/bitfsorg/tiershare/export"
	"github.com/bitfsorg/tiershare/revshare"
)

// CommitOpts holds the metadata recorded with a payout.
type CommitOpts struct {
	Date  string // YYYY-MM-DD; empty means today
	Notes string
}

// Calculate runs the payout engine over the current paid roster.
func (l *Ledger) Calculate(revenue float64) (*revshare.Calculation, error) {
	active, err := l.Store.ListActiveContributors()
	if err != nil {
		return nil, fmt.Errorf("ledger: list roster: %w", err)
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrEmptyRoster, revshare.ErrInvalidInput)
	}
	calc, err := revshare.Compute(revenue, active, l.Policy)
	if err != nil {
		return nil, fmt.Errorf("ledger: calculate: %w", err)
	}
	l.Log.Debug("payout calculated",
		"revenue", revenue,
		"contributors", calc.Counts.Total(),
		"adjusted", calc.FairnessAdjusted())
	return calc, nil
}

// Commit freezes calc into a payout record and appends it to the history.
func (l *Ledger) Commit(calc *revshare.Calculation, opts *CommitOpts) (revshare.PayoutRecord, error) {
	if opts == nil {
		opts = &CommitOpts{}
	}
	now := l.Clock()
	date := opts.Date
	if date == "" {
		date = now.Format(revshare.DateLayout)
	}

	rec, err := calc.Record(l.NewID(), date, opts.Notes, now)
	if err != nil {
		return revshare.PayoutRecord{}, fmt.Errorf("ledger: commit: %w", err)
	}
	if err := l.Store.AppendPayoutRecord(rec); err != nil {
		return revshare.PayoutRecord{}, fmt.Errorf("ledger: commit: %w", err)
	}
	l.Log.Info("payout committed",
		"id", rec.ID,
		"date", rec.Date,
		"revenue", rec.Revenue,
		"contributors", rec.TotalContributors(),
		"adjusted", rec.AdjustmentApplied)
	return rec, nil
}

// Payouts returns the committed history in commit order.
func (l *Ledger) Payouts() ([]revshare.PayoutRecord, error) {
	return l.Store.ListPayoutRecords()
}

// RemovePayout deletes payout id from the history.
func (l *Ledger) RemovePayout(id string) error {
	if err := l.Store.RemovePayoutRecord(id); err != nil {
		return fmt.Errorf("ledger: remove payout: %w", err)
	}
	l.Log.Info("payout removed", "id", id)
	return nil
}

// Stats summarizes the payout history.
func (l *Ledger) Stats() (export.Overview, error) {
	payouts, err := l.Store.ListPayoutRecords()
	if err != nil {
		return export.Overview{}, fmt.Errorf("ledger: stats: %w", err)
	}
	return export.Summarize(payouts), nil
}
