package ledger

import (
	"fmt"
	"io"

	"github.com/bitfsorg/tiershare/export"
	"github.com/bitfsorg/tiershare/roster"
)

// Document returns the full project as an exchangeable document.
func (l *Ledger) Document() (*roster.Document, error) {
	doc, err := roster.Snapshot(l.Store)
	if err != nil {
		return nil, fmt.Errorf("ledger: snapshot: %w", err)
	}
	return doc, nil
}

// Save writes the project document to path.
func (l *Ledger) Save(path string) error {
	doc, err := l.Document()
	if err != nil {
		return err
	}
	if err := roster.SaveDocument(path, doc); err != nil {
		return err
	}
	l.Log.Info("project saved", "path", path, "members", len(doc.Members), "payouts", len(doc.Payouts))
	return nil
}

// Load replaces the store content with the document at path. A document
// that fails validation leaves the store unchanged.
func (l *Ledger) Load(path string) error {
	doc, err := roster.LoadDocument(path)
	if err != nil {
		return err
	}
	if err := roster.Import(l.Store, doc); err != nil {
		return fmt.Errorf("ledger: import %s: %w", path, err)
	}
	l.Log.Info("project loaded", "path", path, "members", len(doc.Members), "payouts", len(doc.Payouts))
	return nil
}

// ExportCSV writes the payout timeline as CSV.
func (l *Ledger) ExportCSV(w io.Writer) error {
	payouts, err := l.Store.ListPayoutRecords()
	if err != nil {
		return fmt.Errorf("ledger: export csv: %w", err)
	}
	return export.WriteTimelineCSV(w, payouts)
}

// Credits renders the Markdown credits for the current roster.
func (l *Ledger) Credits(r *export.Renderer) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: renderer", ErrNilParam)
	}
	doc, err := l.Document()
	if err != nil {
		return "", err
	}
	return r.Credits(doc.Project, doc.Members), nil
}

// Report renders the full Markdown report, stamped with the ledger clock.
func (l *Ledger) Report(r *export.Renderer) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: renderer", ErrNilParam)
	}
	doc, err := l.Document()
	if err != nil {
		return "", err
	}
	return r.Report(doc.Project, doc.Members, doc.Payouts, l.Clock()), nil
}
