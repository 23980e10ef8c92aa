// Package ledger is the application layer of tiershare. The CLI calls
// Ledger methods for every user action; the ledger snapshots the roster,
// runs the payout engine and records the results in the store.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/tiershare/logging"
	"github.com/bitfsorg/tiershare/paymail"
	"github.com/bitfsorg/tiershare/revshare"
	"github.com/bitfsorg/tiershare/roster"
)

// Ledger ties a roster store to the payout engine.
type Ledger struct {
	Store    roster.Store
	Policy   revshare.Policy
	Log      *slog.Logger
	Resolver paymail.DNSResolver // used by CheckPayment; nil means system DNS

	// Clock and NewID are replaceable for deterministic tests.
	Clock func() time.Time
	NewID func() string
}

// New creates a Ledger over store. A nil logger discards output.
func New(store roster.Store, policy revshare.Policy, logger *slog.Logger) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Ledger{
		Store:    store,
		Policy:   policy,
		Log:      logger,
		Resolver: paymail.DefaultDNSResolver,
		Clock:    time.Now,
		NewID:    uuid.NewString,
	}, nil
}

// Close releases the store.
func (l *Ledger) Close() error {
	return l.Store.Close()
}

// Project returns the project header.
func (l *Ledger) Project() (roster.Project, error) {
	return l.Store.Project()
}

// SetProject updates the project name and description.
func (l *Ledger) SetProject(name, description string) error {
	p := roster.Project{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := l.Store.SetProject(p); err != nil {
		return fmt.Errorf("ledger: set project: %w", err)
	}
	l.Log.Info("project updated", "name", p.Name)
	return nil
}
