// Package roster keeps the contributor roster and the payout history of a
// project. Stores are owned by the caller and handed to whoever needs them;
// nothing in this package is global.
package roster

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/tiershare/revshare"
)

// Project is the descriptive header of a project document.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Store persists contributors and committed payout records.
type Store interface {
	// Project returns the project header.
	Project() (Project, error)

	// SetProject replaces the project header.
	SetProject(p Project) error

	// AddContributor stores a new contributor. Returns ErrDuplicate if the
	// id is taken.
	AddContributor(c revshare.Contributor) error

	// UpdateContributor replaces an existing contributor, keeping its
	// original JoinDate.
	UpdateContributor(c revshare.Contributor) error

	// GetContributor retrieves a contributor by id.
	GetContributor(id string) (revshare.Contributor, error)

	// RemoveContributor deletes a contributor. Committed records keep
	// their own copy and are not affected.
	RemoveContributor(id string) error

	// ListContributors returns every contributor, Fan tier included,
	// ascending by name.
	ListContributors() ([]revshare.Contributor, error)

	// ListActiveContributors returns the roster snapshot the payout engine
	// consumes, ascending by name.
	ListActiveContributors() ([]revshare.Contributor, error)

	// AppendPayoutRecord adds a committed record to the history.
	AppendPayoutRecord(r revshare.PayoutRecord) error

	// ListPayoutRecords returns the history in commit order.
	ListPayoutRecords() ([]revshare.PayoutRecord, error)

	// RemovePayoutRecord deletes a record from the history.
	RemovePayoutRecord(id string) error

	// Replace swaps the whole store content for doc in one step.
	Replace(doc *Document) error

	// Close releases the store.
	Close() error
}

// ValidateContributor checks the fields the roster relies on.
func ValidateContributor(c revshare.Contributor) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidContributor)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: empty name for %s", ErrInvalidContributor, c.ID)
	}
	if !c.Tier.Valid() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidContributor, c.ID, revshare.ErrInvalidTier)
	}
	return nil
}

// cloneRecord copies the member slice so callers cannot alter stored history.
func cloneRecord(r revshare.PayoutRecord) revshare.PayoutRecord {
	if r.Members != nil {
		members := make([]revshare.MemberPayout, len(r.Members))
		copy(members, r.Members)
		r.Members = members
	}
	return r
}
