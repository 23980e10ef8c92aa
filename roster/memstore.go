package roster

import (
	"fmt"
	"sync"

	"github.com/bitfsorg/tiershare/revshare"
)

// MemStore is an in-memory Store. It is also the working state behind
// FileStore.
type MemStore struct {
	mu           sync.RWMutex
	project      Project
	contributors map[string]revshare.Contributor
	payouts      []revshare.PayoutRecord
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		contributors: make(map[string]revshare.Contributor),
		payouts:      make([]revshare.PayoutRecord, 0),
	}
}

// Project returns the project header.
func (s *MemStore) Project() (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project, nil
}

// SetProject replaces the project header.
func (s *MemStore) SetProject(p Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = p
	return nil
}

// AddContributor stores a new contributor.
func (s *MemStore) AddContributor(c revshare.Contributor) error {
	if err := ValidateContributor(c); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contributors[c.ID]; exists {
		return fmt.Errorf("%w: contributor %s", ErrDuplicate, c.ID)
	}
	s.contributors[c.ID] = c
	return nil
}

// UpdateContributor replaces an existing contributor, keeping its JoinDate.
func (s *MemStore) UpdateContributor(c revshare.Contributor) error {
	if err := ValidateContributor(c); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.contributors[c.ID]
	if !ok {
		return fmt.Errorf("%w: contributor %s", ErrNotFound, c.ID)
	}
	c.JoinDate = old.JoinDate
	s.contributors[c.ID] = c
	return nil
}

// GetContributor retrieves a contributor by id.
func (s *MemStore) GetContributor(id string) (revshare.Contributor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contributors[id]
	if !ok {
		return revshare.Contributor{}, fmt.Errorf("%w: contributor %s", ErrNotFound, id)
	}
	return c, nil
}

// RemoveContributor deletes a contributor.
func (s *MemStore) RemoveContributor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contributors[id]; !ok {
		return fmt.Errorf("%w: contributor %s", ErrNotFound, id)
	}
	delete(s.contributors, id)
	return nil
}

// ListContributors returns every contributor ascending by name.
func (s *MemStore) ListContributors() ([]revshare.Contributor, error) {
	return s.list(false), nil
}

// ListActiveContributors returns the paid-tier contributors ascending by name.
func (s *MemStore) ListActiveContributors() ([]revshare.Contributor, error) {
	return s.list(true), nil
}

func (s *MemStore) list(activeOnly bool) []revshare.Contributor {
	s.mu.RLock()
	result := make([]revshare.Contributor, 0, len(s.contributors))
	for _, c := range s.contributors {
		if activeOnly && !c.Tier.Paid() {
			continue
		}
		result = append(result, c)
	}
	s.mu.RUnlock()

	SortByName(result)
	return result
}

// AppendPayoutRecord adds a committed record to the history.
func (s *MemStore) AppendPayoutRecord(r revshare.PayoutRecord) error {
	if r.ID == "" {
		return fmt.Errorf("%w: payout record id", ErrNilParam)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(r.ID) >= 0 {
		return fmt.Errorf("%w: payout %s", ErrDuplicate, r.ID)
	}
	s.payouts = append(s.payouts, cloneRecord(r))
	return nil
}

// ListPayoutRecords returns the history in commit order.
func (s *MemStore) ListPayoutRecords() ([]revshare.PayoutRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]revshare.PayoutRecord, len(s.payouts))
	for i, r := range s.payouts {
		result[i] = cloneRecord(r)
	}
	return result, nil
}

// RemovePayoutRecord deletes a record from the history.
func (s *MemStore) RemovePayoutRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: payout %s", ErrNotFound, id)
	}
	s.payouts = append(s.payouts[:i:i], s.payouts[i+1:]...)
	return nil
}

// Replace swaps the store content for doc.
func (s *MemStore) Replace(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParam)
	}
	contributors := make(map[string]revshare.Contributor, len(doc.Members))
	for _, c := range doc.Members {
		contributors[c.ID] = c
	}
	payouts := make([]revshare.PayoutRecord, len(doc.Payouts))
	for i, r := range doc.Payouts {
		payouts[i] = cloneRecord(r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = doc.Project
	s.contributors = contributors
	s.payouts = payouts
	return nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

// indexOf returns the history position of id, or -1. Caller holds mu.
func (s *MemStore) indexOf(id string) int {
	for i := range s.payouts {
		if s.payouts[i].ID == id {
			return i
		}
	}
	return -1
}
