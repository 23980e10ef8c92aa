package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitfsorg/tiershare/revshare"
)

// FileStore is a Store persisted as a single JSON project document. Every
// mutation rewrites the file; if the write fails the in-memory state is
// rolled back so memory and disk never diverge. The document is locked
// against other processes until Close.
type FileStore struct {
	mu   sync.Mutex // serializes mutate-then-save
	mem  *MemStore
	path string
	lock *os.File
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// OpenFileStore loads the document at path, or starts empty if the file
// does not exist yet. It returns ErrLocked if another process has the
// same document open.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: document path", ErrNilParam)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("roster: create document directory: %w", err)
	}
	lock, err := lockFile(path + ".lock")
	if err != nil {
		return nil, err
	}

	mem := NewMemStore()
	doc, err := LoadDocument(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		unlockFile(lock)
		return nil, err
	default:
		if err := mem.Replace(doc); err != nil {
			unlockFile(lock)
			return nil, err
		}
	}
	return &FileStore{mem: mem, path: path, lock: lock}, nil
}

// Path returns the document location.
func (s *FileStore) Path() string { return s.path }

// mutate applies fn to the working state and persists the result.
func (s *FileStore) mutate(fn func(*MemStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := Snapshot(s.mem)
	if err != nil {
		return err
	}
	if err := fn(s.mem); err != nil {
		return err
	}
	after, err := Snapshot(s.mem)
	if err == nil {
		err = SaveDocument(s.path, after)
	}
	if err != nil {
		_ = s.mem.Replace(before)
		return fmt.Errorf("roster: persist %s: %w", s.path, err)
	}
	return nil
}

// Project returns the project header.
func (s *FileStore) Project() (Project, error) { return s.mem.Project() }

// SetProject replaces the project header.
func (s *FileStore) SetProject(p Project) error {
	return s.mutate(func(m *MemStore) error { return m.SetProject(p) })
}

// AddContributor stores a new contributor.
func (s *FileStore) AddContributor(c revshare.Contributor) error {
	return s.mutate(func(m *MemStore) error { return m.AddContributor(c) })
}

// UpdateContributor replaces an existing contributor.
func (s *FileStore) UpdateContributor(c revshare.Contributor) error {
	return s.mutate(func(m *MemStore) error { return m.UpdateContributor(c) })
}

// GetContributor retrieves a contributor by id.
func (s *FileStore) GetContributor(id string) (revshare.Contributor, error) {
	return s.mem.GetContributor(id)
}

// RemoveContributor deletes a contributor.
func (s *FileStore) RemoveContributor(id string) error {
	return s.mutate(func(m *MemStore) error { return m.RemoveContributor(id) })
}

// ListContributors returns every contributor ascending by name.
func (s *FileStore) ListContributors() ([]revshare.Contributor, error) {
	return s.mem.ListContributors()
}

// ListActiveContributors returns the paid-tier contributors ascending by name.
func (s *FileStore) ListActiveContributors() ([]revshare.Contributor, error) {
	return s.mem.ListActiveContributors()
}

// AppendPayoutRecord adds a committed record to the history.
func (s *FileStore) AppendPayoutRecord(r revshare.PayoutRecord) error {
	return s.mutate(func(m *MemStore) error { return m.AppendPayoutRecord(r) })
}

// ListPayoutRecords returns the history in commit order.
func (s *FileStore) ListPayoutRecords() ([]revshare.PayoutRecord, error) {
	return s.mem.ListPayoutRecords()
}

// RemovePayoutRecord deletes a record from the history.
func (s *FileStore) RemovePayoutRecord(id string) error {
	return s.mutate(func(m *MemStore) error { return m.RemovePayoutRecord(id) })
}

// Replace swaps the store content for doc and persists it.
func (s *FileStore) Replace(doc *Document) error {
	return s.mutate(func(m *MemStore) error { return m.Replace(doc) })
}

// Close releases the document lock. Every mutation is already on disk.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlockFile(s.lock)
	s.lock = nil
	return nil
}
