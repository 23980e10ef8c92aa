package roster

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/tiershare/revshare"
)

var (
	bucketMeta         = []byte("meta")
	bucketContributors = []byte("contributors")
	bucketPayouts      = []byte("payouts")    // seq -> record
	bucketPayoutIndex  = []byte("payout_ids") // record id -> seq

	keyProject = []byte("project")
)

var allBuckets = [][]byte{bucketMeta, bucketContributors, bucketPayouts, bucketPayoutIndex}

// BoltStore is a Store backed by a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("roster: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("roster: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("roster: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// seqKey encodes a history sequence number as an 8-byte big-endian key so
// cursor order is commit order.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// Project returns the project header.
func (s *BoltStore) Project() (Project, error) {
	var p Project
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyProject)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("boltstore: decode project: %w", err)
		}
		return nil
	})
	return p, err
}

// SetProject replaces the project header.
func (s *BoltStore) SetProject(p Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketMeta).Put(keyProject, data); err != nil {
			return fmt.Errorf("boltstore: put project: %w", err)
		}
		return nil
	})
}

// AddContributor stores a new contributor keyed by id.
func (s *BoltStore) AddContributor(c revshare.Contributor) error {
	if err := ValidateContributor(c); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode contributor: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketContributors)
		if b.Get([]byte(c.ID)) != nil {
			return fmt.Errorf("%w: contributor %s", ErrDuplicate, c.ID)
		}
		if err := b.Put([]byte(c.ID), data); err != nil {
			return fmt.Errorf("boltstore: put contributor: %w", err)
		}
		return nil
	})
}

// UpdateContributor overwrites an existing contributor, keeping its JoinDate.
func (s *BoltStore) UpdateContributor(c revshare.Contributor) error {
	if err := ValidateContributor(c); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketContributors)
		old := b.Get([]byte(c.ID))
		if old == nil {
			return fmt.Errorf("%w: contributor %s", ErrNotFound, c.ID)
		}
		var prev revshare.Contributor
		if err := json.Unmarshal(old, &prev); err != nil {
			return fmt.Errorf("boltstore: decode contributor: %w", err)
		}
		c.JoinDate = prev.JoinDate

		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode contributor: %w", err)
		}
		if err := b.Put([]byte(c.ID), data); err != nil {
			return fmt.Errorf("boltstore: update contributor: %w", err)
		}
		return nil
	})
}

// GetContributor retrieves a contributor by id.
func (s *BoltStore) GetContributor(id string) (revshare.Contributor, error) {
	var c revshare.Contributor
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketContributors).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: contributor %s", ErrNotFound, id)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("boltstore: decode contributor: %w", err)
		}
		return nil
	})
	if err != nil {
		return revshare.Contributor{}, err
	}
	return c, nil
}

// RemoveContributor deletes a contributor.
func (s *BoltStore) RemoveContributor(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketContributors)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: contributor %s", ErrNotFound, id)
		}
		if err := b.Delete([]byte(id)); err != nil {
			return fmt.Errorf("boltstore: delete contributor: %w", err)
		}
		return nil
	})
}

// ListContributors returns every contributor ascending by name.
func (s *BoltStore) ListContributors() ([]revshare.Contributor, error) {
	return s.list(false)
}

// ListActiveContributors returns the paid-tier contributors ascending by name.
func (s *BoltStore) ListActiveContributors() ([]revshare.Contributor, error) {
	return s.list(true)
}

func (s *BoltStore) list(activeOnly bool) ([]revshare.Contributor, error) {
	result := make([]revshare.Contributor, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketContributors).ForEach(func(k, v []byte) error {
			var c revshare.Contributor
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("boltstore: decode contributor %s: %w", k, err)
			}
			if activeOnly && !c.Tier.Paid() {
				return nil
			}
			result = append(result, c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: list contributors: %w", err)
	}
	SortByName(result)
	return result, nil
}

// AppendPayoutRecord adds a committed record under the next sequence number.
func (s *BoltStore) AppendPayoutRecord(r revshare.PayoutRecord) error {
	if r.ID == "" {
		return fmt.Errorf("%w: payout record id", ErrNilParam)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode payout: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return putPayout(tx, r.ID, data)
	})
}

func putPayout(tx *bbolt.Tx, id string, data []byte) error {
	idx := tx.Bucket(bucketPayoutIndex)
	if idx.Get([]byte(id)) != nil {
		return fmt.Errorf("%w: payout %s", ErrDuplicate, id)
	}
	b := tx.Bucket(bucketPayouts)
	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("boltstore: next payout sequence: %w", err)
	}
	key := seqKey(seq)
	if err := b.Put(key, data); err != nil {
		return fmt.Errorf("boltstore: put payout: %w", err)
	}
	if err := idx.Put([]byte(id), key); err != nil {
		return fmt.Errorf("boltstore: put payout index: %w", err)
	}
	return nil
}

// ListPayoutRecords returns the history in commit order.
func (s *BoltStore) ListPayoutRecords() ([]revshare.PayoutRecord, error) {
	result := make([]revshare.PayoutRecord, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPayouts).ForEach(func(k, v []byte) error {
			var r revshare.PayoutRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("boltstore: decode payout: %w", err)
			}
			result = append(result, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: list payouts: %w", err)
	}
	return result, nil
}

// RemovePayoutRecord deletes a record and its index entry.
func (s *BoltStore) RemovePayoutRecord(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		idx := tx.Bucket(bucketPayoutIndex)
		key := idx.Get([]byte(id))
		if key == nil {
			return fmt.Errorf("%w: payout %s", ErrNotFound, id)
		}
		if err := tx.Bucket(bucketPayouts).Delete(key); err != nil {
			return fmt.Errorf("boltstore: delete payout: %w", err)
		}
		if err := idx.Delete([]byte(id)); err != nil {
			return fmt.Errorf("boltstore: delete payout index: %w", err)
		}
		return nil
	})
}

// Replace swaps the database content for doc in a single transaction.
func (s *BoltStore) Replace(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParam)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("boltstore: drop bucket %q: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}

		data, err := json.Marshal(doc.Project)
		if err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
		if err := tx.Bucket(bucketMeta).Put(keyProject, data); err != nil {
			return fmt.Errorf("boltstore: put project: %w", err)
		}

		cb := tx.Bucket(bucketContributors)
		for _, c := range doc.Members {
			data, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("encode contributor: %w", err)
			}
			if err := cb.Put([]byte(c.ID), data); err != nil {
				return fmt.Errorf("boltstore: put contributor: %w", err)
			}
		}

		for _, r := range doc.Payouts {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("encode payout: %w", err)
			}
			if err := putPayout(tx, r.ID, data); err != nil {
				return err
			}
		}
		return nil
	})
}
