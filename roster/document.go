package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bitfsorg/tiershare/revshare"
)

// MaxDocumentSize bounds how much DecodeDocument will read.
const MaxDocumentSize = 64 << 20

// Document is the exchangeable project file: header, roster and history.
type Document struct {
	Project Project                 `json:"project"`
	Members []revshare.Contributor  `json:"members"`
	Payouts []revshare.PayoutRecord `json:"payouts"`
}

// NewDocument returns an empty document with non-nil slices.
func NewDocument() *Document {
	return &Document{
		Members: make([]revshare.Contributor, 0),
		Payouts: make([]revshare.PayoutRecord, 0),
	}
}

// requiredKeys must all be present (and non-null) in a document.
var requiredKeys = []string{"project", "members", "payouts"}

// DecodeDocument reads and validates a JSON project document.
func DecodeDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("roster: read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidDocument, MaxDocumentSize)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	for _, key := range requiredKeys {
		raw, ok := top[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidDocument, key)
		}
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// EncodeDocument writes doc as indented JSON.
func EncodeDocument(w io.Writer, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParam)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("roster: encode document: %w", err)
	}
	return nil
}

// ValidateDocument checks contributor fields, id uniqueness and payout
// record digests.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParam)
	}
	seen := make(map[string]bool, len(doc.Members))
	for i, c := range doc.Members {
		if err := ValidateContributor(c); err != nil {
			return fmt.Errorf("%w: member %d: %w", ErrInvalidDocument, i, err)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: member %d: %w %q", ErrInvalidDocument, i, ErrDuplicate, c.ID)
		}
		seen[c.ID] = true
	}

	seen = make(map[string]bool, len(doc.Payouts))
	for i := range doc.Payouts {
		p := &doc.Payouts[i]
		if p.ID == "" {
			return fmt.Errorf("%w: payout %d: empty id", ErrInvalidDocument, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: payout %d: %w %q", ErrInvalidDocument, i, ErrDuplicate, p.ID)
		}
		seen[p.ID] = true
		if err := revshare.VerifyRecord(p); err != nil {
			return fmt.Errorf("%w: payout %d: %w", ErrInvalidDocument, i, err)
		}
	}
	return nil
}

// LoadDocument reads a project document from path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open document: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeDocument(f)
}

// SaveDocument writes doc to path atomically via a temporary file in the
// same directory.
func SaveDocument(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, doc); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("roster: create document directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tiershare-*.json")
	if err != nil {
		return fmt.Errorf("roster: create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("roster: write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("roster: close document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("roster: replace document: %w", err)
	}
	return nil
}

// Snapshot reads the full content of s into a Document.
func Snapshot(s Store) (*Document, error) {
	p, err := s.Project()
	if err != nil {
		return nil, err
	}
	members, err := s.ListContributors()
	if err != nil {
		return nil, err
	}
	payouts, err := s.ListPayoutRecords()
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	doc.Project = p
	doc.Members = append(doc.Members, members...)
	doc.Payouts = append(doc.Payouts, payouts...)
	return doc, nil
}

// Import validates doc and replaces the content of s with it. On error s
// is left unchanged.
func Import(s Store, doc *Document) error {
	if err := ValidateDocument(doc); err != nil {
		return err
	}
	return s.Replace(doc)
}
