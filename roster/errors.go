package roster

import "errors"

var (
	// ErrNotFound indicates no contributor or payout record has the given id.
	ErrNotFound = errors.New("roster: not found")

	// ErrDuplicate indicates a contributor or payout record id already exists.
	ErrDuplicate = errors.New("roster: duplicate id")

	// ErrInvalidContributor indicates a contributor failed validation.
	ErrInvalidContributor = errors.New("roster: invalid contributor")

	// ErrInvalidDocument indicates a project document is malformed.
	ErrInvalidDocument = errors.New("roster: invalid project document")

	// ErrLocked indicates another process has the project document open.
	ErrLocked = errors.New("roster: document is locked by another process")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("roster: required parameter is nil")
)
