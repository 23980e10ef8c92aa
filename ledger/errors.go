package ledger

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")

	// ErrEmptyRoster indicates there are no paid contributors to pay.
	ErrEmptyRoster = errors.New("ledger: no paid contributors")
)
