package export

import "errors"

var (
	// ErrNoPayouts indicates there is no payout history to export.
	ErrNoPayouts = errors.New("export: no payouts to export")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("export: required parameter is nil")
)
