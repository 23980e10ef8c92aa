package paymail

import "errors"

var (
	// ErrInvalidPaymentAddress indicates the value is neither a BSV address
	// nor a Paymail handle.
	ErrInvalidPaymentAddress = errors.New("paymail: invalid payment address")

	// ErrDNSLookupFailed indicates a DNS SRV lookup failed.
	ErrDNSLookupFailed = errors.New("paymail: DNS lookup failed")

	// ErrNoEndpoints indicates no SRV records were found for the domain.
	ErrNoEndpoints = errors.New("paymail: no endpoints found")

	// ErrDNSSECValidationFailed indicates the upstream resolver did not
	// authenticate the answer.
	ErrDNSSECValidationFailed = errors.New("paymail: DNSSEC validation failed")
)
