// Package paymail classifies contributor payment details and resolves the
// Paymail service endpoints of a handle's domain.
//
// A payment value is either a base58check BSV address or a Paymail handle
// of the form alias@domain. Classification never touches the network;
// endpoint resolution goes through a DNSResolver so tests and DNSSEC
// validation can be swapped in.
package paymail

import (
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/script"
)

// Kind is the form of a contributor's payment value.
type Kind int

const (
	// KindNone means no payment details were recorded.
	KindNone Kind = iota
	// KindAddress is a P2PKH BSV address.
	KindAddress
	// KindPaymail is an alias@domain Paymail handle.
	KindPaymail
)

// String returns the human-readable name of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindAddress:
		return "Address"
	case KindPaymail:
		return "Paymail"
	default:
		return "Unknown"
	}
}

// PaymentAddress is a classified payment value.
type PaymentAddress struct {
	Kind   Kind
	Raw    string // trimmed input
	Alias  string // Paymail alias (KindPaymail only)
	Domain string // Paymail domain, lowercased (KindPaymail only)
}

// Handle returns the canonical alias@domain form of a Paymail address.
func (p PaymentAddress) Handle() string {
	if p.Kind != KindPaymail {
		return ""
	}
	return p.Alias + "@" + p.Domain
}

// ClassifyPaymentAddress decides whether s is empty, a BSV address or a
// Paymail handle. Anything else wraps ErrInvalidPaymentAddress.
func ClassifyPaymentAddress(s string) (PaymentAddress, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return PaymentAddress{Kind: KindNone}, nil
	}

	if strings.Contains(raw, "@") {
		alias, domain, err := splitHandle(raw)
		if err != nil {
			return PaymentAddress{}, err
		}
		return PaymentAddress{Kind: KindPaymail, Raw: raw, Alias: alias, Domain: domain}, nil
	}

	if _, err := script.NewAddressFromString(raw); err != nil {
		return PaymentAddress{}, fmt.Errorf("%w: %q: %w", ErrInvalidPaymentAddress, raw, err)
	}
	return PaymentAddress{Kind: KindAddress, Raw: raw}, nil
}

// splitHandle validates alias@domain. The domain needs at least one dot
// and no empty labels.
func splitHandle(raw string) (alias, domain string, err error) {
	parts := strings.Split(raw, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: malformed Paymail handle %q", ErrInvalidPaymentAddress, raw)
	}
	alias, domain = parts[0], strings.ToLower(parts[1])

	if strings.ContainsAny(alias, " \t/\\") {
		return "", "", fmt.Errorf("%w: invalid Paymail alias %q", ErrInvalidPaymentAddress, alias)
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "", "", fmt.Errorf("%w: invalid Paymail domain %q", ErrInvalidPaymentAddress, domain)
	}
	for _, l := range labels {
		if l == "" || strings.ContainsAny(l, " \t/\\:") {
			return "", "", fmt.Errorf("%w: invalid Paymail domain %q", ErrInvalidPaymentAddress, domain)
		}
	}
	return alias, domain, nil
}
