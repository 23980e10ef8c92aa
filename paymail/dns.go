package paymail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
)

// DNSResolver defines the interface for DNS lookups.
// This allows tests to mock DNS resolution.
type DNSResolver interface {
	// LookupSRV looks up SRV records for the given service, proto, and name.
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
}

// defaultDNSResolver wraps the standard library resolver.
type defaultDNSResolver struct{}

func (d *defaultDNSResolver) LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error) {
	return net.DefaultResolver.LookupSRV(ctx, service, proto, name)
}

// DefaultDNSResolver is the production DNS resolver using the net package.
var DefaultDNSResolver DNSResolver = &defaultDNSResolver{}

// SRVPaymail is the Paymail service label: _bsvalias._tcp.{domain}.
const SRVPaymail = "bsvalias"

// DefaultPort is used when a Paymail domain publishes no SRV record.
const DefaultPort = 443

// ResolveEndpoints resolves the Paymail SRV records for a domain.
// Returns endpoint addresses (host:port) sorted by priority then weight.
func ResolveEndpoints(ctx context.Context, domain string) ([]string, error) {
	return ResolveEndpointsWithResolver(ctx, domain, DefaultDNSResolver)
}

// ResolveEndpointsWithResolver resolves the Paymail SRV records using the
// provided DNS resolver.
func ResolveEndpointsWithResolver(ctx context.Context, domain string, resolver DNSResolver) ([]string, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrDNSLookupFailed)
	}

	_, addrs, err := resolver.LookupSRV(ctx, SRVPaymail, "tcp", domain)
	if err != nil {
		return nil, fmt.Errorf("%w: SRV lookup for _%s._tcp.%s: %w", ErrDNSLookupFailed, SRVPaymail, domain, err)
	}

	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no SRV records for _%s._tcp.%s", ErrNoEndpoints, SRVPaymail, domain)
	}

	// Sort by priority (ascending), then by weight (descending)
	sort.SliceStable(addrs, func(i, j int) bool {
		if addrs[i].Priority != addrs[j].Priority {
			return addrs[i].Priority < addrs[j].Priority
		}
		return addrs[i].Weight > addrs[j].Weight
	})

	endpoints := make([]string, len(addrs))
	for i, srv := range addrs {
		host := strings.TrimSuffix(srv.Target, ".")
		endpoints[i] = net.JoinHostPort(host, fmt.Sprint(srv.Port))
	}

	return endpoints, nil
}

// Check is the outcome of CheckPayment.
type Check struct {
	Address   PaymentAddress
	Endpoints []string // Paymail service endpoints, nil for plain addresses
	Fallback  bool     // no SRV record; Endpoints holds domain:443
}

// CheckPayment classifies a contributor's payment value and, for Paymail
// handles, resolves the service endpoints. A domain without SRV records
// falls back to domain:443; a DNSSEC validation failure is returned as an
// error.
func CheckPayment(ctx context.Context, payment string, resolver DNSResolver) (*Check, error) {
	addr, err := ClassifyPaymentAddress(payment)
	if err != nil {
		return nil, err
	}
	check := &Check{Address: addr}
	if addr.Kind != KindPaymail {
		return check, nil
	}
	if resolver == nil {
		resolver = DefaultDNSResolver
	}

	endpoints, err := ResolveEndpointsWithResolver(ctx, addr.Domain, resolver)
	switch {
	case err == nil:
		check.Endpoints = endpoints
	case errors.Is(err, ErrDNSSECValidationFailed), ctx.Err() != nil:
		return nil, err
	default:
		check.Endpoints = []string{net.JoinHostPort(addr.Domain, fmt.Sprint(DefaultPort))}
		check.Fallback = true
	}
	return check, nil
}
