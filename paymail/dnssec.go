package paymail

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// defaultUpstream is the default recursive resolver for DNSSEC queries.
	defaultUpstream = "8.8.8.8:53"

	// dnssecTimeout is the per-query timeout when none is configured.
	dnssecTimeout = 10 * time.Second

	// edns0BufSize is the EDNS0 UDP buffer size.
	edns0BufSize = 4096
)

// DNSSECResolver is a DNSResolver for checking contributor Paymail handles
// when the bsvalias SRV answer must be authenticated. Validation is done by
// the upstream recursive resolver; answers without the AD flag fail with
// ErrDNSSECValidationFailed, which CheckPayment returns instead of falling
// back to the domain.
type DNSSECResolver struct {
	// Upstream is the recursive resolver address (e.g., "8.8.8.8:53").
	Upstream string
	Timeout  time.Duration
}

// NewDNSSECResolver returns the resolver behind `check-payment -dnssec`.
// An empty upstream means 8.8.8.8:53.
func NewDNSSECResolver(upstream string) *DNSSECResolver {
	if upstream == "" {
		upstream = defaultUpstream
	}
	return &DNSSECResolver{Upstream: upstream, Timeout: dnssecTimeout}
}

// exchange sends a query with the DNSSEC OK flag set and requires the AD
// flag on the answer.
func (r *DNSSECResolver) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(edns0BufSize, true)

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = dnssecTimeout
	}
	client := &dns.Client{Timeout: timeout}
	resp, _, err := client.ExchangeContext(ctx, msg, r.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s %s: %w",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype], err)
	}

	// NXDOMAIN is still a validated answer.
	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("%w: query %s %s: rcode %s",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype],
			dns.RcodeToString[resp.Rcode])
	}

	if !resp.AuthenticatedData {
		return nil, fmt.Errorf("%w: AD flag not set for %s %s",
			ErrDNSSECValidationFailed, name, dns.TypeToString[qtype])
	}

	return resp, nil
}

// LookupSRV looks up SRV records with DNSSEC validation. The canonical
// name is always empty.
func (r *DNSSECResolver) LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error) {
	qname := fmt.Sprintf("_%s._%s.%s", service, proto, name)

	resp, err := r.exchange(ctx, qname, dns.TypeSRV)
	if err != nil {
		return "", nil, err
	}

	var srvs []*net.SRV
	for _, rr := range resp.Answer {
		if srv, ok := rr.(*dns.SRV); ok {
			srvs = append(srvs, &net.SRV{
				Target:   strings.TrimSuffix(srv.Target, "."),
				Port:     srv.Port,
				Priority: srv.Priority,
				Weight:   srv.Weight,
			})
		}
	}
	return "", srvs, nil
}
