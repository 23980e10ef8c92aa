package paymail

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startDNSServer runs a local UDP DNS server answering every query with
// one SRV record. authenticated controls the AD flag.
func startDNSServer(t *testing.T, authenticated bool, rcode int) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, rcode)
		m.AuthenticatedData = authenticated
		if rcode == dns.RcodeSuccess && req.Question[0].Qtype == dns.TypeSRV {
			m.Answer = append(m.Answer, &dns.SRV{
				Hdr: dns.RR_Header{
					Name:   req.Question[0].Name,
					Rrtype: dns.TypeSRV,
					Class:  dns.ClassINET,
					Ttl:    60,
				},
				Priority: 10,
				Weight:   5,
				Port:     443,
				Target:   "paymail.example.com.",
			})
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewDNSSECResolver_Defaults(t *testing.T) {
	r := NewDNSSECResolver("")
	assert.Equal(t, "8.8.8.8:53", r.Upstream)
	assert.Equal(t, 10*time.Second, r.Timeout)

	assert.Equal(t, "1.1.1.1:53", NewDNSSECResolver("1.1.1.1:53").Upstream)
}

func TestDNSSECResolver_LookupSRV_Authenticated(t *testing.T) {
	r := NewDNSSECResolver(startDNSServer(t, true, dns.RcodeSuccess))

	_, srvs, err := r.LookupSRV(testContext(t), SRVPaymail, "tcp", "example.com")
	require.NoError(t, err)
	require.Len(t, srvs, 1)
	assert.Equal(t, "paymail.example.com", srvs[0].Target)
	assert.Equal(t, uint16(443), srvs[0].Port)
	assert.Equal(t, uint16(10), srvs[0].Priority)
}

func TestDNSSECResolver_LookupSRV_NotAuthenticated(t *testing.T) {
	r := NewDNSSECResolver(startDNSServer(t, false, dns.RcodeSuccess))

	_, _, err := r.LookupSRV(testContext(t), SRVPaymail, "tcp", "example.com")
	assert.ErrorIs(t, err, ErrDNSSECValidationFailed)
}

func TestDNSSECResolver_LookupSRV_ServerFailure(t *testing.T) {
	r := NewDNSSECResolver(startDNSServer(t, true, dns.RcodeServerFailure))

	_, _, err := r.LookupSRV(testContext(t), SRVPaymail, "tcp", "example.com")
	assert.ErrorIs(t, err, ErrDNSLookupFailed)
}

func TestCheckPayment_DNSSEC(t *testing.T) {
	ctx := testContext(t)

	ok := NewDNSSECResolver(startDNSServer(t, true, dns.RcodeSuccess))
	check, err := CheckPayment(ctx, "alice@example.com", ok)
	require.NoError(t, err)
	assert.Equal(t, []string{"paymail.example.com:443"}, check.Endpoints)

	// Authenticated NXDOMAIN carries no records: fall back to the domain.
	nx := NewDNSSECResolver(startDNSServer(t, true, dns.RcodeNameError))
	check, err = CheckPayment(ctx, "alice@example.com", nx)
	require.NoError(t, err)
	assert.True(t, check.Fallback)

	bad := NewDNSSECResolver(startDNSServer(t, false, dns.RcodeSuccess))
	_, err = CheckPayment(ctx, "alice@example.com", bad)
	assert.ErrorIs(t, err, ErrDNSSECValidationFailed)
}
