package ledger

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/bitfsorg/tiershare/export"
	"github.com/bitfsorg/tiershare/paymail"
	"github.com/bitfsorg/tiershare/revshare"
	"github.com/bitfsorg/tiershare/roster"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type stubResolver map[string][]*net.SRV

func (s stubResolver) LookupSRV(_ context.Context, _, _, name string) (string, []*net.SRV, error) {
	records, ok := s[name]
	if !ok {
		return "", nil, fmt.Errorf("no such host %s", name)
	}
	return "", records, nil
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(roster.NewMemStore(), revshare.DefaultPolicy(), nil)
	require.NoError(t, err)

	n := 0
	l.NewID = func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
	l.Clock = func() time.Time { return testNow }
	l.Resolver = stubResolver{}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func addMembers(t *testing.T, l *Ledger, tier string, names ...string) []revshare.Contributor {
	t.Helper()
	var out []revshare.Contributor
	for _, name := range names {
		c, err := l.AddMember(&MemberOpts{Name: name, Tier: tier})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, revshare.DefaultPolicy(), nil)
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = New(roster.NewMemStore(), revshare.Policy{RatioThreshold: 5, MainFloor: 2}, nil)
	assert.ErrorIs(t, err, revshare.ErrInvalidPolicy)
}

func TestSetProject(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.SetProject("  Demo  ", " A game "))

	p, err := l.Project()
	require.NoError(t, err)
	assert.Equal(t, roster.Project{Name: "Demo", Description: "A game"}, p)
}

// --- Members ---

func TestAddMember(t *testing.T) {
	l := newTestLedger(t)

	c, err := l.AddMember(&MemberOpts{
		Name:    " Alice ",
		Tier:    "Main",
		Email:   "alice@example.com",
		Payment: "alice@handcash.io",
		Role:    "Lead developer",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-01", c.ID)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, revshare.TierMain, c.Tier)
	assert.Equal(t, testNow, c.JoinDate)

	got, err := l.Member("id-01")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestAddMember_Invalid(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.AddMember(&MemberOpts{Name: "Bob", Tier: "gold"})
	assert.ErrorIs(t, err, revshare.ErrInvalidTier)

	_, err = l.AddMember(&MemberOpts{Name: "   ", Tier: "main"})
	assert.ErrorIs(t, err, roster.ErrInvalidContributor)

	_, err = l.AddMember(nil)
	assert.ErrorIs(t, err, ErrNilParam)

	members, err := l.Members()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestUpdateMember_KeepsJoinDate(t *testing.T) {
	l := newTestLedger(t)
	c := addMembers(t, l, "assistant", "Carol")[0]

	l.Clock = func() time.Time { return testNow.Add(48 * time.Hour) }
	updated, err := l.UpdateMember(c.ID, &MemberOpts{Name: "Caroline", Tier: "main", Role: "Art"})
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.Name)
	assert.Equal(t, revshare.TierMain, updated.Tier)
	assert.Equal(t, "Art", updated.Role)
	assert.Equal(t, testNow, updated.JoinDate)

	_, err = l.UpdateMember("missing", &MemberOpts{Name: "X", Tier: "main"})
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestRemoveMember(t *testing.T) {
	l := newTestLedger(t)
	c := addMembers(t, l, "main", "Dave")[0]

	require.NoError(t, l.RemoveMember(c.ID))
	_, err := l.Member(c.ID)
	assert.ErrorIs(t, err, roster.ErrNotFound)
	assert.ErrorIs(t, l.RemoveMember(c.ID), roster.ErrNotFound)
}

// --- Calculate / commit ---

func TestCalculate_UsesPaidRoster(t *testing.T) {
	l := newTestLedger(t)
	addMembers(t, l, "main", "Ann", "Ben")
	addMembers(t, l, "fan", "Fiona")

	calc, err := l.Calculate(1000)
	require.NoError(t, err)
	assert.Equal(t, revshare.Counts{Main: 2}, calc.Counts)
	assert.InDelta(t, 500.0, calc.MainShare, 1e-9)
	assert.Len(t, calc.Members, 2)
}

func TestCalculate_MembersByTierThenName(t *testing.T) {
	l := newTestLedger(t)
	addMembers(t, l, "assistant", "yara", "Bob")
	addMembers(t, l, "main", "Zoe", "alice")

	calc, err := l.Calculate(1000)
	require.NoError(t, err)

	var names []string
	for _, m := range calc.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"alice", "Zoe", "Bob", "yara"}, names)
}

func TestCalculate_Errors(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Calculate(100)
	assert.ErrorIs(t, err, ErrEmptyRoster)
	assert.ErrorIs(t, err, revshare.ErrInvalidInput)

	addMembers(t, l, "fan", "Only Fans")
	_, err = l.Calculate(100)
	assert.ErrorIs(t, err, ErrEmptyRoster)

	addMembers(t, l, "main", "Main")
	_, err = l.Calculate(0)
	assert.ErrorIs(t, err, revshare.ErrInvalidInput)
}

func TestCalculate_AppliesPolicy(t *testing.T) {
	l := newTestLedger(t)
	addMembers(t, l, "main", "Lead")
	addMembers(t, l, "assistant", "A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10")

	calc, err := l.Calculate(1000)
	require.NoError(t, err)
	assert.True(t, calc.FairnessAdjusted())
	assert.InDelta(t, 300.0, calc.MainShare, 1e-9)

	l.Policy = revshare.Policy{RatioThreshold: 20, MainFloor: 0.3}
	calc, err = l.Calculate(1000)
	require.NoError(t, err)
	assert.False(t, calc.FairnessAdjusted())
}

func TestCommit(t *testing.T) {
	l := newTestLedger(t)
	addMembers(t, l, "main", "Ann", "Ben")

	calc, err := l.Calculate(1000)
	require.NoError(t, err)

	rec, err := l.Commit(calc, &CommitOpts{Notes: "June sales"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", rec.Date)
	assert.Equal(t, "June sales", rec.Notes)
	assert.Equal(t, testNow, rec.CommittedAt)
	assert.NotEmpty(t, rec.Digest)
	require.NoError(t, revshare.ValidateRecord(&rec))

	rec2, err := l.Commit(calc, &CommitOpts{Date: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", rec2.Date)

	payouts, err := l.Payouts()
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	assert.Equal(t, rec.ID, payouts[0].ID)
	assert.Equal(t, rec2.ID, payouts[1].ID)
}

func TestCommit_Errors(t *testing.T) {
	l := newTestLedger(t)
	addMembers(t, l, "main", "Ann")
	calc, err := l.Calculate(100)
	require.NoError(t, err)

	_, err = l.Commit(calc, &CommitOpts{Date: "15/06/2024"})
	assert.ErrorIs(t, err, revshare.ErrInvalidDate)

	_, err = l.Commit(nil, nil)
	assert.ErrorIs(t, err, revshare.ErrNilCalculation)

	payouts, err := l.Payouts()
	require.NoError(t, err)
	assert.Empty(t, payouts)
}

func TestCommit_RecordFrozen(t *testing.T) {
	l := newTestLedger(t)
	ann := addMembers(t, l, "main", "Ann")[0]

	calc, err := l.Calculate(100)
	require.NoError(t, err)
	_, err = l.Commit(calc, nil)
	require.NoError(t, err)

	_, err = l.UpdateMember(ann.ID, &MemberOpts{Name: "Anne", Tier: "thanks"})
	require.NoError(t, err)
	require.NoError(t, l.RemoveMember(ann.ID))

	payouts, err := l.Payouts()
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	require.Len(t, payouts[0].Members, 1)
	assert.Equal(t, "Ann", payouts[0].Members[0].Name)
	assert.Equal(t, revshare.TierMain, payouts[0].Members[0].Tier)
	assert.NoError(t, revshare.VerifyRecord(&payouts[0]))
}

func TestRemovePayoutAndStats(t *testing.T) {
	l := newTestLedger(t)
	addMembers(t, l, "main", "Ann")

	for i, revenue := range []float64{100, 300} {
		calc, err := l.Calculate(revenue)
		require.NoError(t, err)
		_, err = l.Commit(calc, &CommitOpts{Date: fmt.Sprintf("2024-0%d-01", i+1)})
		require.NoError(t, err)
	}

	stats, err := l.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Payouts)
	assert.InDelta(t, 400.0, stats.TotalRevenue, 1e-9)
	assert.Equal(t, "2024-02-01", stats.LastDate)

	payouts, err := l.Payouts()
	require.NoError(t, err)
	require.NoError(t, l.RemovePayout(payouts[1].ID))
	assert.ErrorIs(t, l.RemovePayout(payouts[1].ID), roster.ErrNotFound)

	stats, err = l.Stats()
	require.NoError(t, err)
	assert.Equal(t, export.Overview{TotalRevenue: 100, Payouts: 1, Average: 100, LastDate: "2024-01-01"}, stats)
}

// --- Documents and exports ---

func TestSaveLoad(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.SetProject("Demo", ""))
	addMembers(t, l, "main", "Ann")
	addMembers(t, l, "thanks", "Tom")
	calc, err := l.Calculate(200)
	require.NoError(t, err)
	_, err = l.Commit(calc, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, l.Save(path))

	other := newTestLedger(t)
	require.NoError(t, other.Load(path))

	want, err := l.Document()
	require.NoError(t, err)
	got, err := other.Document()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_InvalidLeavesStoreUnchanged(t *testing.T) {
	l := newTestLedger(t)
	addMembers(t, l, "main", "Ann")

	path := filepath.Join(t.TempDir(), "bad.json")
	doc := roster.NewDocument()
	doc.Members = append(doc.Members, revshare.Contributor{ID: "x", Name: "", Tier: revshare.TierMain})
	require.NoError(t, roster.SaveDocument(path, doc))

	err := l.Load(path)
	assert.ErrorIs(t, err, roster.ErrInvalidDocument)

	members, err := l.Members()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Ann", members[0].Name)
}

func TestExports(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.SetProject("Demo", "Credits test"))
	addMembers(t, l, "main", "Ann")
	addMembers(t, l, "fan", "Fay")

	var buf bytes.Buffer
	assert.ErrorIs(t, l.ExportCSV(&buf), export.ErrNoPayouts)

	calc, err := l.Calculate(100)
	require.NoError(t, err)
	_, err = l.Commit(calc, &CommitOpts{Notes: "first"})
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, l.ExportCSV(&buf))
	assert.Contains(t, buf.String(), "2024-06-15,100.00,1,100.00,0,0.00,0,0.00,1,No,first")

	r := export.NewRenderer(language.English, "€")
	credits, err := l.Credits(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(credits, "# Demo\n\nCredits test\n\n## Credits"))
	assert.Contains(t, credits, "- **Fay**")

	report, err := l.Report(r)
	require.NoError(t, err)
	assert.Contains(t, report, "**Generated:** 2024-06-15 10:00:00")
	assert.Contains(t, report, "- **Total Revenue Shared:** €100.00")

	_, err = l.Credits(nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestCheckPayment(t *testing.T) {
	l := newTestLedger(t)
	l.Resolver = stubResolver{
		"example.com": {{Target: "pay.example.com.", Port: 443, Priority: 1, Weight: 1}},
	}

	withPaymail, err := l.AddMember(&MemberOpts{Name: "Ann", Tier: "main", Payment: "ann@example.com"})
	require.NoError(t, err)
	withAddress, err := l.AddMember(&MemberOpts{Name: "Ben", Tier: "main", Payment: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"})
	require.NoError(t, err)
	withJunk, err := l.AddMember(&MemberOpts{Name: "Cal", Tier: "main", Payment: "ask me later"})
	require.NoError(t, err)

	ctx := context.Background()

	check, err := l.CheckPayment(ctx, withPaymail.ID)
	require.NoError(t, err)
	assert.Equal(t, paymail.KindPaymail, check.Address.Kind)
	assert.Equal(t, []string{"pay.example.com:443"}, check.Endpoints)

	check, err = l.CheckPayment(ctx, withAddress.ID)
	require.NoError(t, err)
	assert.Equal(t, paymail.KindAddress, check.Address.Kind)

	_, err = l.CheckPayment(ctx, withJunk.ID)
	assert.ErrorIs(t, err, paymail.ErrInvalidPaymentAddress)

	_, err = l.CheckPayment(ctx, "missing")
	assert.ErrorIs(t, err, roster.ErrNotFound)
}
