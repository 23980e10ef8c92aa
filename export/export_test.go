package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/bitfsorg/tiershare/revshare"
	"github.com/bitfsorg/tiershare/roster"
)

var commitTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func makeRoster(main, assistant int) []revshare.Contributor {
	var rs []revshare.Contributor
	for i := 0; i < main; i++ {
		rs = append(rs, revshare.Contributor{ID: fmt.Sprintf("m%d", i), Name: fmt.Sprintf("Main %d", i), Tier: revshare.TierMain})
	}
	for i := 0; i < assistant; i++ {
		rs = append(rs, revshare.Contributor{ID: fmt.Sprintf("a%d", i), Name: fmt.Sprintf("Assistant %d", i), Tier: revshare.TierAssistant})
	}
	return rs
}

func record(t *testing.T, id, date, notes string, revenue float64, main, assistant int) revshare.PayoutRecord {
	t.Helper()
	calc, err := revshare.ComputeDefault(revenue, makeRoster(main, assistant))
	require.NoError(t, err)
	rec, err := calc.Record(id, date, notes, commitTime)
	require.NoError(t, err)
	return rec
}

// history is in commit order; the January payout was committed last.
func history(t *testing.T) []revshare.PayoutRecord {
	return []revshare.PayoutRecord{
		record(t, "p1", "2024-03-01", `Launch, "beta"`, 100, 2, 0),
		record(t, "p0", "2024-01-15", "", 300, 1, 2),
	}
}

// --- CSV ---

func TestWriteTimelineCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTimelineCSV(&buf, history(t)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Total Revenue,Main Count,Main Share,Assistant Count,Assistant Share,"+
		"Thanks Count,Thanks Share,Total Contributors,Adjustment Applied,Notes", lines[0])
	assert.Equal(t, "2024-01-15,300.00,1,150.00,2,75.00,0,0.00,3,No,", lines[1])
	assert.Equal(t, `2024-03-01,100.00,2,50.00,0,0.00,0,0.00,2,No,"Launch, ""beta"""`, lines[2])
}

func TestWriteTimelineCSV_Adjusted(t *testing.T) {
	var buf bytes.Buffer
	rec := record(t, "p", "2024-05-01", "", 1000, 1, 10)
	require.NoError(t, WriteTimelineCSV(&buf, []revshare.PayoutRecord{rec}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-05-01,1000.00,1,300.00,10,70.00,0,0.00,11,Yes,", lines[1])
}

func TestWriteTimelineCSV_QuotesLeadingSpace(t *testing.T) {
	var buf bytes.Buffer
	rec := record(t, "p", "2024-02-01", " paid late", 100, 2, 0)
	require.NoError(t, WriteTimelineCSV(&buf, []revshare.PayoutRecord{rec}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2024-02-01,100.00,2,50.00,0,0.00,0,0.00,2,No," paid late"`, lines[1])
}

func TestWriteTimelineCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTimelineCSV(&buf, nil)
	assert.ErrorIs(t, err, ErrNoPayouts)
	assert.Zero(t, buf.Len())
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1000, "1000.00"},
		{333.3333333, "333.33"},
		{55.555, "55.55"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(tt.in))
		})
	}
}

// --- Stats ---

func TestSummarize(t *testing.T) {
	o := Summarize(history(t))
	assert.Equal(t, 2, o.Payouts)
	assert.InDelta(t, 400.0, o.TotalRevenue, 1e-9)
	assert.InDelta(t, 200.0, o.Average, 1e-9)
	assert.Equal(t, "2024-03-01", o.LastDate)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Overview{}, Summarize(nil))
}

func TestChronological(t *testing.T) {
	in := []revshare.PayoutRecord{
		{ID: "c", Date: "2024-02-01"},
		{ID: "a", Date: "2024-01-01"},
		{ID: "d", Date: "2024-02-01"},
		{ID: "b", Date: "2023-12-31"},
	}
	out := Chronological(in)

	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids)
	assert.Equal(t, "c", in[0].ID, "input must not be reordered")
}

// --- Markdown ---

func team() []revshare.Contributor {
	return []revshare.Contributor{
		{ID: "1", Name: "Zoe", Tier: revshare.TierMain, Role: "Lead"},
		{ID: "2", Name: "adam", Tier: revshare.TierMain},
		{ID: "3", Name: "Émile", Tier: revshare.TierThanks, Role: "Docs"},
		{ID: "4", Name: "Fred", Tier: revshare.TierFan, Role: "Fan"},
	}
}

func TestCredits(t *testing.T) {
	r := NewRenderer(language.English, "")
	got := r.Credits(roster.Project{Name: "Demo", Description: "A test project"}, team())

	want := "# Demo\n\nA test project\n\n## Credits\n\n" +
		"### Main Tier - Essential Contributors\n\n- **adam**\n- **Zoe** - Lead\n\n" +
		"### Special Thanks - Meaningful Contributors\n\n- **Émile** - Docs\n\n" +
		"### Fan Tier - Minor Contributors\n\n- **Fred** - Fan\n\n"
	assert.Equal(t, want, got)
}

func TestCredits_NoProject(t *testing.T) {
	r := NewRenderer(language.English, "")
	got := r.Credits(roster.Project{}, nil)
	assert.Equal(t, "## Credits\n\n", got)
}

func TestRenderer_Money(t *testing.T) {
	assert.Equal(t, "€12.50", NewRenderer(language.English, "").Money(12.5))
	assert.Equal(t, "$0.17", NewRenderer(language.English, "$").Money(0.167))
}

func TestReport(t *testing.T) {
	r := NewRenderer(language.English, "€")
	generated := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)
	got := r.Report(roster.Project{Name: "Demo"}, team(), history(t), generated)

	for _, want := range []string{
		"# Demo - Revenue Share Report\n",
		"**Generated:** 2024-04-02 09:30:00",
		"- **Total Revenue Shared:** €400.00",
		"- **Total Payouts:** 2",
		"- **Average Payout:** €200.00",
		"- **Last Payout:** 2024-03-01",
		"- **Main Tier:** 2 members",
		"- **Special Thanks:** 1 members",
		"- **Fan Tier:** 1 members (not paid)",
		"- Main Tier: 1 members × €150.00 each",
		"- Assistant Tier: 2 members × €75.00 each",
		"- Main Tier: 2 members × €50.00 each",
		`**Notes:** Launch, "beta"`,
		"- Main 0 (Main Tier): €150.00",
	} {
		assert.Contains(t, got, want)
	}

	first := strings.Index(got, "### Payout #1 - 2024-01-15")
	second := strings.Index(got, "### Payout #2 - 2024-03-01")
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
	assert.NotContains(t, got, "Fairness adjustment applied")
}

func TestReport_AdjustedAndEmpty(t *testing.T) {
	r := NewRenderer(language.English, "€")
	now := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	empty := r.Report(roster.Project{}, nil, nil, now)
	assert.Contains(t, empty, "# Project - Revenue Share Report")
	assert.Contains(t, empty, "- **Last Payout:** Never")
	assert.Contains(t, empty, "No payouts yet.")

	adjusted := record(t, "p", "2024-05-01", "", 500, 1, 10)
	got := r.Report(roster.Project{Name: "Demo"}, nil, []revshare.PayoutRecord{adjusted}, now)
	assert.Contains(t, got, "Fairness adjustment applied")
	assert.Contains(t, got, "- Main Tier: 1 members × €150.00 each")
}
