package export

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bitfsorg/tiershare/revshare"
	"github.com/bitfsorg/tiershare/roster"
)

// DefaultCurrency is the symbol prefixed to amounts when none is set.
const DefaultCurrency = "€"

// Renderer produces the Markdown exports. Amounts go through a locale-aware
// printer so digit grouping follows the configured language.
type Renderer struct {
	printer  *message.Printer
	currency string
}

// NewRenderer creates a Renderer for the given locale and currency symbol.
func NewRenderer(locale language.Tag, currency string) *Renderer {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Renderer{
		printer:  message.NewPrinter(locale),
		currency: currency,
	}
}

// Money formats an amount with two decimals and the currency symbol.
func (r *Renderer) Money(v float64) string {
	return r.currency + r.printer.Sprintf("%.2f", v)
}

// Credits renders the contributor credits: project title and description
// when set, then one section per non-empty tier with members in name order.
func (r *Renderer) Credits(p roster.Project, members []revshare.Contributor) string {
	var b strings.Builder

	if p.Name != "" {
		fmt.Fprintf(&b, "# %s\n\n", p.Name)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	b.WriteString("## Credits\n\n")

	for _, tier := range revshare.Tiers {
		group := byTier(members, tier)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", tier.Label())
		for _, m := range group {
			if m.Role != "" {
				fmt.Fprintf(&b, "- **%s** - %s\n", m.Name, m.Role)
			} else {
				fmt.Fprintf(&b, "- **%s**\n", m.Name)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Report renders the full revenue share report. generated is the timestamp
// printed in the header.
func (r *Renderer) Report(p roster.Project, members []revshare.Contributor, payouts []revshare.PayoutRecord, generated time.Time) string {
	var b strings.Builder

	name := p.Name
	if name == "" {
		name = "Project"
	}
	fmt.Fprintf(&b, "# %s - Revenue Share Report\n\n", name)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", generated.Format("2006-01-02 15:04:05"))
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}

	o := Summarize(payouts)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- **Total Revenue Shared:** %s\n", r.Money(o.TotalRevenue))
	fmt.Fprintf(&b, "- **Total Payouts:** %d\n", o.Payouts)
	fmt.Fprintf(&b, "- **Average Payout:** %s\n", r.Money(o.Average))
	last := o.LastDate
	if last == "" {
		last = "Never"
	}
	fmt.Fprintf(&b, "- **Last Payout:** %s\n\n", last)

	b.WriteString("## Current Team Composition\n\n")
	for _, tier := range revshare.Tiers {
		n := len(byTier(members, tier))
		if tier.Paid() {
			fmt.Fprintf(&b, "- **%s:** %d members\n", tierTitle(tier), n)
		} else {
			fmt.Fprintf(&b, "- **%s:** %d members (not paid)\n", tierTitle(tier), n)
		}
	}
	b.WriteString("\n")

	if len(payouts) == 0 {
		b.WriteString("## Payout Timeline\n\nNo payouts yet.\n")
		return b.String()
	}

	b.WriteString("## Payout Timeline\n\n")
	for i, rec := range Chronological(payouts) {
		r.writePayout(&b, i+1, &rec)
	}
	return b.String()
}

func (r *Renderer) writePayout(b *strings.Builder, n int, rec *revshare.PayoutRecord) {
	fmt.Fprintf(b, "### Payout #%d - %s\n\n", n, rec.Date)
	fmt.Fprintf(b, "**Total Amount:** %s\n\n", r.Money(rec.Revenue))
	if rec.AdjustmentApplied {
		b.WriteString("*Fairness adjustment applied to guarantee the Main Tier floor.*\n\n")
	}

	b.WriteString("**Distribution:**\n")
	for _, line := range []struct {
		tier  revshare.Tier
		count int
		share float64
	}{
		{revshare.TierMain, rec.MainCount, rec.MainShare},
		{revshare.TierAssistant, rec.AssistantCount, rec.AssistantShare},
		{revshare.TierThanks, rec.ThanksCount, rec.ThanksShare},
	} {
		if line.count == 0 {
			continue
		}
		fmt.Fprintf(b, "- %s: %d members × %s each\n", tierTitle(line.tier), line.count, r.Money(line.share))
	}
	b.WriteString("\n")

	if rec.Notes != "" {
		fmt.Fprintf(b, "**Notes:** %s\n\n", rec.Notes)
	}

	if len(rec.Members) > 0 {
		b.WriteString("**Individual Members:**\n")
		for _, m := range rec.Members {
			fmt.Fprintf(b, "- %s (%s): %s\n", m.Name, tierTitle(m.Tier), r.Money(m.Amount))
		}
		b.WriteString("\n")
	}
}

// byTier returns the members of tier t in name order.
func byTier(members []revshare.Contributor, t revshare.Tier) []revshare.Contributor {
	group := make([]revshare.Contributor, 0)
	for _, m := range members {
		if m.Tier == t {
			group = append(group, m)
		}
	}
	roster.SortByName(group)
	return group
}

func tierTitle(t revshare.Tier) string {
	switch t {
	case revshare.TierMain:
		return "Main Tier"
	case revshare.TierAssistant:
		return "Assistant Tier"
	case revshare.TierThanks:
		return "Special Thanks"
	case revshare.TierFan:
		return "Fan Tier"
	default:
		return string(t)
	}
}
