package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bitfsorg/tiershare/export"
	"github.com/bitfsorg/tiershare/ledger"
	"github.com/bitfsorg/tiershare/paymail"
	"github.com/bitfsorg/tiershare/revshare"
)

// parseFlags parses a subcommand's flags, mapping failures to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %w", errUsage, fs.Name(), err)
	}
	return nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: -%s is required", errUsage, name)
	}
	return nil
}

func cmdProject(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("project", flag.ContinueOnError)
	name := fs.String("name", "", "Project name")
	description := fs.String("description", "", "Project description")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	p, err := a.ledger.Project()
	if err != nil {
		return err
	}
	changed := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			p.Name, changed = *name, true
		case "description":
			p.Description, changed = *description, true
		}
	})
	if changed {
		if err := a.ledger.SetProject(p.Name, p.Description); err != nil {
			return err
		}
		if p, err = a.ledger.Project(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Name:        %s\n", p.Name)
	fmt.Fprintf(out, "Description: %s\n", p.Description)
	return nil
}

func cmdMember(a *app, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: member add|edit|remove|list", errUsage)
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("member "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "Contributor id")
	var opts ledger.MemberOpts
	fs.StringVar(&opts.Name, "name", "", "Display name")
	fs.StringVar(&opts.Tier, "tier", "", "Tier: main, assistant, thanks or fan")
	fs.StringVar(&opts.Email, "email", "", "Email address")
	fs.StringVar(&opts.Payment, "payment", "", "BSV address or Paymail handle")
	fs.StringVar(&opts.Role, "role", "", "Role shown in the credits")
	if err := parseFlags(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "add":
		if err := requireFlag("name", opts.Name); err != nil {
			return err
		}
		if err := requireFlag("tier", opts.Tier); err != nil {
			return err
		}
		c, err := a.ledger.AddMember(&opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %s (%s) as %s\n", c.Name, c.ID, c.Tier)

	case "edit":
		if err := requireFlag("id", *id); err != nil {
			return err
		}
		current, err := a.ledger.Member(*id)
		if err != nil {
			return err
		}
		merged := ledger.MemberOpts{
			Name:    current.Name,
			Tier:    current.Tier.String(),
			Email:   current.Email,
			Payment: current.Payment,
			Role:    current.Role,
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				merged.Name = opts.Name
			case "tier":
				merged.Tier = opts.Tier
			case "email":
				merged.Email = opts.Email
			case "payment":
				merged.Payment = opts.Payment
			case "role":
				merged.Role = opts.Role
			}
		})
		c, err := a.ledger.UpdateMember(*id, &merged)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated %s (%s) as %s\n", c.Name, c.ID, c.Tier)

	case "remove":
		if err := requireFlag("id", *id); err != nil {
			return err
		}
		if err := a.ledger.RemoveMember(*id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %s\n", *id)

	case "list":
		members, err := a.ledger.Members()
		if err != nil {
			return err
		}
		if len(members) == 0 {
			fmt.Fprintln(out, "No members yet.")
			return nil
		}
		for _, tier := range revshare.Tiers {
			for _, m := range members {
				if m.Tier != tier {
					continue
				}
				fmt.Fprintf(out, "%-36s  %-9s  %-24s  %-20s  %s\n", m.ID, m.Tier, m.Name, m.Role, m.Payment)
			}
		}

	default:
		return fmt.Errorf("%w: unknown member command %q", errUsage, sub)
	}
	return nil
}

func parseRevenue(s string) (float64, error) {
	if err := requireFlag("revenue", s); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: revenue %q is not a number", revshare.ErrInvalidInput, s)
	}
	return v, nil
}

func printCalculation(out io.Writer, calc *revshare.Calculation) {
	fmt.Fprintf(out, "Revenue: %s\n\n", export.Amount(calc.Revenue))
	for _, tier := range revshare.PaidTiers {
		n := calc.Counts.Of(tier)
		if n == 0 {
			continue
		}
		fmt.Fprintf(out, "%-15s %3d x %10s = %10s\n",
			tierPrefix(tier), n,
			export.Amount(calc.ShareOf(tier)), export.Amount(calc.TierTotal(tier)))
	}
	if calc.FairnessAdjusted() {
		fmt.Fprintf(out, "\nFairness adjustment: %s\n", calc.FairnessExplanation())
	}

	fmt.Fprintln(out, "\nMembers:")
	for _, m := range calc.Members {
		fmt.Fprintf(out, "  %-24s %-9s %10s\n", m.Name, m.Tier, export.Amount(m.Amount))
	}

	rec := revshare.Recommend(calc)
	fmt.Fprintf(out, "\nRecommendation: %s (%s per member)\n", rec.Advice(), export.Amount(rec.PerMember))
}

// tierPrefix is the short heading of a tier label, before " - ".
func tierPrefix(t revshare.Tier) string {
	short, _, _ := strings.Cut(t.Label(), " - ")
	return short
}

func cmdCalc(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	revenue := fs.String("revenue", "", "Revenue to distribute")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	v, err := parseRevenue(*revenue)
	if err != nil {
		return err
	}
	calc, err := a.ledger.Calculate(v)
	if err != nil {
		return err
	}
	printCalculation(out, calc)
	return nil
}

func cmdCommit(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("commit", flag.ContinueOnError)
	revenue := fs.String("revenue", "", "Revenue to distribute")
	var opts ledger.CommitOpts
	fs.StringVar(&opts.Date, "date", "", "Payout date YYYY-MM-DD (default today)")
	fs.StringVar(&opts.Notes, "notes", "", "Notes recorded with the payout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	v, err := parseRevenue(*revenue)
	if err != nil {
		return err
	}
	calc, err := a.ledger.Calculate(v)
	if err != nil {
		return err
	}
	rec, err := a.ledger.Commit(calc, &opts)
	if err != nil {
		return err
	}
	printCalculation(out, calc)
	fmt.Fprintf(out, "\nCommitted payout %s on %s\n", rec.ID, rec.Date)
	return nil
}

func cmdHistory(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	payouts, err := a.ledger.Payouts()
	if err != nil {
		return err
	}
	if len(payouts) == 0 {
		fmt.Fprintln(out, "No payouts yet.")
		return nil
	}
	for _, p := range export.Chronological(payouts) {
		adjusted := ""
		if p.AdjustmentApplied {
			adjusted = "  (fairness adjusted)"
		}
		fmt.Fprintf(out, "%s  %s  %10s  %2d members%s\n", p.ID, p.Date, export.Amount(p.Revenue), p.TotalContributors(), adjusted)
		if p.Notes != "" {
			fmt.Fprintf(out, "    %s\n", p.Notes)
		}
	}
	return nil
}

func cmdPayoutRemove(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("payout-remove", flag.ContinueOnError)
	id := fs.String("id", "", "Payout id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag("id", *id); err != nil {
		return err
	}
	if err := a.ledger.RemovePayout(*id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed payout %s\n", *id)
	return nil
}

func cmdStats(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	o, err := a.ledger.Stats()
	if err != nil {
		return err
	}
	last := o.LastDate
	if last == "" {
		last = "Never"
	}
	fmt.Fprintf(out, "Total revenue shared: %s\n", export.Amount(o.TotalRevenue))
	fmt.Fprintf(out, "Payouts:              %d\n", o.Payouts)
	fmt.Fprintf(out, "Average payout:       %s\n", export.Amount(o.Average))
	fmt.Fprintf(out, "Last payout:          %s\n", last)
	return nil
}

func cmdExport(a *app, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: export csv|credits|report", errUsage)
	}
	kind, rest := args[0], args[1:]

	fs := flag.NewFlagSet("export "+kind, flag.ContinueOnError)
	output := fs.String("o", "", "Output file (default stdout)")
	if err := parseFlags(fs, rest); err != nil {
		return err
	}

	var buf bytes.Buffer
	renderer := export.NewRenderer(a.cfg.Language(), a.cfg.Currency)
	switch kind {
	case "csv":
		if err := a.ledger.ExportCSV(&buf); err != nil {
			return err
		}
	case "credits":
		s, err := a.ledger.Credits(renderer)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case "report":
		s, err := a.ledger.Report(renderer)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	default:
		return fmt.Errorf("%w: unknown export %q", errUsage, kind)
	}

	if *output == "" {
		_, err := buf.WriteTo(out)
		return err
	}
	return writeFile(*output, buf.Bytes())
}

// writeFile creates path with data, reporting close errors.
func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func cmdImport(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", "", "Project document to load")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag("file", *file); err != nil {
		return err
	}
	if err := a.ledger.Load(*file); err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %s\n", *file)
	return nil
}

func cmdSave(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	file := fs.String("file", "", "Destination of the project document")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag("file", *file); err != nil {
		return err
	}
	if err := a.ledger.Save(*file); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s\n", *file)
	return nil
}

func cmdCheckPayment(a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check-payment", flag.ContinueOnError)
	id := fs.String("id", "", "Contributor id")
	dnssec := fs.Bool("dnssec", false, "Require DNSSEC-validated SRV answers")
	upstream := fs.String("upstream", "", "Recursive resolver for -dnssec (default 8.8.8.8:53)")
	timeout := fs.Duration("timeout", 15*time.Second, "Lookup timeout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag("id", *id); err != nil {
		return err
	}
	if *dnssec {
		a.ledger.Resolver = paymail.NewDNSSECResolver(*upstream)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	check, err := a.ledger.CheckPayment(ctx, *id)
	if err != nil {
		return err
	}
	switch check.Address.Kind {
	case paymail.KindNone:
		fmt.Fprintln(out, "No payment details recorded.")
	case paymail.KindAddress:
		fmt.Fprintf(out, "BSV address %s\n", check.Address.Raw)
	case paymail.KindPaymail:
		fmt.Fprintf(out, "Paymail %s\n", check.Address.Handle())
		if check.Fallback {
			fmt.Fprintln(out, "  no SRV record, using the domain directly")
		}
		for _, ep := range check.Endpoints {
			fmt.Fprintf(out, "  endpoint %s\n", ep)
		}
	}
	return nil
}
