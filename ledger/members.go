package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitfsorg/tiershare/paymail"
	"github.com/bitfsorg/tiershare/revshare"
)

// MemberOpts holds the editable contributor fields.
type MemberOpts struct {
	Name    string
	Tier    string // main, assistant, thanks or fan
	Email   string
	Payment string // BSV address or Paymail handle
	Role    string
}

func (o *MemberOpts) contributor(id string) (revshare.Contributor, error) {
	if o == nil {
		return revshare.Contributor{}, fmt.Errorf("%w: member options", ErrNilParam)
	}
	tier, err := revshare.ParseTier(o.Tier)
	if err != nil {
		return revshare.Contributor{}, err
	}
	return revshare.Contributor{
		ID:      id,
		Name:    strings.TrimSpace(o.Name),
		Tier:    tier,
		Email:   strings.TrimSpace(o.Email),
		Payment: strings.TrimSpace(o.Payment),
		Role:    strings.TrimSpace(o.Role),
	}, nil
}

// AddMember creates a contributor with a fresh id and the current time
// as join date.
func (l *Ledger) AddMember(opts *MemberOpts) (revshare.Contributor, error) {
	c, err := opts.contributor(l.NewID())
	if err != nil {
		return revshare.Contributor{}, fmt.Errorf("ledger: add member: %w", err)
	}
	c.JoinDate = l.Clock().UTC()

	if err := l.Store.AddContributor(c); err != nil {
		return revshare.Contributor{}, fmt.Errorf("ledger: add member: %w", err)
	}
	l.warnPayment(c)
	l.Log.Info("member added", "id", c.ID, "name", c.Name, "tier", c.Tier)
	return c, nil
}

// UpdateMember replaces the editable fields of contributor id. The join
// date is kept.
func (l *Ledger) UpdateMember(id string, opts *MemberOpts) (revshare.Contributor, error) {
	c, err := opts.contributor(id)
	if err != nil {
		return revshare.Contributor{}, fmt.Errorf("ledger: update member: %w", err)
	}
	if err := l.Store.UpdateContributor(c); err != nil {
		return revshare.Contributor{}, fmt.Errorf("ledger: update member: %w", err)
	}
	updated, err := l.Store.GetContributor(id)
	if err != nil {
		return revshare.Contributor{}, fmt.Errorf("ledger: update member: %w", err)
	}
	l.warnPayment(updated)
	l.Log.Info("member updated", "id", id, "name", updated.Name, "tier", updated.Tier)
	return updated, nil
}

// RemoveMember deletes contributor id. Committed payouts keep their copy.
func (l *Ledger) RemoveMember(id string) error {
	if err := l.Store.RemoveContributor(id); err != nil {
		return fmt.Errorf("ledger: remove member: %w", err)
	}
	l.Log.Info("member removed", "id", id)
	return nil
}

// Member returns contributor id.
func (l *Ledger) Member(id string) (revshare.Contributor, error) {
	return l.Store.GetContributor(id)
}

// Members returns the whole roster, Fan tier included, in name order.
func (l *Ledger) Members() ([]revshare.Contributor, error) {
	return l.Store.ListContributors()
}

// CheckPayment classifies the payment details of contributor id and
// resolves Paymail endpoints through l.Resolver.
func (l *Ledger) CheckPayment(ctx context.Context, id string) (*paymail.Check, error) {
	c, err := l.Store.GetContributor(id)
	if err != nil {
		return nil, fmt.Errorf("ledger: check payment: %w", err)
	}
	check, err := paymail.CheckPayment(ctx, c.Payment, l.Resolver)
	if err != nil {
		return nil, fmt.Errorf("ledger: check payment for %s: %w", c.Name, err)
	}
	l.Log.Debug("payment checked", "id", id, "kind", check.Address.Kind, "fallback", check.Fallback)
	return check, nil
}

// warnPayment logs payment details that are neither an address nor a
// Paymail handle. They are still stored as entered.
func (l *Ledger) warnPayment(c revshare.Contributor) {
	if _, err := paymail.ClassifyPaymentAddress(c.Payment); err != nil {
		l.Log.Warn("unrecognized payment details", "id", c.ID, "error", err)
	}
}
