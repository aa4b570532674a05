package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"billing-sync/internal/domain/subscriptions"

	"github.com/rs/zerolog/log"
)

// Projector reduces provider events onto the local subscription record and its
// premium flag. Every write is an upsert by natural key, so replays are harmless.
// Events are applied in arrival order; provider timestamps are not consulted.
type Projector struct {
	provider Provider
	store    Store
}

func NewProjector(provider Provider, store Store) *Projector {
	return &Projector{provider: provider, store: store}
}

// CheckoutCompleted activates the subscription bought through a checkout session.
func (p *Projector) CheckoutCompleted(ctx context.Context, c CheckoutCompletion) error {
	if c.UserID == "" {
		return fmt.Errorf("%w: checkout session %s has no user_id", ErrMissingLink, c.SessionID)
	}

	rec := &subscriptions.Subscription{
		UserID:           c.UserID,
		UserEmail:        c.UserEmail,
		StripeCustomerID: c.CustomerID,
	}

	if c.SubscriptionID != "" {
		sub, err := p.provider.GetSubscription(ctx, c.SubscriptionID)
		if err != nil {
			return err
		}
		existing, err := p.store.FindBySubscriptionID(ctx, sub.ID)
		switch {
		case err == nil:
			rec = mergeInto(existing, rec)
		case !errors.Is(err, ErrNotFound):
			return err
		}
		copyFromProvider(rec, sub)
	}

	if err := p.transition(rec, subscriptions.StatusActive); err != nil {
		return err
	}
	return p.store.Apply(ctx, rec)
}

func (p *Projector) SubscriptionCreated(ctx context.Context, sub *ProviderSubscription) error {
	return p.project(ctx, sub)
}

func (p *Projector) SubscriptionUpdated(ctx context.Context, sub *ProviderSubscription) error {
	return p.project(ctx, sub)
}

// SubscriptionDeleted cancels a known subscription. Unknown ids are never created.
func (p *Projector) SubscriptionDeleted(ctx context.Context, sub *ProviderSubscription) error {
	rec, err := p.store.FindBySubscriptionID(ctx, sub.ID)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("subscription %s: %w", sub.ID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	rec.Status = subscriptions.StatusCanceled
	return p.store.Apply(ctx, rec)
}

// InvoicePaid and InvoicePaymentFailed re-read the subscription from the provider
// and apply it as an update; the provider status decides active or past_due.
func (p *Projector) InvoicePaid(ctx context.Context, inv *Invoice) error {
	return p.refresh(ctx, inv)
}

func (p *Projector) InvoicePaymentFailed(ctx context.Context, inv *Invoice) error {
	return p.refresh(ctx, inv)
}

func (p *Projector) refresh(ctx context.Context, inv *Invoice) error {
	if inv.SubscriptionID == "" {
		log.Debug().Str("invoice_id", inv.ID).Msg("Invoice without subscription, nothing to project")
		return nil
	}
	sub, err := p.provider.GetSubscription(ctx, inv.SubscriptionID)
	if err != nil {
		return err
	}
	return p.project(ctx, sub)
}

func (p *Projector) project(ctx context.Context, sub *ProviderSubscription) error {
	if sub == nil || sub.ID == "" {
		return fmt.Errorf("%w: subscription without id", ErrMissingLink)
	}

	rec, err := p.correlate(ctx, sub)
	if err != nil {
		return err
	}
	copyFromProvider(rec, sub)

	if err := p.transition(rec, subscriptions.FromProviderStatus(sub.Status)); err != nil {
		return err
	}
	return p.store.Apply(ctx, rec)
}

// correlate finds the local record for sub, or builds a new one for the user named
// by the subscription metadata, an earlier local record for the same customer, or
// the customer's own metadata, in that order.
func (p *Projector) correlate(ctx context.Context, sub *ProviderSubscription) (*subscriptions.Subscription, error) {
	existing, err := p.store.FindBySubscriptionID(ctx, sub.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rec := &subscriptions.Subscription{
		UserID:           sub.UserID,
		StripeCustomerID: sub.CustomerID,
		Status:           subscriptions.StatusFree,
	}
	if sub.CustomerID != "" && rec.UserID == "" {
		link, err := p.store.LinkForCustomer(ctx, sub.CustomerID)
		switch {
		case err == nil:
			rec.UserID = link.UserID
			rec.UserEmail = link.UserEmail
			return rec, nil
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}
	if sub.CustomerID != "" {
		cus, err := p.provider.GetCustomer(ctx, sub.CustomerID)
		if err != nil {
			return nil, err
		}
		rec.UserEmail = cus.Email
		if rec.UserID == "" {
			rec.UserID = cus.UserID
		}
	}
	if rec.UserID == "" {
		return nil, fmt.Errorf("%w: subscription %s customer %s", ErrMissingLink, sub.ID, sub.CustomerID)
	}
	return rec, nil
}

func (p *Projector) transition(rec *subscriptions.Subscription, next subscriptions.Status) error {
	current := rec.Status
	if current == "" {
		current = subscriptions.StatusFree
	}
	if !subscriptions.CanTransition(current, next) {
		subID := ""
		if rec.StripeSubscriptionID != nil {
			subID = *rec.StripeSubscriptionID
		}
		return fmt.Errorf("%w: %s cannot move to %s", ErrTerminalState, subID, next)
	}
	rec.Status = next
	return nil
}

func copyFromProvider(rec *subscriptions.Subscription, sub *ProviderSubscription) {
	id := sub.ID
	rec.StripeSubscriptionID = &id
	if sub.CustomerID != "" {
		rec.StripeCustomerID = sub.CustomerID
	}
	if sub.PriceID != "" {
		rec.StripePriceID = sub.PriceID
	}
	rec.CurrentPeriodStart = timePtr(sub.PeriodStart)
	rec.CurrentPeriodEnd = timePtr(sub.PeriodEnd)
}

// mergeInto overlays the non-empty identity fields of update onto existing.
func mergeInto(existing, update *subscriptions.Subscription) *subscriptions.Subscription {
	if update.UserID != "" {
		existing.UserID = update.UserID
	}
	if update.UserEmail != "" {
		existing.UserEmail = update.UserEmail
	}
	if update.StripeCustomerID != "" {
		existing.StripeCustomerID = update.StripeCustomerID
	}
	return existing
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}
