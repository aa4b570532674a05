package billing

import (
	"context"
	"errors"
	"time"

	"billing-sync/internal/domain/subscriptions"
)

type SubscriptionStatus struct {
	Status               subscriptions.Status `json:"subscription_status"`
	IsSubscribed         bool                 `json:"is_subscribed"`
	StripeCustomerID     *string              `json:"stripe_customer_id"`
	StripeSubscriptionID *string              `json:"stripe_subscription_id"`
	StartDate            *time.Time           `json:"subscription_start_date"`
	EndDate              *time.Time           `json:"subscription_end_date"`
}

type StatusReader struct {
	store Store
}

func NewStatusReader(store Store) *StatusReader {
	return &StatusReader{store: store}
}

// Status reports the user's most recent subscription, or the free default.
func (r *StatusReader) Status(ctx context.Context, userID string) (SubscriptionStatus, error) {
	rec, err := r.store.LatestForUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return SubscriptionStatus{Status: subscriptions.StatusFree}, nil
	}
	if err != nil {
		return SubscriptionStatus{}, err
	}

	out := SubscriptionStatus{
		Status:               rec.Status,
		IsSubscribed:         rec.Status.Entitled(),
		StripeSubscriptionID: rec.StripeSubscriptionID,
		StartDate:            rec.CurrentPeriodStart,
		EndDate:              rec.CurrentPeriodEnd,
	}
	if rec.StripeCustomerID != "" {
		id := rec.StripeCustomerID
		out.StripeCustomerID = &id
	}
	return out, nil
}

// FeatureActive reports whether the named feature is on for the user.
func (r *StatusReader) FeatureActive(ctx context.Context, userID, feature string) (bool, error) {
	flag, err := r.store.Flag(ctx, userID, feature)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return flag.IsActive, nil
}
