package stripe

import (
	"encoding/json"
	"fmt"
	"time"

	"billing-sync/internal/billing"

	stripelib "github.com/stripe/stripe-go/v75"
)

// metadataValue reads key, falling back to the camelCase spelling older sessions
// and customers were tagged with.
func metadataValue(md map[string]string, key, legacy string) string {
	if v := md[key]; v != "" {
		return v
	}
	return md[legacy]
}

func toCustomer(c *stripelib.Customer) *billing.Customer {
	return &billing.Customer{
		ID:     c.ID,
		Email:  c.Email,
		UserID: metadataValue(c.Metadata, metadataUserID, legacyMetadataUserID),
	}
}

func toSubscription(s *stripelib.Subscription) *billing.ProviderSubscription {
	out := &billing.ProviderSubscription{
		ID:     s.ID,
		Status: string(s.Status),
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
		out.PriceID = s.Items.Data[0].Price.ID
	}
	if s.CurrentPeriodStart > 0 {
		out.PeriodStart = time.Unix(s.CurrentPeriodStart, 0).UTC()
	}
	if s.CurrentPeriodEnd > 0 {
		out.PeriodEnd = time.Unix(s.CurrentPeriodEnd, 0).UTC()
	}
	out.UserID = metadataValue(s.Metadata, metadataUserID, legacyMetadataUserID)
	return out
}

// DecodeCheckoutCompletion reads a checkout.session object from an event payload.
func DecodeCheckoutCompletion(raw json.RawMessage) (billing.CheckoutCompletion, error) {
	var s stripelib.CheckoutSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return billing.CheckoutCompletion{}, fmt.Errorf("decode checkout.session: %w", err)
	}

	out := billing.CheckoutCompletion{
		SessionID: s.ID,
		UserEmail: s.CustomerEmail,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		out.SubscriptionID = s.Subscription.ID
	}
	out.UserID = metadataValue(s.Metadata, metadataUserID, legacyMetadataUserID)
	if email := metadataValue(s.Metadata, metadataUserEmail, legacyMetadataUserEmail); email != "" {
		out.UserEmail = email
	}
	if out.UserID == "" {
		out.UserID = s.ClientReferenceID
	}
	if out.UserEmail == "" && s.CustomerDetails != nil {
		out.UserEmail = s.CustomerDetails.Email
	}
	return out, nil
}

// DecodeSubscription reads a subscription object from an event payload.
func DecodeSubscription(raw json.RawMessage) (*billing.ProviderSubscription, error) {
	var s stripelib.Subscription
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return toSubscription(&s), nil
}

// DecodeInvoice reads an invoice object from an event payload.
func DecodeInvoice(raw json.RawMessage) (*billing.Invoice, error) {
	var inv stripelib.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	out := &billing.Invoice{ID: inv.ID}
	if inv.Customer != nil {
		out.CustomerID = inv.Customer.ID
	}
	if inv.Subscription != nil {
		out.SubscriptionID = inv.Subscription.ID
	}
	return out, nil
}
