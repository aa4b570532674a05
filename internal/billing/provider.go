package billing

import (
	"context"
	"time"
)

// Provider is the slice of the billing provider's API this service relies on.
// Implementations return *ProviderError for upstream failures.
type Provider interface {
	// FindCustomerByEmail returns the first customer with exactly this email, or nil.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CreateCustomer(ctx context.Context, email, userID string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)

	// FirstActivePrice returns "" when the product has no active price.
	FirstActivePrice(ctx context.Context, productID string) (string, error)

	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error)

	GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error)
}

type Customer struct {
	ID     string
	Email  string
	UserID string
}

type CheckoutParams struct {
	CustomerID string
	PriceID    string
	UserID     string
	UserEmail  string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	CustomerID string `json:"-"`
	PriceID    string `json:"-"`
}

type PortalSession struct {
	URL string `json:"url"`
}

// ProviderSubscription is the provider's view of a subscription.
type ProviderSubscription struct {
	ID          string
	CustomerID  string
	Status      string
	PriceID     string
	PeriodStart time.Time
	PeriodEnd   time.Time
	UserID      string
}

// CheckoutCompletion is the subset of a completed checkout session the projector needs.
type CheckoutCompletion struct {
	SessionID      string
	CustomerID     string
	SubscriptionID string
	UserID         string
	UserEmail      string
}

type Invoice struct {
	ID             string
	CustomerID     string
	SubscriptionID string
}
