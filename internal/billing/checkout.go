package billing

import (
	"context"
	"fmt"
	"strings"

	"billing-sync/internal/domain/catalog"

	"github.com/rs/zerolog/log"
)

type CheckoutRequest struct {
	Ref        catalog.Reference
	UserID     string
	UserEmail  string
	SuccessURL string
	CancelURL  string
}

func (r CheckoutRequest) validate() error {
	if r.Ref.ID == "" || strings.TrimSpace(r.UserID) == "" || strings.TrimSpace(r.UserEmail) == "" {
		return ErrValidation
	}
	return nil
}

// CheckoutBuilder is the single place checkout sessions are assembled.
type CheckoutBuilder struct {
	provider  Provider
	customers *CustomerResolver
}

func NewCheckoutBuilder(provider Provider, customers *CustomerResolver) *CheckoutBuilder {
	return &CheckoutBuilder{provider: provider, customers: customers}
}

func (b *CheckoutBuilder) Build(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Price first: a product without an active price must not leave a customer behind.
	priceID, err := b.resolvePrice(ctx, req.Ref)
	if err != nil {
		return nil, err
	}

	customerID, err := b.customers.Resolve(ctx, req.UserEmail, req.UserID)
	if err != nil {
		return nil, err
	}

	session, err := b.provider.CreateCheckoutSession(ctx, CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		UserID:     req.UserID,
		UserEmail:  req.UserEmail,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return nil, err
	}
	session.CustomerID = customerID
	session.PriceID = priceID

	log.Info().
		Str("session_id", session.ID).
		Str("customer_id", customerID).
		Str("price_id", priceID).
		Stringer("ref", req.Ref).
		Str("user_id", req.UserID).
		Msg("Checkout session created")
	return session, nil
}

func (b *CheckoutBuilder) resolvePrice(ctx context.Context, ref catalog.Reference) (string, error) {
	switch {
	case ref.IsPrice():
		return ref.String(), nil
	case ref.IsProduct():
		priceID, err := b.provider.FirstActivePrice(ctx, ref.String())
		if err != nil {
			return "", err
		}
		if priceID == "" {
			return "", fmt.Errorf("%w %s", ErrNoActivePrice, ref)
		}
		return priceID, nil
	default:
		return "", fmt.Errorf("%w: %q", catalog.ErrInvalidReference, ref.String())
	}
}
