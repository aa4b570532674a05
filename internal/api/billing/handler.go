package billing

import (
	"context"

	billingsvc "billing-sync/internal/billing"
)

type CheckoutBuilder interface {
	Build(ctx context.Context, req billingsvc.CheckoutRequest) (*billingsvc.CheckoutSession, error)
}

type PortalBuilder interface {
	Build(ctx context.Context, userID, returnURL string) (*billingsvc.PortalSession, error)
}

type StatusReader interface {
	Status(ctx context.Context, userID string) (billingsvc.SubscriptionStatus, error)
	FeatureActive(ctx context.Context, userID, feature string) (bool, error)
}

// URLs are the redirect targets handed to the provider.
type URLs struct {
	CheckoutSuccess string
	CheckoutCancel  string
	PortalReturn    string
}

type Handler struct {
	checkout CheckoutBuilder
	portal   PortalBuilder
	status   StatusReader
	urls     URLs
}

func NewHandler(checkout CheckoutBuilder, portal PortalBuilder, status StatusReader, urls URLs) *Handler {
	return &Handler{checkout: checkout, portal: portal, status: status, urls: urls}
}
