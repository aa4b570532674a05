package billing

import (
	"context"
	"strings"
)

// PortalBuilder opens self-service sessions for customers already on file locally.
type PortalBuilder struct {
	provider Provider
	store    Store
}

func NewPortalBuilder(provider Provider, store Store) *PortalBuilder {
	return &PortalBuilder{provider: provider, store: store}
}

func (b *PortalBuilder) Build(ctx context.Context, userID, returnURL string) (*PortalSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}
	customerID, err := b.store.CustomerIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.provider.CreatePortalSession(ctx, customerID, returnURL)
}
