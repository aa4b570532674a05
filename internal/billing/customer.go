package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// CustomerResolver maps a local user onto exactly one provider customer per email.
type CustomerResolver struct {
	provider Provider
}

func NewCustomerResolver(provider Provider) *CustomerResolver {
	return &CustomerResolver{provider: provider}
}

// Resolve returns the id of the first customer registered under email, creating
// one tagged with userID when none exists.
func (r *CustomerResolver) Resolve(ctx context.Context, email, userID string) (string, error) {
	existing, err := r.provider.FindCustomerByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCustomerResolution, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	created, err := r.provider.CreateCustomer(ctx, email, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCustomerResolution, err)
	}

	log.Info().
		Str("customer_id", created.ID).
		Str("user_id", userID).
		Msg("Created billing customer")
	return created.ID, nil
}
