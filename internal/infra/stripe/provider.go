package stripe

import (
	"context"
	"errors"

	"billing-sync/internal/billing"

	stripelib "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

const (
	metadataUserID    = "user_id"
	metadataUserEmail = "user_email"

	legacyMetadataUserID    = "userId"
	legacyMetadataUserEmail = "userEmail"
)

// Provider implements billing.Provider on top of an explicitly constructed
// stripe-go client.
type Provider struct {
	api *client.API
}

func NewProvider(api *client.API) *Provider {
	return &Provider{api: api}
}

// NewClient builds a client for secretKey. backends may be nil for the defaults.
func NewClient(secretKey string, backends *stripelib.Backends) *client.API {
	return client.New(secretKey, backends)
}

func (p *Provider) FindCustomerByEmail(ctx context.Context, email string) (*billing.Customer, error) {
	params := &stripelib.CustomerListParams{Email: stripelib.String(email)}
	params.Context = ctx
	params.Limit = stripelib.Int64(1)
	params.Single = true

	it := p.api.Customers.List(params)
	for it.Next() {
		c := it.Customer()
		if c == nil || c.Deleted {
			continue
		}
		return toCustomer(c), nil
	}
	if err := it.Err(); err != nil {
		return nil, providerError("list customers", err)
	}
	return nil, nil
}

func (p *Provider) CreateCustomer(ctx context.Context, email, userID string) (*billing.Customer, error) {
	params := &stripelib.CustomerParams{
		Email: stripelib.String(email),
		Metadata: map[string]string{
			metadataUserID: userID,
		},
	}
	params.Context = ctx

	c, err := p.api.Customers.New(params)
	if err != nil {
		return nil, providerError("create customer", err)
	}
	return toCustomer(c), nil
}

func (p *Provider) GetCustomer(ctx context.Context, customerID string) (*billing.Customer, error) {
	params := &stripelib.CustomerParams{}
	params.Context = ctx

	c, err := p.api.Customers.Get(customerID, params)
	if err != nil {
		return nil, providerError("get customer", err)
	}
	return toCustomer(c), nil
}

func (p *Provider) FirstActivePrice(ctx context.Context, productID string) (string, error) {
	params := &stripelib.PriceListParams{
		Product: stripelib.String(productID),
		Active:  stripelib.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripelib.Int64(1)
	params.Single = true

	it := p.api.Prices.List(params)
	for it.Next() {
		if pr := it.Price(); pr != nil {
			return pr.ID, nil
		}
	}
	if err := it.Err(); err != nil {
		return "", providerError("list prices", err)
	}
	return "", nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, in billing.CheckoutParams) (*billing.CheckoutSession, error) {
	params := &stripelib.CheckoutSessionParams{
		SuccessURL: stripelib.String(in.SuccessURL),
		CancelURL:  stripelib.String(in.CancelURL),
		Mode:       stripelib.String(string(stripelib.CheckoutSessionModeSubscription)),
		Customer:   stripelib.String(in.CustomerID),
		LineItems: []*stripelib.CheckoutSessionLineItemParams{
			{Price: stripelib.String(in.PriceID), Quantity: stripelib.Int64(1)},
		},
		PaymentMethodTypes:       stripelib.StringSlice([]string{"card"}),
		BillingAddressCollection: stripelib.String(string(stripelib.CheckoutSessionBillingAddressCollectionAuto)),
		AllowPromotionCodes:      stripelib.Bool(false),
		ClientReferenceID:        stripelib.String(in.UserID),
		SubscriptionData: &stripelib.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				metadataUserID:    in.UserID,
				metadataUserEmail: in.UserEmail,
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, in.UserID)
	params.AddMetadata(metadataUserEmail, in.UserEmail)

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, providerError("create checkout session", err)
	}
	return &billing.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *Provider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*billing.PortalSession, error) {
	params := &stripelib.BillingPortalSessionParams{
		Customer:  stripelib.String(customerID),
		ReturnURL: stripelib.String(returnURL),
	}
	params.Context = ctx

	s, err := p.api.BillingPortalSessions.New(params)
	if err != nil {
		return nil, providerError("create billing portal session", err)
	}
	return &billing.PortalSession{URL: s.URL}, nil
}

func (p *Provider) GetSubscription(ctx context.Context, subscriptionID string) (*billing.ProviderSubscription, error) {
	params := &stripelib.SubscriptionParams{}
	params.Context = ctx

	s, err := p.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, providerError("get subscription", err)
	}
	return toSubscription(s), nil
}

func providerError(op string, err error) error {
	out := &billing.ProviderError{Op: op, Err: err, Type: "unknown", Code: "unknown"}
	var se *stripelib.Error
	if errors.As(err, &se) {
		out.Message = se.Msg
		if se.Type != "" {
			out.Type = string(se.Type)
		}
		if se.Code != "" {
			out.Code = string(se.Code)
		}
	}
	return out
}
