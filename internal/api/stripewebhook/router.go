package stripewebhooks

import (
	"context"
	"errors"
	"fmt"

	"billing-sync/internal/billing"
	stripeinfra "billing-sync/internal/infra/stripe"

	stripelib "github.com/stripe/stripe-go/v75"
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionCreated      = "customer.subscription.created"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

var ErrUnhandled = errors.New("unhandled event type")

// Projector applies decoded billing objects to local state.
type Projector interface {
	CheckoutCompleted(ctx context.Context, c billing.CheckoutCompletion) error
	SubscriptionCreated(ctx context.Context, sub *billing.ProviderSubscription) error
	SubscriptionUpdated(ctx context.Context, sub *billing.ProviderSubscription) error
	SubscriptionDeleted(ctx context.Context, sub *billing.ProviderSubscription) error
	InvoicePaid(ctx context.Context, inv *billing.Invoice) error
	InvoicePaymentFailed(ctx context.Context, inv *billing.Invoice) error
}

type EventHandler func(ctx context.Context, event stripelib.Event) error

// Router dispatches verified events to the handler registered for their type.
type Router struct {
	handlers map[string]EventHandler
}

func NewRouter() *Router {
	return &Router{handlers: map[string]EventHandler{}}
}

// NewProjectorRouter registers the subscription lifecycle events against p.
func NewProjectorRouter(p Projector) *Router {
	r := NewRouter()
	r.Register(EventCheckoutSessionCompleted, func(ctx context.Context, e stripelib.Event) error {
		c, err := stripeinfra.DecodeCheckoutCompletion(e.Data.Raw)
		if err != nil {
			return err
		}
		return p.CheckoutCompleted(ctx, c)
	})
	r.Register(EventSubscriptionCreated, subscriptionHandler(p.SubscriptionCreated))
	r.Register(EventSubscriptionUpdated, subscriptionHandler(p.SubscriptionUpdated))
	r.Register(EventSubscriptionDeleted, subscriptionHandler(p.SubscriptionDeleted))
	r.Register(EventInvoicePaymentSucceeded, invoiceHandler(p.InvoicePaid))
	r.Register(EventInvoicePaymentFailed, invoiceHandler(p.InvoicePaymentFailed))
	return r
}

func (r *Router) Register(eventType string, h EventHandler) {
	r.handlers[eventType] = h
}

func (r *Router) Handles(eventType string) bool {
	_, ok := r.handlers[eventType]
	return ok
}

func (r *Router) Route(ctx context.Context, event stripelib.Event) error {
	h, ok := r.handlers[string(event.Type)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnhandled, event.Type)
	}
	return h(ctx, event)
}

func subscriptionHandler(apply func(context.Context, *billing.ProviderSubscription) error) EventHandler {
	return func(ctx context.Context, e stripelib.Event) error {
		sub, err := stripeinfra.DecodeSubscription(e.Data.Raw)
		if err != nil {
			return err
		}
		return apply(ctx, sub)
	}
}

func invoiceHandler(apply func(context.Context, *billing.Invoice) error) EventHandler {
	return func(ctx context.Context, e stripelib.Event) error {
		inv, err := stripeinfra.DecodeInvoice(e.Data.Raw)
		if err != nil {
			return err
		}
		return apply(ctx, inv)
	}
}
