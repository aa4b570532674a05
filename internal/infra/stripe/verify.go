package stripe

import (
	"errors"
	"fmt"
	"strings"

	stripelib "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// VerifyEvent authenticates payload against the Stripe-Signature header. payload
// must be the request body exactly as received.
func VerifyEvent(payload []byte, header, secret string) (stripelib.Event, error) {
	if strings.TrimSpace(header) == "" {
		return stripelib.Event{}, fmt.Errorf("%w: missing signature header", ErrInvalidSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, header, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripelib.Event{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return event, nil
}
