package stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCheckoutCompletion(t *testing.T) {
	raw := []byte(`{
		"id": "cs_test_1",
		"object": "checkout.session",
		"customer": "cus_1",
		"subscription": "sub_1",
		"client_reference_id": "user-from-ref",
		"metadata": {"user_id": "user-1", "user_email": "ada@example.com"}
	}`)

	got, err := DecodeCheckoutCompletion(raw)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", got.SessionID)
	assert.Equal(t, "cus_1", got.CustomerID)
	assert.Equal(t, "sub_1", got.SubscriptionID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "ada@example.com", got.UserEmail)
}

func TestDecodeCheckoutCompletionFallsBackToClientReference(t *testing.T) {
	raw := []byte(`{
		"id": "cs_test_2",
		"object": "checkout.session",
		"client_reference_id": "user-2",
		"customer_details": {"email": "bob@example.com"}
	}`)

	got, err := DecodeCheckoutCompletion(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-2", got.UserID)
	assert.Equal(t, "bob@example.com", got.UserEmail)
	assert.Empty(t, got.SubscriptionID)
}

func TestDecodeReadsCamelCaseMetadata(t *testing.T) {
	got, err := DecodeCheckoutCompletion([]byte(`{
		"id": "cs_test_3",
		"object": "checkout.session",
		"customer": "cus_3",
		"metadata": {"userId": "user-3", "userEmail": "carol@example.com"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "user-3", got.UserID)
	assert.Equal(t, "carol@example.com", got.UserEmail)

	sub, err := DecodeSubscription([]byte(`{"id": "sub_3", "object": "subscription", "metadata": {"userId": "user-3"}}`))
	require.NoError(t, err)
	assert.Equal(t, "user-3", sub.UserID)
}

func TestDecodeSubscription(t *testing.T) {
	raw := []byte(`{
		"id": "sub_1",
		"object": "subscription",
		"customer": "cus_1",
		"status": "past_due",
		"current_period_start": 1700000000,
		"current_period_end": 1702592000,
		"metadata": {"user_id": "user-1"},
		"items": {"object": "list", "data": [{"id": "si_1", "object": "subscription_item", "price": {"id": "price_1", "object": "price"}}]}
	}`)

	got, err := DecodeSubscription(raw)
	require.NoError(t, err)
	assert.Equal(t, "sub_1", got.ID)
	assert.Equal(t, "cus_1", got.CustomerID)
	assert.Equal(t, "past_due", got.Status)
	assert.Equal(t, "price_1", got.PriceID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got.PeriodStart)
	assert.Equal(t, time.Unix(1702592000, 0).UTC(), got.PeriodEnd)
}

func TestDecodeInvoice(t *testing.T) {
	got, err := DecodeInvoice([]byte(`{"id":"in_1","object":"invoice","customer":"cus_1","subscription":"sub_1"}`))
	require.NoError(t, err)
	assert.Equal(t, "in_1", got.ID)
	assert.Equal(t, "cus_1", got.CustomerID)
	assert.Equal(t, "sub_1", got.SubscriptionID)
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	_, err := DecodeSubscription([]byte(`{"id":`))
	assert.Error(t, err)
	_, err = DecodeInvoice([]byte(`[]`))
	assert.Error(t, err)
	_, err = DecodeCheckoutCompletion([]byte(`nope`))
	assert.Error(t, err)
}
