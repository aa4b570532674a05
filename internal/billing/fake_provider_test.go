package billing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"billing-sync/internal/domain/subscriptions"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeProvider records every call and serves canned objects.
type fakeProvider struct {
	mu sync.Mutex

	customers     map[string]*Customer // by email
	customersByID map[string]*Customer
	activePrices  map[string]string // product -> price
	subscriptions map[string]*ProviderSubscription

	createCustomerErr error
	getSubErr         error

	calls []string
	seq   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		customers:     map[string]*Customer{},
		customersByID: map[string]*Customer{},
		activePrices:  map[string]string{},
		subscriptions: map[string]*ProviderSubscription{},
	}
}

func (f *fakeProvider) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeProvider) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeProvider) addCustomer(c *Customer) {
	f.customers[c.Email] = c
	f.customersByID[c.ID] = c
}

func (f *fakeProvider) FindCustomerByEmail(_ context.Context, email string) (*Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FindCustomerByEmail")
	return f.customers[email], nil
}

func (f *fakeProvider) CreateCustomer(_ context.Context, email, userID string) (*Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCustomer")
	if f.createCustomerErr != nil {
		return nil, f.createCustomerErr
	}
	f.seq++
	c := &Customer{ID: fmt.Sprintf("cus_new_%d", f.seq), Email: email, UserID: userID}
	f.addCustomer(c)
	return c, nil
}

func (f *fakeProvider) GetCustomer(_ context.Context, customerID string) (*Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetCustomer")
	c, ok := f.customersByID[customerID]
	if !ok {
		return nil, &ProviderError{Op: "get customer", Message: "No such customer", Type: "invalid_request_error", Code: "resource_missing"}
	}
	return c, nil
}

func (f *fakeProvider) FirstActivePrice(_ context.Context, productID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FirstActivePrice")
	return f.activePrices[productID], nil
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, p CheckoutParams) (*CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCheckoutSession")
	f.seq++
	id := fmt.Sprintf("cs_test_%d", f.seq)
	return &CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/" + id}, nil
}

func (f *fakeProvider) CreatePortalSession(_ context.Context, customerID, returnURL string) (*PortalSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreatePortalSession")
	return &PortalSession{URL: "https://billing.stripe.com/p/" + customerID}, nil
}

func (f *fakeProvider) GetSubscription(_ context.Context, subscriptionID string) (*ProviderSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetSubscription")
	if f.getSubErr != nil {
		return nil, f.getSubErr
	}
	s, ok := f.subscriptions[subscriptionID]
	if !ok {
		return nil, &ProviderError{Op: "get subscription", Message: "No such subscription", Type: "invalid_request_error", Code: "resource_missing"}
	}
	cp := *s
	return &cp, nil
}

func newTestStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/billing.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&subscriptions.Subscription{}, &subscriptions.FeatureFlag{}))
	return NewGormStore(db), db
}
