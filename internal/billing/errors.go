package billing

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("missing required parameters")
	ErrNoActivePrice      = errors.New("no active prices found for product")
	ErrCustomerResolution = errors.New("failed to resolve billing customer")
	ErrNotFound           = errors.New("not found")
	ErrMissingLink        = errors.New("no local user correlation for billing object")
	ErrTerminalState      = errors.New("subscription is canceled")
)

// ProviderError carries an upstream billing failure with the provider's own
// type and code so callers can pass them through.
type ProviderError struct {
	Op      string
	Message string
	Type    string
	Code    string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StoreError wraps a failure of the local data store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// IsTransient reports whether err may succeed on redelivery.
func IsTransient(err error) bool {
	var pe *ProviderError
	var se *StoreError
	return errors.As(err, &pe) || errors.As(err, &se)
}
