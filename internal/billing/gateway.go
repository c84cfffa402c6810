// Package billing talks to the payment provider: checkout sessions for
// invoices and subscription plans, payout account onboarding, and the
// webhook that applies the provider's events to the store.
package billing

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when payments are disabled.
var ErrNotConfigured = errors.New("payments are not configured")

// Session is a hosted checkout page.
type Session struct {
	ID  string
	URL string
}

// PaymentCheckout describes a one-off charge for an invoice or bill.
type PaymentCheckout struct {
	InvoiceID   string
	Description string
	Amount      float64
	Currency    string
	Email       string

	// DestinationAccount receives the funds when set.
	DestinationAccount string
}

// SubscriptionCheckout describes a plan purchase.
type SubscriptionCheckout struct {
	UserID     string
	Plan       string
	Email      string
	CustomerID string
}

// Gateway is the payment provider.
type Gateway interface {
	CheckoutPayment(ctx context.Context, in PaymentCheckout) (*Session, error)
	CheckoutSubscription(ctx context.Context, in SubscriptionCheckout) (*Session, error)
	CreateAccount(ctx context.Context, email string) (accountID string, err error)
	OnboardingLink(ctx context.Context, accountID string) (url string, err error)
}

// Disabled is the Gateway used when no secret key is configured.
type Disabled struct{}

func (Disabled) CheckoutPayment(context.Context, PaymentCheckout) (*Session, error) {
	return nil, ErrNotConfigured
}

func (Disabled) CheckoutSubscription(context.Context, SubscriptionCheckout) (*Session, error) {
	return nil, ErrNotConfigured
}

func (Disabled) CreateAccount(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) OnboardingLink(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
