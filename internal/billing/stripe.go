package billing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeConfig configures the Stripe gateway.
type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string

	// Prices maps plan names to Stripe price IDs.
	Prices map[string]string

	ConnectReturnURL  string
	ConnectRefreshURL string
}

// Stripe implements Gateway with the Stripe API.
type Stripe struct {
	api *client.API
	cfg StripeConfig
}

var _ Gateway = (*Stripe)(nil)

// NewStripe creates a gateway using cfg.SecretKey.
func NewStripe(cfg StripeConfig) *Stripe {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Stripe{api: api, cfg: cfg}
}

// PlanForPrice returns the plan whose price ID is priceID.
func (s *Stripe) PlanForPrice(priceID string) (string, bool) {
	return planForPrice(s.cfg.Prices, priceID)
}

func planForPrice(prices map[string]string, priceID string) (string, bool) {
	for plan, id := range prices {
		if id == priceID {
			return plan, true
		}
	}
	return "", false
}

// minorUnits converts an amount to the smallest currency unit.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *Stripe) CheckoutPayment(ctx context.Context, in PaymentCheckout) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(strings.ToLower(in.Currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(in.Description),
				},
				UnitAmount: stripe.Int64(minorUnits(in.Amount)),
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if in.Email != "" {
		params.CustomerEmail = stripe.String(in.Email)
	}
	if in.DestinationAccount != "" {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(in.DestinationAccount),
			},
		}
	}
	params.AddMetadata("invoice_id", in.InvoiceID)
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

func (s *Stripe) CheckoutSubscription(ctx context.Context, in SubscriptionCheckout) (*Session, error) {
	price, ok := s.cfg.Prices[in.Plan]
	if !ok {
		return nil, fmt.Errorf("no price configured for plan %q", in.Plan)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(in.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(price),
			Quantity: stripe.Int64(1),
		}},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": in.UserID, "plan": in.Plan},
		},
	}
	if in.CustomerID != "" {
		params.Customer = stripe.String(in.CustomerID)
	} else if in.Email != "" {
		params.CustomerEmail = stripe.String(in.Email)
	}
	params.AddMetadata("user_id", in.UserID)
	params.AddMetadata("plan", in.Plan)
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create subscription session: %w", err)
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

func (s *Stripe) CreateAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	params.Context = ctx
	acct, err := s.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("create connected account: %w", err)
	}
	return acct.ID, nil
}

func (s *Stripe) OnboardingLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.cfg.ConnectRefreshURL),
		ReturnURL:  stripe.String(s.cfg.ConnectReturnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	link, err := s.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("create onboarding link: %w", err)
	}
	return link.URL, nil
}
