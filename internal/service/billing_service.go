package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/billing"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/calculator"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/email"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.BillingServiceHandler = (*BillingService)(nil)

var (
	errNotTenantOfProperty = errors.New("tenant has no active tenancy at this property")
	errInvoiceSettled      = errors.New("invoice is already paid or cancelled")
)

// BillingStore is the part of the store BillingService needs.
type BillingStore interface {
	storage.BillingStore
	GetProperty(ctx context.Context, scope policy.Scope, id string) (*models.Property, error)
	ActiveTenants(ctx context.Context, propertyID string) ([]string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SetStripeAccount(ctx context.Context, userID, accountID string) error
}

// BillingService manages invoices, payments and the landlord's subscription.
type BillingService struct {
	store    BillingStore
	gateway  billing.Gateway
	notifier Notifier
	baseURL  string
}

// NewBillingService creates a new BillingService. Use billing.Disabled{} as
// gateway when payments are not configured.
func NewBillingService(store BillingStore, gateway billing.Gateway, notifier Notifier, baseURL string) *BillingService {
	return &BillingService{store: store, gateway: gateway, notifier: notifier, baseURL: baseURL}
}

// CreateInvoice bills a tenant of one of the caller's properties and
// optionally emails them.
func (s *BillingService) CreateInvoice(ctx context.Context, req *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("CreateInvoice request received",
		"property_id", req.Msg.PropertyID,
		"tenant_id", req.Msg.TenantID,
		"amount", req.Msg.Amount,
		"currency", req.Msg.Currency,
	)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	code, err := currency.Normalize(req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}

	prop, err := s.store.GetProperty(ctx, scope, req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}
	tenants, err := s.store.ActiveTenants(ctx, prop.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !slices.Contains(tenants, req.Msg.TenantID) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNotTenantOfProperty)
	}

	inv := &models.Invoice{
		ID:         uuid.NewString(),
		PropertyID: prop.ID,
		LandlordID: scope.UserID,
		TenantID:   req.Msg.TenantID,
		Amount:     req.Msg.Amount,
		Currency:   code,
		DueDate:    req.Msg.DueDate,
		Status:     models.InvoicePending,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		slog.Error("CreateInvoice failed", "error", err)
		return nil, toConnectError(err)
	}

	if req.Msg.SendEmail {
		if tenant, err := s.store.GetUserByID(ctx, inv.TenantID); err == nil {
			notify(ctx, s.notifier, email.KindInvoice, tenant.Email, map[string]any{
				"RecipientName": tenant.DisplayName,
				"Amount":        currency.Format(inv.Amount, inv.Currency, tenant.Language),
				"PropertyName":  prop.Name,
				"DueDate":       inv.DueDate,
				"Link":          link(s.baseURL, "/invoices/"+inv.ID),
			})
		}
	}

	slog.Info("Invoice created", "invoice_id", inv.ID)
	return connect.NewResponse(&api.CreateInvoiceResponse{Invoice: toAPIInvoice(inv)}), nil
}

// ListInvoices lists invoices visible to the caller, newest due date first.
func (s *BillingService) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	invoices, err := s.store.ListInvoices(ctx, middleware.Scope(ctx), req.Msg.Status)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Invoice, len(invoices))
	for i, inv := range invoices {
		out[i] = toAPIInvoice(inv)
	}
	return connect.NewResponse(&api.ListInvoicesResponse{Invoices: out}), nil
}

// UpdateInvoiceStatus changes the status of one of the caller's invoices.
func (s *BillingService) UpdateInvoiceStatus(ctx context.Context, req *connect.Request[api.UpdateInvoiceStatusRequest]) (*connect.Response[api.UpdateInvoiceStatusResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("UpdateInvoiceStatus request received", "invoice_id", req.Msg.ID, "status", req.Msg.Status)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.store.GetInvoice(ctx, scope, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateInvoiceStatus(ctx, req.Msg.ID, req.Msg.Status); err != nil {
		slog.Error("UpdateInvoiceStatus failed", "invoice_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	inv, err := s.store.GetInvoice(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateInvoiceStatusResponse{Invoice: toAPIInvoice(inv)}), nil
}

// DeleteInvoice removes one of the caller's invoices.
func (s *BillingService) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	scope := middleware.Scope(ctx)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.store.GetInvoice(ctx, scope, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteInvoice(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteInvoice failed", "invoice_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteInvoiceResponse{}), nil
}

// ListPayments lists payments visible to the caller.
func (s *BillingService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	payments, err := s.store.ListPayments(ctx, middleware.Scope(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// CreateCheckout opens a hosted payment page for one of the caller's
// invoices. The payment is recorded as pending until the provider confirms it.
func (s *BillingService) CreateCheckout(ctx context.Context, req *connect.Request[api.CreateCheckoutRequest]) (*connect.Response[api.CreateCheckoutResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("CreateCheckout request received", "invoice_id", req.Msg.InvoiceID, "user_id", scope.UserID)
	if err := scope.Require(models.RoleTenant); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	inv, err := s.store.GetInvoice(ctx, scope, req.Msg.InvoiceID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if inv.Status == models.InvoicePaid || inv.Status == models.InvoiceCancelled {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errInvoiceSettled)
	}

	in := billing.PaymentCheckout{
		InvoiceID:   inv.ID,
		Description: "Invoice due " + inv.DueDate,
		Amount:      inv.Amount,
		Currency:    inv.Currency,
	}
	if tenant, err := s.store.GetUserByID(ctx, scope.UserID); err == nil {
		in.Email = tenant.Email
	}
	if landlord, err := s.store.GetUserByID(ctx, inv.LandlordID); err == nil {
		in.DestinationAccount = landlord.StripeAccountID
	}

	sess, err := s.gateway.CheckoutPayment(ctx, in)
	if err != nil {
		slog.Error("CreateCheckout failed", "invoice_id", inv.ID, "error", err)
		return nil, toConnectError(err)
	}

	payment := &models.Payment{
		ID:                uuid.NewString(),
		InvoiceID:         inv.ID,
		TenantID:          scope.UserID,
		Amount:            inv.Amount,
		Currency:          inv.Currency,
		Status:            models.PaymentPending,
		CheckoutSessionID: sess.ID,
		CreatedAt:         time.Now().UnixMilli(),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("CreateCheckout failed to record payment", "invoice_id", inv.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Checkout created", "invoice_id", inv.ID, "session_id", sess.ID)
	return connect.NewResponse(&api.CreateCheckoutResponse{
		Checkout: &api.Checkout{SessionID: sess.ID, URL: sess.URL},
	}), nil
}

// SubscriptionCheckout opens a hosted page to buy a plan for the calling landlord.
func (s *BillingService) SubscriptionCheckout(ctx context.Context, req *connect.Request[api.SubscriptionCheckoutRequest]) (*connect.Response[api.SubscriptionCheckoutResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("SubscriptionCheckout request received", "user_id", scope.UserID, "plan", req.Msg.Plan)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, scope.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	sess, err := s.gateway.CheckoutSubscription(ctx, billing.SubscriptionCheckout{
		UserID:     user.ID,
		Plan:       req.Msg.Plan,
		Email:      user.Email,
		CustomerID: user.StripeCustomerID,
	})
	if err != nil {
		slog.Error("SubscriptionCheckout failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SubscriptionCheckoutResponse{
		Checkout: &api.Checkout{SessionID: sess.ID, URL: sess.URL},
	}), nil
}

// ConnectOnboarding returns the link where a landlord sets up payouts,
// creating the payout account on first use.
func (s *BillingService) ConnectOnboarding(ctx context.Context, req *connect.Request[api.ConnectOnboardingRequest]) (*connect.Response[api.ConnectOnboardingResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("ConnectOnboarding request received", "user_id", scope.UserID)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.store.GetUserByID(ctx, scope.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	accountID := user.StripeAccountID
	if accountID == "" {
		accountID, err = s.gateway.CreateAccount(ctx, user.Email)
		if err != nil {
			slog.Error("ConnectOnboarding failed to create account", "user_id", user.ID, "error", err)
			return nil, toConnectError(err)
		}
		if err := s.store.SetStripeAccount(ctx, user.ID, accountID); err != nil {
			return nil, toConnectError(err)
		}
	}

	url, err := s.gateway.OnboardingLink(ctx, accountID)
	if err != nil {
		slog.Error("ConnectOnboarding failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ConnectOnboardingResponse{URL: url}), nil
}

// TenantBalances sums the invoices visible to the caller per tenant and currency.
func (s *BillingService) TenantBalances(ctx context.Context, req *connect.Request[api.TenantBalancesRequest]) (*connect.Response[api.TenantBalancesResponse], error) {
	invoices, err := s.store.ListInvoices(ctx, middleware.Scope(ctx), "")
	if err != nil {
		return nil, toConnectError(err)
	}

	in := make([]calculator.InvoiceForBalance, 0, len(invoices))
	for _, inv := range invoices {
		if req.Msg.PropertyID != "" && inv.PropertyID != req.Msg.PropertyID {
			continue
		}
		in = append(in, calculator.InvoiceForBalance{
			TenantID: inv.TenantID,
			Currency: inv.Currency,
			Amount:   inv.Amount,
			Status:   inv.Status,
		})
	}

	balances := calculator.CalculateTenantBalances(in)
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			TenantID:    b.TenantID,
			Currency:    b.Currency,
			Invoiced:    b.Invoiced,
			Paid:        b.Paid,
			Outstanding: b.Outstanding,
			Overdue:     b.Overdue,
		}
	}
	return connect.NewResponse(&api.TenantBalancesResponse{Balances: out}), nil
}
