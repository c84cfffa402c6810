package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func TestInvoiceLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")
	stranger := env.register(t, "stranger@example.com", "Stranger", "tenant")
	prop := env.createProperty(t, landlord, "Riverside")
	env.moveIn(t, landlord, tenant, prop)
	before := len(env.mailer.to(tenant.Email))

	_, err := env.billing.CreateInvoice(ctx, as(landlord, &api.CreateInvoiceRequest{
		PropertyID: prop.ID, TenantID: stranger.ID, Amount: 100, Currency: "RON", DueDate: "2026-03-01",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.billing.CreateInvoice(ctx, as(landlord, &api.CreateInvoiceRequest{
		PropertyID: prop.ID, TenantID: tenant.ID, Amount: 100, Currency: "RON", DueDate: "March 1st",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	created, err := env.billing.CreateInvoice(ctx, as(landlord, &api.CreateInvoiceRequest{
		PropertyID: prop.ID,
		TenantID:   tenant.ID,
		Amount:     2500,
		Currency:   "RON",
		DueDate:    "2026-03-01",
		SendEmail:  true,
	}))
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	inv := created.Msg.Invoice
	if inv.Status != "pending" || inv.LandlordID != landlord.ID {
		t.Errorf("unexpected invoice: %+v", inv)
	}
	if got := len(env.mailer.to(tenant.Email)); got != before+1 {
		t.Errorf("expected one invoice email, got %d", got-before)
	}

	list, err := env.billing.ListInvoices(ctx, as(tenant, &api.ListInvoicesRequest{}))
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(list.Msg.Invoices) != 1 {
		t.Fatalf("expected tenant to see 1 invoice, got %d", len(list.Msg.Invoices))
	}
	none, err := env.billing.ListInvoices(ctx, as(stranger, &api.ListInvoicesRequest{}))
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(none.Msg.Invoices) != 0 {
		t.Errorf("expected stranger to see no invoices, got %d", len(none.Msg.Invoices))
	}

	_, err = env.billing.UpdateInvoiceStatus(ctx, as(tenant, &api.UpdateInvoiceStatusRequest{ID: inv.ID, Status: "paid"}))
	assertCode(t, err, connect.CodePermissionDenied)

	balances, err := env.billing.TenantBalances(ctx, as(landlord, &api.TenantBalancesRequest{PropertyID: prop.ID}))
	if err != nil {
		t.Fatalf("TenantBalances failed: %v", err)
	}
	if len(balances.Msg.Balances) != 1 {
		t.Fatalf("expected 1 balance, got %d", len(balances.Msg.Balances))
	}
	if b := balances.Msg.Balances[0]; b.Outstanding != 2500 || b.Paid != 0 {
		t.Errorf("unexpected balance before payment: %+v", b)
	}

	paid, err := env.billing.UpdateInvoiceStatus(ctx, as(landlord, &api.UpdateInvoiceStatusRequest{ID: inv.ID, Status: "paid"}))
	if err != nil {
		t.Fatalf("UpdateInvoiceStatus failed: %v", err)
	}
	if paid.Msg.Invoice.Status != "paid" {
		t.Errorf("status: expected paid, got %q", paid.Msg.Invoice.Status)
	}

	balances, err = env.billing.TenantBalances(ctx, as(landlord, &api.TenantBalancesRequest{}))
	if err != nil {
		t.Fatalf("TenantBalances failed: %v", err)
	}
	if b := balances.Msg.Balances[0]; b.Outstanding != 0 || b.Paid != 2500 || b.Invoiced != 2500 {
		t.Errorf("unexpected balance after payment: %+v", b)
	}

	_, err = env.billing.CreateCheckout(ctx, as(tenant, &api.CreateCheckoutRequest{InvoiceID: inv.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	if _, err := env.billing.DeleteInvoice(ctx, as(landlord, &api.DeleteInvoiceRequest{ID: inv.ID})); err != nil {
		t.Fatalf("DeleteInvoice failed: %v", err)
	}
	_, err = env.billing.DeleteInvoice(ctx, as(landlord, &api.DeleteInvoiceRequest{ID: inv.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCheckoutAndPayouts(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")
	prop := env.createProperty(t, landlord, "Riverside")
	env.moveIn(t, landlord, tenant, prop)

	created, err := env.billing.CreateInvoice(ctx, as(landlord, &api.CreateInvoiceRequest{
		PropertyID: prop.ID, TenantID: tenant.ID, Amount: 120.5, Currency: "EUR", DueDate: "2026-04-01",
	}))
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	invID := created.Msg.Invoice.ID

	_, err = env.billing.CreateCheckout(ctx, as(landlord, &api.CreateCheckoutRequest{InvoiceID: invID}))
	assertCode(t, err, connect.CodePermissionDenied)

	first, err := env.billing.CreateCheckout(ctx, as(tenant, &api.CreateCheckoutRequest{InvoiceID: invID}))
	if err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}
	if first.Msg.Checkout.URL != "https://pay.test/"+invID {
		t.Errorf("unexpected checkout url %q", first.Msg.Checkout.URL)
	}

	for i := 0; i < 2; i++ {
		link, err := env.billing.ConnectOnboarding(ctx, as(landlord, &api.ConnectOnboardingRequest{}))
		if err != nil {
			t.Fatalf("ConnectOnboarding failed: %v", err)
		}
		if link.Msg.URL != "https://connect.test/acct_test" {
			t.Errorf("unexpected onboarding url %q", link.Msg.URL)
		}
	}
	if env.gateway.accounts != 1 {
		t.Errorf("expected the payout account to be created once, got %d", env.gateway.accounts)
	}

	me, err := env.auth.GetCurrentUser(ctx, as(landlord, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if !me.Msg.User.PayoutsEnabled {
		t.Error("expected payouts to be enabled after onboarding")
	}

	if _, err := env.billing.CreateCheckout(ctx, as(tenant, &api.CreateCheckoutRequest{InvoiceID: invID})); err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}
	if len(env.gateway.payments) != 2 {
		t.Fatalf("expected 2 checkouts, got %d", len(env.gateway.payments))
	}
	if env.gateway.payments[0].DestinationAccount != "" {
		t.Errorf("first checkout should have no destination, got %q", env.gateway.payments[0].DestinationAccount)
	}
	if got := env.gateway.payments[1]; got.DestinationAccount != "acct_test" || got.Amount != 120.5 || got.Currency != "EUR" {
		t.Errorf("unexpected second checkout: %+v", got)
	}
	if env.gateway.payments[1].Email != tenant.Email {
		t.Errorf("checkout email: expected %s, got %s", tenant.Email, env.gateway.payments[1].Email)
	}

	payments, err := env.billing.ListPayments(ctx, as(tenant, &api.ListPaymentsRequest{}))
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments.Msg.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments.Msg.Payments))
	}
	for _, p := range payments.Msg.Payments {
		if p.Status != "pending" {
			t.Errorf("payment %s: expected pending, got %q", p.ID, p.Status)
		}
	}

	landlordView, err := env.billing.ListPayments(ctx, as(landlord, &api.ListPaymentsRequest{}))
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(landlordView.Msg.Payments) != 2 {
		t.Errorf("expected landlord to see 2 payments, got %d", len(landlordView.Msg.Payments))
	}
}

func TestSubscriptionCheckout(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")

	_, err := env.billing.SubscriptionCheckout(ctx, as(tenant, &api.SubscriptionCheckoutRequest{Plan: "basic"}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.billing.SubscriptionCheckout(ctx, as(landlord, &api.SubscriptionCheckoutRequest{Plan: "enterprise"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	resp, err := env.billing.SubscriptionCheckout(ctx, as(landlord, &api.SubscriptionCheckoutRequest{Plan: "premium"}))
	if err != nil {
		t.Fatalf("SubscriptionCheckout failed: %v", err)
	}
	if resp.Msg.Checkout.URL != "https://pay.test/sub/premium" {
		t.Errorf("unexpected checkout url %q", resp.Msg.Checkout.URL)
	}
}
