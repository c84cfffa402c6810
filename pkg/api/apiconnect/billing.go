package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// BillingServiceName is the fully-qualified name of the BillingService.
const BillingServiceName = "dashboardly.v1.BillingService"

const (
	BillingServiceCreateInvoiceProcedure        = "/" + BillingServiceName + "/CreateInvoice"
	BillingServiceListInvoicesProcedure         = "/" + BillingServiceName + "/ListInvoices"
	BillingServiceUpdateInvoiceStatusProcedure  = "/" + BillingServiceName + "/UpdateInvoiceStatus"
	BillingServiceDeleteInvoiceProcedure        = "/" + BillingServiceName + "/DeleteInvoice"
	BillingServiceListPaymentsProcedure         = "/" + BillingServiceName + "/ListPayments"
	BillingServiceCreateCheckoutProcedure       = "/" + BillingServiceName + "/CreateCheckout"
	BillingServiceSubscriptionCheckoutProcedure = "/" + BillingServiceName + "/SubscriptionCheckout"
	BillingServiceConnectOnboardingProcedure    = "/" + BillingServiceName + "/ConnectOnboarding"
	BillingServiceTenantBalancesProcedure       = "/" + BillingServiceName + "/TenantBalances"
)

// BillingServiceHandler is implemented by the server side of the BillingService.
type BillingServiceHandler interface {
	CreateInvoice(context.Context, *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error)
	ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error)
	UpdateInvoiceStatus(context.Context, *connect.Request[api.UpdateInvoiceStatusRequest]) (*connect.Response[api.UpdateInvoiceStatusResponse], error)
	DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	CreateCheckout(context.Context, *connect.Request[api.CreateCheckoutRequest]) (*connect.Response[api.CreateCheckoutResponse], error)
	SubscriptionCheckout(context.Context, *connect.Request[api.SubscriptionCheckoutRequest]) (*connect.Response[api.SubscriptionCheckoutResponse], error)
	ConnectOnboarding(context.Context, *connect.Request[api.ConnectOnboardingRequest]) (*connect.Response[api.ConnectOnboardingResponse], error)
	TenantBalances(context.Context, *connect.Request[api.TenantBalancesRequest]) (*connect.Response[api.TenantBalancesResponse], error)
}

// NewBillingServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path prefix to mount it on.
func NewBillingServiceHandler(svc BillingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(BillingServiceCreateInvoiceProcedure, connect.NewUnaryHandler(BillingServiceCreateInvoiceProcedure, svc.CreateInvoice, handlerOptions(opts, false)...))
	mux.Handle(BillingServiceListInvoicesProcedure, connect.NewUnaryHandler(BillingServiceListInvoicesProcedure, svc.ListInvoices, handlerOptions(opts, true)...))
	mux.Handle(BillingServiceUpdateInvoiceStatusProcedure, connect.NewUnaryHandler(BillingServiceUpdateInvoiceStatusProcedure, svc.UpdateInvoiceStatus, handlerOptions(opts, false)...))
	mux.Handle(BillingServiceDeleteInvoiceProcedure, connect.NewUnaryHandler(BillingServiceDeleteInvoiceProcedure, svc.DeleteInvoice, handlerOptions(opts, false)...))
	mux.Handle(BillingServiceListPaymentsProcedure, connect.NewUnaryHandler(BillingServiceListPaymentsProcedure, svc.ListPayments, handlerOptions(opts, true)...))
	mux.Handle(BillingServiceCreateCheckoutProcedure, connect.NewUnaryHandler(BillingServiceCreateCheckoutProcedure, svc.CreateCheckout, handlerOptions(opts, false)...))
	mux.Handle(BillingServiceSubscriptionCheckoutProcedure, connect.NewUnaryHandler(BillingServiceSubscriptionCheckoutProcedure, svc.SubscriptionCheckout, handlerOptions(opts, false)...))
	mux.Handle(BillingServiceConnectOnboardingProcedure, connect.NewUnaryHandler(BillingServiceConnectOnboardingProcedure, svc.ConnectOnboarding, handlerOptions(opts, false)...))
	mux.Handle(BillingServiceTenantBalancesProcedure, connect.NewUnaryHandler(BillingServiceTenantBalancesProcedure, svc.TenantBalances, handlerOptions(opts, true)...))
	return "/" + BillingServiceName + "/", mux
}

// BillingServiceClient calls the BillingService.
type BillingServiceClient struct {
	createInvoice        *connect.Client[api.CreateInvoiceRequest, api.CreateInvoiceResponse]
	listInvoices         *connect.Client[api.ListInvoicesRequest, api.ListInvoicesResponse]
	updateInvoiceStatus  *connect.Client[api.UpdateInvoiceStatusRequest, api.UpdateInvoiceStatusResponse]
	deleteInvoice        *connect.Client[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse]
	listPayments         *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	createCheckout       *connect.Client[api.CreateCheckoutRequest, api.CreateCheckoutResponse]
	subscriptionCheckout *connect.Client[api.SubscriptionCheckoutRequest, api.SubscriptionCheckoutResponse]
	connectOnboarding    *connect.Client[api.ConnectOnboardingRequest, api.ConnectOnboardingResponse]
	tenantBalances       *connect.Client[api.TenantBalancesRequest, api.TenantBalancesResponse]
}

// NewBillingServiceClient returns a client for the service at baseURL.
func NewBillingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillingServiceClient {
	return &BillingServiceClient{
		createInvoice:        connect.NewClient[api.CreateInvoiceRequest, api.CreateInvoiceResponse](httpClient, baseURL+BillingServiceCreateInvoiceProcedure, clientOptions(opts, false)...),
		listInvoices:         connect.NewClient[api.ListInvoicesRequest, api.ListInvoicesResponse](httpClient, baseURL+BillingServiceListInvoicesProcedure, clientOptions(opts, true)...),
		updateInvoiceStatus:  connect.NewClient[api.UpdateInvoiceStatusRequest, api.UpdateInvoiceStatusResponse](httpClient, baseURL+BillingServiceUpdateInvoiceStatusProcedure, clientOptions(opts, false)...),
		deleteInvoice:        connect.NewClient[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse](httpClient, baseURL+BillingServiceDeleteInvoiceProcedure, clientOptions(opts, false)...),
		listPayments:         connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+BillingServiceListPaymentsProcedure, clientOptions(opts, true)...),
		createCheckout:       connect.NewClient[api.CreateCheckoutRequest, api.CreateCheckoutResponse](httpClient, baseURL+BillingServiceCreateCheckoutProcedure, clientOptions(opts, false)...),
		subscriptionCheckout: connect.NewClient[api.SubscriptionCheckoutRequest, api.SubscriptionCheckoutResponse](httpClient, baseURL+BillingServiceSubscriptionCheckoutProcedure, clientOptions(opts, false)...),
		connectOnboarding:    connect.NewClient[api.ConnectOnboardingRequest, api.ConnectOnboardingResponse](httpClient, baseURL+BillingServiceConnectOnboardingProcedure, clientOptions(opts, false)...),
		tenantBalances:       connect.NewClient[api.TenantBalancesRequest, api.TenantBalancesResponse](httpClient, baseURL+BillingServiceTenantBalancesProcedure, clientOptions(opts, true)...),
	}
}

func (c *BillingServiceClient) CreateInvoice(ctx context.Context, req *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error) {
	return c.createInvoice.CallUnary(ctx, req)
}

func (c *BillingServiceClient) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	return c.listInvoices.CallUnary(ctx, req)
}

func (c *BillingServiceClient) UpdateInvoiceStatus(ctx context.Context, req *connect.Request[api.UpdateInvoiceStatusRequest]) (*connect.Response[api.UpdateInvoiceStatusResponse], error) {
	return c.updateInvoiceStatus.CallUnary(ctx, req)
}

func (c *BillingServiceClient) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	return c.deleteInvoice.CallUnary(ctx, req)
}

func (c *BillingServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *BillingServiceClient) CreateCheckout(ctx context.Context, req *connect.Request[api.CreateCheckoutRequest]) (*connect.Response[api.CreateCheckoutResponse], error) {
	return c.createCheckout.CallUnary(ctx, req)
}

func (c *BillingServiceClient) SubscriptionCheckout(ctx context.Context, req *connect.Request[api.SubscriptionCheckoutRequest]) (*connect.Response[api.SubscriptionCheckoutResponse], error) {
	return c.subscriptionCheckout.CallUnary(ctx, req)
}

func (c *BillingServiceClient) ConnectOnboarding(ctx context.Context, req *connect.Request[api.ConnectOnboardingRequest]) (*connect.Response[api.ConnectOnboardingResponse], error) {
	return c.connectOnboarding.CallUnary(ctx, req)
}

func (c *BillingServiceClient) TenantBalances(ctx context.Context, req *connect.Request[api.TenantBalancesRequest]) (*connect.Response[api.TenantBalancesResponse], error) {
	return c.tenantBalances.CallUnary(ctx, req)
}
