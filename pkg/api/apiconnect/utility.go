package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// UtilityServiceName is the fully-qualified name of the UtilityService.
const UtilityServiceName = "dashboardly.v1.UtilityService"

const (
	UtilityServiceCreateBillProcedure       = "/" + UtilityServiceName + "/CreateBill"
	UtilityServiceListBillsProcedure        = "/" + UtilityServiceName + "/ListBills"
	UtilityServiceUpdateBillStatusProcedure = "/" + UtilityServiceName + "/UpdateBillStatus"
	UtilityServiceDeleteBillProcedure       = "/" + UtilityServiceName + "/DeleteBill"
	UtilityServiceStatsProcedure            = "/" + UtilityServiceName + "/Stats"
	UtilityServiceSplitBillProcedure        = "/" + UtilityServiceName + "/SplitBill"
	UtilityServiceCreateProviderProcedure   = "/" + UtilityServiceName + "/CreateProvider"
	UtilityServiceListProvidersProcedure    = "/" + UtilityServiceName + "/ListProviders"
	UtilityServiceStartScrapingProcedure    = "/" + UtilityServiceName + "/StartScraping"
	UtilityServiceListScrapingJobsProcedure = "/" + UtilityServiceName + "/ListScrapingJobs"
)

// UtilityServiceHandler is implemented by the server side of the UtilityService.
type UtilityServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateUtilityBillRequest]) (*connect.Response[api.CreateUtilityBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListUtilityBillsRequest]) (*connect.Response[api.ListUtilityBillsResponse], error)
	UpdateBillStatus(context.Context, *connect.Request[api.UpdateUtilityBillStatusRequest]) (*connect.Response[api.UpdateUtilityBillStatusResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteUtilityBillRequest]) (*connect.Response[api.DeleteUtilityBillResponse], error)
	Stats(context.Context, *connect.Request[api.UtilityStatsRequest]) (*connect.Response[api.UtilityStatsResponse], error)
	SplitBill(context.Context, *connect.Request[api.SplitUtilityBillRequest]) (*connect.Response[api.SplitUtilityBillResponse], error)
	CreateProvider(context.Context, *connect.Request[api.CreateUtilityProviderRequest]) (*connect.Response[api.CreateUtilityProviderResponse], error)
	ListProviders(context.Context, *connect.Request[api.ListUtilityProvidersRequest]) (*connect.Response[api.ListUtilityProvidersResponse], error)
	StartScraping(context.Context, *connect.Request[api.StartScrapingRequest]) (*connect.Response[api.StartScrapingResponse], error)
	ListScrapingJobs(context.Context, *connect.Request[api.ListScrapingJobsRequest]) (*connect.Response[api.ListScrapingJobsResponse], error)
}

// NewUtilityServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path prefix to mount it on.
func NewUtilityServiceHandler(svc UtilityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(UtilityServiceCreateBillProcedure, connect.NewUnaryHandler(UtilityServiceCreateBillProcedure, svc.CreateBill, handlerOptions(opts, false)...))
	mux.Handle(UtilityServiceListBillsProcedure, connect.NewUnaryHandler(UtilityServiceListBillsProcedure, svc.ListBills, handlerOptions(opts, true)...))
	mux.Handle(UtilityServiceUpdateBillStatusProcedure, connect.NewUnaryHandler(UtilityServiceUpdateBillStatusProcedure, svc.UpdateBillStatus, handlerOptions(opts, false)...))
	mux.Handle(UtilityServiceDeleteBillProcedure, connect.NewUnaryHandler(UtilityServiceDeleteBillProcedure, svc.DeleteBill, handlerOptions(opts, false)...))
	mux.Handle(UtilityServiceStatsProcedure, connect.NewUnaryHandler(UtilityServiceStatsProcedure, svc.Stats, handlerOptions(opts, true)...))
	mux.Handle(UtilityServiceSplitBillProcedure, connect.NewUnaryHandler(UtilityServiceSplitBillProcedure, svc.SplitBill, handlerOptions(opts, true)...))
	mux.Handle(UtilityServiceCreateProviderProcedure, connect.NewUnaryHandler(UtilityServiceCreateProviderProcedure, svc.CreateProvider, handlerOptions(opts, false)...))
	mux.Handle(UtilityServiceListProvidersProcedure, connect.NewUnaryHandler(UtilityServiceListProvidersProcedure, svc.ListProviders, handlerOptions(opts, true)...))
	mux.Handle(UtilityServiceStartScrapingProcedure, connect.NewUnaryHandler(UtilityServiceStartScrapingProcedure, svc.StartScraping, handlerOptions(opts, false)...))
	mux.Handle(UtilityServiceListScrapingJobsProcedure, connect.NewUnaryHandler(UtilityServiceListScrapingJobsProcedure, svc.ListScrapingJobs, handlerOptions(opts, true)...))
	return "/" + UtilityServiceName + "/", mux
}

// UtilityServiceClient calls the UtilityService.
type UtilityServiceClient struct {
	createBill       *connect.Client[api.CreateUtilityBillRequest, api.CreateUtilityBillResponse]
	listBills        *connect.Client[api.ListUtilityBillsRequest, api.ListUtilityBillsResponse]
	updateBillStatus *connect.Client[api.UpdateUtilityBillStatusRequest, api.UpdateUtilityBillStatusResponse]
	deleteBill       *connect.Client[api.DeleteUtilityBillRequest, api.DeleteUtilityBillResponse]
	stats            *connect.Client[api.UtilityStatsRequest, api.UtilityStatsResponse]
	splitBill        *connect.Client[api.SplitUtilityBillRequest, api.SplitUtilityBillResponse]
	createProvider   *connect.Client[api.CreateUtilityProviderRequest, api.CreateUtilityProviderResponse]
	listProviders    *connect.Client[api.ListUtilityProvidersRequest, api.ListUtilityProvidersResponse]
	startScraping    *connect.Client[api.StartScrapingRequest, api.StartScrapingResponse]
	listScrapingJobs *connect.Client[api.ListScrapingJobsRequest, api.ListScrapingJobsResponse]
}

// NewUtilityServiceClient returns a client for the service at baseURL.
func NewUtilityServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *UtilityServiceClient {
	return &UtilityServiceClient{
		createBill:       connect.NewClient[api.CreateUtilityBillRequest, api.CreateUtilityBillResponse](httpClient, baseURL+UtilityServiceCreateBillProcedure, clientOptions(opts, false)...),
		listBills:        connect.NewClient[api.ListUtilityBillsRequest, api.ListUtilityBillsResponse](httpClient, baseURL+UtilityServiceListBillsProcedure, clientOptions(opts, true)...),
		updateBillStatus: connect.NewClient[api.UpdateUtilityBillStatusRequest, api.UpdateUtilityBillStatusResponse](httpClient, baseURL+UtilityServiceUpdateBillStatusProcedure, clientOptions(opts, false)...),
		deleteBill:       connect.NewClient[api.DeleteUtilityBillRequest, api.DeleteUtilityBillResponse](httpClient, baseURL+UtilityServiceDeleteBillProcedure, clientOptions(opts, false)...),
		stats:            connect.NewClient[api.UtilityStatsRequest, api.UtilityStatsResponse](httpClient, baseURL+UtilityServiceStatsProcedure, clientOptions(opts, true)...),
		splitBill:        connect.NewClient[api.SplitUtilityBillRequest, api.SplitUtilityBillResponse](httpClient, baseURL+UtilityServiceSplitBillProcedure, clientOptions(opts, true)...),
		createProvider:   connect.NewClient[api.CreateUtilityProviderRequest, api.CreateUtilityProviderResponse](httpClient, baseURL+UtilityServiceCreateProviderProcedure, clientOptions(opts, false)...),
		listProviders:    connect.NewClient[api.ListUtilityProvidersRequest, api.ListUtilityProvidersResponse](httpClient, baseURL+UtilityServiceListProvidersProcedure, clientOptions(opts, true)...),
		startScraping:    connect.NewClient[api.StartScrapingRequest, api.StartScrapingResponse](httpClient, baseURL+UtilityServiceStartScrapingProcedure, clientOptions(opts, false)...),
		listScrapingJobs: connect.NewClient[api.ListScrapingJobsRequest, api.ListScrapingJobsResponse](httpClient, baseURL+UtilityServiceListScrapingJobsProcedure, clientOptions(opts, true)...),
	}
}

func (c *UtilityServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateUtilityBillRequest]) (*connect.Response[api.CreateUtilityBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListUtilityBillsRequest]) (*connect.Response[api.ListUtilityBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) UpdateBillStatus(ctx context.Context, req *connect.Request[api.UpdateUtilityBillStatusRequest]) (*connect.Response[api.UpdateUtilityBillStatusResponse], error) {
	return c.updateBillStatus.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteUtilityBillRequest]) (*connect.Response[api.DeleteUtilityBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) Stats(ctx context.Context, req *connect.Request[api.UtilityStatsRequest]) (*connect.Response[api.UtilityStatsResponse], error) {
	return c.stats.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) SplitBill(ctx context.Context, req *connect.Request[api.SplitUtilityBillRequest]) (*connect.Response[api.SplitUtilityBillResponse], error) {
	return c.splitBill.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) CreateProvider(ctx context.Context, req *connect.Request[api.CreateUtilityProviderRequest]) (*connect.Response[api.CreateUtilityProviderResponse], error) {
	return c.createProvider.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) ListProviders(ctx context.Context, req *connect.Request[api.ListUtilityProvidersRequest]) (*connect.Response[api.ListUtilityProvidersResponse], error) {
	return c.listProviders.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) StartScraping(ctx context.Context, req *connect.Request[api.StartScrapingRequest]) (*connect.Response[api.StartScrapingResponse], error) {
	return c.startScraping.CallUnary(ctx, req)
}

func (c *UtilityServiceClient) ListScrapingJobs(ctx context.Context, req *connect.Request[api.ListScrapingJobsRequest]) (*connect.Response[api.ListScrapingJobsResponse], error) {
	return c.listScrapingJobs.CallUnary(ctx, req)
}
