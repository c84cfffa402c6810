package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// MaintenanceServiceName is the fully-qualified name of the MaintenanceService.
const MaintenanceServiceName = "dashboardly.v1.MaintenanceService"

const (
	MaintenanceServiceCreateRequestProcedure = "/" + MaintenanceServiceName + "/CreateRequest"
	MaintenanceServiceGetRequestProcedure    = "/" + MaintenanceServiceName + "/GetRequest"
	MaintenanceServiceListRequestsProcedure  = "/" + MaintenanceServiceName + "/ListRequests"
	MaintenanceServiceUpdateRequestProcedure = "/" + MaintenanceServiceName + "/UpdateRequest"
	MaintenanceServiceDeleteRequestProcedure = "/" + MaintenanceServiceName + "/DeleteRequest"
	MaintenanceServiceUploadImageProcedure   = "/" + MaintenanceServiceName + "/UploadImage"
)

// MaintenanceServiceHandler is implemented by the server side of the MaintenanceService.
type MaintenanceServiceHandler interface {
	CreateRequest(context.Context, *connect.Request[api.CreateMaintenanceRequest]) (*connect.Response[api.CreateMaintenanceResponse], error)
	GetRequest(context.Context, *connect.Request[api.GetMaintenanceRequest]) (*connect.Response[api.GetMaintenanceResponse], error)
	ListRequests(context.Context, *connect.Request[api.ListMaintenanceRequest]) (*connect.Response[api.ListMaintenanceResponse], error)
	UpdateRequest(context.Context, *connect.Request[api.UpdateMaintenanceRequest]) (*connect.Response[api.UpdateMaintenanceResponse], error)
	DeleteRequest(context.Context, *connect.Request[api.DeleteMaintenanceRequest]) (*connect.Response[api.DeleteMaintenanceResponse], error)
	UploadImage(context.Context, *connect.Request[api.UploadMaintenanceImageRequest]) (*connect.Response[api.UploadMaintenanceImageResponse], error)
}

// NewMaintenanceServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path prefix to mount it on.
func NewMaintenanceServiceHandler(svc MaintenanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(MaintenanceServiceCreateRequestProcedure, connect.NewUnaryHandler(MaintenanceServiceCreateRequestProcedure, svc.CreateRequest, handlerOptions(opts, false)...))
	mux.Handle(MaintenanceServiceGetRequestProcedure, connect.NewUnaryHandler(MaintenanceServiceGetRequestProcedure, svc.GetRequest, handlerOptions(opts, true)...))
	mux.Handle(MaintenanceServiceListRequestsProcedure, connect.NewUnaryHandler(MaintenanceServiceListRequestsProcedure, svc.ListRequests, handlerOptions(opts, true)...))
	mux.Handle(MaintenanceServiceUpdateRequestProcedure, connect.NewUnaryHandler(MaintenanceServiceUpdateRequestProcedure, svc.UpdateRequest, handlerOptions(opts, false)...))
	mux.Handle(MaintenanceServiceDeleteRequestProcedure, connect.NewUnaryHandler(MaintenanceServiceDeleteRequestProcedure, svc.DeleteRequest, handlerOptions(opts, false)...))
	mux.Handle(MaintenanceServiceUploadImageProcedure, connect.NewUnaryHandler(MaintenanceServiceUploadImageProcedure, svc.UploadImage, handlerOptions(opts, false)...))
	return "/" + MaintenanceServiceName + "/", mux
}

// MaintenanceServiceClient calls the MaintenanceService.
type MaintenanceServiceClient struct {
	createRequest *connect.Client[api.CreateMaintenanceRequest, api.CreateMaintenanceResponse]
	getRequest    *connect.Client[api.GetMaintenanceRequest, api.GetMaintenanceResponse]
	listRequests  *connect.Client[api.ListMaintenanceRequest, api.ListMaintenanceResponse]
	updateRequest *connect.Client[api.UpdateMaintenanceRequest, api.UpdateMaintenanceResponse]
	deleteRequest *connect.Client[api.DeleteMaintenanceRequest, api.DeleteMaintenanceResponse]
	uploadImage   *connect.Client[api.UploadMaintenanceImageRequest, api.UploadMaintenanceImageResponse]
}

// NewMaintenanceServiceClient returns a client for the service at baseURL.
func NewMaintenanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MaintenanceServiceClient {
	return &MaintenanceServiceClient{
		createRequest: connect.NewClient[api.CreateMaintenanceRequest, api.CreateMaintenanceResponse](httpClient, baseURL+MaintenanceServiceCreateRequestProcedure, clientOptions(opts, false)...),
		getRequest:    connect.NewClient[api.GetMaintenanceRequest, api.GetMaintenanceResponse](httpClient, baseURL+MaintenanceServiceGetRequestProcedure, clientOptions(opts, true)...),
		listRequests:  connect.NewClient[api.ListMaintenanceRequest, api.ListMaintenanceResponse](httpClient, baseURL+MaintenanceServiceListRequestsProcedure, clientOptions(opts, true)...),
		updateRequest: connect.NewClient[api.UpdateMaintenanceRequest, api.UpdateMaintenanceResponse](httpClient, baseURL+MaintenanceServiceUpdateRequestProcedure, clientOptions(opts, false)...),
		deleteRequest: connect.NewClient[api.DeleteMaintenanceRequest, api.DeleteMaintenanceResponse](httpClient, baseURL+MaintenanceServiceDeleteRequestProcedure, clientOptions(opts, false)...),
		uploadImage:   connect.NewClient[api.UploadMaintenanceImageRequest, api.UploadMaintenanceImageResponse](httpClient, baseURL+MaintenanceServiceUploadImageProcedure, clientOptions(opts, false)...),
	}
}

func (c *MaintenanceServiceClient) CreateRequest(ctx context.Context, req *connect.Request[api.CreateMaintenanceRequest]) (*connect.Response[api.CreateMaintenanceResponse], error) {
	return c.createRequest.CallUnary(ctx, req)
}

func (c *MaintenanceServiceClient) GetRequest(ctx context.Context, req *connect.Request[api.GetMaintenanceRequest]) (*connect.Response[api.GetMaintenanceResponse], error) {
	return c.getRequest.CallUnary(ctx, req)
}

func (c *MaintenanceServiceClient) ListRequests(ctx context.Context, req *connect.Request[api.ListMaintenanceRequest]) (*connect.Response[api.ListMaintenanceResponse], error) {
	return c.listRequests.CallUnary(ctx, req)
}

func (c *MaintenanceServiceClient) UpdateRequest(ctx context.Context, req *connect.Request[api.UpdateMaintenanceRequest]) (*connect.Response[api.UpdateMaintenanceResponse], error) {
	return c.updateRequest.CallUnary(ctx, req)
}

func (c *MaintenanceServiceClient) DeleteRequest(ctx context.Context, req *connect.Request[api.DeleteMaintenanceRequest]) (*connect.Response[api.DeleteMaintenanceResponse], error) {
	return c.deleteRequest.CallUnary(ctx, req)
}

func (c *MaintenanceServiceClient) UploadImage(ctx context.Context, req *connect.Request[api.UploadMaintenanceImageRequest]) (*connect.Response[api.UploadMaintenanceImageResponse], error) {
	return c.uploadImage.CallUnary(ctx, req)
}
