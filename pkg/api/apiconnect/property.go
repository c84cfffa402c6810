package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// PropertyServiceName is the fully-qualified name of the PropertyService.
const PropertyServiceName = "dashboardly.v1.PropertyService"

const (
	PropertyServiceCreatePropertyProcedure   = "/" + PropertyServiceName + "/CreateProperty"
	PropertyServiceGetPropertyProcedure      = "/" + PropertyServiceName + "/GetProperty"
	PropertyServiceListPropertiesProcedure   = "/" + PropertyServiceName + "/ListProperties"
	PropertyServiceUpdatePropertyProcedure   = "/" + PropertyServiceName + "/UpdateProperty"
	PropertyServiceDeletePropertyProcedure   = "/" + PropertyServiceName + "/DeleteProperty"
	PropertyServiceListTenanciesProcedure    = "/" + PropertyServiceName + "/ListTenancies"
	PropertyServiceInviteTenantProcedure     = "/" + PropertyServiceName + "/InviteTenant"
	PropertyServiceAcceptInvitationProcedure = "/" + PropertyServiceName + "/AcceptInvitation"
	PropertyServiceEndTenancyProcedure       = "/" + PropertyServiceName + "/EndTenancy"
)

// PropertyServiceHandler is implemented by the server side of the PropertyService.
type PropertyServiceHandler interface {
	CreateProperty(context.Context, *connect.Request[api.CreatePropertyRequest]) (*connect.Response[api.CreatePropertyResponse], error)
	GetProperty(context.Context, *connect.Request[api.GetPropertyRequest]) (*connect.Response[api.GetPropertyResponse], error)
	ListProperties(context.Context, *connect.Request[api.ListPropertiesRequest]) (*connect.Response[api.ListPropertiesResponse], error)
	UpdateProperty(context.Context, *connect.Request[api.UpdatePropertyRequest]) (*connect.Response[api.UpdatePropertyResponse], error)
	DeleteProperty(context.Context, *connect.Request[api.DeletePropertyRequest]) (*connect.Response[api.DeletePropertyResponse], error)
	ListTenancies(context.Context, *connect.Request[api.ListTenanciesRequest]) (*connect.Response[api.ListTenanciesResponse], error)
	InviteTenant(context.Context, *connect.Request[api.InviteTenantRequest]) (*connect.Response[api.InviteTenantResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	EndTenancy(context.Context, *connect.Request[api.EndTenancyRequest]) (*connect.Response[api.EndTenancyResponse], error)
}

// NewPropertyServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path prefix to mount it on.
func NewPropertyServiceHandler(svc PropertyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(PropertyServiceCreatePropertyProcedure, connect.NewUnaryHandler(PropertyServiceCreatePropertyProcedure, svc.CreateProperty, handlerOptions(opts, false)...))
	mux.Handle(PropertyServiceGetPropertyProcedure, connect.NewUnaryHandler(PropertyServiceGetPropertyProcedure, svc.GetProperty, handlerOptions(opts, true)...))
	mux.Handle(PropertyServiceListPropertiesProcedure, connect.NewUnaryHandler(PropertyServiceListPropertiesProcedure, svc.ListProperties, handlerOptions(opts, true)...))
	mux.Handle(PropertyServiceUpdatePropertyProcedure, connect.NewUnaryHandler(PropertyServiceUpdatePropertyProcedure, svc.UpdateProperty, handlerOptions(opts, false)...))
	mux.Handle(PropertyServiceDeletePropertyProcedure, connect.NewUnaryHandler(PropertyServiceDeletePropertyProcedure, svc.DeleteProperty, handlerOptions(opts, false)...))
	mux.Handle(PropertyServiceListTenanciesProcedure, connect.NewUnaryHandler(PropertyServiceListTenanciesProcedure, svc.ListTenancies, handlerOptions(opts, true)...))
	mux.Handle(PropertyServiceInviteTenantProcedure, connect.NewUnaryHandler(PropertyServiceInviteTenantProcedure, svc.InviteTenant, handlerOptions(opts, false)...))
	mux.Handle(PropertyServiceAcceptInvitationProcedure, connect.NewUnaryHandler(PropertyServiceAcceptInvitationProcedure, svc.AcceptInvitation, handlerOptions(opts, false)...))
	mux.Handle(PropertyServiceEndTenancyProcedure, connect.NewUnaryHandler(PropertyServiceEndTenancyProcedure, svc.EndTenancy, handlerOptions(opts, false)...))
	return "/" + PropertyServiceName + "/", mux
}

// PropertyServiceClient calls the PropertyService.
type PropertyServiceClient struct {
	createProperty   *connect.Client[api.CreatePropertyRequest, api.CreatePropertyResponse]
	getProperty      *connect.Client[api.GetPropertyRequest, api.GetPropertyResponse]
	listProperties   *connect.Client[api.ListPropertiesRequest, api.ListPropertiesResponse]
	updateProperty   *connect.Client[api.UpdatePropertyRequest, api.UpdatePropertyResponse]
	deleteProperty   *connect.Client[api.DeletePropertyRequest, api.DeletePropertyResponse]
	listTenancies    *connect.Client[api.ListTenanciesRequest, api.ListTenanciesResponse]
	inviteTenant     *connect.Client[api.InviteTenantRequest, api.InviteTenantResponse]
	acceptInvitation *connect.Client[api.AcceptInvitationRequest, api.AcceptInvitationResponse]
	endTenancy       *connect.Client[api.EndTenancyRequest, api.EndTenancyResponse]
}

// NewPropertyServiceClient returns a client for the service at baseURL.
func NewPropertyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PropertyServiceClient {
	return &PropertyServiceClient{
		createProperty:   connect.NewClient[api.CreatePropertyRequest, api.CreatePropertyResponse](httpClient, baseURL+PropertyServiceCreatePropertyProcedure, clientOptions(opts, false)...),
		getProperty:      connect.NewClient[api.GetPropertyRequest, api.GetPropertyResponse](httpClient, baseURL+PropertyServiceGetPropertyProcedure, clientOptions(opts, true)...),
		listProperties:   connect.NewClient[api.ListPropertiesRequest, api.ListPropertiesResponse](httpClient, baseURL+PropertyServiceListPropertiesProcedure, clientOptions(opts, true)...),
		updateProperty:   connect.NewClient[api.UpdatePropertyRequest, api.UpdatePropertyResponse](httpClient, baseURL+PropertyServiceUpdatePropertyProcedure, clientOptions(opts, false)...),
		deleteProperty:   connect.NewClient[api.DeletePropertyRequest, api.DeletePropertyResponse](httpClient, baseURL+PropertyServiceDeletePropertyProcedure, clientOptions(opts, false)...),
		listTenancies:    connect.NewClient[api.ListTenanciesRequest, api.ListTenanciesResponse](httpClient, baseURL+PropertyServiceListTenanciesProcedure, clientOptions(opts, true)...),
		inviteTenant:     connect.NewClient[api.InviteTenantRequest, api.InviteTenantResponse](httpClient, baseURL+PropertyServiceInviteTenantProcedure, clientOptions(opts, false)...),
		acceptInvitation: connect.NewClient[api.AcceptInvitationRequest, api.AcceptInvitationResponse](httpClient, baseURL+PropertyServiceAcceptInvitationProcedure, clientOptions(opts, false)...),
		endTenancy:       connect.NewClient[api.EndTenancyRequest, api.EndTenancyResponse](httpClient, baseURL+PropertyServiceEndTenancyProcedure, clientOptions(opts, false)...),
	}
}

func (c *PropertyServiceClient) CreateProperty(ctx context.Context, req *connect.Request[api.CreatePropertyRequest]) (*connect.Response[api.CreatePropertyResponse], error) {
	return c.createProperty.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) GetProperty(ctx context.Context, req *connect.Request[api.GetPropertyRequest]) (*connect.Response[api.GetPropertyResponse], error) {
	return c.getProperty.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) ListProperties(ctx context.Context, req *connect.Request[api.ListPropertiesRequest]) (*connect.Response[api.ListPropertiesResponse], error) {
	return c.listProperties.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) UpdateProperty(ctx context.Context, req *connect.Request[api.UpdatePropertyRequest]) (*connect.Response[api.UpdatePropertyResponse], error) {
	return c.updateProperty.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) DeleteProperty(ctx context.Context, req *connect.Request[api.DeletePropertyRequest]) (*connect.Response[api.DeletePropertyResponse], error) {
	return c.deleteProperty.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) ListTenancies(ctx context.Context, req *connect.Request[api.ListTenanciesRequest]) (*connect.Response[api.ListTenanciesResponse], error) {
	return c.listTenancies.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) InviteTenant(ctx context.Context, req *connect.Request[api.InviteTenantRequest]) (*connect.Response[api.InviteTenantResponse], error) {
	return c.inviteTenant.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

func (c *PropertyServiceClient) EndTenancy(ctx context.Context, req *connect.Request[api.EndTenancyRequest]) (*connect.Response[api.EndTenancyResponse], error) {
	return c.endTenancy.CallUnary(ctx, req)
}
