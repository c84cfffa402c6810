package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// CurrencyServiceName is the fully-qualified name of the CurrencyService.
const CurrencyServiceName = "dashboardly.v1.CurrencyService"

const (
	CurrencyServiceGetRatesProcedure     = "/" + CurrencyServiceName + "/GetRates"
	CurrencyServiceRefreshRatesProcedure = "/" + CurrencyServiceName + "/RefreshRates"
	CurrencyServiceConvertProcedure      = "/" + CurrencyServiceName + "/Convert"
	CurrencyServiceFormatProcedure       = "/" + CurrencyServiceName + "/Format"
)

// CurrencyServiceHandler is implemented by the server side of the CurrencyService.
type CurrencyServiceHandler interface {
	GetRates(context.Context, *connect.Request[api.GetRatesRequest]) (*connect.Response[api.GetRatesResponse], error)
	RefreshRates(context.Context, *connect.Request[api.RefreshRatesRequest]) (*connect.Response[api.RefreshRatesResponse], error)
	Convert(context.Context, *connect.Request[api.ConvertRequest]) (*connect.Response[api.ConvertResponse], error)
	Format(context.Context, *connect.Request[api.FormatRequest]) (*connect.Response[api.FormatResponse], error)
}

// NewCurrencyServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path prefix to mount it on.
func NewCurrencyServiceHandler(svc CurrencyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(CurrencyServiceGetRatesProcedure, connect.NewUnaryHandler(CurrencyServiceGetRatesProcedure, svc.GetRates, handlerOptions(opts, true)...))
	mux.Handle(CurrencyServiceRefreshRatesProcedure, connect.NewUnaryHandler(CurrencyServiceRefreshRatesProcedure, svc.RefreshRates, handlerOptions(opts, false)...))
	mux.Handle(CurrencyServiceConvertProcedure, connect.NewUnaryHandler(CurrencyServiceConvertProcedure, svc.Convert, handlerOptions(opts, true)...))
	mux.Handle(CurrencyServiceFormatProcedure, connect.NewUnaryHandler(CurrencyServiceFormatProcedure, svc.Format, handlerOptions(opts, true)...))
	return "/" + CurrencyServiceName + "/", mux
}

// CurrencyServiceClient calls the CurrencyService.
type CurrencyServiceClient struct {
	getRates     *connect.Client[api.GetRatesRequest, api.GetRatesResponse]
	refreshRates *connect.Client[api.RefreshRatesRequest, api.RefreshRatesResponse]
	convert      *connect.Client[api.ConvertRequest, api.ConvertResponse]
	format       *connect.Client[api.FormatRequest, api.FormatResponse]
}

// NewCurrencyServiceClient returns a client for the service at baseURL.
func NewCurrencyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CurrencyServiceClient {
	return &CurrencyServiceClient{
		getRates:     connect.NewClient[api.GetRatesRequest, api.GetRatesResponse](httpClient, baseURL+CurrencyServiceGetRatesProcedure, clientOptions(opts, true)...),
		refreshRates: connect.NewClient[api.RefreshRatesRequest, api.RefreshRatesResponse](httpClient, baseURL+CurrencyServiceRefreshRatesProcedure, clientOptions(opts, false)...),
		convert:      connect.NewClient[api.ConvertRequest, api.ConvertResponse](httpClient, baseURL+CurrencyServiceConvertProcedure, clientOptions(opts, true)...),
		format:       connect.NewClient[api.FormatRequest, api.FormatResponse](httpClient, baseURL+CurrencyServiceFormatProcedure, clientOptions(opts, true)...),
	}
}

func (c *CurrencyServiceClient) GetRates(ctx context.Context, req *connect.Request[api.GetRatesRequest]) (*connect.Response[api.GetRatesResponse], error) {
	return c.getRates.CallUnary(ctx, req)
}

func (c *CurrencyServiceClient) RefreshRates(ctx context.Context, req *connect.Request[api.RefreshRatesRequest]) (*connect.Response[api.RefreshRatesResponse], error) {
	return c.refreshRates.CallUnary(ctx, req)
}

func (c *CurrencyServiceClient) Convert(ctx context.Context, req *connect.Request[api.ConvertRequest]) (*connect.Response[api.ConvertResponse], error) {
	return c.convert.CallUnary(ctx, req)
}

func (c *CurrencyServiceClient) Format(ctx context.Context, req *connect.Request[api.FormatRequest]) (*connect.Response[api.FormatResponse], error) {
	return c.format.CallUnary(ctx, req)
}
