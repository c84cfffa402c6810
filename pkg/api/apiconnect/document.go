package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// DocumentServiceName is the fully-qualified name of the DocumentService.
const DocumentServiceName = "dashboardly.v1.DocumentService"

const (
	DocumentServiceUploadDocumentProcedure = "/" + DocumentServiceName + "/UploadDocument"
	DocumentServiceListDocumentsProcedure  = "/" + DocumentServiceName + "/ListDocuments"
	DocumentServiceGetDocumentProcedure    = "/" + DocumentServiceName + "/GetDocument"
	DocumentServiceDeleteDocumentProcedure = "/" + DocumentServiceName + "/DeleteDocument"
)

// DocumentServiceHandler is implemented by the server side of the DocumentService.
type DocumentServiceHandler interface {
	UploadDocument(context.Context, *connect.Request[api.UploadDocumentRequest]) (*connect.Response[api.UploadDocumentResponse], error)
	ListDocuments(context.Context, *connect.Request[api.ListDocumentsRequest]) (*connect.Response[api.ListDocumentsResponse], error)
	GetDocument(context.Context, *connect.Request[api.GetDocumentRequest]) (*connect.Response[api.GetDocumentResponse], error)
	DeleteDocument(context.Context, *connect.Request[api.DeleteDocumentRequest]) (*connect.Response[api.DeleteDocumentResponse], error)
}

// NewDocumentServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path prefix to mount it on.
func NewDocumentServiceHandler(svc DocumentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(DocumentServiceUploadDocumentProcedure, connect.NewUnaryHandler(DocumentServiceUploadDocumentProcedure, svc.UploadDocument, handlerOptions(opts, false)...))
	mux.Handle(DocumentServiceListDocumentsProcedure, connect.NewUnaryHandler(DocumentServiceListDocumentsProcedure, svc.ListDocuments, handlerOptions(opts, true)...))
	mux.Handle(DocumentServiceGetDocumentProcedure, connect.NewUnaryHandler(DocumentServiceGetDocumentProcedure, svc.GetDocument, handlerOptions(opts, true)...))
	mux.Handle(DocumentServiceDeleteDocumentProcedure, connect.NewUnaryHandler(DocumentServiceDeleteDocumentProcedure, svc.DeleteDocument, handlerOptions(opts, false)...))
	return "/" + DocumentServiceName + "/", mux
}

// DocumentServiceClient calls the DocumentService.
type DocumentServiceClient struct {
	uploadDocument *connect.Client[api.UploadDocumentRequest, api.UploadDocumentResponse]
	listDocuments  *connect.Client[api.ListDocumentsRequest, api.ListDocumentsResponse]
	getDocument    *connect.Client[api.GetDocumentRequest, api.GetDocumentResponse]
	deleteDocument *connect.Client[api.DeleteDocumentRequest, api.DeleteDocumentResponse]
}

// NewDocumentServiceClient returns a client for the service at baseURL.
func NewDocumentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DocumentServiceClient {
	return &DocumentServiceClient{
		uploadDocument: connect.NewClient[api.UploadDocumentRequest, api.UploadDocumentResponse](httpClient, baseURL+DocumentServiceUploadDocumentProcedure, clientOptions(opts, false)...),
		listDocuments:  connect.NewClient[api.ListDocumentsRequest, api.ListDocumentsResponse](httpClient, baseURL+DocumentServiceListDocumentsProcedure, clientOptions(opts, true)...),
		getDocument:    connect.NewClient[api.GetDocumentRequest, api.GetDocumentResponse](httpClient, baseURL+DocumentServiceGetDocumentProcedure, clientOptions(opts, true)...),
		deleteDocument: connect.NewClient[api.DeleteDocumentRequest, api.DeleteDocumentResponse](httpClient, baseURL+DocumentServiceDeleteDocumentProcedure, clientOptions(opts, false)...),
	}
}

func (c *DocumentServiceClient) UploadDocument(ctx context.Context, req *connect.Request[api.UploadDocumentRequest]) (*connect.Response[api.UploadDocumentResponse], error) {
	return c.uploadDocument.CallUnary(ctx, req)
}

func (c *DocumentServiceClient) ListDocuments(ctx context.Context, req *connect.Request[api.ListDocumentsRequest]) (*connect.Response[api.ListDocumentsResponse], error) {
	return c.listDocuments.CallUnary(ctx, req)
}

func (c *DocumentServiceClient) GetDocument(ctx context.Context, req *connect.Request[api.GetDocumentRequest]) (*connect.Response[api.GetDocumentResponse], error) {
	return c.getDocument.CallUnary(ctx, req)
}

func (c *DocumentServiceClient) DeleteDocument(ctx context.Context, req *connect.Request[api.DeleteDocumentRequest]) (*connect.Response[api.DeleteDocumentResponse], error) {
	return c.deleteDocument.CallUnary(ctx, req)
}
