package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.DocumentServiceHandler = (*DocumentService)(nil)

// DocumentStore is the part of the store DocumentService needs.
type DocumentStore interface {
	storage.DocumentStore
	GetProperty(ctx context.Context, scope policy.Scope, id string) (*models.Property, error)
}

// DocumentService stores leases, receipts and other files per property.
type DocumentService struct {
	store  DocumentStore
	files  Files
	urlTTL time.Duration
}

// NewDocumentService creates a new DocumentService. Download links stay valid for urlTTL.
func NewDocumentService(store DocumentStore, files Files, urlTTL time.Duration) *DocumentService {
	return &DocumentService{store: store, files: files, urlTTL: urlTTL}
}

// UploadDocument stores the file and then its metadata row. If the row
// cannot be written the file is deleted again.
func (s *DocumentService) UploadDocument(ctx context.Context, req *connect.Request[api.UploadDocumentRequest]) (*connect.Response[api.UploadDocumentResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("UploadDocument request received",
		"property_id", req.Msg.PropertyID,
		"name", req.Msg.Name,
		"size", len(req.Msg.Data),
	)
	if err := scope.Require(models.RoleLandlord, models.RoleTenant); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	prop, err := s.store.GetProperty(ctx, scope, req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}

	doc := &models.Document{
		ID:           uuid.NewString(),
		PropertyID:   prop.ID,
		TenantID:     req.Msg.TenantID,
		UploadedBy:   scope.UserID,
		Name:         strings.TrimSpace(req.Msg.Name),
		DocumentType: req.Msg.DocumentType,
		CreatedAt:    time.Now().UnixMilli(),
	}
	// A tenant's upload is always shared with that tenant only.
	if scope.Role == models.RoleTenant {
		doc.TenantID = scope.UserID
	}

	_, err = s.files.UploadAndRecord(ctx, scope.UserID, doc.Name, req.Msg.ContentType, req.Msg.Data, func(key string) error {
		doc.ObjectKey = key
		return s.store.CreateDocument(ctx, doc)
	})
	if err != nil {
		slog.Error("UploadDocument failed", "property_id", prop.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Document uploaded", "document_id", doc.ID, "key", doc.ObjectKey)
	return connect.NewResponse(&api.UploadDocumentResponse{Document: toAPIDocument(doc, "")}), nil
}

// ListDocuments lists documents visible to the caller, optionally for one property.
func (s *DocumentService) ListDocuments(ctx context.Context, req *connect.Request[api.ListDocumentsRequest]) (*connect.Response[api.ListDocumentsResponse], error) {
	docs, err := s.store.ListDocuments(ctx, middleware.Scope(ctx), req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Document, len(docs))
	for i, d := range docs {
		out[i] = toAPIDocument(d, "")
	}
	return connect.NewResponse(&api.ListDocumentsResponse{Documents: out}), nil
}

// GetDocument returns a document with a signed download link.
func (s *DocumentService) GetDocument(ctx context.Context, req *connect.Request[api.GetDocumentRequest]) (*connect.Response[api.GetDocumentResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	doc, err := s.store.GetDocument(ctx, middleware.Scope(ctx), req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	url, err := s.files.SignedURL(ctx, doc.ObjectKey, s.urlTTL)
	if err != nil {
		slog.Error("GetDocument failed to sign url", "document_id", doc.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetDocumentResponse{Document: toAPIDocument(doc, url)}), nil
}

// DeleteDocument removes the metadata row and then the file. Landlords may
// delete any document of their properties, tenants only their own uploads.
func (s *DocumentService) DeleteDocument(ctx context.Context, req *connect.Request[api.DeleteDocumentRequest]) (*connect.Response[api.DeleteDocumentResponse], error) {
	scope := middleware.Scope(ctx)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	doc, err := s.store.GetDocument(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if scope.Role != models.RoleLandlord && doc.UploadedBy != scope.UserID {
		return nil, toConnectError(policy.ErrForbidden)
	}
	if err := s.store.DeleteDocument(ctx, doc.ID); err != nil {
		slog.Error("DeleteDocument failed", "document_id", doc.ID, "error", err)
		return nil, toConnectError(err)
	}
	removeObjects(ctx, s.files, doc.ObjectKey)

	slog.Info("Document deleted", "document_id", doc.ID)
	return connect.NewResponse(&api.DeleteDocumentResponse{}), nil
}
