package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/email"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.MaintenanceServiceHandler = (*MaintenanceService)(nil)

var errNotServiceProvider = errors.New("requests can only be assigned to service providers")

// MaintenanceStore is the part of the store MaintenanceService needs.
type MaintenanceStore interface {
	storage.MaintenanceStore
	GetProperty(ctx context.Context, scope policy.Scope, id string) (*models.Property, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// MaintenanceService manages maintenance requests and their photos.
type MaintenanceService struct {
	store    MaintenanceStore
	files    Files
	notifier Notifier
	baseURL  string
	urlTTL   time.Duration
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(store MaintenanceStore, files Files, notifier Notifier, baseURL string, urlTTL time.Duration) *MaintenanceService {
	return &MaintenanceService{store: store, files: files, notifier: notifier, baseURL: baseURL, urlTTL: urlTTL}
}

func (s *MaintenanceService) toAPI(ctx context.Context, r *models.MaintenanceRequest) *api.Maintenance {
	return toAPIMaintenance(r, attachments(ctx, s.files, r.ImageKeys, s.urlTTL))
}

// notifyStatus emails the recipient about the request's current status.
func (s *MaintenanceService) notifyStatus(ctx context.Context, r *models.MaintenanceRequest, recipientID, propertyName string) {
	u, err := s.store.GetUserByID(ctx, recipientID)
	if err != nil {
		slog.Warn("Maintenance notification skipped", "request_id", r.ID, "error", err)
		return
	}
	notify(ctx, s.notifier, email.KindMaintenance, u.Email, map[string]any{
		"RecipientName": u.DisplayName,
		"Title":         r.Title,
		"Status":        strings.ReplaceAll(r.Status, "_", " "),
		"Description":   r.Description,
		"PropertyName":  propertyName,
		"Link":          link(s.baseURL, "/maintenance/"+r.ID),
	})
}

// CreateRequest files a maintenance request for a property the calling tenant rents.
func (s *MaintenanceService) CreateRequest(ctx context.Context, req *connect.Request[api.CreateMaintenanceRequest]) (*connect.Response[api.CreateMaintenanceResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("CreateMaintenanceRequest request received", "property_id", req.Msg.PropertyID, "user_id", scope.UserID)
	if err := scope.Require(models.RoleTenant); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	prop, err := s.store.GetProperty(ctx, scope, req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}

	now := time.Now().UnixMilli()
	r := &models.MaintenanceRequest{
		ID:          uuid.NewString(),
		PropertyID:  prop.ID,
		TenantID:    scope.UserID,
		Title:       strings.TrimSpace(req.Msg.Title),
		Description: req.Msg.Description,
		Priority:    req.Msg.Priority,
		Status:      models.MaintenancePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateMaintenanceRequest(ctx, r); err != nil {
		slog.Error("CreateMaintenanceRequest failed", "error", err)
		return nil, toConnectError(err)
	}

	s.notifyStatus(ctx, r, prop.LandlordID, prop.Name)
	slog.Info("Maintenance request created", "request_id", r.ID)
	return connect.NewResponse(&api.CreateMaintenanceResponse{Request: s.toAPI(ctx, r)}), nil
}

// GetRequest returns a request visible to the caller with signed photo links.
func (s *MaintenanceService) GetRequest(ctx context.Context, req *connect.Request[api.GetMaintenanceRequest]) (*connect.Response[api.GetMaintenanceResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	r, err := s.store.GetMaintenanceRequest(ctx, middleware.Scope(ctx), req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetMaintenanceResponse{Request: s.toAPI(ctx, r)}), nil
}

// ListRequests lists requests visible to the caller, optionally by status.
func (s *MaintenanceService) ListRequests(ctx context.Context, req *connect.Request[api.ListMaintenanceRequest]) (*connect.Response[api.ListMaintenanceResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	reqs, err := s.store.ListMaintenanceRequests(ctx, middleware.Scope(ctx), req.Msg.Status)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Maintenance, len(reqs))
	for i, r := range reqs {
		out[i] = toAPIMaintenance(r, nil)
	}
	return connect.NewResponse(&api.ListMaintenanceResponse{Requests: out}), nil
}

// UpdateRequest edits a request. Landlords may change everything, the
// assigned service provider only the status, and the tenant the description
// fields or cancel the request.
func (s *MaintenanceService) UpdateRequest(ctx context.Context, req *connect.Request[api.UpdateMaintenanceRequest]) (*connect.Response[api.UpdateMaintenanceResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("UpdateMaintenanceRequest request received", "request_id", req.Msg.ID, "user_id", scope.UserID)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	r, err := s.store.GetMaintenanceRequest(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	prevStatus := r.Status
	in := req.Msg

	switch scope.Role {
	case models.RoleLandlord:
		if in.AssignedTo != "" && in.AssignedTo != r.AssignedTo {
			assignee, err := s.store.GetUserByID(ctx, in.AssignedTo)
			if err != nil {
				return nil, toConnectError(err)
			}
			if assignee.Role != models.RoleServiceProvider {
				return nil, connect.NewError(connect.CodeInvalidArgument, errNotServiceProvider)
			}
			r.AssignedTo = assignee.ID
		}
	case models.RoleServiceProvider:
		if in.Title != "" || in.Description != "" || in.Priority != "" || in.AssignedTo != "" {
			return nil, toConnectError(policy.ErrForbidden)
		}
	case models.RoleTenant:
		if in.AssignedTo != "" || (in.Status != "" && in.Status != models.MaintenanceCancelled) {
			return nil, toConnectError(policy.ErrForbidden)
		}
	}

	if in.Title != "" {
		r.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		r.Description = in.Description
	}
	if in.Priority != "" {
		r.Priority = in.Priority
	}
	if in.Status != "" {
		r.Status = in.Status
	}
	r.UpdatedAt = time.Now().UnixMilli()

	if err := s.store.UpdateMaintenanceRequest(ctx, r); err != nil {
		slog.Error("UpdateMaintenanceRequest failed", "request_id", r.ID, "error", err)
		return nil, toConnectError(err)
	}

	if r.Status != prevStatus && r.TenantID != scope.UserID {
		propertyName := ""
		if p, err := s.store.GetProperty(ctx, scope, r.PropertyID); err == nil {
			propertyName = p.Name
		}
		s.notifyStatus(ctx, r, r.TenantID, propertyName)
	}
	return connect.NewResponse(&api.UpdateMaintenanceResponse{Request: s.toAPI(ctx, r)}), nil
}

// DeleteRequest removes a request and its photos. Only the tenant who filed
// it or the landlord may delete it.
func (s *MaintenanceService) DeleteRequest(ctx context.Context, req *connect.Request[api.DeleteMaintenanceRequest]) (*connect.Response[api.DeleteMaintenanceResponse], error) {
	scope := middleware.Scope(ctx)
	if err := scope.Require(models.RoleLandlord, models.RoleTenant); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	r, err := s.store.GetMaintenanceRequest(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteMaintenanceRequest(ctx, r.ID); err != nil {
		slog.Error("DeleteMaintenanceRequest failed", "request_id", r.ID, "error", err)
		return nil, toConnectError(err)
	}
	removeObjects(ctx, s.files, r.ImageKeys...)

	slog.Info("Maintenance request deleted", "request_id", r.ID)
	return connect.NewResponse(&api.DeleteMaintenanceResponse{}), nil
}

// UploadImage attaches a photo to a request. The object is removed again if
// the request cannot be updated.
func (s *MaintenanceService) UploadImage(ctx context.Context, req *connect.Request[api.UploadMaintenanceImageRequest]) (*connect.Response[api.UploadMaintenanceImageResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("UploadImage request received", "request_id", req.Msg.ID, "size", len(req.Msg.Data))
	if err := scope.Require(models.RoleLandlord, models.RoleTenant); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	r, err := s.store.GetMaintenanceRequest(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	_, err = s.files.UploadAndRecord(ctx, scope.UserID, req.Msg.FileName, req.Msg.ContentType, req.Msg.Data, func(key string) error {
		return s.store.AddMaintenanceImage(ctx, r.ID, key, time.Now().UnixMilli())
	})
	if err != nil {
		slog.Error("UploadImage failed", "request_id", r.ID, "error", err)
		return nil, toConnectError(err)
	}
	if r, err = s.store.GetMaintenanceRequest(ctx, scope, r.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UploadMaintenanceImageResponse{Request: s.toAPI(ctx, r)}), nil
}
