package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/email"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.PropertyServiceHandler = (*PropertyService)(nil)

var (
	errInvitationExpired  = errors.New("invitation has expired")
	errInvitationMismatch = errors.New("invitation was sent to a different email address")
)

// PropertyStore is the part of the store PropertyService needs.
type PropertyStore interface {
	storage.PropertyStore
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// PropertyService manages properties, tenancies and tenant invitations.
type PropertyService struct {
	store         PropertyStore
	notifier      Notifier
	baseURL       string
	invitationTTL time.Duration
	now           func() time.Time
}

// NewPropertyService creates a new PropertyService. Invitation links point at
// baseURL and stay valid for invitationTTL (zero means forever).
func NewPropertyService(store PropertyStore, notifier Notifier, baseURL string, invitationTTL time.Duration) *PropertyService {
	return &PropertyService{
		store:         store,
		notifier:      notifier,
		baseURL:       baseURL,
		invitationTTL: invitationTTL,
		now:           time.Now,
	}
}

func applyPropertyInput(p *models.Property, in api.PropertyInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Address = strings.TrimSpace(in.Address)
	p.Type = in.Type
	p.MonthlyRent = in.MonthlyRent
	p.Description = in.Description
	p.AvailableFrom = in.AvailableFrom
	if in.Currency != "" {
		p.Currency = strings.ToUpper(in.Currency)
	}
}

// CreateProperty adds a property owned by the calling landlord.
func (s *PropertyService) CreateProperty(ctx context.Context, req *connect.Request[api.CreatePropertyRequest]) (*connect.Response[api.CreatePropertyResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("CreateProperty request received", "user_id", scope.UserID, "name", req.Msg.Property.Name)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	p := &models.Property{
		ID:         uuid.NewString(),
		LandlordID: scope.UserID,
		Currency:   models.DefaultCurrency,
		CreatedAt:  s.now().UnixMilli(),
	}
	if u, err := s.store.GetUserByID(ctx, scope.UserID); err == nil && u.Currency != "" {
		p.Currency = u.Currency
	}
	applyPropertyInput(p, req.Msg.Property)

	if err := s.store.CreateProperty(ctx, p); err != nil {
		slog.Error("CreateProperty failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Property created", "property_id", p.ID)
	return connect.NewResponse(&api.CreatePropertyResponse{Property: toAPIProperty(p)}), nil
}

// GetProperty returns a property visible to the caller.
func (s *PropertyService) GetProperty(ctx context.Context, req *connect.Request[api.GetPropertyRequest]) (*connect.Response[api.GetPropertyResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	p, err := s.store.GetProperty(ctx, middleware.Scope(ctx), req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetPropertyResponse{Property: toAPIProperty(p)}), nil
}

// ListProperties lists the properties visible to the caller.
func (s *PropertyService) ListProperties(ctx context.Context, req *connect.Request[api.ListPropertiesRequest]) (*connect.Response[api.ListPropertiesResponse], error) {
	scope := middleware.Scope(ctx)
	props, err := s.store.ListProperties(ctx, scope)
	if err != nil {
		slog.Error("ListProperties failed", "user_id", scope.UserID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Property, len(props))
	for i, p := range props {
		out[i] = toAPIProperty(p)
	}
	slog.Info("ListProperties successful", "user_id", scope.UserID, "count", len(out))
	return connect.NewResponse(&api.ListPropertiesResponse{Properties: out}), nil
}

// UpdateProperty replaces the editable fields of one of the caller's properties.
func (s *PropertyService) UpdateProperty(ctx context.Context, req *connect.Request[api.UpdatePropertyRequest]) (*connect.Response[api.UpdatePropertyResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("UpdateProperty request received", "property_id", req.Msg.ID)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	p, err := s.store.GetProperty(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	applyPropertyInput(p, req.Msg.Property)

	if err := s.store.UpdateProperty(ctx, p); err != nil {
		slog.Error("UpdateProperty failed", "property_id", p.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdatePropertyResponse{Property: toAPIProperty(p)}), nil
}

// DeleteProperty removes one of the caller's properties and everything attached to it.
func (s *PropertyService) DeleteProperty(ctx context.Context, req *connect.Request[api.DeletePropertyRequest]) (*connect.Response[api.DeletePropertyResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("DeleteProperty request received", "property_id", req.Msg.ID)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProperty(ctx, scope, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteProperty(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteProperty failed", "property_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeletePropertyResponse{}), nil
}

// ListTenancies lists tenancies visible to the caller, optionally for one property.
func (s *PropertyService) ListTenancies(ctx context.Context, req *connect.Request[api.ListTenanciesRequest]) (*connect.Response[api.ListTenanciesResponse], error) {
	tenancies, err := s.store.ListTenancies(ctx, middleware.Scope(ctx), req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Tenancy, len(tenancies))
	for i, t := range tenancies {
		out[i] = toAPITenancy(t)
	}
	return connect.NewResponse(&api.ListTenanciesResponse{Tenancies: out}), nil
}

// InviteTenant creates a pending tenancy and emails the invitation link.
func (s *PropertyService) InviteTenant(ctx context.Context, req *connect.Request[api.InviteTenantRequest]) (*connect.Response[api.InviteTenantResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("InviteTenant request received", "property_id", req.Msg.PropertyID, "email", req.Msg.Email)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	prop, err := s.store.GetProperty(ctx, scope, req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}

	t := &models.Tenancy{
		ID:              uuid.NewString(),
		PropertyID:      prop.ID,
		InvitationEmail: strings.ToLower(strings.TrimSpace(req.Msg.Email)),
		InvitationToken: uuid.NewString(),
		StartDate:       req.Msg.StartDate,
		EndDate:         req.Msg.EndDate,
		Status:          models.TenancyPending,
		CreatedAt:       s.now().UnixMilli(),
	}
	if err := s.store.CreateTenancy(ctx, t); err != nil {
		slog.Error("InviteTenant failed", "property_id", prop.ID, "error", err)
		return nil, toConnectError(err)
	}
	t.PropertyName = prop.Name

	invitationURL := link(s.baseURL, "/invitations/accept?token="+url.QueryEscape(t.InvitationToken))
	landlordName := ""
	if u, err := s.store.GetUserByID(ctx, scope.UserID); err == nil {
		landlordName = u.DisplayName
	}
	notify(ctx, s.notifier, email.KindInvitation, t.InvitationEmail, map[string]any{
		"PropertyName": prop.Name,
		"LandlordName": landlordName,
		"StartDate":    t.StartDate,
		"Link":         invitationURL,
	})

	slog.Info("Tenant invited", "tenancy_id", t.ID, "property_id", prop.ID)
	return connect.NewResponse(&api.InviteTenantResponse{
		Tenancy:       toAPITenancy(t),
		InvitationURL: invitationURL,
	}), nil
}

// AcceptInvitation binds a pending tenancy to the calling tenant. The caller's
// email must be the one the invitation was sent to.
func (s *PropertyService) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("AcceptInvitation request received", "user_id", scope.UserID)
	if err := scope.Require(models.RoleTenant); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	t, err := s.store.GetTenancyByToken(ctx, req.Msg.Token)
	if err != nil {
		slog.Warn("AcceptInvitation failed", "user_id", scope.UserID, "error", err)
		return nil, toConnectError(err)
	}
	if s.invitationTTL > 0 && s.now().Sub(time.UnixMilli(t.CreatedAt)) > s.invitationTTL {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errInvitationExpired)
	}
	if !strings.EqualFold(t.InvitationEmail, middleware.GetEmail(ctx)) {
		return nil, connect.NewError(connect.CodePermissionDenied, errInvitationMismatch)
	}

	if err := s.store.AcceptTenancy(ctx, t.ID, scope.UserID); err != nil {
		slog.Error("AcceptInvitation failed", "tenancy_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}

	accepted, err := s.store.GetTenancy(ctx, scope, t.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if u, err := s.store.GetUserByID(ctx, scope.UserID); err == nil {
		notify(ctx, s.notifier, email.KindWelcome, u.Email, map[string]any{
			"RecipientName": u.DisplayName,
			"PropertyName":  accepted.PropertyName,
			"Link":          link(s.baseURL, "/dashboard"),
		})
	}

	slog.Info("Invitation accepted", "tenancy_id", t.ID, "tenant_id", scope.UserID)
	return connect.NewResponse(&api.AcceptInvitationResponse{Tenancy: toAPITenancy(accepted)}), nil
}

// EndTenancy ends an active tenancy of one of the caller's properties.
func (s *PropertyService) EndTenancy(ctx context.Context, req *connect.Request[api.EndTenancyRequest]) (*connect.Response[api.EndTenancyResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("EndTenancy request received", "tenancy_id", req.Msg.ID)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	t, err := s.store.GetTenancy(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateTenancyStatus(ctx, t.ID, models.TenancyEnded); err != nil {
		slog.Error("EndTenancy failed", "tenancy_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}
	t.Status = models.TenancyEnded
	return connect.NewResponse(&api.EndTenancyResponse{Tenancy: toAPITenancy(t)}), nil
}
