package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/calculator"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.UtilityServiceHandler = (*UtilityService)(nil)

var errNoActiveTenants = errors.New("property has no active tenants")

// UtilityStore is the part of the store UtilityService needs.
type UtilityStore interface {
	storage.UtilityStore
	GetProperty(ctx context.Context, scope policy.Scope, id string) (*models.Property, error)
	ActiveTenants(ctx context.Context, propertyID string) ([]string, error)
}

// Scheduler enqueues scraping jobs. It is implemented by *jobs.Runner.
type Scheduler interface {
	Schedule(ctx context.Context, providerID string) (*models.ScrapingJob, error)
}

// UtilityService manages utility bills, provider accounts and bill imports.
type UtilityService struct {
	store     UtilityStore
	scheduler Scheduler
}

// NewUtilityService creates a new UtilityService.
func NewUtilityService(store UtilityStore, scheduler Scheduler) *UtilityService {
	return &UtilityService{store: store, scheduler: scheduler}
}

// CreateBill records a utility bill for one of the caller's properties.
func (s *UtilityService) CreateBill(ctx context.Context, req *connect.Request[api.CreateUtilityBillRequest]) (*connect.Response[api.CreateUtilityBillResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("CreateBill request received",
		"property_id", req.Msg.PropertyID,
		"type", req.Msg.Type,
		"amount", req.Msg.Amount,
	)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	code, err := currency.Normalize(req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.store.GetProperty(ctx, scope, req.Msg.PropertyID); err != nil {
		return nil, toConnectError(err)
	}

	bill := &models.UtilityBill{
		ID:            uuid.NewString(),
		PropertyID:    req.Msg.PropertyID,
		Type:          req.Msg.Type,
		Amount:        req.Msg.Amount,
		Currency:      code,
		DueDate:       req.Msg.DueDate,
		Status:        "pending",
		InvoiceNumber: req.Msg.InvoiceNumber,
		IssuedDate:    req.Msg.IssuedDate,
		CreatedAt:     time.Now().UnixMilli(),
	}
	if err := s.store.CreateUtilityBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateUtilityBillResponse{Bill: toAPIUtilityBill(bill)}), nil
}

// ListBills lists the bills visible to the caller, optionally for one property.
func (s *UtilityService) ListBills(ctx context.Context, req *connect.Request[api.ListUtilityBillsRequest]) (*connect.Response[api.ListUtilityBillsResponse], error) {
	bills, err := s.store.ListUtilityBills(ctx, middleware.Scope(ctx), req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.UtilityBill, len(bills))
	for i, b := range bills {
		out[i] = toAPIUtilityBill(b)
	}
	return connect.NewResponse(&api.ListUtilityBillsResponse{Bills: out}), nil
}

func (s *UtilityService) UpdateBillStatus(ctx context.Context, req *connect.Request[api.UpdateUtilityBillStatusRequest]) (*connect.Response[api.UpdateUtilityBillStatusResponse], error) {
	scope := middleware.Scope(ctx)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUtilityBill(ctx, scope, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateUtilityBillStatus(ctx, req.Msg.ID, req.Msg.Status); err != nil {
		slog.Error("UpdateBillStatus failed", "bill_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	bill, err := s.store.GetUtilityBill(ctx, scope, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateUtilityBillStatusResponse{Bill: toAPIUtilityBill(bill)}), nil
}

func (s *UtilityService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteUtilityBillRequest]) (*connect.Response[api.DeleteUtilityBillResponse], error) {
	scope := middleware.Scope(ctx)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUtilityBill(ctx, scope, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteUtilityBill(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteUtilityBillResponse{}), nil
}

// Stats aggregates the bills of a property per utility type.
func (s *UtilityService) Stats(ctx context.Context, req *connect.Request[api.UtilityStatsRequest]) (*connect.Response[api.UtilityStatsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProperty(ctx, middleware.Scope(ctx), req.Msg.PropertyID); err != nil {
		return nil, toConnectError(err)
	}
	stats, err := s.store.UtilityStats(ctx, req.Msg.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.UtilityStat, len(stats))
	for i, st := range stats {
		out[i] = &api.UtilityStat{
			Type:          st.Type,
			Count:         st.Count,
			Total:         st.Total,
			Average:       st.Average,
			LatestDueDate: st.LatestDueAt,
		}
	}
	return connect.NewResponse(&api.UtilityStatsResponse{Stats: out}), nil
}

// SplitBill divides a bill evenly between the active tenants of its property.
func (s *UtilityService) SplitBill(ctx context.Context, req *connect.Request[api.SplitUtilityBillRequest]) (*connect.Response[api.SplitUtilityBillResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	bill, err := s.store.GetUtilityBill(ctx, middleware.Scope(ctx), req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	tenants, err := s.store.ActiveTenants(ctx, bill.PropertyID)
	if err != nil {
		return nil, toConnectError(err)
	}
	shares, err := calculator.SplitEvenly(bill.Amount, tenants)
	if err != nil {
		if errors.Is(err, calculator.ErrNoParticipants) {
			return nil, connect.NewError(connect.CodeFailedPrecondition, errNoActiveTenants)
		}
		return nil, toConnectError(err)
	}

	out := make([]*api.Share, len(shares))
	for i, sh := range shares {
		out[i] = &api.Share{TenantID: sh.ParticipantID, Amount: sh.Amount}
	}
	return connect.NewResponse(&api.SplitUtilityBillResponse{Currency: bill.Currency, Shares: out}), nil
}

// CreateProvider registers a utility account for one of the caller's properties.
func (s *UtilityService) CreateProvider(ctx context.Context, req *connect.Request[api.CreateUtilityProviderRequest]) (*connect.Response[api.CreateUtilityProviderResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("CreateProvider request received", "property_id", req.Msg.PropertyID, "provider", req.Msg.ProviderName)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProperty(ctx, scope, req.Msg.PropertyID); err != nil {
		return nil, toConnectError(err)
	}

	p := &models.UtilityProvider{
		ID:           uuid.NewString(),
		PropertyID:   req.Msg.PropertyID,
		LandlordID:   scope.UserID,
		ProviderName: req.Msg.ProviderName,
		UtilityType:  req.Msg.UtilityType,
		Username:     req.Msg.Username,
		LocationName: req.Msg.LocationName,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := s.store.CreateUtilityProvider(ctx, p); err != nil {
		slog.Error("CreateProvider failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateUtilityProviderResponse{Provider: toAPIProvider(p)}), nil
}

func (s *UtilityService) ListProviders(ctx context.Context, req *connect.Request[api.ListUtilityProvidersRequest]) (*connect.Response[api.ListUtilityProvidersResponse], error) {
	providers, err := s.store.ListUtilityProviders(ctx, middleware.Scope(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.UtilityProvider, len(providers))
	for i, p := range providers {
		out[i] = toAPIProvider(p)
	}
	return connect.NewResponse(&api.ListUtilityProvidersResponse{Providers: out}), nil
}

// StartScraping queues a bill import for one of the caller's providers.
func (s *UtilityService) StartScraping(ctx context.Context, req *connect.Request[api.StartScrapingRequest]) (*connect.Response[api.StartScrapingResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("StartScraping request received", "provider_id", req.Msg.ProviderID, "user_id", scope.UserID)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	provider, err := s.store.GetUtilityProvider(ctx, req.Msg.ProviderID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if provider.LandlordID != scope.UserID {
		return nil, toConnectError(storage.ErrNotFound)
	}

	job, err := s.scheduler.Schedule(ctx, provider.ID)
	if err != nil {
		slog.Error("StartScraping failed", "provider_id", provider.ID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Scraping job scheduled", "job_id", job.ID, "status", job.Status)
	return connect.NewResponse(&api.StartScrapingResponse{Job: toAPIJob(job)}), nil
}

func (s *UtilityService) ListScrapingJobs(ctx context.Context, req *connect.Request[api.ListScrapingJobsRequest]) (*connect.Response[api.ListScrapingJobsResponse], error) {
	jobs, err := s.store.ListScrapingJobs(ctx, middleware.Scope(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.ScrapingJob, len(jobs))
	for i, j := range jobs {
		out[i] = toAPIJob(j)
	}
	return connect.NewResponse(&api.ListScrapingJobsResponse{Jobs: out}), nil
}
