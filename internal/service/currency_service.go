package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.CurrencyServiceHandler = (*CurrencyService)(nil)

// CurrencyService serves exchange rates, conversion and formatting.
type CurrencyService struct {
	rates *currency.Service
	users storage.UserStore
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(rates *currency.Service, users storage.UserStore) *CurrencyService {
	return &CurrencyService{rates: rates, users: users}
}

// GetRates returns the current rate table. It never fails: when the rate
// API is unreachable the built-in fallback table is returned.
func (s *CurrencyService) GetRates(ctx context.Context, req *connect.Request[api.GetRatesRequest]) (*connect.Response[api.GetRatesResponse], error) {
	r := s.rates.Rates(ctx)
	return connect.NewResponse(&api.GetRatesResponse{Rates: toAPIRates(r)}), nil
}

// RefreshRates drops the cached table and fetches a new one. Landlords only.
func (s *CurrencyService) RefreshRates(ctx context.Context, req *connect.Request[api.RefreshRatesRequest]) (*connect.Response[api.RefreshRatesResponse], error) {
	scope := middleware.Scope(ctx)
	if err := scope.Require(models.RoleLandlord); err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("RefreshRates request received", "user_id", scope.UserID)

	r := s.rates.Refresh(ctx)
	if r.Fallback {
		slog.Warn("RefreshRates fell back to built-in rates")
	}
	return connect.NewResponse(&api.RefreshRatesResponse{Rates: toAPIRates(r)}), nil
}

// Convert converts an amount between currencies and formats the result.
func (s *CurrencyService) Convert(ctx context.Context, req *connect.Request[api.ConvertRequest]) (*connect.Response[api.ConvertResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	from, err := currency.Normalize(req.Msg.From)
	if err != nil {
		return nil, toConnectError(err)
	}
	to, err := currency.Normalize(req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}

	amount, err := s.rates.Rates(ctx).Convert(req.Msg.Amount, from, to)
	if err != nil {
		slog.Warn("Convert failed", "from", from, "to", to, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ConvertResponse{
		Amount:    amount,
		Formatted: currency.Format(amount, to, s.language(ctx, req.Msg.Language)),
	}), nil
}

// Format renders an amount in a currency without converting it.
func (s *CurrencyService) Format(ctx context.Context, req *connect.Request[api.FormatRequest]) (*connect.Response[api.FormatResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	code, err := currency.Normalize(req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.FormatResponse{
		Formatted: currency.Format(req.Msg.Amount, code, s.language(ctx, req.Msg.Language)),
	}), nil
}

// language picks the requested language, then the caller's profile
// language, then English.
func (s *CurrencyService) language(ctx context.Context, requested string) string {
	if requested != "" {
		return requested
	}
	if userID := middleware.GetUserID(ctx); userID != "" && s.users != nil {
		if u, err := s.users.GetUserByID(ctx, userID); err == nil && u.Language != "" {
			return u.Language
		}
	}
	return "en"
}
