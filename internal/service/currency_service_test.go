package service

import (
	"context"
	"math"
	"testing"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func TestCurrencyService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	rates, err := env.currency.GetRates(ctx, connect.NewRequest(&api.GetRatesRequest{}))
	if err != nil {
		t.Fatalf("GetRates failed: %v", err)
	}
	if rates.Msg.Rates.Base != "RON" || rates.Msg.Rates.Rates["EUR"] != 5 {
		t.Errorf("unexpected rates: %+v", rates.Msg.Rates)
	}
	if rates.Msg.Rates.Fallback {
		t.Error("expected fetched rates, got fallback")
	}

	converted, err := env.currency.Convert(ctx, connect.NewRequest(&api.ConvertRequest{
		Amount: 90, From: "usd", To: "EUR",
	}))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if math.Abs(converted.Msg.Amount-81) > 0.0001 {
		t.Errorf("amount: expected 81, got %f", converted.Msg.Amount)
	}
	if converted.Msg.Formatted != "81.00 EUR" {
		t.Errorf("formatted: expected %q, got %q", "81.00 EUR", converted.Msg.Formatted)
	}

	same, err := env.currency.Convert(ctx, connect.NewRequest(&api.ConvertRequest{Amount: 12.5, From: "RON", To: "RON"}))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if same.Msg.Amount != 12.5 {
		t.Errorf("identity conversion changed the amount: %f", same.Msg.Amount)
	}

	_, err = env.currency.Convert(ctx, connect.NewRequest(&api.ConvertRequest{Amount: 1, From: "RON", To: "JPY"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	formatted, err := env.currency.Format(ctx, connect.NewRequest(&api.FormatRequest{
		Amount: 1234.5, Currency: "RON", Language: "ro",
	}))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if formatted.Msg.Formatted != "1.234,50 RON" {
		t.Errorf("formatted: expected %q, got %q", "1.234,50 RON", formatted.Msg.Formatted)
	}
}

func TestFormatUsesProfileLanguage(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	user := env.register(t, "ro@example.com", "Radu", "tenant")
	if _, err := env.auth.UpdateProfile(ctx, as(user, &api.UpdateProfileRequest{Language: "ro"})); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	resp, err := env.currency.Format(ctx, as(user, &api.FormatRequest{Amount: 456, Currency: "RON"}))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if resp.Msg.Formatted != "456,00 RON" {
		t.Errorf("formatted: expected %q, got %q", "456,00 RON", resp.Msg.Formatted)
	}
}

func TestRefreshRatesRequiresLandlord(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")

	_, err := env.currency.RefreshRates(ctx, as(tenant, &api.RefreshRatesRequest{}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.currency.RefreshRates(ctx, connect.NewRequest(&api.RefreshRatesRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	if _, err := env.currency.RefreshRates(ctx, as(landlord, &api.RefreshRatesRequest{})); err != nil {
		t.Fatalf("RefreshRates failed: %v", err)
	}
}
