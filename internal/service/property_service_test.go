package service

import (
	"context"
	"net/url"
	"testing"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func invitationToken(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("invalid invitation url %q: %v", link, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("invitation url %q has no token", link)
	}
	return token
}

func TestPropertyCRUD(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	other := env.register(t, "other@example.com", "Other", "landlord")

	prop := env.createProperty(t, landlord, "Tampa View")
	if prop.ID == "" || prop.LandlordID != landlord.ID {
		t.Fatalf("unexpected property: %+v", prop)
	}
	if prop.Currency != "RON" {
		t.Errorf("currency: expected RON, got %q", prop.Currency)
	}

	updated, err := env.property.UpdateProperty(ctx, as(landlord, &api.UpdatePropertyRequest{
		ID: prop.ID,
		Property: api.PropertyInput{
			Name:        "Tampa View 2",
			Address:     prop.Address,
			Type:        "condo",
			MonthlyRent: 2700,
			Currency:    "RON",
		},
	}))
	if err != nil {
		t.Fatalf("UpdateProperty failed: %v", err)
	}
	if updated.Msg.Property.Name != "Tampa View 2" || updated.Msg.Property.MonthlyRent != 2700 {
		t.Errorf("unexpected update result: %+v", updated.Msg.Property)
	}

	// Another landlord cannot see it.
	_, err = env.property.GetProperty(ctx, as(other, &api.GetPropertyRequest{ID: prop.ID}))
	assertCode(t, err, connect.CodeNotFound)

	list, err := env.property.ListProperties(ctx, as(other, &api.ListPropertiesRequest{}))
	if err != nil {
		t.Fatalf("ListProperties failed: %v", err)
	}
	if len(list.Msg.Properties) != 0 {
		t.Errorf("expected other landlord to see no properties, got %d", len(list.Msg.Properties))
	}

	_, err = env.property.CreateProperty(ctx, as(landlord, &api.CreatePropertyRequest{
		Property: api.PropertyInput{Name: "Bad", Address: "x", Type: "castle"},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	if _, err := env.property.DeleteProperty(ctx, as(landlord, &api.DeletePropertyRequest{ID: prop.ID})); err != nil {
		t.Fatalf("DeleteProperty failed: %v", err)
	}
	_, err = env.property.GetProperty(ctx, as(landlord, &api.GetPropertyRequest{ID: prop.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestTenantCannotManageProperties(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")

	_, err := env.property.CreateProperty(ctx, as(tenant, &api.CreatePropertyRequest{
		Property: api.PropertyInput{Name: "Mine", Address: "Somewhere", Type: "house"},
	}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestInvitationFlow(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")
	stranger := env.register(t, "stranger@example.com", "Stranger", "tenant")
	prop := env.createProperty(t, landlord, "Old Town Loft")

	// Before moving in the tenant sees nothing.
	_, err := env.property.GetProperty(ctx, as(tenant, &api.GetPropertyRequest{ID: prop.ID}))
	assertCode(t, err, connect.CodeNotFound)

	inv, err := env.property.InviteTenant(ctx, as(landlord, &api.InviteTenantRequest{
		PropertyID: prop.ID,
		Email:      "Tenant@Example.com",
		StartDate:  "2026-02-01",
	}))
	if err != nil {
		t.Fatalf("InviteTenant failed: %v", err)
	}
	if inv.Msg.Tenancy.Status != "pending" {
		t.Errorf("status: expected pending, got %q", inv.Msg.Tenancy.Status)
	}
	if len(env.mailer.to("tenant@example.com")) != 1 {
		t.Errorf("expected one invitation email, got %d", len(env.mailer.to("tenant@example.com")))
	}
	token := invitationToken(t, inv.Msg.InvitationURL)

	_, err = env.property.AcceptInvitation(ctx, as(stranger, &api.AcceptInvitationRequest{Token: token}))
	assertCode(t, err, connect.CodePermissionDenied)

	accepted, err := env.property.AcceptInvitation(ctx, as(tenant, &api.AcceptInvitationRequest{Token: token}))
	if err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	if accepted.Msg.Tenancy.Status != "active" || accepted.Msg.Tenancy.TenantID != tenant.ID {
		t.Errorf("unexpected tenancy: %+v", accepted.Msg.Tenancy)
	}

	// The token is single use.
	_, err = env.property.AcceptInvitation(ctx, as(tenant, &api.AcceptInvitationRequest{Token: token}))
	assertCode(t, err, connect.CodeNotFound)

	got, err := env.property.GetProperty(ctx, as(tenant, &api.GetPropertyRequest{ID: prop.ID}))
	if err != nil {
		t.Fatalf("tenant GetProperty failed: %v", err)
	}
	if got.Msg.Property.Name != "Old Town Loft" {
		t.Errorf("name: expected Old Town Loft, got %q", got.Msg.Property.Name)
	}

	tenancies, err := env.property.ListTenancies(ctx, as(landlord, &api.ListTenanciesRequest{PropertyID: prop.ID}))
	if err != nil {
		t.Fatalf("ListTenancies failed: %v", err)
	}
	if len(tenancies.Msg.Tenancies) != 1 {
		t.Fatalf("expected 1 tenancy, got %d", len(tenancies.Msg.Tenancies))
	}

	ended, err := env.property.EndTenancy(ctx, as(landlord, &api.EndTenancyRequest{ID: accepted.Msg.Tenancy.ID}))
	if err != nil {
		t.Fatalf("EndTenancy failed: %v", err)
	}
	if ended.Msg.Tenancy.Status != "ended" {
		t.Errorf("status: expected ended, got %q", ended.Msg.Tenancy.Status)
	}

	_, err = env.property.GetProperty(ctx, as(tenant, &api.GetPropertyRequest{ID: prop.ID}))
	assertCode(t, err, connect.CodeNotFound)
}
