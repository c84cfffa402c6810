package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func TestMaintenanceWorkflow(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")
	plumber := env.register(t, "plumber@example.com", "Plumber", "service_provider")
	prop := env.createProperty(t, landlord, "Riverside")
	env.moveIn(t, landlord, tenant, prop)

	_, err := env.maintenance.CreateRequest(ctx, as(landlord, &api.CreateMaintenanceRequest{
		PropertyID: prop.ID, Title: "Leak", Priority: "high",
	}))
	assertCode(t, err, connect.CodePermissionDenied)

	created, err := env.maintenance.CreateRequest(ctx, as(tenant, &api.CreateMaintenanceRequest{
		PropertyID:  prop.ID,
		Title:       "Kitchen tap leaking",
		Description: "Drips all night",
		Priority:    "high",
	}))
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	id := created.Msg.Request.ID
	if created.Msg.Request.Status != "pending" || created.Msg.Request.TenantID != tenant.ID {
		t.Errorf("unexpected request: %+v", created.Msg.Request)
	}
	if len(env.mailer.to("landlord@example.com")) != 1 {
		t.Errorf("expected the landlord to be notified once, got %d", len(env.mailer.to("landlord@example.com")))
	}

	withImage, err := env.maintenance.UploadImage(ctx, as(tenant, &api.UploadMaintenanceImageRequest{
		ID:          id,
		FileName:    "tap.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff},
	}))
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if len(withImage.Msg.Request.Images) != 1 || withImage.Msg.Request.Images[0].URL == "" {
		t.Fatalf("expected one signed image, got %+v", withImage.Msg.Request.Images)
	}

	// The plumber sees nothing until assigned.
	_, err = env.maintenance.GetRequest(ctx, as(plumber, &api.GetMaintenanceRequest{ID: id}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.maintenance.UpdateRequest(ctx, as(landlord, &api.UpdateMaintenanceRequest{ID: id, AssignedTo: tenant.ID}))
	assertCode(t, err, connect.CodeInvalidArgument)

	assigned, err := env.maintenance.UpdateRequest(ctx, as(landlord, &api.UpdateMaintenanceRequest{
		ID:         id,
		AssignedTo: plumber.ID,
		Status:     "in_progress",
	}))
	if err != nil {
		t.Fatalf("UpdateRequest by landlord failed: %v", err)
	}
	if assigned.Msg.Request.AssignedTo != plumber.ID || assigned.Msg.Request.Status != "in_progress" {
		t.Errorf("unexpected request after assignment: %+v", assigned.Msg.Request)
	}
	// Invitation, welcome and the status change.
	if n := len(env.mailer.to("tenant@example.com")); n != 3 {
		t.Errorf("expected 3 emails to the tenant, got %d", n)
	}

	_, err = env.maintenance.UpdateRequest(ctx, as(plumber, &api.UpdateMaintenanceRequest{ID: id, Priority: "low"}))
	assertCode(t, err, connect.CodePermissionDenied)

	done, err := env.maintenance.UpdateRequest(ctx, as(plumber, &api.UpdateMaintenanceRequest{ID: id, Status: "completed"}))
	if err != nil {
		t.Fatalf("UpdateRequest by service provider failed: %v", err)
	}
	if done.Msg.Request.Status != "completed" {
		t.Errorf("status: expected completed, got %q", done.Msg.Request.Status)
	}

	_, err = env.maintenance.UpdateRequest(ctx, as(tenant, &api.UpdateMaintenanceRequest{ID: id, Status: "in_progress"}))
	assertCode(t, err, connect.CodePermissionDenied)

	list, err := env.maintenance.ListRequests(ctx, as(plumber, &api.ListMaintenanceRequest{Status: "completed"}))
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(list.Msg.Requests) != 1 {
		t.Errorf("expected 1 completed request for the plumber, got %d", len(list.Msg.Requests))
	}

	if _, err := env.maintenance.DeleteRequest(ctx, as(landlord, &api.DeleteMaintenanceRequest{ID: id})); err != nil {
		t.Fatalf("DeleteRequest failed: %v", err)
	}
	_, err = env.maintenance.GetRequest(ctx, as(tenant, &api.GetMaintenanceRequest{ID: id}))
	assertCode(t, err, connect.CodeNotFound)
}
