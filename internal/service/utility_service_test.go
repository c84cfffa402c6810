package service

import (
	"context"
	"math"
	"testing"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func TestUtilityBills(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	first := env.register(t, "first@example.com", "First", "tenant")
	second := env.register(t, "second@example.com", "Second", "tenant")
	prop := env.createProperty(t, landlord, "Shared Flat")

	created, err := env.utility.CreateBill(ctx, as(landlord, &api.CreateUtilityBillRequest{
		PropertyID:    prop.ID,
		Type:          "electricity",
		Amount:        100,
		Currency:      "RON",
		DueDate:       "2026-05-15",
		InvoiceNumber: "ENEL-1",
	}))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	billID := created.Msg.Bill.ID

	_, err = env.utility.SplitBill(ctx, as(landlord, &api.SplitUtilityBillRequest{ID: billID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	env.moveIn(t, landlord, first, prop)
	env.moveIn(t, landlord, second, prop)

	split, err := env.utility.SplitBill(ctx, as(first, &api.SplitUtilityBillRequest{ID: billID}))
	if err != nil {
		t.Fatalf("SplitBill failed: %v", err)
	}
	if split.Msg.Currency != "RON" || len(split.Msg.Shares) != 2 {
		t.Fatalf("unexpected split: %+v", split.Msg)
	}
	var total float64
	for _, s := range split.Msg.Shares {
		total += s.Amount
	}
	if math.Abs(total-100) > 0.001 {
		t.Errorf("shares should add up to 100, got %.2f", total)
	}

	if _, err := env.utility.CreateBill(ctx, as(landlord, &api.CreateUtilityBillRequest{
		PropertyID: prop.ID, Type: "electricity", Amount: 50, Currency: "RON", DueDate: "2026-06-15",
	})); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	stats, err := env.utility.Stats(ctx, as(first, &api.UtilityStatsRequest{PropertyID: prop.ID}))
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(stats.Msg.Stats) != 1 {
		t.Fatalf("expected stats for one utility type, got %d", len(stats.Msg.Stats))
	}
	if s := stats.Msg.Stats[0]; s.Count != 2 || s.Total != 150 || s.Average != 75 {
		t.Errorf("unexpected stats: %+v", s)
	}

	_, err = env.utility.UpdateBillStatus(ctx, as(first, &api.UpdateUtilityBillStatusRequest{ID: billID, Status: "paid"}))
	assertCode(t, err, connect.CodePermissionDenied)

	paid, err := env.utility.UpdateBillStatus(ctx, as(landlord, &api.UpdateUtilityBillStatusRequest{ID: billID, Status: "paid"}))
	if err != nil {
		t.Fatalf("UpdateBillStatus failed: %v", err)
	}
	if paid.Msg.Bill.Status != "paid" {
		t.Errorf("status: expected paid, got %q", paid.Msg.Bill.Status)
	}

	if _, err := env.utility.DeleteBill(ctx, as(landlord, &api.DeleteUtilityBillRequest{ID: billID})); err != nil {
		t.Fatalf("DeleteBill failed: %v", err)
	}
	list, err := env.utility.ListBills(ctx, as(second, &api.ListUtilityBillsRequest{PropertyID: prop.ID}))
	if err != nil {
		t.Fatalf("ListBills failed: %v", err)
	}
	if len(list.Msg.Bills) != 1 {
		t.Errorf("expected 1 remaining bill, got %d", len(list.Msg.Bills))
	}
}

func TestProvidersAndScraping(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	other := env.register(t, "other@example.com", "Other", "landlord")
	prop := env.createProperty(t, landlord, "Riverside")

	_, err := env.utility.CreateProvider(ctx, as(other, &api.CreateUtilityProviderRequest{
		PropertyID: prop.ID, ProviderName: "Enel", UtilityType: "electricity",
	}))
	assertCode(t, err, connect.CodeNotFound)

	created, err := env.utility.CreateProvider(ctx, as(landlord, &api.CreateUtilityProviderRequest{
		PropertyID:   prop.ID,
		ProviderName: "Enel",
		UtilityType:  "electricity",
		Username:     "riverside",
	}))
	if err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}
	providerID := created.Msg.Provider.ID

	_, err = env.utility.StartScraping(ctx, as(other, &api.StartScrapingRequest{ProviderID: providerID}))
	assertCode(t, err, connect.CodeNotFound)

	started, err := env.utility.StartScraping(ctx, as(landlord, &api.StartScrapingRequest{ProviderID: providerID}))
	if err != nil {
		t.Fatalf("StartScraping failed: %v", err)
	}
	// The inline queue runs the import before returning.
	if started.Msg.Job.Status != "completed" {
		t.Errorf("job status: expected completed, got %q (%s)", started.Msg.Job.Status, started.Msg.Job.ErrorMessage)
	}

	jobs, err := env.utility.ListScrapingJobs(ctx, as(landlord, &api.ListScrapingJobsRequest{}))
	if err != nil {
		t.Fatalf("ListScrapingJobs failed: %v", err)
	}
	if len(jobs.Msg.Jobs) != 1 {
		t.Errorf("expected 1 job, got %d", len(jobs.Msg.Jobs))
	}

	bills, err := env.utility.ListBills(ctx, as(landlord, &api.ListUtilityBillsRequest{PropertyID: prop.ID}))
	if err != nil {
		t.Fatalf("ListBills failed: %v", err)
	}
	if len(bills.Msg.Bills) != 1 || bills.Msg.Bills[0].Type != "electricity" {
		t.Errorf("expected one imported electricity bill, got %+v", bills.Msg.Bills)
	}

	providers, err := env.utility.ListProviders(ctx, as(other, &api.ListUtilityProvidersRequest{}))
	if err != nil {
		t.Fatalf("ListProviders failed: %v", err)
	}
	if len(providers.Msg.Providers) != 0 {
		t.Errorf("expected other landlord to see no providers, got %d", len(providers.Msg.Providers))
	}
}
