package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/auth"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/billing"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/blob"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/bus"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/cache"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/chat"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/email"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/jobs"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/queue"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage/sqlite"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

const testPassword = "correct-horse-battery"

// testEnv is a full server backed by a temporary database.
type testEnv struct {
	store   *sqlite.SQLiteStore
	mailer  *recordingMailer
	gateway *fakeGateway

	auth        *apiconnect.AuthServiceClient
	chat        *apiconnect.ChatServiceClient
	currency    *apiconnect.CurrencyServiceClient
	property    *apiconnect.PropertyServiceClient
	maintenance *apiconnect.MaintenanceServiceClient
	document    *apiconnect.DocumentServiceClient
	billing     *apiconnect.BillingServiceClient
	utility     *apiconnect.UtilityServiceClient
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []*email.Message
}

func (m *recordingMailer) Send(_ context.Context, msg *email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) to(addr string) []*email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*email.Message
	for _, msg := range m.sent {
		if msg.To == addr {
			out = append(out, msg)
		}
	}
	return out
}

type fakeGateway struct {
	mu       sync.Mutex
	payments []billing.PaymentCheckout
	accounts int
}

func (g *fakeGateway) CheckoutPayment(_ context.Context, in billing.PaymentCheckout) (*billing.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payments = append(g.payments, in)
	return &billing.Session{ID: "cs_test_" + in.InvoiceID, URL: "https://pay.test/" + in.InvoiceID}, nil
}

func (g *fakeGateway) CheckoutSubscription(_ context.Context, in billing.SubscriptionCheckout) (*billing.Session, error) {
	return &billing.Session{ID: "cs_sub_" + in.UserID, URL: "https://pay.test/sub/" + in.Plan}, nil
}

func (g *fakeGateway) CreateAccount(context.Context, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accounts++
	return "acct_test", nil
}

func (g *fakeGateway) OnboardingLink(_ context.Context, accountID string) (string, error) {
	return "https://connect.test/" + accountID, nil
}

type staticFetcher map[string]float64

func (f staticFetcher) Fetch(context.Context) (map[string]float64, error) {
	return f, nil
}

// setupTestServer creates a test server with every service behind the
// production interceptor chain.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	files, err := blob.OpenDir(filepath.Join(dir, "files"), "http://files.test/files/", "test-secret")
	if err != nil {
		t.Fatalf("failed to open bucket: %v", err)
	}
	t.Cleanup(func() { files.Close() })

	c := cache.NewMemory()
	mailer := &recordingMailer{}
	gateway := &fakeGateway{}
	runner := jobs.NewRunner(store, queue.NewInline(), mailer, 1)
	rates := currency.NewService(staticFetcher{"RON": 1, "USD": 4.5, "EUR": 5}, c, time.Hour)

	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	revoker := auth.NewRevoker(c, time.Hour)
	limiter := middleware.NewLimiterStore(1, 3, 0)
	t.Cleanup(limiter.Stop)

	interceptors := connect.WithInterceptors(
		middleware.NewLoggingInterceptor(),
		middleware.NewAuthInterceptor(jwtManager, revoker,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
			apiconnect.AuthServiceRefreshProcedure,
			apiconnect.CurrencyServiceGetRatesProcedure,
			apiconnect.CurrencyServiceConvertProcedure,
			apiconnect.CurrencyServiceFormatProcedure,
		),
		middleware.RateLimitInterceptor(limiter, apiconnect.AuthServiceLoginProcedure),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, revoker, store), interceptors))
	mux.Handle(apiconnect.NewChatServiceHandler(
		NewChatService(chat.NewService(store, bus.New())), interceptors))
	mux.Handle(apiconnect.NewCurrencyServiceHandler(NewCurrencyService(rates, store), interceptors))
	mux.Handle(apiconnect.NewPropertyServiceHandler(
		NewPropertyService(store, runner, "https://app.test", 24*time.Hour), interceptors))
	mux.Handle(apiconnect.NewMaintenanceServiceHandler(
		NewMaintenanceService(store, files, runner, "https://app.test", time.Hour), interceptors))
	mux.Handle(apiconnect.NewDocumentServiceHandler(NewDocumentService(store, files, time.Hour), interceptors))
	mux.Handle(apiconnect.NewBillingServiceHandler(
		NewBillingService(store, gateway, runner, "https://app.test"), interceptors))
	mux.Handle(apiconnect.NewUtilityServiceHandler(NewUtilityService(store, runner), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:       store,
		mailer:      mailer,
		gateway:     gateway,
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		chat:        apiconnect.NewChatServiceClient(http.DefaultClient, server.URL),
		currency:    apiconnect.NewCurrencyServiceClient(http.DefaultClient, server.URL),
		property:    apiconnect.NewPropertyServiceClient(http.DefaultClient, server.URL),
		maintenance: apiconnect.NewMaintenanceServiceClient(http.DefaultClient, server.URL),
		document:    apiconnect.NewDocumentServiceClient(http.DefaultClient, server.URL),
		billing:     apiconnect.NewBillingServiceClient(http.DefaultClient, server.URL),
		utility:     apiconnect.NewUtilityServiceClient(http.DefaultClient, server.URL),
	}
}

// testUser is a registered account and its access token.
type testUser struct {
	ID    string
	Email string
	Token string
}

func (e *testEnv) register(t *testing.T, emailAddr, name, role string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       emailAddr,
		DisplayName: name,
		Password:    testPassword,
		Role:        role,
	}))
	if err != nil {
		t.Fatalf("Register %s failed: %v", emailAddr, err)
	}
	return testUser{ID: resp.Msg.User.ID, Email: resp.Msg.User.Email, Token: resp.Msg.Session.AccessToken}
}

// createProperty creates a property owned by landlord.
func (e *testEnv) createProperty(t *testing.T, landlord testUser, name string) *api.Property {
	t.Helper()
	resp, err := e.property.CreateProperty(context.Background(), as(landlord, &api.CreatePropertyRequest{
		Property: api.PropertyInput{
			Name:        name,
			Address:     "Str. Lunga 1, Brasov",
			Type:        "apartment",
			MonthlyRent: 2500,
			Currency:    "RON",
		},
	}))
	if err != nil {
		t.Fatalf("CreateProperty failed: %v", err)
	}
	return resp.Msg.Property
}

// moveIn invites tenant to prop and accepts the invitation.
func (e *testEnv) moveIn(t *testing.T, landlord, tenant testUser, prop *api.Property) *api.Tenancy {
	t.Helper()
	inv, err := e.property.InviteTenant(context.Background(), as(landlord, &api.InviteTenantRequest{
		PropertyID: prop.ID,
		Email:      tenant.Email,
		StartDate:  "2026-01-01",
	}))
	if err != nil {
		t.Fatalf("InviteTenant failed: %v", err)
	}
	resp, err := e.property.AcceptInvitation(context.Background(), as(tenant, &api.AcceptInvitationRequest{
		Token: invitationToken(t, inv.Msg.InvitationURL),
	}))
	if err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	return resp.Msg.Tenancy
}

// as builds a request authenticated as u.
func as[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
