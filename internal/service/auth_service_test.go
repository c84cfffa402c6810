package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func TestAuthSessionLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	user := env.register(t, "Ana@Example.com", "Ana", "landlord")
	if user.Email != "ana@example.com" {
		t.Errorf("email: expected normalized address, got %q", user.Email)
	}

	login, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "ana@example.com",
		Password: testPassword,
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	session := login.Msg.Session
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected both tokens in session")
	}
	user.Token = session.AccessToken

	me, err := env.auth.GetCurrentUser(ctx, as(user, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.Role != "landlord" {
		t.Errorf("role: expected landlord, got %q", me.Msg.User.Role)
	}
	if me.Msg.User.Currency != "USD" {
		t.Errorf("currency: expected default USD, got %q", me.Msg.User.Currency)
	}

	refreshed, err := env.auth.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{
		RefreshToken: session.RefreshToken,
	}))
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.Msg.Session.AccessToken == "" {
		t.Fatal("expected a new access token")
	}

	if _, err := env.auth.Logout(ctx, as(user, &api.LogoutRequest{})); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err = env.auth.GetCurrentUser(ctx, as(user, &api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	// The renewed pair belongs to the same session.
	_, err = env.auth.GetCurrentUser(ctx, as(testUser{Token: refreshed.Msg.Session.AccessToken}, &api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{RefreshToken: session.RefreshToken}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestRegisterErrors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "taken@example.com", "Taken", "tenant")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		want connect.Code
	}{
		{
			name: "duplicate email",
			req:  &api.RegisterRequest{Email: "TAKEN@example.com", DisplayName: "Again", Password: testPassword, Role: "tenant"},
			want: connect.CodeAlreadyExists,
		},
		{
			name: "short password",
			req:  &api.RegisterRequest{Email: "new@example.com", DisplayName: "New", Password: "short", Role: "tenant"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown role",
			req:  &api.RegisterRequest{Email: "new@example.com", DisplayName: "New", Password: testPassword, Role: "admin"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "bad email",
			req:  &api.RegisterRequest{Email: "not-an-email", DisplayName: "New", Password: testPassword, Role: "tenant"},
			want: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "victim@example.com", "Victim", "tenant")

	// Burst is 3 in the test server.
	for i := 0; i < 3; i++ {
		_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "victim@example.com",
			Password: "wrong-password",
		}))
		assertCode(t, err, connect.CodeUnauthenticated)
	}

	_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "Victim@Example.com",
		Password: testPassword,
	}))
	assertCode(t, err, connect.CodeResourceExhausted)

	// Other accounts have their own budget.
	env.register(t, "other@example.com", "Other", "tenant")
	if _, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "other@example.com",
		Password: testPassword,
	})); err != nil {
		t.Fatalf("Login for other account failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	user := env.register(t, "ion@example.com", "Ion", "tenant")

	resp, err := env.auth.UpdateProfile(ctx, as(user, &api.UpdateProfileRequest{
		Currency: "EUR",
		Language: "ro",
	}))
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if resp.Msg.User.Currency != "EUR" {
		t.Errorf("currency: expected EUR, got %q", resp.Msg.User.Currency)
	}
	if resp.Msg.User.Language != "ro" {
		t.Errorf("language: expected ro, got %q", resp.Msg.User.Language)
	}
	if resp.Msg.User.DisplayName != "Ion" {
		t.Errorf("display name should be unchanged, got %q", resp.Msg.User.DisplayName)
	}

	_, err = env.auth.UpdateProfile(ctx, as(user, &api.UpdateProfileRequest{Currency: "XXXX"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.auth.UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{DisplayName: "Anon"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
