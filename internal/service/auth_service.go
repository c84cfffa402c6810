package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/auth"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements sign-up, sign-in, token refresh, sign-out and the
// caller's profile.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	revoker       *auth.Revoker
	users         storage.UserStore
}

// NewAuthService creates a new authentication service. revoker may be nil.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, revoker *auth.Revoker, users storage.UserStore) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		revoker:       revoker,
		users:         users,
	}
}

// Register creates a new user account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	slog.Info("Register request received", "email", req.Msg.Email, "role", req.Msg.Role)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Email:       req.Msg.Email,
		DisplayName: req.Msg.DisplayName,
		Credential:  req.Msg.Password,
		Role:        models.Role(req.Msg.Role),
	})
	if err != nil {
		slog.Error("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	tokens, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("User registered successfully", "user_id", user.ID, "role", user.Role)
	return connect.NewResponse(&api.RegisterResponse{
		User:    toAPIUser(user),
		Session: toAPISession(tokens),
	}), nil
}

// Login authenticates a user and returns a token pair.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	slog.Info("Login request received", "email", req.Msg.Email)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	tokens, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:    toAPIUser(user),
		Session: toAPISession(tokens),
	}), nil
}

// Refresh exchanges a refresh token for a new pair in the same session.
func (s *AuthService) Refresh(ctx context.Context, req *connect.Request[api.RefreshRequest]) (*connect.Response[api.RefreshResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	claims, err := s.jwtManager.Validate(req.Msg.RefreshToken, auth.RefreshToken)
	if err != nil {
		slog.Warn("Refresh failed", "error", err)
		return nil, toConnectError(err)
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			slog.Error("Refresh failed", "user_id", claims.UserID, "error", err)
			return nil, connect.NewError(connect.CodeUnavailable, err)
		}
		if revoked {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrRevoked)
		}
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		slog.Warn("Refresh for missing user", "user_id", claims.UserID, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	tokens, err := s.jwtManager.Renew(claims, user)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Session refreshed", "user_id", claims.UserID)
	return connect.NewResponse(&api.RefreshResponse{Session: toAPISession(tokens)}), nil
}

// Logout revokes the caller's session. Both its access and refresh tokens
// stop working.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	slog.Info("Logout request received", "user_id", claims.UserID)

	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, claims); err != nil {
			slog.Error("Logout failed", "user_id", claims.UserID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the profile of the caller.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	slog.Info("GetCurrentUser request received", "user_id", userID)

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		if errors.Is(err, storage.ErrNotFound) {
			// The account was deleted while the token was still valid.
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
		}
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// UpdateProfile changes the display name, currency or language of the caller.
func (s *AuthService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("UpdateProfile request received", "user_id", userID)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	if name := strings.TrimSpace(req.Msg.DisplayName); name != "" {
		user.DisplayName = name
	}
	if req.Msg.Currency != "" {
		code, err := currency.Normalize(req.Msg.Currency)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		user.Currency = code
	}
	if req.Msg.Language != "" {
		user.Language = req.Msg.Language
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		slog.Error("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("UpdateProfile successful", "user_id", userID, "currency", user.Currency)
	return connect.NewResponse(&api.UpdateProfileResponse{User: toAPIUser(user)}), nil
}
