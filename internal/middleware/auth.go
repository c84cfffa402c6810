// Package middleware holds the Connect interceptors shared by every service.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/auth"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// RoleKey is the context key for storing the authenticated user's role.
	RoleKey contextKey = "role"
	// ClaimsKey is the context key for the validated access token claims.
	ClaimsKey contextKey = "claims"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetRole extracts the user role from the context.
func GetRole(ctx context.Context) models.Role {
	role, _ := ctx.Value(RoleKey).(models.Role)
	return role
}

// GetClaims returns the access token claims of the request, or nil.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// Scope returns the row visibility scope of the authenticated user.
// An unauthenticated context yields a scope that sees nothing.
func Scope(ctx context.Context) policy.Scope {
	return policy.New(GetUserID(ctx), GetRole(ctx))
}

// WithClaims returns ctx carrying the identity from claims. The user ID is
// also reported to an enclosing logging interceptor.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	if c, ok := ctx.Value(callerKey).(*caller); ok {
		c.set(claims.UserID)
	}
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	ctx = context.WithValue(ctx, RoleKey, claims.Role)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// AuthInterceptor validates bearer tokens on unary and server-streaming
// handlers. Procedures listed as public run without a token; if one is sent
// anyway and it is valid, the identity is still attached.
type AuthInterceptor struct {
	jwt     *auth.JWTManager
	revoker *auth.Revoker
	public  map[string]bool
}

var _ connect.Interceptor = (*AuthInterceptor)(nil)

// NewAuthInterceptor creates the interceptor. revoker may be nil, in which
// case signed-out sessions stay valid until their tokens expire.
func NewAuthInterceptor(jwtManager *auth.JWTManager, revoker *auth.Revoker, publicProcedures ...string) *AuthInterceptor {
	public := make(map[string]bool, len(publicProcedures))
	for _, p := range publicProcedures {
		public[p] = true
	}
	return &AuthInterceptor{jwt: jwtManager, revoker: revoker, public: public}
}

func (i *AuthInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx, err := i.authenticate(ctx, req.Spec().Procedure, req.Header())
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i *AuthInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *AuthInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := i.authenticate(ctx, conn.Spec().Procedure, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}

func (i *AuthInterceptor) authenticate(ctx context.Context, procedure string, header http.Header) (context.Context, error) {
	claims, err := i.validate(ctx, header)
	if i.public[procedure] {
		if err == nil {
			ctx = WithClaims(ctx, claims)
		}
		return ctx, nil
	}
	if err != nil {
		slog.Warn("Request rejected", "procedure", procedure, "error", err)
		return ctx, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return WithClaims(ctx, claims), nil
}

func (i *AuthInterceptor) validate(ctx context.Context, header http.Header) (*auth.Claims, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	claims, err := i.jwt.Validate(token, auth.AccessToken)
	if err != nil {
		return nil, err
	}

	if i.revoker != nil {
		revoked, err := i.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			// A cache outage should not sign everybody out.
			slog.Error("Session check failed", "user_id", claims.UserID, "error", err)
		} else if revoked {
			return nil, auth.ErrRevoked
		}
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(header http.Header) (string, error) {
	authHeader := header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}
