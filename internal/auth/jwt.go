package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrRevoked      = errors.New("session has been signed out")
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims represents the custom JWT claims for a user session.
// RegisteredClaims.ID carries the session id used for revocation.
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Type   TokenType   `json:"typ"`
	jwt.RegisteredClaims
}

// Remaining returns how long the token stays valid after now.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// TokenPair is issued on sign-in and on refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager.
// tokenDuration bounds access tokens and refreshTTL bounds refresh tokens.
func NewJWTManager(secretKey string, tokenDuration, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Generate issues an access and refresh token for the user. Both share one
// session id so that revoking the session invalidates either.
func (m *JWTManager) Generate(user *models.User) (*TokenPair, error) {
	return m.generate(user.ID, user.Email, user.Role, uuid.NewString())
}

// Renew issues a fresh pair for the session of validated refresh claims.
// The new tokens carry the user's current email and role.
func (m *JWTManager) Renew(refresh *Claims, user *models.User) (*TokenPair, error) {
	if refresh.Type != RefreshToken || refresh.UserID != user.ID {
		return nil, ErrInvalidToken
	}
	return m.generate(user.ID, user.Email, user.Role, refresh.ID)
}

func (m *JWTManager) generate(userID, email string, role models.Role, sessionID string) (*TokenPair, error) {
	now := m.now()
	access, err := m.sign(userID, email, role, sessionID, AccessToken, now, m.tokenDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(userID, email, role, sessionID, RefreshToken, now, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(m.tokenDuration),
	}, nil
}

func (m *JWTManager) sign(userID, email string, role models.Role, sessionID string, typ TokenType, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a token of the wanted type, returning its claims.
func (m *JWTManager) Validate(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, want)
	}
	return claims, nil
}
