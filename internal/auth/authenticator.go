// Package auth implements password sign-up and sign-in, session tokens and
// session revocation.
package auth

import (
	"context"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
)

// Registration is what a new account supplies at sign-up.
type Registration struct {
	Email       string
	DisplayName string
	Credential  string
	Role        models.Role
}

// Authenticator defines the interface for authentication implementations.
// The service layer only sees this interface, so other sign-in methods can
// be added without touching it.
type Authenticator interface {
	// Register creates a new account. The credential format depends on the implementation.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the credentials and returns the user if they match.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
