package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the kind of account a user registered as.
type Role string

const (
	RoleLandlord        Role = "landlord"
	RoleTenant          Role = "tenant"
	RoleServiceProvider Role = "service_provider"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLandlord, RoleTenant, RoleServiceProvider:
		return true
	}
	return false
}

// Subscription plans a landlord can be on.
const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// DefaultCurrency is used when a profile has no currency preference.
const DefaultCurrency = "USD"

// User represents a registered account together with its profile.
// There is exactly one profile per authenticated identity.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login and notifications.
	Email string

	// DisplayName is the name shown in chat and lists.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Role decides what the user can see and do.
	Role Role

	// Currency is the preferred display currency (ISO 4217 code).
	Currency string

	// Language is the preferred UI language (BCP 47 tag).
	Language string

	// SubscriptionPlan and SubscriptionStatus mirror the payment provider's subscription.
	SubscriptionPlan     string
	SubscriptionStatus   string
	StripeCustomerID     string
	StripeSubscriptionID string

	// StripeAccountID is the connected account used to receive tenant payments.
	StripeAccountID string

	// CreatedAt and UpdatedAt are Unix millisecond timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a new user with generated ID and timestamps.
func NewUser(email, displayName, passwordHash string, role Role) *User {
	now := time.Now().UnixMilli()
	return &User{
		ID:               uuid.NewString(),
		Email:            email,
		DisplayName:      displayName,
		PasswordHash:     passwordHash,
		Role:             role,
		Currency:         DefaultCurrency,
		Language:         "en",
		SubscriptionPlan: PlanFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
