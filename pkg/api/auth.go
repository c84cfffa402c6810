package api

// User is the public view of an account and its profile.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	DisplayName        string `json:"displayName"`
	Role               string `json:"role"`
	Currency           string `json:"currency"`
	Language           string `json:"language"`
	SubscriptionPlan   string `json:"subscriptionPlan"`
	SubscriptionStatus string `json:"subscriptionStatus,omitempty"`
	PayoutsEnabled     bool   `json:"payoutsEnabled"`
	CreatedAt          int64  `json:"createdAt"`
}

// Session carries the tokens of a signed-in user. ExpiresAt is the access
// token expiry in Unix milliseconds.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Role        string `json:"role" validate:"required,oneof=landlord tenant service_provider"`
}

func (r *RegisterRequest) GetEmail() string { return r.Email }

type RegisterResponse struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) GetEmail() string { return r.Email }

type LoginResponse struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshResponse struct {
	Session *Session `json:"session"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// UpdateProfileRequest changes the given fields; empty fields are left alone.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName,omitempty" validate:"omitempty,max=100"`
	Currency    string `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Language    string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}
