package api

// Property is a rentable unit.
type Property struct {
	ID            string  `json:"id"`
	LandlordID    string  `json:"landlordId"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Type          string  `json:"type"`
	MonthlyRent   float64 `json:"monthlyRent"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description,omitempty"`
	AvailableFrom string  `json:"availableFrom,omitempty"`
	CreatedAt     int64   `json:"createdAt"`
}

// PropertyInput holds the editable fields of a property.
type PropertyInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Address       string  `json:"address" validate:"required,max=500"`
	Type          string  `json:"type" validate:"required,oneof=apartment house condo commercial"`
	MonthlyRent   float64 `json:"monthlyRent" validate:"gte=0"`
	Currency      string  `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Description   string  `json:"description,omitempty" validate:"max=2000"`
	AvailableFrom string  `json:"availableFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CreatePropertyRequest struct {
	Property PropertyInput `json:"property"`
}

type CreatePropertyResponse struct {
	Property *Property `json:"property"`
}

type GetPropertyRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetPropertyResponse struct {
	Property *Property `json:"property"`
}

type ListPropertiesRequest struct{}

type ListPropertiesResponse struct {
	Properties []*Property `json:"properties"`
}

type UpdatePropertyRequest struct {
	ID       string        `json:"id" validate:"required"`
	Property PropertyInput `json:"property"`
}

type UpdatePropertyResponse struct {
	Property *Property `json:"property"`
}

type DeletePropertyRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeletePropertyResponse struct{}

// Tenancy links a tenant to a property. TenantID is empty while the
// invitation is pending.
type Tenancy struct {
	ID              string `json:"id"`
	PropertyID      string `json:"propertyId"`
	PropertyName    string `json:"propertyName,omitempty"`
	TenantID        string `json:"tenantId,omitempty"`
	TenantName      string `json:"tenantName,omitempty"`
	InvitationEmail string `json:"invitationEmail,omitempty"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate,omitempty"`
	Status          string `json:"status"`
	CreatedAt       int64  `json:"createdAt"`
}

type ListTenanciesRequest struct {
	PropertyID string `json:"propertyId,omitempty"`
}

type ListTenanciesResponse struct {
	Tenancies []*Tenancy `json:"tenancies"`
}

type InviteTenantRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// InviteTenantResponse returns the link that was emailed so the landlord can
// also share it directly.
type InviteTenantResponse struct {
	Tenancy       *Tenancy `json:"tenancy"`
	InvitationURL string   `json:"invitationUrl"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}

type AcceptInvitationResponse struct {
	Tenancy *Tenancy `json:"tenancy"`
}

type EndTenancyRequest struct {
	ID string `json:"id" validate:"required"`
}

type EndTenancyResponse struct {
	Tenancy *Tenancy `json:"tenancy"`
}
