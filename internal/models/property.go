package models

// Property types.
const (
	PropertyApartment  = "apartment"
	PropertyHouse      = "house"
	PropertyCondo      = "condo"
	PropertyCommercial = "commercial"
)

// Property is a rentable unit owned by a landlord.
type Property struct {
	ID            string
	LandlordID    string
	Name          string
	Address       string
	Type          string
	MonthlyRent   float64
	Currency      string
	Description   string
	AvailableFrom string // YYYY-MM-DD, optional
	CreatedAt     int64
}

// TenancyStatus is the lifecycle state of a tenancy.
type TenancyStatus string

const (
	TenancyActive  TenancyStatus = "active"
	TenancyEnded   TenancyStatus = "ended"
	TenancyPending TenancyStatus = "pending"
)

// Tenancy is a time-bounded occupancy link between one tenant and one property.
// While the invitation is pending, TenantID is empty and InvitationToken is set.
type Tenancy struct {
	ID              string
	PropertyID      string
	TenantID        string
	InvitationEmail string
	InvitationToken string
	StartDate       string
	EndDate         string
	Status          TenancyStatus
	CreatedAt       int64

	// Filled on reads that join the property and tenant.
	PropertyName string
	TenantName   string
}
