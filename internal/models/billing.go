package models

// Invoice statuses.
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

// Invoice is a charge from a landlord to a tenant for a property.
type Invoice struct {
	ID         string
	PropertyID string
	LandlordID string
	TenantID   string
	Amount     float64
	Currency   string
	DueDate    string
	Status     string
	PaidAt     int64
	CreatedAt  int64
}

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment records an attempt by a tenant to pay an invoice.
type Payment struct {
	ID                string
	InvoiceID         string
	TenantID          string
	Amount            float64
	Currency          string
	Status            string
	CheckoutSessionID string
	PaidAt            int64
	CreatedAt         int64
}

// Utility types.
const (
	UtilityElectricity = "electricity"
	UtilityWater       = "water"
	UtilityGas         = "gas"
	UtilityInternet    = "internet"
	UtilityOther       = "other"
)

// UtilityBill is a bill for a utility of a property.
type UtilityBill struct {
	ID            string
	PropertyID    string
	Type          string
	Amount        float64
	Currency      string
	DueDate       string
	Status        string // pending, paid, overdue
	InvoiceNumber string
	IssuedDate    string
	CreatedAt     int64
}

// UtilityStat aggregates the bills of one utility type for a property.
type UtilityStat struct {
	Type        string
	Count       int
	Total       float64
	Average     float64
	LatestDueAt string
}

// UtilityProvider is a landlord's account at a utility company whose bills
// are imported by scraping jobs.
type UtilityProvider struct {
	ID           string
	PropertyID   string
	LandlordID   string
	ProviderName string
	UtilityType  string
	Username     string
	LocationName string
	CreatedAt    int64
}

// Scraping job statuses.
const (
	JobPending    = "pending"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// ScrapingJob tracks one bill import run for a utility provider.
type ScrapingJob struct {
	ID           string
	ProviderID   string
	Status       string
	ErrorMessage string
	CreatedAt    int64
	CompletedAt  int64
}
