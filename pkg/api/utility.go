package api

// UtilityBill is a utility bill of a property.
type UtilityBill struct {
	ID            string  `json:"id"`
	PropertyID    string  `json:"propertyId"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	DueDate       string  `json:"dueDate"`
	Status        string  `json:"status"`
	InvoiceNumber string  `json:"invoiceNumber,omitempty"`
	IssuedDate    string  `json:"issuedDate,omitempty"`
	CreatedAt     int64   `json:"createdAt"`
}

type CreateUtilityBillRequest struct {
	PropertyID    string  `json:"propertyId" validate:"required"`
	Type          string  `json:"type" validate:"required,oneof=electricity water gas internet other"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	Currency      string  `json:"currency" validate:"required,iso4217"`
	DueDate       string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	InvoiceNumber string  `json:"invoiceNumber,omitempty" validate:"max=100"`
	IssuedDate    string  `json:"issuedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CreateUtilityBillResponse struct {
	Bill *UtilityBill `json:"bill"`
}

type ListUtilityBillsRequest struct {
	PropertyID string `json:"propertyId,omitempty"`
}

type ListUtilityBillsResponse struct {
	Bills []*UtilityBill `json:"bills"`
}

type UpdateUtilityBillStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending paid overdue"`
}

type UpdateUtilityBillStatusResponse struct {
	Bill *UtilityBill `json:"bill"`
}

type DeleteUtilityBillRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteUtilityBillResponse struct{}

// UtilityStat aggregates the bills of one utility type.
type UtilityStat struct {
	Type          string  `json:"type"`
	Count         int     `json:"count"`
	Total         float64 `json:"total"`
	Average       float64 `json:"average"`
	LatestDueDate string  `json:"latestDueDate"`
}

type UtilityStatsRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
}

type UtilityStatsResponse struct {
	Stats []*UtilityStat `json:"stats"`
}

// Share is one tenant's part of a split bill.
type Share struct {
	TenantID string  `json:"tenantId"`
	Amount   float64 `json:"amount"`
}

type SplitUtilityBillRequest struct {
	ID string `json:"id" validate:"required"`
}

type SplitUtilityBillResponse struct {
	Currency string   `json:"currency"`
	Shares   []*Share `json:"shares"`
}

// UtilityProvider is a landlord's account at a utility company.
type UtilityProvider struct {
	ID           string `json:"id"`
	PropertyID   string `json:"propertyId"`
	ProviderName string `json:"providerName"`
	UtilityType  string `json:"utilityType"`
	Username     string `json:"username,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
}

type CreateUtilityProviderRequest struct {
	PropertyID   string `json:"propertyId" validate:"required"`
	ProviderName string `json:"providerName" validate:"required,max=100"`
	UtilityType  string `json:"utilityType" validate:"required,oneof=electricity water gas internet other"`
	Username     string `json:"username,omitempty" validate:"max=100"`
	LocationName string `json:"locationName,omitempty" validate:"max=200"`
}

type CreateUtilityProviderResponse struct {
	Provider *UtilityProvider `json:"provider"`
}

type ListUtilityProvidersRequest struct{}

type ListUtilityProvidersResponse struct {
	Providers []*UtilityProvider `json:"providers"`
}

// ScrapingJob is one bill import run.
type ScrapingJob struct {
	ID           string `json:"id"`
	ProviderID   string `json:"providerId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	CompletedAt  int64  `json:"completedAt,omitempty"`
}

type StartScrapingRequest struct {
	ProviderID string `json:"providerId" validate:"required"`
}

type StartScrapingResponse struct {
	Job *ScrapingJob `json:"job"`
}

type ListScrapingJobsRequest struct{}

type ListScrapingJobsResponse struct {
	Jobs []*ScrapingJob `json:"jobs"`
}
