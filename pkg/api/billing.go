package api

// Invoice is a charge from a landlord to a tenant.
type Invoice struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"propertyId"`
	LandlordID string  `json:"landlordId"`
	TenantID   string  `json:"tenantId"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	DueDate    string  `json:"dueDate"`
	Status     string  `json:"status"`
	PaidAt     int64   `json:"paidAt,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
}

type CreateInvoiceRequest struct {
	PropertyID string  `json:"propertyId" validate:"required"`
	TenantID   string  `json:"tenantId" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	Currency   string  `json:"currency" validate:"required,iso4217"`
	DueDate    string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	SendEmail  bool    `json:"sendEmail,omitempty"`
}

type CreateInvoiceResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type ListInvoicesRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending paid overdue cancelled"`
}

type ListInvoicesResponse struct {
	Invoices []*Invoice `json:"invoices"`
}

type UpdateInvoiceStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending paid overdue cancelled"`
}

type UpdateInvoiceStatusResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type DeleteInvoiceRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteInvoiceResponse struct{}

// Payment is a tenant's attempt to pay an invoice.
type Payment struct {
	ID        string  `json:"id"`
	InvoiceID string  `json:"invoiceId"`
	TenantID  string  `json:"tenantId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	PaidAt    int64   `json:"paidAt,omitempty"`
	CreatedAt int64   `json:"createdAt"`
}

type ListPaymentsRequest struct{}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

// Checkout is a hosted payment page to redirect the user to.
type Checkout struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type CreateCheckoutRequest struct {
	InvoiceID string `json:"invoiceId" validate:"required"`
}

type CreateCheckoutResponse struct {
	Checkout *Checkout `json:"checkout"`
}

type SubscriptionCheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic premium"`
}

type SubscriptionCheckoutResponse struct {
	Checkout *Checkout `json:"checkout"`
}

type ConnectOnboardingRequest struct{}

type ConnectOnboardingResponse struct {
	URL string `json:"url"`
}

// Balance sums the invoices of one tenant in one currency.
type Balance struct {
	TenantID    string  `json:"tenantId"`
	Currency    string  `json:"currency"`
	Invoiced    float64 `json:"invoiced"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
	Overdue     float64 `json:"overdue"`
}

type TenantBalancesRequest struct {
	PropertyID string `json:"propertyId,omitempty"`
}

type TenantBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}
