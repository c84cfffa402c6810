// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
)

var (
	// ErrNotFound is returned when a row does not exist or is not visible to the scope.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness constraint rejects a write.
	ErrConflict = errors.New("already exists")
)

// UserStore persists accounts and profiles.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	GetUserByStripeCustomer(ctx context.Context, customerID string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateSubscription(ctx context.Context, userID, plan, status, customerID, subscriptionID string) error
	SetStripeAccount(ctx context.Context, userID, accountID string) error
}

// ChatStore persists conversations and messages.
type ChatStore interface {
	// FindConversation returns the conversation for the pair or ErrNotFound.
	FindConversation(ctx context.Context, landlordID, tenantID string) (*models.Conversation, error)
	// FindLatestConversationForTenant returns the most recent conversation of a tenant or ErrNotFound.
	FindLatestConversationForTenant(ctx context.Context, tenantID string) (*models.Conversation, error)
	// EnsureConversation creates the conversation for the pair unless it exists and
	// returns the stored row. created reports whether this call inserted it.
	EnsureConversation(ctx context.Context, landlordID, tenantID string) (conv *models.Conversation, created bool, err error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context, scope policy.Scope) ([]models.ConversationSummary, error)

	InsertMessage(ctx context.Context, msg *models.Message) error
	// GetMessage returns the message with SenderName filled.
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	// ListMessages returns all messages of a conversation, oldest first.
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	UpdateMessageStatus(ctx context.Context, id string, status models.MessageStatus) error
	// MarkConversationRead marks every message not sent by viewerID as read and
	// returns the IDs that changed.
	MarkConversationRead(ctx context.Context, conversationID, viewerID string) ([]string, error)
	DeleteMessage(ctx context.Context, id string) error
	CountUnread(ctx context.Context, conversationID, viewerID string) (int, error)
}

// PropertyStore persists properties and tenancies.
type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, scope policy.Scope, id string) (*models.Property, error)
	ListProperties(ctx context.Context, scope policy.Scope) ([]*models.Property, error)
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id string) error

	CreateTenancy(ctx context.Context, t *models.Tenancy) error
	GetTenancy(ctx context.Context, scope policy.Scope, id string) (*models.Tenancy, error)
	GetTenancyByToken(ctx context.Context, token string) (*models.Tenancy, error)
	ListTenancies(ctx context.Context, scope policy.Scope, propertyID string) ([]*models.Tenancy, error)
	UpdateTenancyStatus(ctx context.Context, id string, status models.TenancyStatus) error
	// AcceptTenancy binds a pending tenancy to tenantID, activates it and clears the token.
	AcceptTenancy(ctx context.Context, id, tenantID string) error
	ActiveTenants(ctx context.Context, propertyID string) ([]string, error)
}

// MaintenanceStore persists maintenance requests.
type MaintenanceStore interface {
	CreateMaintenanceRequest(ctx context.Context, r *models.MaintenanceRequest) error
	GetMaintenanceRequest(ctx context.Context, scope policy.Scope, id string) (*models.MaintenanceRequest, error)
	ListMaintenanceRequests(ctx context.Context, scope policy.Scope, status string) ([]*models.MaintenanceRequest, error)
	UpdateMaintenanceRequest(ctx context.Context, r *models.MaintenanceRequest) error
	AddMaintenanceImage(ctx context.Context, id, key string, updatedAt int64) error
	DeleteMaintenanceRequest(ctx context.Context, id string) error
}

// DocumentStore persists document metadata.
type DocumentStore interface {
	CreateDocument(ctx context.Context, d *models.Document) error
	GetDocument(ctx context.Context, scope policy.Scope, id string) (*models.Document, error)
	ListDocuments(ctx context.Context, scope policy.Scope, propertyID string) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	// ReferencedObjectKeys returns every object key referenced by a metadata row.
	ReferencedObjectKeys(ctx context.Context) (map[string]bool, error)
}

// BillingStore persists invoices and payments.
type BillingStore interface {
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, scope policy.Scope, id string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, scope policy.Scope, status string) ([]*models.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id, status string) error
	DeleteInvoice(ctx context.Context, id string) error

	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, scope policy.Scope) ([]*models.Payment, error)
	// CompletePayment marks the payment of a checkout session completed and its invoice paid.
	CompletePayment(ctx context.Context, checkoutSessionID string) (*models.Payment, error)
}

// UtilityStore persists utility bills, providers and scraping jobs.
type UtilityStore interface {
	CreateUtilityBill(ctx context.Context, b *models.UtilityBill) error
	GetUtilityBill(ctx context.Context, scope policy.Scope, id string) (*models.UtilityBill, error)
	ListUtilityBills(ctx context.Context, scope policy.Scope, propertyID string) ([]*models.UtilityBill, error)
	UpdateUtilityBillStatus(ctx context.Context, id, status string) error
	DeleteUtilityBill(ctx context.Context, id string) error
	UtilityStats(ctx context.Context, propertyID string) ([]models.UtilityStat, error)

	CreateUtilityProvider(ctx context.Context, p *models.UtilityProvider) error
	GetUtilityProvider(ctx context.Context, id string) (*models.UtilityProvider, error)
	ListUtilityProviders(ctx context.Context, scope policy.Scope) ([]*models.UtilityProvider, error)
	AllUtilityProviders(ctx context.Context) ([]*models.UtilityProvider, error)

	CreateScrapingJob(ctx context.Context, j *models.ScrapingJob) error
	GetScrapingJob(ctx context.Context, id string) (*models.ScrapingJob, error)
	UpdateScrapingJob(ctx context.Context, id, status, errMsg string) error
	ListScrapingJobs(ctx context.Context, scope policy.Scope) ([]*models.ScrapingJob, error)
}

// Store defines the full persistence surface of the application.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	ChatStore
	PropertyStore
	MaintenanceStore
	DocumentStore
	BillingStore
	UtilityStore

	// Close releases any resources held by the store.
	Close() error
}
