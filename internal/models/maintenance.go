package models

// Maintenance request priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Maintenance request statuses.
const (
	MaintenancePending    = "pending"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
	MaintenanceCancelled  = "cancelled"
)

// MaintenanceRequest is raised by a tenant for a property and optionally
// assigned to a service provider.
type MaintenanceRequest struct {
	ID          string
	PropertyID  string
	TenantID    string
	Title       string
	Description string
	Priority    string
	Status      string
	AssignedTo  string

	// ImageKeys are object storage keys of the attached photos.
	ImageKeys []string

	CreatedAt int64
	UpdatedAt int64
}
