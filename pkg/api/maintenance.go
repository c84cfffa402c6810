package api

// Attachment is an uploaded file with a short-lived download link.
type Attachment struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Maintenance is a maintenance request.
type Maintenance struct {
	ID          string        `json:"id"`
	PropertyID  string        `json:"propertyId"`
	TenantID    string        `json:"tenantId"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Priority    string        `json:"priority"`
	Status      string        `json:"status"`
	AssignedTo  string        `json:"assignedTo,omitempty"`
	Images      []*Attachment `json:"images,omitempty"`
	CreatedAt   int64         `json:"createdAt"`
	UpdatedAt   int64         `json:"updatedAt"`
}

type CreateMaintenanceRequest struct {
	PropertyID  string `json:"propertyId" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=4000"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
}

type CreateMaintenanceResponse struct {
	Request *Maintenance `json:"request"`
}

type GetMaintenanceRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetMaintenanceResponse struct {
	Request *Maintenance `json:"request"`
}

type ListMaintenanceRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
}

type ListMaintenanceResponse struct {
	Requests []*Maintenance `json:"requests"`
}

// UpdateMaintenanceRequest changes the given fields; empty fields are left alone.
type UpdateMaintenanceRequest struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title,omitempty" validate:"max=200"`
	Description string `json:"description,omitempty" validate:"max=4000"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	AssignedTo  string `json:"assignedTo,omitempty"`
}

type UpdateMaintenanceResponse struct {
	Request *Maintenance `json:"request"`
}

type DeleteMaintenanceRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteMaintenanceResponse struct{}

type UploadMaintenanceImageRequest struct {
	ID          string `json:"id" validate:"required"`
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data" validate:"required,max=10485760"`
}

type UploadMaintenanceImageResponse struct {
	Request *Maintenance `json:"request"`
}
