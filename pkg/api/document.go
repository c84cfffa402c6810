package api

// Document is the metadata of an uploaded file. URL is only set on Get.
type Document struct {
	ID           string `json:"id"`
	PropertyID   string `json:"propertyId"`
	TenantID     string `json:"tenantId,omitempty"`
	UploadedBy   string `json:"uploadedBy"`
	Name         string `json:"name"`
	DocumentType string `json:"documentType"`
	URL          string `json:"url,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
}

type UploadDocumentRequest struct {
	PropertyID   string `json:"propertyId" validate:"required"`
	TenantID     string `json:"tenantId,omitempty"`
	Name         string `json:"name" validate:"required,max=255"`
	DocumentType string `json:"documentType" validate:"required,oneof=lease_agreement invoice receipt other"`
	ContentType  string `json:"contentType,omitempty"`
	Data         []byte `json:"data" validate:"required,max=10485760"`
}

type UploadDocumentResponse struct {
	Document *Document `json:"document"`
}

type ListDocumentsRequest struct {
	PropertyID string `json:"propertyId,omitempty"`
}

type ListDocumentsResponse struct {
	Documents []*Document `json:"documents"`
}

type GetDocumentRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetDocumentResponse struct {
	Document *Document `json:"document"`
}

type DeleteDocumentRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteDocumentResponse struct{}
