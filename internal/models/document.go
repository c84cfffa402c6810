package models

// Document types.
const (
	DocumentLease   = "lease_agreement"
	DocumentInvoice = "invoice"
	DocumentReceipt = "receipt"
	DocumentOther   = "other"
)

// Document is the metadata row of an uploaded file. The bytes live in object
// storage under ObjectKey.
type Document struct {
	ID           string
	PropertyID   string
	TenantID     string
	UploadedBy   string
	Name         string
	DocumentType string
	ObjectKey    string
	CreatedAt    int64
}
