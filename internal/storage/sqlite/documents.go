package sqlite

import (
	"context"
	"fmt"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

const documentColumns = `d.id, d.property_id, d.tenant_id, d.uploaded_by, d.name, d.document_type,
	d.object_key, d.created_at`

func scanDocument(row rowScanner) (*models.Document, error) {
	d := &models.Document{}
	err := row.Scan(&d.ID, &d.PropertyID, &d.TenantID, &d.UploadedBy, &d.Name, &d.DocumentType,
		&d.ObjectKey, &d.CreatedAt)
	return d, err
}

// CreateDocument inserts a document metadata row.
func (s *SQLiteStore) CreateDocument(ctx context.Context, d *models.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, property_id, tenant_id, uploaded_by, name, document_type, object_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.PropertyID, d.TenantID, d.UploadedBy, d.Name, d.DocumentType, d.ObjectKey, d.CreatedAt)
	if isUnique(err) {
		return fmt.Errorf("document object %s: %w", d.ObjectKey, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document visible to scope.
func (s *SQLiteStore) GetDocument(ctx context.Context, scope policy.Scope, id string) (*models.Document, error) {
	f := scope.Filter(policy.Documents, "d")
	d, err := scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents d"+where(f, "d.id = ?"),
		args(f, id)...))
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	return d, nil
}

// ListDocuments returns the documents visible to scope, optionally for one property.
func (s *SQLiteStore) ListDocuments(ctx context.Context, scope policy.Scope, propertyID string) ([]*models.Document, error) {
	f := scope.Filter(policy.Documents, "d")
	query := "SELECT " + documentColumns + " FROM documents d" + where(f)
	a := args(f)
	if propertyID != "" {
		query += " AND d.property_id = ?"
		a = append(a, propertyID)
	}
	query += " ORDER BY d.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document metadata row. The stored object is left to the caller.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	return deleted(res, err, "document", id)
}

// ReferencedObjectKeys collects every object key that a document or a
// maintenance request points at.
func (s *SQLiteStore) ReferencedObjectKeys(ctx context.Context) (map[string]bool, error) {
	keys := make(map[string]bool)

	rows, err := s.db.QueryContext(ctx, "SELECT object_key FROM documents")
	if err != nil {
		return nil, fmt.Errorf("failed to list document keys: %w", err)
	}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan document key: %w", err)
		}
		keys[k] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT image_keys FROM maintenance_requests WHERE image_keys <> ''")
	if err != nil {
		return nil, fmt.Errorf("failed to list image keys: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan image keys: %w", err)
		}
		r := &models.MaintenanceRequest{}
		if err := decodeKeys(raw, r); err != nil {
			return nil, err
		}
		for _, k := range r.ImageKeys {
			keys[k] = true
		}
	}
	return keys, rows.Err()
}
