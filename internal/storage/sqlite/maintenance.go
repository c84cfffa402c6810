package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
)

const maintenanceColumns = `r.id, r.property_id, r.tenant_id, r.title, r.description, r.priority,
	r.status, r.assigned_to, r.image_keys, r.created_at, r.updated_at`

func scanMaintenance(row rowScanner) (*models.MaintenanceRequest, error) {
	r := &models.MaintenanceRequest{}
	var keys string
	err := row.Scan(&r.ID, &r.PropertyID, &r.TenantID, &r.Title, &r.Description, &r.Priority,
		&r.Status, &r.AssignedTo, &keys, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeKeys(keys, r); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeKeys(raw string, r *models.MaintenanceRequest) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &r.ImageKeys); err != nil {
		return fmt.Errorf("image keys of %s: %w", r.ID, err)
	}
	return nil
}

func encodeKeys(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", nil
	}
	b, err := json.Marshal(keys)
	return string(b), err
}

// CreateMaintenanceRequest inserts a maintenance request.
func (s *SQLiteStore) CreateMaintenanceRequest(ctx context.Context, r *models.MaintenanceRequest) error {
	keys, err := encodeKeys(r.ImageKeys)
	if err != nil {
		return fmt.Errorf("failed to encode image keys: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO maintenance_requests (id, property_id, tenant_id, title, description, priority, status, assigned_to, image_keys, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.PropertyID, r.TenantID, r.Title, r.Description, r.Priority, r.Status, r.AssignedTo, keys, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create maintenance request: %w", err)
	}
	return nil
}

// GetMaintenanceRequest retrieves a maintenance request visible to scope.
func (s *SQLiteStore) GetMaintenanceRequest(ctx context.Context, scope policy.Scope, id string) (*models.MaintenanceRequest, error) {
	f := scope.Filter(policy.Maintenance, "r")
	r, err := scanMaintenance(s.db.QueryRowContext(ctx,
		"SELECT "+maintenanceColumns+" FROM maintenance_requests r"+where(f, "r.id = ?"),
		args(f, id)...))
	if err != nil {
		return nil, notFound(err, "maintenance request", id)
	}
	return r, nil
}

// ListMaintenanceRequests returns the requests visible to scope, newest first.
// A non-empty status filters by status.
func (s *SQLiteStore) ListMaintenanceRequests(ctx context.Context, scope policy.Scope, status string) ([]*models.MaintenanceRequest, error) {
	f := scope.Filter(policy.Maintenance, "r")
	query := "SELECT " + maintenanceColumns + " FROM maintenance_requests r" + where(f)
	a := args(f)
	if status != "" {
		query += " AND r.status = ?"
		a = append(a, status)
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	defer rows.Close()

	var out []*models.MaintenanceRequest
	for rows.Next() {
		r, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maintenance request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateMaintenanceRequest saves the mutable fields of a request.
func (s *SQLiteStore) UpdateMaintenanceRequest(ctx context.Context, r *models.MaintenanceRequest) error {
	keys, err := encodeKeys(r.ImageKeys)
	if err != nil {
		return fmt.Errorf("failed to encode image keys: %w", err)
	}
	return s.execOne(ctx, "maintenance request", r.ID, `
		UPDATE maintenance_requests SET title = ?, description = ?, priority = ?, status = ?,
			assigned_to = ?, image_keys = ?, updated_at = ?
		WHERE id = ?
	`, r.Title, r.Description, r.Priority, r.Status, r.AssignedTo, keys, r.UpdatedAt, r.ID)
}

// AddMaintenanceImage appends key to the image list of a request. Only the
// image list and updated_at are written, so concurrent edits to other fields
// are kept.
func (s *SQLiteStore) AddMaintenanceImage(ctx context.Context, id, key string, updatedAt int64) error {
	return s.execOne(ctx, "maintenance request", id, `
		UPDATE maintenance_requests
		SET image_keys = json_insert(COALESCE(NULLIF(image_keys, ''), '[]'), '$[#]', ?), updated_at = ?
		WHERE id = ?
	`, key, updatedAt, id)
}

// DeleteMaintenanceRequest removes a maintenance request.
func (s *SQLiteStore) DeleteMaintenanceRequest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM maintenance_requests WHERE id = ?", id)
	return deleted(res, err, "maintenance request", id)
}
