package sqlite

import (
	"context"
	"fmt"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

const propertyColumns = `p.id, p.landlord_id, p.name, p.address, p.type, p.monthly_rent,
	p.currency, p.description, p.available_from, p.created_at`

func scanProperty(row rowScanner) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(&p.ID, &p.LandlordID, &p.Name, &p.Address, &p.Type, &p.MonthlyRent,
		&p.Currency, &p.Description, &p.AvailableFrom, &p.CreatedAt)
	return p, err
}

// CreateProperty inserts a new property.
func (s *SQLiteStore) CreateProperty(ctx context.Context, p *models.Property) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (id, landlord_id, name, address, type, monthly_rent, currency, description, available_from, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.LandlordID, p.Name, p.Address, p.Type, p.MonthlyRent, p.Currency, p.Description, p.AvailableFrom, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// GetProperty retrieves a property visible to scope.
func (s *SQLiteStore) GetProperty(ctx context.Context, scope policy.Scope, id string) (*models.Property, error) {
	f := scope.Filter(policy.Properties, "p")
	p, err := scanProperty(s.db.QueryRowContext(ctx,
		"SELECT "+propertyColumns+" FROM properties p"+where(f, "p.id = ?"),
		args(f, id)...))
	if err != nil {
		return nil, notFound(err, "property", id)
	}
	return p, nil
}

// ListProperties returns the properties visible to scope, newest first.
func (s *SQLiteStore) ListProperties(ctx context.Context, scope policy.Scope) ([]*models.Property, error) {
	f := scope.Filter(policy.Properties, "p")
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+propertyColumns+" FROM properties p"+where(f)+" ORDER BY p.created_at DESC",
		args(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProperty saves the editable fields of a property.
func (s *SQLiteStore) UpdateProperty(ctx context.Context, p *models.Property) error {
	return s.execOne(ctx, "property", p.ID, `
		UPDATE properties SET name = ?, address = ?, type = ?, monthly_rent = ?, currency = ?,
			description = ?, available_from = ?
		WHERE id = ?
	`, p.Name, p.Address, p.Type, p.MonthlyRent, p.Currency, p.Description, p.AvailableFrom, p.ID)
}

// DeleteProperty removes a property and, through foreign keys, everything attached to it.
func (s *SQLiteStore) DeleteProperty(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	return deleted(res, err, "property", id)
}

const tenancySelect = `
	SELECT t.id, t.property_id, COALESCE(t.tenant_id, ''), t.invitation_email,
		COALESCE(t.invitation_token, ''), t.start_date, t.end_date, t.status, t.created_at,
		p.name, COALESCE(u.display_name, '')
	FROM tenancies t
	JOIN properties p ON p.id = t.property_id
	LEFT JOIN users u ON u.id = t.tenant_id
`

func scanTenancy(row rowScanner) (*models.Tenancy, error) {
	t := &models.Tenancy{}
	err := row.Scan(&t.ID, &t.PropertyID, &t.TenantID, &t.InvitationEmail,
		&t.InvitationToken, &t.StartDate, &t.EndDate, &t.Status, &t.CreatedAt,
		&t.PropertyName, &t.TenantName)
	return t, err
}

// CreateTenancy inserts a tenancy. An empty TenantID or InvitationToken is stored as NULL.
func (s *SQLiteStore) CreateTenancy(ctx context.Context, t *models.Tenancy) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenancies (id, property_id, tenant_id, invitation_email, invitation_token, start_date, end_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.PropertyID, nullable(t.TenantID), t.InvitationEmail, nullable(t.InvitationToken),
		t.StartDate, t.EndDate, t.Status, t.CreatedAt)
	if isUnique(err) {
		return fmt.Errorf("tenancy invitation: %w", storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create tenancy: %w", err)
	}
	return nil
}

// GetTenancy retrieves a tenancy visible to scope.
func (s *SQLiteStore) GetTenancy(ctx context.Context, scope policy.Scope, id string) (*models.Tenancy, error) {
	f := scope.Filter(policy.Tenancies, "t")
	t, err := scanTenancy(s.db.QueryRowContext(ctx, tenancySelect+where(f, "t.id = ?"), args(f, id)...))
	if err != nil {
		return nil, notFound(err, "tenancy", id)
	}
	return t, nil
}

// GetTenancyByToken retrieves the pending tenancy holding an invitation token.
func (s *SQLiteStore) GetTenancyByToken(ctx context.Context, token string) (*models.Tenancy, error) {
	if token == "" {
		return nil, fmt.Errorf("empty invitation token: %w", storage.ErrNotFound)
	}
	t, err := scanTenancy(s.db.QueryRowContext(ctx,
		tenancySelect+" WHERE t.invitation_token = ? AND t.status = 'pending'", token))
	if err != nil {
		return nil, notFound(err, "tenancy invitation", "")
	}
	return t, nil
}

// ListTenancies returns the tenancies visible to scope. A non-empty propertyID
// narrows the list to one property.
func (s *SQLiteStore) ListTenancies(ctx context.Context, scope policy.Scope, propertyID string) ([]*models.Tenancy, error) {
	f := scope.Filter(policy.Tenancies, "t")
	query := tenancySelect + where(f)
	a := args(f)
	if propertyID != "" {
		query += " AND t.property_id = ?"
		a = append(a, propertyID)
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenancies: %w", err)
	}
	defer rows.Close()

	var out []*models.Tenancy
	for rows.Next() {
		t, err := scanTenancy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenancy: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTenancyStatus sets the status of a tenancy.
func (s *SQLiteStore) UpdateTenancyStatus(ctx context.Context, id string, status models.TenancyStatus) error {
	return s.execOne(ctx, "tenancy", id, "UPDATE tenancies SET status = ? WHERE id = ?", status, id)
}

// AcceptTenancy binds a pending tenancy to tenantID and activates it.
// The invitation token is cleared so it cannot be used twice.
func (s *SQLiteStore) AcceptTenancy(ctx context.Context, id, tenantID string) error {
	return s.execOne(ctx, "pending tenancy", id, `
		UPDATE tenancies SET tenant_id = ?, status = 'active', invitation_token = NULL
		WHERE id = ? AND status = 'pending'
	`, tenantID, id)
}

// ActiveTenants returns the IDs of the tenants actively occupying a property.
func (s *SQLiteStore) ActiveTenants(ctx context.Context, propertyID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT tenant_id FROM tenancies
		WHERE property_id = ? AND status = 'active' AND tenant_id IS NOT NULL
		ORDER BY tenant_id
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tenant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
