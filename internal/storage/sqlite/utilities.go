package sqlite

import (
	"context"
	"fmt"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
)

const utilityBillColumns = `b.id, b.property_id, b.type, b.amount, b.currency, b.due_date, b.status,
	b.invoice_number, b.issued_date, b.created_at`

func scanUtilityBill(row rowScanner) (*models.UtilityBill, error) {
	b := &models.UtilityBill{}
	err := row.Scan(&b.ID, &b.PropertyID, &b.Type, &b.Amount, &b.Currency, &b.DueDate, &b.Status,
		&b.InvoiceNumber, &b.IssuedDate, &b.CreatedAt)
	return b, err
}

// CreateUtilityBill inserts a utility bill.
func (s *SQLiteStore) CreateUtilityBill(ctx context.Context, b *models.UtilityBill) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO utility_bills (id, property_id, type, amount, currency, due_date, status, invoice_number, issued_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.PropertyID, b.Type, b.Amount, b.Currency, b.DueDate, b.Status, b.InvoiceNumber, b.IssuedDate, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create utility bill: %w", err)
	}
	return nil
}

// GetUtilityBill returns a bill visible to scope.
func (s *SQLiteStore) GetUtilityBill(ctx context.Context, scope policy.Scope, id string) (*models.UtilityBill, error) {
	f := scope.Filter(policy.UtilityBills, "b")
	b, err := scanUtilityBill(s.db.QueryRowContext(ctx,
		"SELECT "+utilityBillColumns+" FROM utility_bills b"+where(f, "b.id = ?"),
		args(f, id)...))
	if err != nil {
		return nil, notFound(err, "utility bill", id)
	}
	return b, nil
}

// ListUtilityBills returns the bills visible to scope, optionally for one property.
func (s *SQLiteStore) ListUtilityBills(ctx context.Context, scope policy.Scope, propertyID string) ([]*models.UtilityBill, error) {
	f := scope.Filter(policy.UtilityBills, "b")
	query := "SELECT " + utilityBillColumns + " FROM utility_bills b" + where(f)
	a := args(f)
	if propertyID != "" {
		query += " AND b.property_id = ?"
		a = append(a, propertyID)
	}
	query += " ORDER BY b.due_date DESC, b.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list utility bills: %w", err)
	}
	defer rows.Close()

	var out []*models.UtilityBill
	for rows.Next() {
		b, err := scanUtilityBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan utility bill: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateUtilityBillStatus sets the status of a bill.
func (s *SQLiteStore) UpdateUtilityBillStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, "utility bill", id, "UPDATE utility_bills SET status = ? WHERE id = ?", status, id)
}

// DeleteUtilityBill removes a bill.
func (s *SQLiteStore) DeleteUtilityBill(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM utility_bills WHERE id = ?", id)
	return deleted(res, err, "utility bill", id)
}

// UtilityStats aggregates the bills of a property per utility type.
func (s *SQLiteStore) UtilityStats(ctx context.Context, propertyID string) ([]models.UtilityStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, COUNT(*), SUM(amount), AVG(amount), MAX(due_date)
		FROM utility_bills
		WHERE property_id = ?
		GROUP BY type
		ORDER BY type
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute utility stats: %w", err)
	}
	defer rows.Close()

	var out []models.UtilityStat
	for rows.Next() {
		var st models.UtilityStat
		if err := rows.Scan(&st.Type, &st.Count, &st.Total, &st.Average, &st.LatestDueAt); err != nil {
			return nil, fmt.Errorf("failed to scan utility stat: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

const providerColumns = `pr.id, pr.property_id, pr.landlord_id, pr.provider_name, pr.utility_type,
	pr.username, pr.location_name, pr.created_at`

func scanProvider(row rowScanner) (*models.UtilityProvider, error) {
	p := &models.UtilityProvider{}
	err := row.Scan(&p.ID, &p.PropertyID, &p.LandlordID, &p.ProviderName, &p.UtilityType,
		&p.Username, &p.LocationName, &p.CreatedAt)
	return p, err
}

// CreateUtilityProvider inserts a utility provider account.
func (s *SQLiteStore) CreateUtilityProvider(ctx context.Context, p *models.UtilityProvider) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO utility_providers (id, property_id, landlord_id, provider_name, utility_type, username, location_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.PropertyID, p.LandlordID, p.ProviderName, p.UtilityType, p.Username, p.LocationName, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create utility provider: %w", err)
	}
	return nil
}

// GetUtilityProvider retrieves a provider by ID without scoping. Used by jobs.
func (s *SQLiteStore) GetUtilityProvider(ctx context.Context, id string) (*models.UtilityProvider, error) {
	p, err := scanProvider(s.db.QueryRowContext(ctx,
		"SELECT "+providerColumns+" FROM utility_providers pr WHERE pr.id = ?", id))
	if err != nil {
		return nil, notFound(err, "utility provider", id)
	}
	return p, nil
}

// ListUtilityProviders returns the providers visible to scope.
func (s *SQLiteStore) ListUtilityProviders(ctx context.Context, scope policy.Scope) ([]*models.UtilityProvider, error) {
	f := scope.Filter(policy.UtilityProviders, "pr")
	return s.queryProviders(ctx,
		"SELECT "+providerColumns+" FROM utility_providers pr"+where(f)+" ORDER BY pr.created_at",
		args(f)...)
}

// AllUtilityProviders returns every provider. Used by the scraping fan-out.
func (s *SQLiteStore) AllUtilityProviders(ctx context.Context) ([]*models.UtilityProvider, error) {
	return s.queryProviders(ctx, "SELECT "+providerColumns+" FROM utility_providers pr ORDER BY pr.created_at")
}

func (s *SQLiteStore) queryProviders(ctx context.Context, query string, a ...any) ([]*models.UtilityProvider, error) {
	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list utility providers: %w", err)
	}
	defer rows.Close()

	var out []*models.UtilityProvider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan utility provider: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
