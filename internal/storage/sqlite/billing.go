package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
)

const invoiceColumns = `i.id, i.property_id, i.landlord_id, i.tenant_id, i.amount, i.currency,
	i.due_date, i.status, i.paid_at, i.created_at`

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	i := &models.Invoice{}
	err := row.Scan(&i.ID, &i.PropertyID, &i.LandlordID, &i.TenantID, &i.Amount, &i.Currency,
		&i.DueDate, &i.Status, &i.PaidAt, &i.CreatedAt)
	return i, err
}

// CreateInvoice inserts an invoice.
func (s *SQLiteStore) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, property_id, landlord_id, tenant_id, amount, currency, due_date, status, paid_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.PropertyID, inv.LandlordID, inv.TenantID, inv.Amount, inv.Currency,
		inv.DueDate, inv.Status, inv.PaidAt, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetInvoice retrieves an invoice visible to scope.
func (s *SQLiteStore) GetInvoice(ctx context.Context, scope policy.Scope, id string) (*models.Invoice, error) {
	f := scope.Filter(policy.Invoices, "i")
	inv, err := scanInvoice(s.db.QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices i"+where(f, "i.id = ?"),
		args(f, id)...))
	if err != nil {
		return nil, notFound(err, "invoice", id)
	}
	return inv, nil
}

// ListInvoices returns the invoices visible to scope ordered by due date.
func (s *SQLiteStore) ListInvoices(ctx context.Context, scope policy.Scope, status string) ([]*models.Invoice, error) {
	f := scope.Filter(policy.Invoices, "i")
	query := "SELECT " + invoiceColumns + " FROM invoices i" + where(f)
	a := args(f)
	if status != "" {
		query += " AND i.status = ?"
		a = append(a, status)
	}
	query += " ORDER BY i.due_date DESC, i.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var out []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// UpdateInvoiceStatus sets the status of an invoice. Moving to paid stamps paid_at.
func (s *SQLiteStore) UpdateInvoiceStatus(ctx context.Context, id, status string) error {
	var paidAt int64
	if status == models.InvoicePaid {
		paidAt = time.Now().UnixMilli()
	}
	return s.execOne(ctx, "invoice", id,
		"UPDATE invoices SET status = ?, paid_at = ? WHERE id = ?", status, paidAt, id)
}

// DeleteInvoice removes an invoice and its payments.
func (s *SQLiteStore) DeleteInvoice(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	return deleted(res, err, "invoice", id)
}

const paymentColumns = `p.id, p.invoice_id, p.tenant_id, p.amount, p.currency, p.status,
	p.checkout_session_id, p.paid_at, p.created_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.InvoiceID, &p.TenantID, &p.Amount, &p.Currency, &p.Status,
		&p.CheckoutSessionID, &p.PaidAt, &p.CreatedAt)
	return p, err
}

// CreatePayment inserts a payment.
func (s *SQLiteStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, invoice_id, tenant_id, amount, currency, status, checkout_session_id, paid_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.InvoiceID, p.TenantID, p.Amount, p.Currency, p.Status, p.CheckoutSessionID, p.PaidAt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// ListPayments returns the payments visible to scope, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, scope policy.Scope) ([]*models.Payment, error) {
	f := scope.Filter(policy.Payments, "p")
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments p"+where(f)+" ORDER BY p.created_at DESC",
		args(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CompletePayment marks the payment created for a checkout session as
// completed and its invoice as paid. Completing twice is a no-op.
func (s *SQLiteStore) CompletePayment(ctx context.Context, checkoutSessionID string) (*models.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments p WHERE p.checkout_session_id = ?", checkoutSessionID))
	if err != nil {
		return nil, notFound(err, "payment for session", checkoutSessionID)
	}
	if p.Status == models.PaymentCompleted {
		return p, nil
	}

	now := time.Now().UnixMilli()
	if _, err := tx.ExecContext(ctx,
		"UPDATE payments SET status = ?, paid_at = ? WHERE id = ?",
		models.PaymentCompleted, now, p.ID); err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE invoices SET status = ?, paid_at = ? WHERE id = ?",
		models.InvoicePaid, now, p.InvoiceID); err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.Status = models.PaymentCompleted
	p.PaidAt = now
	return p, nil
}
