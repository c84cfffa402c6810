package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, role, currency, language,
	subscription_plan, subscription_status, stripe_customer_id, stripe_subscription_id,
	stripe_account_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.Role,
		&user.Currency,
		&user.Language,
		&user.SubscriptionPlan,
		&user.SubscriptionStatus,
		&user.StripeCustomerID,
		&user.StripeSubscriptionID,
		&user.StripeAccountID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.Role,
		user.Currency,
		user.Language,
		user.SubscriptionPlan,
		user.SubscriptionStatus,
		user.StripeCustomerID,
		user.StripeSubscriptionID,
		user.StripeAccountID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUnique(err) {
		return fmt.Errorf("user %s: %w", user.Email, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

// GetUserByStripeCustomer retrieves the user linked to a payment provider customer.
func (s *SQLiteStore) GetUserByStripeCustomer(ctx context.Context, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer id required: %w", storage.ErrNotFound)
	}
	user, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE stripe_customer_id = ?", customerID))
	if err != nil {
		return nil, notFound(err, "user for customer", customerID)
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Returns a map of user ID to User object.
// Users that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	query := "SELECT " + userColumns + " FROM users WHERE id IN (" + placeholders(len(ids)) + ")"

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateProfile saves the editable profile fields of a user.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UnixMilli()
	return s.execOne(ctx, "user", user.ID,
		`UPDATE users SET display_name = ?, currency = ?, language = ?, updated_at = ? WHERE id = ?`,
		user.DisplayName, user.Currency, user.Language, user.UpdatedAt, user.ID)
}

// UpdateSubscription stores the subscription fields reported by the payment provider.
// Empty customerID or subscriptionID leave the stored value unchanged.
func (s *SQLiteStore) UpdateSubscription(ctx context.Context, userID, plan, status, customerID, subscriptionID string) error {
	return s.execOne(ctx, "user", userID, `
		UPDATE users SET
			subscription_plan = ?,
			subscription_status = ?,
			stripe_customer_id = COALESCE(NULLIF(?, ''), stripe_customer_id),
			stripe_subscription_id = COALESCE(NULLIF(?, ''), stripe_subscription_id),
			updated_at = ?
		WHERE id = ?`,
		plan, status, customerID, subscriptionID, time.Now().UnixMilli(), userID)
}

// SetStripeAccount links a connected payout account to the user.
func (s *SQLiteStore) SetStripeAccount(ctx context.Context, userID, accountID string) error {
	return s.execOne(ctx, "user", userID,
		`UPDATE users SET stripe_account_id = ?, updated_at = ? WHERE id = ?`,
		accountID, time.Now().UnixMilli(), userID)
}
