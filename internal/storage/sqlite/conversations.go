package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
)

const conversationColumns = "id, landlord_id, tenant_id, created_at"

func scanConversation(row rowScanner) (*models.Conversation, error) {
	c := &models.Conversation{}
	err := row.Scan(&c.ID, &c.LandlordID, &c.TenantID, &c.CreatedAt)
	return c, err
}

// FindConversation returns the conversation between landlordID and tenantID.
func (s *SQLiteStore) FindConversation(ctx context.Context, landlordID, tenantID string) (*models.Conversation, error) {
	c, err := scanConversation(s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE landlord_id = ? AND tenant_id = ?",
		landlordID, tenantID))
	if err != nil {
		return nil, notFound(err, "conversation for", landlordID+"/"+tenantID)
	}
	return c, nil
}

// FindLatestConversationForTenant returns the most recently created conversation of tenantID.
func (s *SQLiteStore) FindLatestConversationForTenant(ctx context.Context, tenantID string) (*models.Conversation, error) {
	c, err := scanConversation(s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE tenant_id = ? ORDER BY created_at DESC, id DESC LIMIT 1",
		tenantID))
	if err != nil {
		return nil, notFound(err, "conversation for tenant", tenantID)
	}
	return c, nil
}

// EnsureConversation inserts the pair if absent and returns the stored row.
// Concurrent callers for the same pair all receive the same conversation.
func (s *SQLiteStore) EnsureConversation(ctx context.Context, landlordID, tenantID string) (*models.Conversation, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, landlord_id, tenant_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (landlord_id, tenant_id) DO NOTHING
	`, uuid.NewString(), landlordID, tenantID, time.Now().UnixMilli())
	if err != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}

	c, err := s.FindConversation(ctx, landlordID, tenantID)
	if err != nil {
		return nil, false, err
	}
	return c, n == 1, nil
}

// GetConversation retrieves a conversation by ID.
func (s *SQLiteStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	c, err := scanConversation(s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err, "conversation", id)
	}
	return c, nil
}

// ListConversations returns the conversations visible to scope with the
// counterpart's name, the last message and the viewer's unread count.
// Most recently active conversations come first.
func (s *SQLiteStore) ListConversations(ctx context.Context, scope policy.Scope) ([]models.ConversationSummary, error) {
	filter := scope.Filter(policy.Conversations, "c")
	query := `
		SELECT c.id, c.landlord_id, c.tenant_id, c.created_at,
			u.id, u.display_name,
			COALESCE((SELECT m.content FROM messages m WHERE m.conversation_id = c.id
				ORDER BY m.created_at DESC, m.id DESC LIMIT 1), ''),
			COALESCE((SELECT MAX(m.created_at) FROM messages m WHERE m.conversation_id = c.id), 0) AS last_at,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id
				AND m.sender_id <> ? AND m.status = 'sent')
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.landlord_id = ? THEN c.tenant_id ELSE c.landlord_id END
	` + where(filter) + `
		ORDER BY last_at DESC, c.created_at DESC
	`

	a := append([]any{scope.UserID, scope.UserID}, filter.Args...)
	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var out []models.ConversationSummary
	for rows.Next() {
		var cs models.ConversationSummary
		if err := rows.Scan(
			&cs.ID, &cs.LandlordID, &cs.TenantID, &cs.CreatedAt,
			&cs.CounterpartID, &cs.CounterpartName,
			&cs.LastMessage, &cs.LastMessageAt, &cs.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}
	return out, nil
}
