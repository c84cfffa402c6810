package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

const messageSelect = `
	SELECT m.id, m.conversation_id, m.sender_id, COALESCE(u.display_name, ''),
		m.content, m.status, m.read, m.created_at, m.updated_at
	FROM messages m
	LEFT JOIN users u ON u.id = m.sender_id
`

func scanMessage(row rowScanner) (*models.Message, error) {
	m := &models.Message{}
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.SenderName,
		&m.Content, &m.Status, &m.Read, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// InsertMessage stores a new message.
func (s *SQLiteStore) InsertMessage(ctx context.Context, msg *models.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, content, status, read, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, msg.SenderID, msg.Content, msg.Status, msg.Read, msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// GetMessage retrieves a message with its sender's display name.
func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	m, err := scanMessage(s.db.QueryRowContext(ctx, messageSelect+" WHERE m.id = ?", id))
	if err != nil {
		return nil, notFound(err, "message", id)
	}
	return m, nil
}

// ListMessages returns the messages of a conversation, oldest first.
// Messages created in the same millisecond are ordered by ID.
func (s *SQLiteStore) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		messageSelect+" WHERE m.conversation_id = ? ORDER BY m.created_at ASC, m.id ASC",
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return out, nil
}

// UpdateMessageStatus sets the delivery status. Setting "read" also sets the read flag.
func (s *SQLiteStore) UpdateMessageStatus(ctx context.Context, id string, status models.MessageStatus) error {
	return s.execOne(ctx, "message", id, `
		UPDATE messages SET status = ?, read = (read OR ?), updated_at = ? WHERE id = ?
	`, status, status == models.MessageRead, time.Now().UnixMilli(), id)
}

// MarkConversationRead marks the messages viewerID received as read.
func (s *SQLiteStore) MarkConversationRead(ctx context.Context, conversationID, viewerID string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM messages
		WHERE conversation_id = ? AND sender_id <> ? AND status <> 'read'
		ORDER BY created_at, id
	`, conversationID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select unread messages: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan message id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	a := []any{time.Now().UnixMilli()}
	for _, id := range ids {
		a = append(a, id)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE messages SET status = 'read', read = 1, updated_at = ? WHERE id IN ("+placeholders(len(ids))+")",
		a...); err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, nil
}

// DeleteMessage removes a message.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	return deleted(res, err, "message", id)
}

// CountUnread counts the messages in a conversation sent by the other party
// that are still in the "sent" state.
func (s *SQLiteStore) CountUnread(ctx context.Context, conversationID, viewerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE conversation_id = ? AND sender_id <> ? AND status = 'sent'
	`, conversationID, viewerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}

// deleted checks the result of a DELETE by primary key.
func deleted(res sql.Result, err error, what, id string) error {
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}
