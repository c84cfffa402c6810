package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/bus"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

// subscriptionBuffer is the number of changes a live view may fall behind
// before it is dropped and has to reload.
const subscriptionBuffer = 64

// Change is the payload of a message event. For DELETE only the IDs are set.
type Change struct {
	Kind    string
	Message models.Message
}

// Topic is the bus topic carrying message changes of a conversation.
func Topic(conversationID string) string {
	return "conversation/" + conversationID + "/messages"
}

// Service implements the chat operations on behalf of a scoped caller.
type Service struct {
	store    Store
	bus      *bus.Bus
	resolver *Resolver
}

// NewService creates a chat Service publishing changes on b.
func NewService(store Store, b *bus.Bus) *Service {
	return &Service{store: store, bus: b, resolver: NewResolver(store)}
}

// Resolve returns the conversation for the caller and counterpart. See Resolver.Resolve.
func (s *Service) Resolve(ctx context.Context, scope policy.Scope, counterpartID string) (*models.Conversation, error) {
	return s.resolver.Resolve(ctx, scope, counterpartID)
}

// Conversations lists the caller's conversations.
func (s *Service) Conversations(ctx context.Context, scope policy.Scope) ([]models.ConversationSummary, error) {
	return s.store.ListConversations(ctx, scope)
}

// conversation loads a conversation and checks the caller takes part in it.
func (s *Service) conversation(ctx context.Context, scope policy.Scope, id string) (*models.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(scope.UserID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// Messages returns the conversation history, oldest first.
func (s *Service) Messages(ctx context.Context, scope policy.Scope, conversationID string) ([]models.Message, error) {
	if _, err := s.conversation(ctx, scope, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}

// Message returns one message with its sender's name.
func (s *Service) Message(ctx context.Context, scope policy.Scope, id string) (*models.Message, error) {
	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.conversation(ctx, scope, msg.ConversationID); err != nil {
		return nil, err
	}
	return msg, nil
}

// Send stores a new message from the caller with status "sent" and returns it.
// Content is trimmed; whitespace-only content stores nothing and returns nil.
func (s *Service) Send(ctx context.Context, scope policy.Scope, conversationID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	if _, err := s.conversation(ctx, scope, conversationID); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	msg := &models.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		SenderID:       scope.UserID,
		Content:        content,
		Status:         models.MessageSent,
		Read:           false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	stored, err := s.store.GetMessage(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	s.publish(bus.KindInsert, *stored)
	return stored, nil
}

// UpdateStatus advances the delivery status of a message the caller received.
func (s *Service) UpdateStatus(ctx context.Context, scope policy.Scope, id string, status models.MessageStatus) (*models.Message, error) {
	msg, err := s.Message(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if msg.SenderID == scope.UserID {
		return nil, fmt.Errorf("%w: sender cannot acknowledge own message", ErrInvalidTransition)
	}
	if !msg.Status.CanAdvanceTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, msg.Status, status)
	}

	if err := s.store.UpdateMessageStatus(ctx, id, status); err != nil {
		return nil, err
	}
	updated, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(bus.KindUpdate, *updated)
	return updated, nil
}

// MarkRead marks every message the caller received in a conversation as read
// and returns how many changed.
func (s *Service) MarkRead(ctx context.Context, scope policy.Scope, conversationID string) (int, error) {
	if _, err := s.conversation(ctx, scope, conversationID); err != nil {
		return 0, err
	}
	ids, err := s.store.MarkConversationRead(ctx, conversationID, scope.UserID)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		msg, err := s.store.GetMessage(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		s.publish(bus.KindUpdate, *msg)
	}
	return len(ids), nil
}

// Delete removes a message authored by the caller.
func (s *Service) Delete(ctx context.Context, scope policy.Scope, id string) error {
	msg, err := s.Message(ctx, scope, id)
	if err != nil {
		return err
	}
	if msg.SenderID != scope.UserID {
		return ErrNotAuthor
	}
	if err := s.store.DeleteMessage(ctx, id); err != nil {
		return err
	}
	s.publish(bus.KindDelete, models.Message{ID: msg.ID, ConversationID: msg.ConversationID})
	return nil
}

// Unread counts the messages the caller received that are still "sent".
func (s *Service) Unread(ctx context.Context, scope policy.Scope, conversationID string) (int, error) {
	if _, err := s.conversation(ctx, scope, conversationID); err != nil {
		return 0, err
	}
	return s.store.CountUnread(ctx, conversationID, scope.UserID)
}

// Subscribe opens a change feed for a conversation. The returned function
// must be called to release it. The channel closes if the consumer falls behind.
func (s *Service) Subscribe(ctx context.Context, scope policy.Scope, conversationID string) (<-chan bus.Event, func(), error) {
	if _, err := s.conversation(ctx, scope, conversationID); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.bus.Subscribe(Topic(conversationID), subscriptionBuffer)
	return ch, cancel, nil
}

func (s *Service) publish(kind string, msg models.Message) {
	n := s.bus.Publish(bus.Event{
		Topic:   Topic(msg.ConversationID),
		Kind:    kind,
		Payload: Change{Kind: kind, Message: msg},
	})
	slog.Debug("Message change published",
		"kind", kind,
		"message_id", msg.ID,
		"conversation_id", msg.ConversationID,
		"subscribers", n,
	)
}
