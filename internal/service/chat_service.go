package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/chat"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/metrics"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

var _ apiconnect.ChatServiceHandler = (*ChatService)(nil)

var errSubscriberLagging = errors.New("subscriber fell behind; reload the conversation")

// ChatService exposes one-to-one landlord/tenant chat.
type ChatService struct {
	chat *chat.Service
}

// NewChatService creates a new ChatService.
func NewChatService(c *chat.Service) *ChatService {
	return &ChatService{chat: c}
}

// ResolveConversation returns the conversation the caller should open, creating
// it for a landlord talking to a tenant for the first time.
func (s *ChatService) ResolveConversation(ctx context.Context, req *connect.Request[api.ResolveConversationRequest]) (*connect.Response[api.ResolveConversationResponse], error) {
	scope := middleware.Scope(ctx)
	slog.Info("ResolveConversation request received", "user_id", scope.UserID, "counterpart_id", req.Msg.CounterpartID)

	conv, err := s.chat.Resolve(ctx, scope, req.Msg.CounterpartID)
	if err != nil {
		slog.Error("ResolveConversation failed", "user_id", scope.UserID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ResolveConversationResponse{}
	if conv != nil {
		resp.ConversationID = conv.ID
	}
	return connect.NewResponse(resp), nil
}

// ListConversations lists the caller's conversations, most recent first.
func (s *ChatService) ListConversations(ctx context.Context, req *connect.Request[api.ListConversationsRequest]) (*connect.Response[api.ListConversationsResponse], error) {
	scope := middleware.Scope(ctx)
	convs, err := s.chat.Conversations(ctx, scope)
	if err != nil {
		slog.Error("ListConversations failed", "user_id", scope.UserID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Conversation, len(convs))
	for i := range convs {
		out[i] = toAPIConversation(&convs[i])
	}
	return connect.NewResponse(&api.ListConversationsResponse{Conversations: out}), nil
}

// ListMessages returns the full history of a conversation, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	scope := middleware.Scope(ctx)

	msgs, err := s.chat.Messages(ctx, scope, req.Msg.ConversationID)
	if err != nil {
		slog.Error("ListMessages failed", "conversation_id", req.Msg.ConversationID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Message, len(msgs))
	for i := range msgs {
		out[i] = toAPIMessage(&msgs[i])
	}
	slog.Debug("ListMessages successful", "conversation_id", req.Msg.ConversationID, "count", len(out))
	return connect.NewResponse(&api.ListMessagesResponse{Messages: out}), nil
}

// GetMessage returns one message with its sender's name.
func (s *ChatService) GetMessage(ctx context.Context, req *connect.Request[api.GetMessageRequest]) (*connect.Response[api.GetMessageResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	msg, err := s.chat.Message(ctx, middleware.Scope(ctx), req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetMessageResponse{Message: toAPIMessage(msg)}), nil
}

// SendMessage stores a message from the caller. Blank content is ignored and
// the response carries no message.
func (s *ChatService) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	scope := middleware.Scope(ctx)

	msg, err := s.chat.Send(ctx, scope, req.Msg.ConversationID, req.Msg.Content)
	if err != nil {
		slog.Error("SendMessage failed", "conversation_id", req.Msg.ConversationID, "user_id", scope.UserID, "error", err)
		return nil, toConnectError(err)
	}
	if msg == nil {
		return connect.NewResponse(&api.SendMessageResponse{}), nil
	}

	slog.Info("Message sent", "message_id", msg.ID, "conversation_id", msg.ConversationID)
	return connect.NewResponse(&api.SendMessageResponse{Message: toAPIMessage(msg)}), nil
}

// UpdateMessageStatus moves a received message forward to delivered or read.
func (s *ChatService) UpdateMessageStatus(ctx context.Context, req *connect.Request[api.UpdateMessageStatusRequest]) (*connect.Response[api.UpdateMessageStatusResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	msg, err := s.chat.UpdateStatus(ctx, middleware.Scope(ctx), req.Msg.ID, models.MessageStatus(req.Msg.Status))
	if err != nil {
		slog.Warn("UpdateMessageStatus failed", "message_id", req.Msg.ID, "status", req.Msg.Status, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateMessageStatusResponse{Message: toAPIMessage(msg)}), nil
}

// MarkConversationRead marks everything the caller received as read.
func (s *ChatService) MarkConversationRead(ctx context.Context, req *connect.Request[api.MarkConversationReadRequest]) (*connect.Response[api.MarkConversationReadResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	n, err := s.chat.MarkRead(ctx, middleware.Scope(ctx), req.Msg.ConversationID)
	if err != nil {
		slog.Error("MarkConversationRead failed", "conversation_id", req.Msg.ConversationID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.MarkConversationReadResponse{Updated: n}), nil
}

// DeleteMessage removes a message written by the caller.
func (s *ChatService) DeleteMessage(ctx context.Context, req *connect.Request[api.DeleteMessageRequest]) (*connect.Response[api.DeleteMessageResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	scope := middleware.Scope(ctx)
	slog.Info("DeleteMessage request received", "message_id", req.Msg.ID, "user_id", scope.UserID)

	if err := s.chat.Delete(ctx, scope, req.Msg.ID); err != nil {
		slog.Warn("DeleteMessage failed", "message_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteMessageResponse{}), nil
}

// UnreadCount counts the messages the caller received that are still "sent".
func (s *ChatService) UnreadCount(ctx context.Context, req *connect.Request[api.UnreadCountRequest]) (*connect.Response[api.UnreadCountResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	n, err := s.chat.Unread(ctx, middleware.Scope(ctx), req.Msg.ConversationID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UnreadCountResponse{Count: n}), nil
}

// Subscribe streams message changes of a conversation until the client goes
// away. If the client cannot keep up the stream ends with Aborted and the
// client is expected to reload the history.
func (s *ChatService) Subscribe(ctx context.Context, req *connect.Request[api.SubscribeRequest], stream *connect.ServerStream[api.MessageEvent]) error {
	if err := validateRequest(req.Msg); err != nil {
		return err
	}
	scope := middleware.Scope(ctx)

	events, cancel, err := s.chat.Subscribe(ctx, scope, req.Msg.ConversationID)
	if err != nil {
		slog.Warn("Subscribe failed", "conversation_id", req.Msg.ConversationID, "user_id", scope.UserID, "error", err)
		return toConnectError(err)
	}
	defer cancel()

	metrics.ChatSubscriptions.Inc()
	defer metrics.ChatSubscriptions.Dec()
	slog.Info("Chat subscription opened", "conversation_id", req.Msg.ConversationID, "user_id", scope.UserID)

	if err := stream.Send(&api.MessageEvent{Kind: api.ChangeReady}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Chat subscription closed", "conversation_id", req.Msg.ConversationID, "user_id", scope.UserID)
			return nil
		case evt, ok := <-events:
			if !ok {
				slog.Warn("Chat subscriber fell behind", "conversation_id", req.Msg.ConversationID, "user_id", scope.UserID)
				return connect.NewError(connect.CodeAborted, errSubscriberLagging)
			}
			change, ok := evt.Payload.(chat.Change)
			if !ok {
				continue
			}
			if err := stream.Send(&api.MessageEvent{
				Kind:      change.Kind,
				Message:   toAPIMessage(&change.Message),
				Timestamp: evt.Timestamp.UnixMilli(),
			}); err != nil {
				return err
			}
		}
	}
}
