package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func setupConversation(t *testing.T, env *testEnv) (landlord, tenant testUser, conversationID string) {
	t.Helper()
	landlord = env.register(t, "landlord@example.com", "Landlord", "landlord")
	tenant = env.register(t, "tenant@example.com", "Tenant", "tenant")

	resp, err := env.chat.ResolveConversation(context.Background(), as(landlord, &api.ResolveConversationRequest{
		CounterpartID: tenant.ID,
	}))
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if resp.Msg.ConversationID == "" {
		t.Fatal("expected landlord to get a conversation")
	}
	return landlord, tenant, resp.Msg.ConversationID
}

func TestResolveConversation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	landlord := env.register(t, "landlord@example.com", "Landlord", "landlord")
	tenant := env.register(t, "tenant@example.com", "Tenant", "tenant")
	other := env.register(t, "other@example.com", "Other", "landlord")

	// A tenant never creates a conversation.
	resp, err := env.chat.ResolveConversation(ctx, as(tenant, &api.ResolveConversationRequest{}))
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if resp.Msg.ConversationID != "" {
		t.Fatalf("expected no conversation for tenant yet, got %s", resp.Msg.ConversationID)
	}

	first, err := env.chat.ResolveConversation(ctx, as(landlord, &api.ResolveConversationRequest{CounterpartID: tenant.ID}))
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	again, err := env.chat.ResolveConversation(ctx, as(landlord, &api.ResolveConversationRequest{CounterpartID: tenant.ID}))
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if first.Msg.ConversationID != again.Msg.ConversationID {
		t.Errorf("expected the same conversation, got %s and %s", first.Msg.ConversationID, again.Msg.ConversationID)
	}

	fromTenant, err := env.chat.ResolveConversation(ctx, as(tenant, &api.ResolveConversationRequest{}))
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if fromTenant.Msg.ConversationID != first.Msg.ConversationID {
		t.Errorf("tenant resolved %s, expected %s", fromTenant.Msg.ConversationID, first.Msg.ConversationID)
	}

	_, err = env.chat.ResolveConversation(ctx, as(landlord, &api.ResolveConversationRequest{CounterpartID: other.ID}))
	assertCode(t, err, connect.CodeInvalidArgument)

	none, err := env.chat.ResolveConversation(ctx, as(landlord, &api.ResolveConversationRequest{}))
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if none.Msg.ConversationID != "" {
		t.Errorf("expected no conversation without counterpart, got %s", none.Msg.ConversationID)
	}
}

func TestSendAndUnread(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord, tenant, convID := setupConversation(t, env)

	for _, content := range []string{"Rent is due Friday", "  Also the boiler check  "} {
		if _, err := env.chat.SendMessage(ctx, as(landlord, &api.SendMessageRequest{
			ConversationID: convID,
			Content:        content,
		})); err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
	}

	blank, err := env.chat.SendMessage(ctx, as(landlord, &api.SendMessageRequest{ConversationID: convID, Content: "   "}))
	if err != nil {
		t.Fatalf("SendMessage with blank content failed: %v", err)
	}
	if blank.Msg.Message != nil {
		t.Error("expected no message for blank content")
	}

	list, err := env.chat.ListMessages(ctx, as(tenant, &api.ListMessagesRequest{ConversationID: convID}))
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(list.Msg.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(list.Msg.Messages))
	}
	if list.Msg.Messages[0].Content != "Rent is due Friday" {
		t.Errorf("expected oldest message first, got %q", list.Msg.Messages[0].Content)
	}
	if list.Msg.Messages[0].SenderName != "Landlord" {
		t.Errorf("sender name: expected Landlord, got %q", list.Msg.Messages[0].SenderName)
	}

	unread, err := env.chat.UnreadCount(ctx, as(tenant, &api.UnreadCountRequest{ConversationID: convID}))
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread.Msg.Count != 2 {
		t.Errorf("tenant unread: expected 2, got %d", unread.Msg.Count)
	}

	own, err := env.chat.UnreadCount(ctx, as(landlord, &api.UnreadCountRequest{ConversationID: convID}))
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if own.Msg.Count != 0 {
		t.Errorf("own messages are never unread, got %d", own.Msg.Count)
	}

	marked, err := env.chat.MarkConversationRead(ctx, as(tenant, &api.MarkConversationReadRequest{ConversationID: convID}))
	if err != nil {
		t.Fatalf("MarkConversationRead failed: %v", err)
	}
	if marked.Msg.Updated != 2 {
		t.Errorf("expected 2 messages marked read, got %d", marked.Msg.Updated)
	}

	unread, err = env.chat.UnreadCount(ctx, as(tenant, &api.UnreadCountRequest{ConversationID: convID}))
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread.Msg.Count != 0 {
		t.Errorf("tenant unread after reading: expected 0, got %d", unread.Msg.Count)
	}

	convs, err := env.chat.ListConversations(ctx, as(tenant, &api.ListConversationsRequest{}))
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(convs.Msg.Conversations) != 1 || convs.Msg.Conversations[0].CounterpartName != "Landlord" {
		t.Errorf("unexpected conversations: %+v", convs.Msg.Conversations)
	}
}

func TestMessageStatusMovesForward(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord, tenant, convID := setupConversation(t, env)

	sent, err := env.chat.SendMessage(ctx, as(tenant, &api.SendMessageRequest{ConversationID: convID, Content: "Tap is leaking"}))
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	id := sent.Msg.Message.ID
	if sent.Msg.Message.Status != "sent" {
		t.Errorf("status: expected sent, got %q", sent.Msg.Message.Status)
	}

	// The sender cannot acknowledge its own message.
	_, err = env.chat.UpdateMessageStatus(ctx, as(tenant, &api.UpdateMessageStatusRequest{ID: id, Status: "read"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	read, err := env.chat.UpdateMessageStatus(ctx, as(landlord, &api.UpdateMessageStatusRequest{ID: id, Status: "read"}))
	if err != nil {
		t.Fatalf("UpdateMessageStatus failed: %v", err)
	}
	if read.Msg.Message.Status != "read" {
		t.Errorf("status: expected read, got %q", read.Msg.Message.Status)
	}

	_, err = env.chat.UpdateMessageStatus(ctx, as(landlord, &api.UpdateMessageStatusRequest{ID: id, Status: "delivered"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestChatPermissions(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	landlord, _, convID := setupConversation(t, env)
	outsider := env.register(t, "outsider@example.com", "Outsider", "tenant")

	sent, err := env.chat.SendMessage(ctx, as(landlord, &api.SendMessageRequest{ConversationID: convID, Content: "Private"}))
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	_, err = env.chat.ListMessages(ctx, as(outsider, &api.ListMessagesRequest{ConversationID: convID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.chat.SendMessage(ctx, as(outsider, &api.SendMessageRequest{ConversationID: convID, Content: "Hi"}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.chat.GetMessage(ctx, as(outsider, &api.GetMessageRequest{ID: sent.Msg.Message.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.chat.ListMessages(ctx, connect.NewRequest(&api.ListMessagesRequest{ConversationID: convID}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	env := setupTestServer(t)
	landlord, tenant, convID := setupConversation(t, env)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stream, err := env.chat.Subscribe(ctx, as(tenant, &api.SubscribeRequest{ConversationID: convID}))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer stream.Close()

	next := func() *api.MessageEvent {
		t.Helper()
		if !stream.Receive() {
			t.Fatalf("stream ended: %v", stream.Err())
		}
		return stream.Msg()
	}

	if evt := next(); evt.Kind != api.ChangeReady {
		t.Fatalf("expected READY first, got %s", evt.Kind)
	}

	sent, err := env.chat.SendMessage(ctx, as(landlord, &api.SendMessageRequest{ConversationID: convID, Content: "Keys are under the mat"}))
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	evt := next()
	if evt.Kind != api.ChangeInsert {
		t.Fatalf("expected INSERT, got %s", evt.Kind)
	}
	if evt.Message.ID != sent.Msg.Message.ID || evt.Message.Content != "Keys are under the mat" {
		t.Errorf("unexpected inserted message: %+v", evt.Message)
	}
	if evt.Timestamp == 0 {
		t.Error("expected event timestamp")
	}

	if _, err := env.chat.DeleteMessage(ctx, as(landlord, &api.DeleteMessageRequest{ID: sent.Msg.Message.ID})); err != nil {
		t.Fatalf("DeleteMessage failed: %v", err)
	}

	evt = next()
	if evt.Kind != api.ChangeDelete {
		t.Fatalf("expected DELETE, got %s", evt.Kind)
	}
	if evt.Message.ID != sent.Msg.Message.ID {
		t.Errorf("deleted id: expected %s, got %s", sent.Msg.Message.ID, evt.Message.ID)
	}
}

func TestSubscribeRejectsOutsider(t *testing.T) {
	env := setupTestServer(t)
	_, _, convID := setupConversation(t, env)
	outsider := env.register(t, "outsider@example.com", "Outsider", "tenant")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := env.chat.Subscribe(ctx, as(outsider, &api.SubscribeRequest{ConversationID: convID}))
	if err != nil {
		assertCode(t, err, connect.CodePermissionDenied)
		return
	}
	defer stream.Close()
	if stream.Receive() {
		t.Fatalf("expected no events, got %+v", stream.Msg())
	}
	assertCode(t, stream.Err(), connect.CodePermissionDenied)
}
