package api

// Message is a chat message with its sender's display name.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName,omitempty"`
	Content        string `json:"content"`
	Status         string `json:"status"`
	Read           bool   `json:"read"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
}

// Conversation is a chat thread as listed for one participant.
type Conversation struct {
	ID              string `json:"id"`
	LandlordID      string `json:"landlordId"`
	TenantID        string `json:"tenantId"`
	CounterpartID   string `json:"counterpartId"`
	CounterpartName string `json:"counterpartName"`
	LastMessage     string `json:"lastMessage,omitempty"`
	LastMessageAt   int64  `json:"lastMessageAt,omitempty"`
	UnreadCount     int    `json:"unreadCount"`
	CreatedAt       int64  `json:"createdAt"`
}

// ResolveConversationRequest asks for the conversation of the caller. A
// landlord names the tenant; a tenant may leave it empty.
type ResolveConversationRequest struct {
	CounterpartID string `json:"counterpartId,omitempty"`
}

// ResolveConversationResponse has an empty ConversationID when there is no
// conversation to open.
type ResolveConversationResponse struct {
	ConversationID string `json:"conversationId,omitempty"`
}

type ListConversationsRequest struct{}

type ListConversationsResponse struct {
	Conversations []*Conversation `json:"conversations"`
}

type ListMessagesRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
}

type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

type GetMessageRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetMessageResponse struct {
	Message *Message `json:"message"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	Content        string `json:"content" validate:"max=4000"`
}

// SendMessageResponse has a nil Message when the content was blank.
type SendMessageResponse struct {
	Message *Message `json:"message,omitempty"`
}

type UpdateMessageStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=delivered read"`
}

type UpdateMessageStatusResponse struct {
	Message *Message `json:"message"`
}

type MarkConversationReadRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
}

type MarkConversationReadResponse struct {
	Updated int `json:"updated"`
}

type DeleteMessageRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteMessageResponse struct{}

type UnreadCountRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type SubscribeRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
}

// Change kinds pushed on a conversation stream.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"

	// ChangeReady is sent once when the subscription is live. It carries no message.
	ChangeReady = "READY"
)

// MessageEvent is one row change of a conversation. A DELETE carries only
// the message and conversation ids.
type MessageEvent struct {
	Kind      string   `json:"kind"`
	Message   *Message `json:"message"`
	Timestamp int64    `json:"timestamp"`
}
