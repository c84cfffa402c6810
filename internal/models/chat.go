package models

// Conversation is the single chat thread between one landlord and one tenant.
// The (LandlordID, TenantID) pair is unique.
type Conversation struct {
	ID         string
	LandlordID string
	TenantID   string
	CreatedAt  int64
}

// Counterpart returns the other party of the conversation for userID.
func (c *Conversation) Counterpart(userID string) string {
	if c.LandlordID == userID {
		return c.TenantID
	}
	return c.LandlordID
}

// HasParticipant reports whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.LandlordID == userID || c.TenantID == userID
}

// MessageStatus is the delivery state of a message.
// It only moves forward: sent -> delivered -> read.
type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
)

func (s MessageStatus) rank() int {
	switch s {
	case MessageSent:
		return 1
	case MessageDelivered:
		return 2
	case MessageRead:
		return 3
	}
	return 0
}

// Valid reports whether s is a known status.
func (s MessageStatus) Valid() bool { return s.rank() > 0 }

// CanAdvanceTo reports whether moving from s to next is a forward transition.
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	return next.Valid() && next.rank() > s.rank()
}

// Message belongs to exactly one conversation.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string

	// SenderName is filled when the message is loaded with sender details.
	SenderName string

	Content   string
	Status    MessageStatus
	Read      bool
	CreatedAt int64
	UpdatedAt int64
}

// ConversationSummary is a conversation as listed for one of its participants.
type ConversationSummary struct {
	Conversation
	CounterpartID   string
	CounterpartName string
	LastMessage     string
	LastMessageAt   int64
	UnreadCount     int
}
