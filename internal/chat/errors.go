package chat

import "errors"

var (
	// ErrNotParticipant is returned when the caller is not a party of the conversation.
	ErrNotParticipant = errors.New("not a participant of this conversation")
	// ErrNotAuthor is returned when someone other than the sender deletes a message.
	ErrNotAuthor = errors.New("only the author can delete a message")
	// ErrInvalidCounterpart is returned when a landlord selects someone who is not a tenant.
	ErrInvalidCounterpart = errors.New("counterpart must be a tenant")
	// ErrInvalidTransition is returned for a status change that does not move forward.
	ErrInvalidTransition = errors.New("message status can only move forward")
)
