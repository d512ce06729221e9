package model

import "time"

// ChatMessage is a directed message between two users.
type ChatMessage struct {
	ID          uint64    // chat_messages.id
	SenderID    uint64    // chat_messages.sender_id
	ReceiverID  uint64    // chat_messages.receiver_id
	Message     string    // chat_messages.message
	SentAt      time.Time // chat_messages.sent_at
	Active      bool      // chat_messages.active
	CreatedDate time.Time // chat_messages.created_date
	UpdatedDate time.Time // chat_messages.updated_date
}
