package domain

import (
	"time"

	"github.com/google/uuid"
)

const MaxConversationLimit = 500

type Message struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SenderID   uuid.UUID `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type SendMessageInput struct {
	SenderID   *uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id" validate:"required"`
	Content    string     `json:"content" validate:"required,max=5000"`
}

// ConversationQuery selects messages exchanged between two businesses in
// either direction. A zero Limit returns the whole conversation.
type ConversationQuery struct {
	Business1 uuid.UUID
	Business2 uuid.UUID
	Limit     int
}
