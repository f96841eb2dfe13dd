package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a pending notification written in the same transaction as
// the entity change that caused it. The dispatcher turns it into a
// Notification with the same ID.
type OutboxEvent struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	BusinessID   uuid.UUID        `json:"business_id" db:"business_id"`
	Type         NotificationType `json:"type" db:"type"`
	Message      string           `json:"message" db:"message"`
	Metadata     json.RawMessage  `json:"metadata" db:"metadata"`
	Attempts     int              `json:"attempts" db:"attempts"`
	LastError    *string          `json:"last_error,omitempty" db:"last_error"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	DispatchedAt *time.Time       `json:"dispatched_at,omitempty" db:"dispatched_at"`
}

func NewOutboxEvent(recipient uuid.UUID, notifType NotificationType, message string, metadata map[string]string) *OutboxEvent {
	data, _ := json.Marshal(metadata)
	return &OutboxEvent{
		ID:         uuid.New(),
		BusinessID: recipient,
		Type:       notifType,
		Message:    message,
		Metadata:   data,
	}
}

func (e *OutboxEvent) Notification() *Notification {
	return &Notification{
		ID:         e.ID,
		BusinessID: e.BusinessID,
		Type:       e.Type,
		Message:    e.Message,
		Metadata:   e.Metadata,
	}
}
