package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	BusinessID uuid.UUID        `json:"business_id" db:"business_id"`
	Type       NotificationType `json:"type" db:"type"`
	Message    string           `json:"message" db:"message"`
	Read       bool             `json:"read" db:"read"`
	ReadAt     *time.Time       `json:"read_at,omitempty" db:"read_at"`
	Metadata   json.RawMessage  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifNewOrder          NotificationType = "new_order"
	NotifOrderUpdate       NotificationType = "order_update"
	NotifConnectionRequest NotificationType = "connection_request"
	NotifConnectionUpdate  NotificationType = "connection_update"
	NotifNewMessage        NotificationType = "new_message"
	NotifNewReview         NotificationType = "new_review"
)

type NotificationFilter struct {
	Read *bool
}
