package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected:
		return true
	default:
		return false
	}
}

type Connection struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Business1ID uuid.UUID        `json:"business1_id" db:"business1_id"`
	Business2ID uuid.UUID        `json:"business2_id" db:"business2_id"`
	Status      ConnectionStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`

	Business1 *Business `json:"business1,omitempty" db:"-"`
	Business2 *Business `json:"business2,omitempty" db:"-"`
}

func (c *Connection) IsParticipant(businessID uuid.UUID) bool {
	return c.Business1ID == businessID || c.Business2ID == businessID
}

type CreateConnectionInput struct {
	Business1ID *uuid.UUID `json:"business1_id"`
	Business2ID uuid.UUID  `json:"business2_id" validate:"required"`
}

type UpdateConnectionInput struct {
	Status ConnectionStatus `json:"status" validate:"required,oneof=pending accepted rejected"`
}
