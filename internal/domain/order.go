package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderCompleted, OrderCancelled},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	BuyerID          uuid.UUID   `json:"buyer_id" db:"buyer_id"`
	SupplierID       uuid.UUID   `json:"supplier_id" db:"supplier_id"`
	ProductID        uuid.UUID   `json:"product_id" db:"product_id"`
	Quantity         int         `json:"quantity" db:"quantity"`
	Status           OrderStatus `json:"status" db:"status"`
	VerificationCode string      `json:"verification_code,omitempty" db:"verification_code"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`

	Buyer    *Business `json:"buyer,omitempty" db:"-"`
	Supplier *Business `json:"supplier,omitempty" db:"-"`
	Product  *Product  `json:"product,omitempty" db:"-"`
}

func (o *Order) IsParticipant(businessID uuid.UUID) bool {
	return o.BuyerID == businessID || o.SupplierID == businessID
}

// RedactFor hides the verification code from everyone but the buyer, who
// presents it to the supplier at hand-over.
func (o *Order) RedactFor(viewerID uuid.UUID) {
	if o.BuyerID != viewerID {
		o.VerificationCode = ""
	}
}

type OrderRole string

const (
	RoleBuyer    OrderRole = "buyer"
	RoleSupplier OrderRole = "supplier"
)

type CreateOrderInput struct {
	BuyerID          *uuid.UUID `json:"buyer_id"`
	SupplierID       uuid.UUID  `json:"supplier_id" validate:"required"`
	ProductID        uuid.UUID  `json:"product_id" validate:"required"`
	Quantity         int        `json:"quantity" validate:"required,gt=0"`
	VerificationCode string     `json:"verification_code" validate:"omitempty,min=4,max=64"`
}

type UpdateOrderStatusInput struct {
	Status           OrderStatus `json:"status" validate:"required"`
	VerificationCode string      `json:"verification_code" validate:"required"`
}
