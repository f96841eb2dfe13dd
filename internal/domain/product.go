package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BusinessID  uuid.UUID `json:"business_id" db:"business_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	Location    string    `json:"location" db:"location"`
	MainImage   *Asset    `json:"main_image" db:"main_image"`
	Gallery     Assets    `json:"gallery" db:"gallery"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Business *Business `json:"business,omitempty" db:"-"`
}

type CreateProductInput struct {
	Name        string   `json:"name" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Category    string   `json:"category" validate:"max=100"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Location    string   `json:"location" validate:"max=300"`
}

type UpdateProductInput struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=300"`
}

type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Location string
	Search   string
}
