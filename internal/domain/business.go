package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Business struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	BusinessName string    `json:"business_name" db:"business_name"`
	BusinessType string    `json:"business_type" db:"business_type"`
	Description  string    `json:"description" db:"description"`
	Location     Location  `json:"location" db:"location"`
	Logo         *Asset    `json:"logo" db:"logo"`
	Images       Assets    `json:"images" db:"images"`
	Rating       float64   `json:"rating" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	PasswordResetToken     *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpiresAt *time.Time `json:"-" db:"password_reset_expires_at"`
}

// Location is stored as {address, coordinates}. Clients may also send a bare
// address string.
type Location struct {
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var address string
		if err := json.Unmarshal(data, &address); err != nil {
			return err
		}
		*l = Location{Address: address}
		return nil
	}

	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Location(p)
	return nil
}

func (l *Location) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func (l Location) Value() (driver.Value, error) {
	return jsonValue(l)
}

type RegisterInput struct {
	Email        string    `json:"email" validate:"required,email"`
	Password     string    `json:"password" validate:"required,min=6"`
	BusinessName string    `json:"business_name" validate:"required,notblank,max=200"`
	BusinessType string    `json:"business_type" validate:"max=100"`
	Location     *Location `json:"location"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateBusinessInput struct {
	BusinessName *string   `json:"business_name,omitempty" validate:"omitempty,notblank,max=200"`
	BusinessType *string   `json:"business_type,omitempty" validate:"omitempty,max=100"`
	Description  *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Location     *Location `json:"location,omitempty"`
}

type BusinessFilter struct {
	BusinessType string `query:"business_type"`
	Location     string `query:"location"`
	Search       string `query:"search"`
}
