package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// ADDRESS ENTITY
// =====================================================
type Address struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	RecipientName string    `json:"recipient_name" db:"recipient_name"`
	Phone         string    `json:"phone" db:"phone"`
	AddressLine1  string    `json:"address_line1" db:"address_line1"`
	AddressLine2  string    `json:"address_line2" db:"address_line2"`
	City          string    `json:"city" db:"city"`
	State         string    `json:"state" db:"state"`
	Pincode       string    `json:"pincode" db:"pincode"`
	IsDefault     bool      `json:"is_default" db:"is_default"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
