package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// BOOKING STATUS
// =====================================================
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// =====================================================
// BOOKING ENTITY
// =====================================================
// Exactly one booking may exist per cart: cart_id carries a unique
// constraint and creation goes through INSERT .. ON CONFLICT DO
// NOTHING, which is what makes the racing webhook and status-verifier
// paths safe.
type Booking struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	BookingNumber string     `json:"booking_number" db:"booking_number"`
	CartID        uuid.UUID  `json:"cart_id" db:"cart_id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	ServiceID     uuid.UUID  `json:"service_id" db:"service_id"`
	PackageID     uuid.UUID  `json:"package_id" db:"package_id"`
	PaymentID     uuid.UUID  `json:"payment_id" db:"payment_id"`
	AddressID     *uuid.UUID `json:"address_id" db:"address_id"`

	BookingDate time.Time       `json:"booking_date" db:"booking_date"`
	BookingTime string          `json:"booking_time" db:"booking_time"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// =====================================================
// STATUS HISTORY ENTITY
// =====================================================
type StatusHistory struct {
	ID         uuid.UUID `json:"id" db:"id"`
	BookingID  uuid.UUID `json:"booking_id" db:"booking_id"`
	FromStatus string    `json:"from_status" db:"from_status"`
	ToStatus   string    `json:"to_status" db:"to_status"`
	Reason     string    `json:"reason" db:"reason"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
