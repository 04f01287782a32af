package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CART STATUS
// =====================================================
// active    - the user is still assembling the booking
// converted - a successful payment turned it into a booking
// abandoned - stale, swept by the background job
const (
	StatusActive    = "active"
	StatusConverted = "converted"
	StatusAbandoned = "abandoned"
)

// =====================================================
// CART ENTITY
// =====================================================
// A cart carries one puja selection through checkout. There is at most
// one active cart per user.
type Cart struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	ServiceID   uuid.UUID  `json:"service_id" db:"service_id"`
	PackageID   uuid.UUID  `json:"package_id" db:"package_id"`
	BookingDate time.Time  `json:"booking_date" db:"booking_date"`
	BookingTime string     `json:"booking_time" db:"booking_time"`
	AddressID   *uuid.UUID `json:"address_id" db:"address_id"`
	PromotionID *uuid.UUID `json:"promotion_id" db:"promotion_id"`
	PromoCode   string     `json:"promo_code" db:"promo_code"`

	Subtotal decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount decimal.Decimal `json:"discount" db:"discount"`
	Total    decimal.Decimal `json:"total" db:"total"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RecalculateTotal keeps the invariant total = subtotal - discount.
func (c *Cart) RecalculateTotal() {
	c.Total = c.Subtotal.Sub(c.Discount)
	if c.Total.IsNegative() {
		c.Total = decimal.Zero
	}
}
