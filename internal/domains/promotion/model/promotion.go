package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// DISCOUNT TYPES
// =====================================================
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// =====================================================
// PROMOTION ENTITY
// =====================================================
type Promotion struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Code           string          `json:"code" db:"code"`
	Description    string          `json:"description" db:"description"`
	DiscountType   string          `json:"discount_type" db:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value" db:"discount_value"`
	MaxDiscount    decimal.Decimal `json:"max_discount" db:"max_discount"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" db:"min_order_amount"`
	UsageLimit     int             `json:"usage_limit" db:"usage_limit"`
	UsedCount      int             `json:"used_count" db:"used_count"`
	ValidFrom      time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo        time.Time       `json:"valid_to" db:"valid_to"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsCurrentlyValid checks window, activity and usage cap at a point in time.
func (p *Promotion) IsCurrentlyValid(now time.Time) error {
	if !p.IsActive {
		return ErrPromotionInactive
	}
	if now.Before(p.ValidFrom) {
		return ErrPromotionNotStarted
	}
	if now.After(p.ValidTo) {
		return ErrPromotionExpired
	}
	if p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit {
		return ErrPromotionExhausted
	}
	return nil
}
