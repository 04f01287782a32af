package service

import (
	"github.com/shopspring/decimal"

	"pujaseva-backend/internal/domains/promotion/model"
)

// DiscountCalculator computes the discount a promotion grants on an
// order subtotal. Pure and side effect free so it is easy to test.
type DiscountCalculator struct{}

func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

// Calculate returns the discount amount for the subtotal, rounded to
// 2 decimal places. The discount never exceeds the subtotal, and a
// percentage discount is additionally capped by MaxDiscount when set.
func (dc *DiscountCalculator) Calculate(promo *model.Promotion, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.LessThan(promo.MinOrderAmount) {
		return decimal.Zero, model.ErrMinOrderNotMet
	}

	var discount decimal.Decimal
	switch promo.DiscountType {
	case model.DiscountTypePercentage:
		discount = subtotal.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100))
		if promo.MaxDiscount.IsPositive() && discount.GreaterThan(promo.MaxDiscount) {
			discount = promo.MaxDiscount
		}
	case model.DiscountTypeFixed:
		discount = promo.DiscountValue
	default:
		return decimal.Zero, model.ErrPromotionInactive
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return discount.Round(2), nil
}
