package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type SavePromotionRequest struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	MaxDiscount    decimal.Decimal `json:"max_discount"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	UsageLimit     int             `json:"usage_limit"`
	ValidFrom      time.Time       `json:"valid_from"`
	ValidTo        time.Time       `json:"valid_to"`
	IsActive       *bool           `json:"is_active"`
}

func (r SavePromotionRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.DiscountType, validation.Required,
			validation.In(DiscountTypePercentage, DiscountTypeFixed)),
		validation.Field(&r.UsageLimit, validation.Min(0)),
		validation.Field(&r.ValidFrom, validation.Required),
		validation.Field(&r.ValidTo, validation.Required),
	); err != nil {
		return err
	}

	errs := validation.Errors{}
	if r.DiscountValue.IsNegative() || r.DiscountValue.IsZero() {
		errs["discount_value"] = validation.NewError("discount_positive", "discount value must be greater than zero")
	}
	if r.DiscountType == DiscountTypePercentage && r.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		errs["discount_value"] = validation.NewError("discount_percent_range", "percentage discount cannot exceed 100")
	}
	if r.ValidTo.Before(r.ValidFrom) {
		errs["valid_to"] = validation.NewError("window_order", "valid_to must be after valid_from")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
