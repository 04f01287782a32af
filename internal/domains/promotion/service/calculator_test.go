package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pujaseva-backend/internal/domains/promotion/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate_PercentageDiscount(t *testing.T) {
	calc := NewDiscountCalculator()
	promo := &model.Promotion{
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: d("10"),
	}

	discount, err := calc.Calculate(promo, d("2500"))
	require.NoError(t, err)
	assert.True(t, d("250").Equal(discount), "got %s", discount)
}

func TestCalculate_PercentageCappedByMaxDiscount(t *testing.T) {
	calc := NewDiscountCalculator()
	promo := &model.Promotion{
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: d("20"),
		MaxDiscount:   d("300"),
	}

	discount, err := calc.Calculate(promo, d("5000"))
	require.NoError(t, err)
	assert.True(t, d("300").Equal(discount), "got %s", discount)
}

func TestCalculate_PercentageRoundsToTwoPlaces(t *testing.T) {
	calc := NewDiscountCalculator()
	promo := &model.Promotion{
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: d("15"),
	}

	discount, err := calc.Calculate(promo, d("999.99"))
	require.NoError(t, err)
	assert.True(t, d("150").Equal(discount), "got %s", discount)
}

func TestCalculate_FixedDiscount(t *testing.T) {
	calc := NewDiscountCalculator()
	promo := &model.Promotion{
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: d("200"),
	}

	discount, err := calc.Calculate(promo, d("1500"))
	require.NoError(t, err)
	assert.True(t, d("200").Equal(discount), "got %s", discount)
}

func TestCalculate_FixedDiscountNeverExceedsSubtotal(t *testing.T) {
	calc := NewDiscountCalculator()
	promo := &model.Promotion{
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: d("500"),
	}

	discount, err := calc.Calculate(promo, d("350"))
	require.NoError(t, err)
	assert.True(t, d("350").Equal(discount), "got %s", discount)
}

func TestCalculate_MinOrderNotMet(t *testing.T) {
	calc := NewDiscountCalculator()
	promo := &model.Promotion{
		DiscountType:   model.DiscountTypeFixed,
		DiscountValue:  d("100"),
		MinOrderAmount: d("1000"),
	}

	_, err := calc.Calculate(promo, d("999"))
	assert.ErrorIs(t, err, model.ErrMinOrderNotMet)
}
