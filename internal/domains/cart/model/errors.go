package model

import "errors"

var (
	ErrCartNotFound      = errors.New("no active cart")
	ErrCartNotActive     = errors.New("cart is no longer active")
	ErrPastBookingDate   = errors.New("booking date is in the past")
	ErrNoPromotionOnCart = errors.New("no promotion applied to cart")
)
