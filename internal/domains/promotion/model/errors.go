package model

import "errors"

var (
	ErrPromotionNotFound   = errors.New("promotion code not found")
	ErrPromotionInactive   = errors.New("promotion code is inactive")
	ErrPromotionNotStarted = errors.New("promotion code is not yet valid")
	ErrPromotionExpired    = errors.New("promotion code has expired")
	ErrPromotionExhausted  = errors.New("promotion code usage limit reached")
	ErrMinOrderNotMet      = errors.New("order amount below the promotion minimum")
	ErrCodeExists          = errors.New("promotion code already exists")
)
