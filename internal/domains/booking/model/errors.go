package model

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingCancelled = errors.New("booking is cancelled")
	ErrBookingCompleted = errors.New("booking is already completed")
	ErrPastBookingDate  = errors.New("booking date is in the past")
)
