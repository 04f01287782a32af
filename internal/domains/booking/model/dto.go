package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var bookingTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type RescheduleRequest struct {
	BookingDate string `json:"booking_date"` // YYYY-MM-DD
	BookingTime string `json:"booking_time"` // HH:MM, 24h
	Reason      string `json:"reason"`
}

func (r RescheduleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookingDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.BookingTime, validation.Required, validation.Match(bookingTimeRegex)),
		validation.Field(&r.Reason, validation.Length(0, 255)),
	)
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (r CancelRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(3, 255)),
	)
}

// BookingResponse decorates a booking with display names.
type BookingResponse struct {
	*Booking
	ServiceName string           `json:"service_name,omitempty"`
	PackageName string           `json:"package_name,omitempty"`
	History     []*StatusHistory `json:"history,omitempty"`
}

// CartBookingLookup answers "did my payment become a booking yet?".
// When the booking is absent the payment status explains why.
type CartBookingLookup struct {
	Booking       *BookingResponse `json:"booking,omitempty"`
	PaymentStatus string           `json:"payment_status,omitempty"`
}

type ListBookingsQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (q *ListBookingsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}
