package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var bookingTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// SetItemRequest replaces the cart's puja selection.
type SetItemRequest struct {
	ServiceID   string `json:"service_id"`
	PackageID   string `json:"package_id"`
	BookingDate string `json:"booking_date"` // YYYY-MM-DD
	BookingTime string `json:"booking_time"` // HH:MM, 24h
}

func (r SetItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceID, validation.Required, is.UUIDv4),
		validation.Field(&r.PackageID, validation.Required, is.UUIDv4),
		validation.Field(&r.BookingDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.BookingTime, validation.Required, validation.Match(bookingTimeRegex)),
	)
}

type ApplyPromoRequest struct {
	Code string `json:"code"`
}

func (r ApplyPromoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 30)),
	)
}

type SetAddressRequest struct {
	AddressID string `json:"address_id"`
}

func (r SetAddressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AddressID, validation.Required, is.UUIDv4),
	)
}

// CartResponse decorates the cart with catalog names for display.
type CartResponse struct {
	*Cart
	ServiceName string `json:"service_name,omitempty"`
	PackageName string `json:"package_name,omitempty"`
}
