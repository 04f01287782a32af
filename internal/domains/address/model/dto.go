package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

type SaveAddressRequest struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	AddressLine1  string `json:"address_line1"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	IsDefault     bool   `json:"is_default"`
}

func (r SaveAddressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipientName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Phone, validation.Required, validation.Length(10, 15)),
		validation.Field(&r.AddressLine1, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.City, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.State, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Pincode, validation.Required, validation.Match(pincodeRegex)),
	)
}
