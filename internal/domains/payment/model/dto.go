package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// InitiatePaymentRequest starts a checkout. CartID defaults to the
// caller's active cart; AddressID (or an address already on the cart)
// is required before any gateway call. Method is a pay-page instrument
// hint the gateway may ignore.
type InitiatePaymentRequest struct {
	CartID    string `json:"cart_id"`
	AddressID string `json:"address_id"`
	Method    string `json:"method"`
}

func (r InitiatePaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CartID, is.UUIDv4),
		validation.Field(&r.AddressID, is.UUIDv4),
		validation.Field(&r.Method, validation.Length(0, 32)),
	)
}

// InitiatePaymentResponse is what the client needs to send the user to
// the gateway's hosted pay page.
type InitiatePaymentResponse struct {
	PaymentID     string          `json:"payment_id"`
	MerchantTxnID string          `json:"merchant_txn_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	RedirectURL   string          `json:"payment_url"`
}

// PaymentStatusResponse is returned by the status endpoint the client
// polls after returning from the gateway.
type PaymentStatusResponse struct {
	MerchantTxnID string          `json:"merchant_txn_id"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	ResponseCode  string          `json:"response_code,omitempty"`
	BookingID     string          `json:"booking_id,omitempty"`
	BookingNumber string          `json:"booking_number,omitempty"`
}
