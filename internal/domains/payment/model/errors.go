package model

import "errors"

var (
	ErrPaymentNotFound    = errors.New("payment order not found")
	ErrAlreadyTerminal    = errors.New("payment order already in a terminal state")
	ErrPendingExists      = errors.New("a pending payment already exists for this cart")
	ErrCartNotPayable     = errors.New("cart total must be positive to pay")
	ErrAddressRequired    = errors.New("a delivery address is required before payment")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrInvalidWebhook     = errors.New("webhook body could not be parsed")
	ErrWebhookAuth        = errors.New("webhook authorization failed")
)
