package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// InitiationRequest carries everything a gateway needs to open a
// hosted checkout session.
type InitiationRequest struct {
	MerchantTxnID string
	UserID        string
	Amount        decimal.Decimal
	RedirectURL   string
	CallbackURL   string

	// Method is an optional instrument hint (UPI, CARD, ...). Empty
	// means the provider's hosted page decides.
	Method string
}

type InitiationResult struct {
	RedirectURL string
}

// StatusResult is the gateway's answer to a server-to-server status
// check. Outcome uses the payment model's outcome vocabulary.
type StatusResult struct {
	Outcome      string
	GatewayTxnID string
	Instrument   string
	ResponseCode string
}

// Gateway abstracts the payment provider so the reconciliation logic
// can be tested against a fake.
type Gateway interface {
	InitiatePayment(ctx context.Context, req *InitiationRequest) (*InitiationResult, error)
	VerifyStatus(ctx context.Context, merchantTxnID string) (*StatusResult, error)
}
