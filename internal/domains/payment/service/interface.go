package service

import (
	"context"

	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/payment/model"
)

// BookingCreator is how a successful payment becomes a booking. The
// implementation must be idempotent per cart: the webhook and the
// status verifier may both report the same success.
type BookingCreator interface {
	CreateFromPayment(ctx context.Context, order *model.PaymentOrder) error

	// RefByCartID resolves the booking created for a cart, if any,
	// for status responses.
	RefByCartID(ctx context.Context, cartID uuid.UUID) (bookingID uuid.UUID, bookingNumber string, err error)
}

type PaymentService interface {
	// InitiatePayment opens a gateway session for the user's cart,
	// resolving the delivery address first.
	InitiatePayment(ctx context.Context, userID uuid.UUID, req *model.InitiatePaymentRequest) (*model.InitiatePaymentResponse, error)

	// ProcessWebhook ingests one gateway delivery: authenticate, log,
	// normalize, reconcile.
	ProcessWebhook(ctx context.Context, contentType, authHeader string, body []byte) error

	// VerifyStatus returns the order's status, asking the gateway
	// first when the order is still pending.
	VerifyStatus(ctx context.Context, userID uuid.UUID, merchantTxnID string) (*model.PaymentStatusResponse, error)

	// VerifyStatusByCart verifies the latest payment attempt for a
	// cart. The frontend only knows the cart id on the return redirect
	// when it lost the gateway's transaction reference.
	VerifyStatusByCart(ctx context.Context, userID, cartID uuid.UUID) (*model.PaymentStatusResponse, error)

	// ExpirePendingPayments is the sweep behind the scheduled job. It
	// re-verifies stale pending orders and fails the ones the gateway
	// still reports as unsettled.
	ExpirePendingPayments(ctx context.Context) (int, error)
}
