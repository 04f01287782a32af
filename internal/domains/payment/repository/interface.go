package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/payment/model"
)

// TerminalUpdate carries the fields written alongside a terminal
// status transition.
type TerminalUpdate struct {
	Status       string
	GatewayTxnID string
	Instrument   string
	ResponseCode string
}

type PaymentRepository interface {
	Create(ctx context.Context, order *model.PaymentOrder) error
	GetByMerchantTxnID(ctx context.Context, merchantTxnID string) (*model.PaymentOrder, error)
	GetLatestByCartID(ctx context.Context, cartID uuid.UUID) (*model.PaymentOrder, error)
	HasPendingForCart(ctx context.Context, cartID uuid.UUID) (bool, error)

	// MarkTerminal applies a pending -> terminal transition. The
	// guard is the WHERE status = 'pending' clause: when another
	// writer already landed a terminal state the update touches zero
	// rows and ErrAlreadyTerminal is returned. It is never an
	// overwrite.
	MarkTerminal(ctx context.Context, merchantTxnID string, update *TerminalUpdate) (*model.PaymentOrder, error)

	// ListPendingOlderThan feeds the expiry sweep. Only pending rows
	// are ever returned.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*model.PaymentOrder, error)
}

type WebhookLogRepository interface {
	Create(ctx context.Context, log *model.WebhookLog) error
	MarkProcessed(ctx context.Context, id uuid.UUID, processErr string) error
}
