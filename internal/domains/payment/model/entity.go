package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT ORDER ENTITY
// =====================================================
// A payment order is created per checkout attempt against an active
// cart. MerchantTxnID is our reference at the gateway; GatewayTxnID is
// theirs, filled in once a terminal event arrives.
type PaymentOrder struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CartID        uuid.UUID       `json:"cart_id" db:"cart_id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	MerchantTxnID string          `json:"merchant_txn_id" db:"merchant_txn_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	Status        string          `json:"status" db:"status"`
	GatewayTxnID  string          `json:"gateway_txn_id" db:"gateway_txn_id"`
	Instrument    string          `json:"instrument" db:"instrument"`
	ResponseCode  string          `json:"response_code" db:"response_code"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at" db:"completed_at"`
}

// =====================================================
// WEBHOOK LOG ENTITY
// =====================================================
// Every delivery is recorded before processing so replays and
// malformed bodies are auditable.
type WebhookLog struct {
	ID            uuid.UUID `json:"id" db:"id"`
	MerchantTxnID string    `json:"merchant_txn_id" db:"merchant_txn_id"`
	EventType     string    `json:"event_type" db:"event_type"`
	RawBody       string    `json:"raw_body" db:"raw_body"`
	Processed     bool      `json:"processed" db:"processed"`
	ProcessError  string    `json:"process_error" db:"process_error"`
	ReceivedAt    time.Time `json:"received_at" db:"received_at"`
}
