package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/payment/model"
)

type postgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

const paymentColumns = `id, cart_id, user_id, merchant_txn_id, amount, currency, status,
	gateway_txn_id, instrument, response_code, created_at, updated_at, completed_at`

func scanPayment(row pgx.Row) (*model.PaymentOrder, error) {
	p := &model.PaymentOrder{}
	err := row.Scan(
		&p.ID, &p.CartID, &p.UserID, &p.MerchantTxnID, &p.Amount, &p.Currency, &p.Status,
		&p.GatewayTxnID, &p.Instrument, &p.ResponseCode,
		&p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment order: %w", err)
	}
	return p, nil
}

func (r *postgresPaymentRepository) Create(ctx context.Context, order *model.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (id, cart_id, user_id, merchant_txn_id, amount, currency,
			status, gateway_txn_id, instrument, response_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		order.ID, order.CartID, order.UserID, order.MerchantTxnID, order.Amount, order.Currency,
		order.Status, order.GatewayTxnID, order.Instrument, order.ResponseCode,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create payment order: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) GetByMerchantTxnID(ctx context.Context, merchantTxnID string) (*model.PaymentOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_orders WHERE merchant_txn_id = $1`, paymentColumns)
	return scanPayment(r.db.QueryRow(ctx, query, merchantTxnID))
}

func (r *postgresPaymentRepository) GetLatestByCartID(ctx context.Context, cartID uuid.UUID) (*model.PaymentOrder, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM payment_orders WHERE cart_id = $1 ORDER BY created_at DESC LIMIT 1`,
		paymentColumns)
	return scanPayment(r.db.QueryRow(ctx, query, cartID))
}

func (r *postgresPaymentRepository) HasPendingForCart(ctx context.Context, cartID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payment_orders WHERE cart_id = $1 AND status = 'pending')`,
		cartID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending payment: %w", err)
	}
	return exists, nil
}

func (r *postgresPaymentRepository) MarkTerminal(ctx context.Context, merchantTxnID string, update *TerminalUpdate) (*model.PaymentOrder, error) {
	if !model.IsTerminal(update.Status) {
		return nil, fmt.Errorf("mark terminal called with non-terminal status %q", update.Status)
	}

	query := fmt.Sprintf(`
		UPDATE payment_orders
		SET status = $2,
			gateway_txn_id = COALESCE(NULLIF($3, ''), gateway_txn_id),
			instrument = COALESCE(NULLIF($4, ''), instrument),
			response_code = COALESCE(NULLIF($5, ''), response_code),
			completed_at = NOW(),
			updated_at = NOW()
		WHERE merchant_txn_id = $1 AND status = 'pending'
		RETURNING %s`, paymentColumns)

	order, err := scanPayment(r.db.QueryRow(ctx, query,
		merchantTxnID, update.Status, update.GatewayTxnID, update.Instrument, update.ResponseCode))
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			// Either the order does not exist or it is already
			// terminal. Disambiguate for the caller.
			if _, lookupErr := r.GetByMerchantTxnID(ctx, merchantTxnID); lookupErr == nil {
				return nil, model.ErrAlreadyTerminal
			}
			return nil, model.ErrPaymentNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *postgresPaymentRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*model.PaymentOrder, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM payment_orders WHERE status = 'pending' AND created_at < $1 ORDER BY created_at LIMIT $2`,
		paymentColumns)

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	defer rows.Close()

	orders := make([]*model.PaymentOrder, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, p)
	}
	return orders, rows.Err()
}
