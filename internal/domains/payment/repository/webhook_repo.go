package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/payment/model"
)

type postgresWebhookLogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresWebhookLogRepository(db *pgxpool.Pool) WebhookLogRepository {
	return &postgresWebhookLogRepository{db: db}
}

func (r *postgresWebhookLogRepository) Create(ctx context.Context, log *model.WebhookLog) error {
	query := `
		INSERT INTO payment_webhook_logs (id, merchant_txn_id, event_type, raw_body, processed, process_error)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING received_at`

	err := r.db.QueryRow(ctx, query,
		log.ID, log.MerchantTxnID, log.EventType, log.RawBody, log.Processed, log.ProcessError,
	).Scan(&log.ReceivedAt)
	if err != nil {
		return fmt.Errorf("create webhook log: %w", err)
	}
	return nil
}

func (r *postgresWebhookLogRepository) MarkProcessed(ctx context.Context, id uuid.UUID, processErr string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payment_webhook_logs SET processed = TRUE, process_error = $2 WHERE id = $1`,
		id, processErr)
	if err != nil {
		return fmt.Errorf("mark webhook log processed: %w", err)
	}
	return nil
}
