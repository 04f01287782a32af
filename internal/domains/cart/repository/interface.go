package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pujaseva-backend/internal/domains/cart/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	Update(ctx context.Context, cart *model.Cart) error

	// MarkConvertedTx flips a cart to converted inside the caller's
	// transaction. Idempotent: converting an already converted cart
	// is a no-op.
	MarkConvertedTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error

	// AbandonStale marks active carts untouched since the cutoff as
	// abandoned and returns how many rows changed.
	AbandonStale(ctx context.Context, cutoff time.Time) (int64, error)
}
