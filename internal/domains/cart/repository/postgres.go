package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/cart/model"
)

type postgresCartRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCartRepository(db *pgxpool.Pool) CartRepository {
	return &postgresCartRepository{db: db}
}

const cartColumns = `id, user_id, service_id, package_id, booking_date, booking_time,
	address_id, promotion_id, promo_code, subtotal, discount, total, status, created_at, updated_at`

func scanCart(row pgx.Row) (*model.Cart, error) {
	c := &model.Cart{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.ServiceID, &c.PackageID, &c.BookingDate, &c.BookingTime,
		&c.AddressID, &c.PromotionID, &c.PromoCode,
		&c.Subtotal, &c.Discount, &c.Total,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartNotFound
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}
	return c, nil
}

func (r *postgresCartRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, service_id, package_id, booking_date, booking_time,
			address_id, promotion_id, promo_code, subtotal, discount, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		cart.ID, cart.UserID, cart.ServiceID, cart.PackageID,
		cart.BookingDate, cart.BookingTime,
		cart.AddressID, cart.PromotionID, cart.PromoCode,
		cart.Subtotal, cart.Discount, cart.Total, cart.Status,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create cart: %w", err)
	}
	return nil
}

func (r *postgresCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE id = $1`, cartColumns)
	return scanCart(r.db.QueryRow(ctx, query, id))
}

func (r *postgresCartRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM carts WHERE user_id = $1 AND status = 'active' ORDER BY updated_at DESC LIMIT 1`,
		cartColumns)
	return scanCart(r.db.QueryRow(ctx, query, userID))
}

func (r *postgresCartRepository) Update(ctx context.Context, cart *model.Cart) error {
	query := `
		UPDATE carts
		SET service_id = $2, package_id = $3, booking_date = $4, booking_time = $5,
			address_id = $6, promotion_id = $7, promo_code = $8,
			subtotal = $9, discount = $10, total = $11, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		cart.ID, cart.ServiceID, cart.PackageID, cart.BookingDate, cart.BookingTime,
		cart.AddressID, cart.PromotionID, cart.PromoCode,
		cart.Subtotal, cart.Discount, cart.Total,
	).Scan(&cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCartNotActive
		}
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// MarkConvertedTx also converts carts the abandonment sweep got to
// first: a paid cart converts no matter what. Only an already
// converted cart is a no-op.
func (r *postgresCartRepository) MarkConvertedTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE carts SET status = 'converted', updated_at = NOW() WHERE id = $1 AND status <> 'converted'`,
		cartID)
	if err != nil {
		return fmt.Errorf("mark cart converted: %w", err)
	}
	return nil
}

func (r *postgresCartRepository) AbandonStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE carts SET status = 'abandoned', updated_at = NOW() WHERE status = 'active' AND updated_at < $1`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("abandon stale carts: %w", err)
	}
	return tag.RowsAffected(), nil
}
