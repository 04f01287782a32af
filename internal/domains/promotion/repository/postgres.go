package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/promotion/model"
)

type postgresPromotionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPromotionRepository(db *pgxpool.Pool) PromotionRepository {
	return &postgresPromotionRepository{db: db}
}

const promotionColumns = `id, code, description, discount_type, discount_value, max_discount,
	min_order_amount, usage_limit, used_count, valid_from, valid_to, is_active, created_at, updated_at`

func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	p := &model.Promotion{}
	err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.DiscountValue,
		&p.MaxDiscount, &p.MinOrderAmount, &p.UsageLimit, &p.UsedCount,
		&p.ValidFrom, &p.ValidTo, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("scan promotion: %w", err)
	}
	return p, nil
}

func (r *postgresPromotionRepository) Create(ctx context.Context, promo *model.Promotion) error {
	query := `
		INSERT INTO promotions (id, code, description, discount_type, discount_value,
			max_discount, min_order_amount, usage_limit, valid_from, valid_to, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING used_count, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		promo.ID, promo.Code, promo.Description, promo.DiscountType, promo.DiscountValue,
		promo.MaxDiscount, promo.MinOrderAmount, promo.UsageLimit,
		promo.ValidFrom, promo.ValidTo, promo.IsActive,
	).Scan(&promo.UsedCount, &promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrCodeExists
		}
		return fmt.Errorf("create promotion: %w", err)
	}
	return nil
}

func (r *postgresPromotionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions WHERE id = $1`, promotionColumns)
	return scanPromotion(r.db.QueryRow(ctx, query, id))
}

func (r *postgresPromotionRepository) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions WHERE code = $1`, promotionColumns)
	return scanPromotion(r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
}

func (r *postgresPromotionRepository) List(ctx context.Context) ([]*model.Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions ORDER BY created_at DESC`, promotionColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	promos := make([]*model.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}

func (r *postgresPromotionRepository) Update(ctx context.Context, promo *model.Promotion) error {
	query := `
		UPDATE promotions
		SET description = $2, discount_type = $3, discount_value = $4, max_discount = $5,
			min_order_amount = $6, usage_limit = $7, valid_from = $8, valid_to = $9,
			is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		promo.ID, promo.Description, promo.DiscountType, promo.DiscountValue,
		promo.MaxDiscount, promo.MinOrderAmount, promo.UsageLimit,
		promo.ValidFrom, promo.ValidTo, promo.IsActive,
	).Scan(&promo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPromotionNotFound
		}
		return fmt.Errorf("update promotion: %w", err)
	}
	return nil
}

// IncrementUsage is guarded against racing past the cap: the WHERE
// clause re-checks the limit so concurrent checkouts cannot oversell.
func (r *postgresPromotionRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE promotions
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1 AND (usage_limit = 0 OR used_count < usage_limit)`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment promotion usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionExhausted
	}
	return nil
}
