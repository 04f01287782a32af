package repository

import (
	"context"

	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/promotion/model"
)

type PromotionRepository interface {
	Create(ctx context.Context, promo *model.Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error)
	GetByCode(ctx context.Context, code string) (*model.Promotion, error)
	List(ctx context.Context) ([]*model.Promotion, error)
	Update(ctx context.Context, promo *model.Promotion) error
	// IncrementUsage bumps used_count only while the cap allows it.
	// Returns ErrPromotionExhausted when the cap has been reached.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
