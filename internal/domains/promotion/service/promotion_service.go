package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pujaseva-backend/internal/domains/promotion/model"
	"pujaseva-backend/internal/domains/promotion/repository"
)

type PromotionService interface {
	// Admin
	Create(ctx context.Context, req *model.SavePromotionRequest) (*model.Promotion, error)
	List(ctx context.Context) ([]*model.Promotion, error)
	Update(ctx context.Context, id uuid.UUID, req *model.SavePromotionRequest) (*model.Promotion, error)

	// Used by the cart when a code is applied.
	ValidateForOrder(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Promotion, decimal.Decimal, error)
	// Used once a payment for a cart carrying this code succeeds.
	ConsumeUsage(ctx context.Context, id uuid.UUID) error
}

type promotionService struct {
	repo       repository.PromotionRepository
	calculator *DiscountCalculator
}

func NewPromotionService(repo repository.PromotionRepository, calculator *DiscountCalculator) PromotionService {
	return &promotionService{repo: repo, calculator: calculator}
}

func (s *promotionService) Create(ctx context.Context, req *model.SavePromotionRequest) (*model.Promotion, error) {
	promo := &model.Promotion{
		ID:             uuid.New(),
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		ValidFrom:      req.ValidFrom,
		ValidTo:        req.ValidTo,
		IsActive:       true,
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *promotionService) List(ctx context.Context) ([]*model.Promotion, error) {
	return s.repo.List(ctx)
}

func (s *promotionService) Update(ctx context.Context, id uuid.UUID, req *model.SavePromotionRequest) (*model.Promotion, error) {
	promo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	promo.Description = req.Description
	promo.DiscountType = req.DiscountType
	promo.DiscountValue = req.DiscountValue
	promo.MaxDiscount = req.MaxDiscount
	promo.MinOrderAmount = req.MinOrderAmount
	promo.UsageLimit = req.UsageLimit
	promo.ValidFrom = req.ValidFrom
	promo.ValidTo = req.ValidTo
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *promotionService) ValidateForOrder(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Promotion, decimal.Decimal, error) {
	promo, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := promo.IsCurrentlyValid(time.Now()); err != nil {
		return nil, decimal.Zero, err
	}

	discount, err := s.calculator.Calculate(promo, subtotal)
	if err != nil {
		return nil, decimal.Zero, err
	}

	return promo, discount, nil
}

func (s *promotionService) ConsumeUsage(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementUsage(ctx, id)
}
