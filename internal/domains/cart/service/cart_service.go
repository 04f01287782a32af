package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogmodel "pujaseva-backend/internal/domains/catalog/model"
	catalogrepo "pujaseva-backend/internal/domains/catalog/repository"
	"pujaseva-backend/internal/domains/cart/model"
	"pujaseva-backend/internal/domains/cart/repository"
	promosvc "pujaseva-backend/internal/domains/promotion/service"
	"pujaseva-backend/pkg/cache"
	"pujaseva-backend/pkg/logger"
)

const (
	cartCacheTTL       = 5 * time.Minute
	cartCacheKeyByUser = "cart:active:user:%s"
)

type CartService interface {
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)
	SetItem(ctx context.Context, userID uuid.UUID, req *model.SetItemRequest) (*model.CartResponse, error)
	SetAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID) (*model.CartResponse, error)
	ApplyPromo(ctx context.Context, userID uuid.UUID, code string) (*model.CartResponse, error)
	RemovePromo(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// InvalidateCache drops the cached cart after out-of-band status
	// changes (conversion on payment success, abandonment sweeps).
	InvalidateCache(ctx context.Context, userID uuid.UUID)
}

type cartService struct {
	repo        repository.CartRepository
	catalogRepo catalogrepo.CatalogRepository
	promotions  promosvc.PromotionService
	cache       cache.Cache
}

func NewCartService(
	repo repository.CartRepository,
	catalogRepo catalogrepo.CatalogRepository,
	promotions promosvc.PromotionService,
	c cache.Cache,
) CartService {
	return &cartService{
		repo:        repo,
		catalogRepo: catalogRepo,
		promotions:  promotions,
		cache:       c,
	}
}

func (s *cartService) GetActiveCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	cacheKey := fmt.Sprintf(cartCacheKeyByUser, userID)

	var cached model.CartResponse
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	cart, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.decorate(ctx, cart)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, resp, cartCacheTTL); err != nil {
		logger.Warn("Failed to cache cart", map[string]interface{}{
			"user_id": userID.String(), "error": err.Error(),
		})
	}
	return resp, nil
}

// SetItem replaces the cart selection, creating the active cart when
// the user has none. Changing the selection drops any applied promo
// since the subtotal it was computed against is gone.
func (s *cartService) SetItem(ctx context.Context, userID uuid.UUID, req *model.SetItemRequest) (*model.CartResponse, error) {
	serviceID, _ := uuid.Parse(req.ServiceID)
	packageID, _ := uuid.Parse(req.PackageID)

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, model.ErrPastBookingDate
	}
	today := time.Now().Truncate(24 * time.Hour)
	if bookingDate.Before(today) {
		return nil, model.ErrPastBookingDate
	}

	svc, err := s.catalogRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, catalogmodel.ErrInactiveService
	}

	pkg, err := s.catalogRepo.GetPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.ServiceID != svc.ID {
		return nil, catalogmodel.ErrPackageNotFound
	}
	if !pkg.IsActive {
		return nil, catalogmodel.ErrInactivePackage
	}

	cart, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		if err != model.ErrCartNotFound {
			return nil, err
		}
		cart = &model.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Status: model.StatusActive,
		}
		s.fillSelection(cart, svc, pkg, bookingDate, req.BookingTime)
		if err := s.repo.Create(ctx, cart); err != nil {
			return nil, err
		}
	} else {
		s.fillSelection(cart, svc, pkg, bookingDate, req.BookingTime)
		if err := s.repo.Update(ctx, cart); err != nil {
			return nil, err
		}
	}

	s.InvalidateCache(ctx, userID)
	return s.decorate(ctx, cart)
}

func (s *cartService) fillSelection(cart *model.Cart, svc *catalogmodel.Service, pkg *catalogmodel.Package, date time.Time, timeOfDay string) {
	cart.ServiceID = svc.ID
	cart.PackageID = pkg.ID
	cart.BookingDate = date
	cart.BookingTime = timeOfDay
	cart.Subtotal = pkg.Price
	cart.PromotionID = nil
	cart.PromoCode = ""
	cart.Discount = decimal.Zero
	cart.RecalculateTotal()
}

func (s *cartService) SetAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddressID = &addressID
	if err := s.repo.Update(ctx, cart); err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx, userID)
	return s.decorate(ctx, cart)
}

func (s *cartService) ApplyPromo(ctx context.Context, userID uuid.UUID, code string) (*model.CartResponse, error) {
	cart, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	promo, discount, err := s.promotions.ValidateForOrder(ctx, code, cart.Subtotal)
	if err != nil {
		return nil, err
	}

	cart.PromotionID = &promo.ID
	cart.PromoCode = promo.Code
	cart.Discount = discount
	cart.RecalculateTotal()

	if err := s.repo.Update(ctx, cart); err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx, userID)
	return s.decorate(ctx, cart)
}

func (s *cartService) RemovePromo(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.PromotionID == nil {
		return nil, model.ErrNoPromotionOnCart
	}

	cart.PromotionID = nil
	cart.PromoCode = ""
	cart.Discount = decimal.Zero
	cart.RecalculateTotal()

	if err := s.repo.Update(ctx, cart); err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx, userID)
	return s.decorate(ctx, cart)
}

func (s *cartService) InvalidateCache(ctx context.Context, userID uuid.UUID) {
	key := fmt.Sprintf(cartCacheKeyByUser, userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Warn("Failed to invalidate cart cache", map[string]interface{}{
			"user_id": userID.String(), "error": err.Error(),
		})
	}
}

func (s *cartService) decorate(ctx context.Context, cart *model.Cart) (*model.CartResponse, error) {
	resp := &model.CartResponse{Cart: cart}

	if svc, err := s.catalogRepo.GetServiceByID(ctx, cart.ServiceID); err == nil {
		resp.ServiceName = svc.Name
	}
	if pkg, err := s.catalogRepo.GetPackageByID(ctx, cart.PackageID); err == nil {
		resp.PackageName = pkg.Name
	}
	return resp, nil
}
