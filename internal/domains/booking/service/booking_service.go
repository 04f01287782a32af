package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/booking/model"
	"pujaseva-backend/internal/domains/booking/repository"
	cartrepo "pujaseva-backend/internal/domains/cart/repository"
	cartsvc "pujaseva-backend/internal/domains/cart/service"
	catalogrepo "pujaseva-backend/internal/domains/catalog/repository"
	paymentmodel "pujaseva-backend/internal/domains/payment/model"
	paymentrepo "pujaseva-backend/internal/domains/payment/repository"
	promosvc "pujaseva-backend/internal/domains/promotion/service"
	userrepo "pujaseva-backend/internal/domains/user/repository"
	"pujaseva-backend/internal/infrastructure/email"
	"pujaseva-backend/internal/infrastructure/queue"
	"pujaseva-backend/pkg/database"
	"pujaseva-backend/pkg/logger"
)

type BookingService interface {
	// CreateFromPayment is the idempotent payment-to-booking step.
	// Called by the payment reconciler; both the webhook and the
	// status verifier may invoke it for the same cart.
	CreateFromPayment(ctx context.Context, order *paymentmodel.PaymentOrder) error
	RefByCartID(ctx context.Context, cartID uuid.UUID) (uuid.UUID, string, error)

	LookupByCart(ctx context.Context, userID, cartID uuid.UUID) (*model.CartBookingLookup, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID, q *model.ListBookingsQuery) ([]*model.BookingResponse, int, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*model.BookingResponse, error)

	// Admin
	ListAll(ctx context.Context, q *model.ListBookingsQuery) ([]*model.BookingResponse, int, error)
	Reschedule(ctx context.Context, bookingID uuid.UUID, req *model.RescheduleRequest) (*model.BookingResponse, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, reason string) (*model.BookingResponse, error)
}

type bookingService struct {
	db          *pgxpool.Pool
	repo        repository.BookingRepository
	cartRepo    cartrepo.CartRepository
	carts       cartsvc.CartService
	catalogRepo catalogrepo.CatalogRepository
	userRepo    userrepo.UserRepository
	paymentRepo paymentrepo.PaymentRepository
	promotions  promosvc.PromotionService
	queue       *queue.Client
}

func NewBookingService(
	db *pgxpool.Pool,
	repo repository.BookingRepository,
	cartRepo cartrepo.CartRepository,
	carts cartsvc.CartService,
	catalogRepo catalogrepo.CatalogRepository,
	userRepo userrepo.UserRepository,
	paymentRepo paymentrepo.PaymentRepository,
	promotions promosvc.PromotionService,
	q *queue.Client,
) BookingService {
	return &bookingService{
		db:          db,
		repo:        repo,
		cartRepo:    cartRepo,
		carts:       carts,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		promotions:  promotions,
		queue:       q,
	}
}

// =====================================================
// PAYMENT-TO-BOOKING
// =====================================================

func (s *bookingService) CreateFromPayment(ctx context.Context, order *paymentmodel.PaymentOrder) error {
	cart, err := s.cartRepo.GetByID(ctx, order.CartID)
	if err != nil {
		return fmt.Errorf("load cart for booking: %w", err)
	}

	candidate := &model.Booking{
		ID:            uuid.New(),
		BookingNumber: newBookingNumber(cart.BookingDate),
		CartID:        cart.ID,
		UserID:        cart.UserID,
		ServiceID:     cart.ServiceID,
		PackageID:     cart.PackageID,
		PaymentID:     order.ID,
		AddressID:     cart.AddressID,
		BookingDate:   cart.BookingDate,
		BookingTime:   cart.BookingTime,
		// Amount comes from the payment order, which froze the cart
		// total at initiation time.
		Amount: order.Amount,
		Status: model.StatusConfirmed,
	}

	type txOut struct {
		booking *model.Booking
		created bool
	}

	out, err := database.WithTransactionResult(ctx, s.db, func(tx pgx.Tx) (txOut, error) {
		booking, created, err := s.repo.GetOrCreateTx(ctx, tx, candidate)
		if err != nil {
			return txOut{}, err
		}
		if !created {
			return txOut{booking: booking, created: false}, nil
		}

		if err := s.cartRepo.MarkConvertedTx(ctx, tx, cart.ID); err != nil {
			return txOut{}, err
		}

		entry := &model.StatusHistory{
			ID:        uuid.New(),
			BookingID: booking.ID,
			ToStatus:  model.StatusConfirmed,
			Reason:    "payment confirmed",
		}
		if err := s.repo.AddHistoryTx(ctx, tx, entry); err != nil {
			return txOut{}, err
		}

		return txOut{booking: booking, created: true}, nil
	})
	if err != nil {
		return err
	}

	if !out.created {
		// Duplicate report of the same success; the first creator
		// already did the side effects.
		return nil
	}

	logger.Info("Booking created", map[string]interface{}{
		"booking_id":     out.booking.ID.String(),
		"booking_number": out.booking.BookingNumber,
		"cart_id":        cart.ID.String(),
	})

	// Post-commit side effects. None of these can undo the booking.
	if cart.PromotionID != nil {
		if err := s.promotions.ConsumeUsage(ctx, *cart.PromotionID); err != nil {
			logger.Warn("Failed to consume promotion usage", map[string]interface{}{
				"promotion_id": cart.PromotionID.String(),
				"error":        err.Error(),
			})
		}
	}

	s.carts.InvalidateCache(ctx, cart.UserID)
	s.enqueueConfirmationEmail(ctx, out.booking)

	return nil
}

func (s *bookingService) enqueueConfirmationEmail(ctx context.Context, booking *model.Booking) {
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		logger.Error("Failed to load user for confirmation email", err)
		return
	}

	data := email.BookingConfirmationData{
		Email:         user.Email,
		RecipientName: user.FullName,
		BookingNumber: booking.BookingNumber,
		BookingDate:   booking.BookingDate.Format("02 Jan 2006"),
		BookingTime:   booking.BookingTime,
		Amount:        booking.Amount.StringFixed(2),
	}
	if svc, err := s.catalogRepo.GetServiceByID(ctx, booking.ServiceID); err == nil {
		data.ServiceName = svc.Name
	}
	if pkg, err := s.catalogRepo.GetPackageByID(ctx, booking.PackageID); err == nil {
		data.PackageName = pkg.Name
	}

	if err := s.queue.EnqueueBookingConfirmation(data); err != nil {
		logger.Error("Failed to enqueue confirmation email", err)
	}
}

func newBookingNumber(bookingDate time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("BK%s-%s", bookingDate.Format("20060102"), suffix)
}

func (s *bookingService) RefByCartID(ctx context.Context, cartID uuid.UUID) (uuid.UUID, string, error) {
	booking, err := s.repo.GetByCartID(ctx, cartID)
	if err != nil {
		return uuid.Nil, "", err
	}
	return booking.ID, booking.BookingNumber, nil
}

// =====================================================
// CUSTOMER QUERIES
// =====================================================

// LookupByCart answers the post-checkout poll. When the booking does
// not exist yet the latest payment status for the cart explains why
// (pending: still settling; failed: it never will).
func (s *bookingService) LookupByCart(ctx context.Context, userID, cartID uuid.UUID) (*model.CartBookingLookup, error) {
	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, model.ErrBookingNotFound
	}
	if cart.UserID != userID {
		return nil, model.ErrBookingNotFound
	}

	booking, err := s.repo.GetByCartID(ctx, cartID)
	if err == nil {
		return &model.CartBookingLookup{Booking: s.decorate(ctx, booking, false)}, nil
	}

	lookup := &model.CartBookingLookup{}
	if payment, err := s.paymentRepo.GetLatestByCartID(ctx, cartID); err == nil {
		lookup.PaymentStatus = payment.Status
	}
	return lookup, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, userID uuid.UUID, q *model.ListBookingsQuery) ([]*model.BookingResponse, int, error) {
	q.Normalize()
	bookings, total, err := s.repo.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, 0, err
	}
	return s.decorateAll(ctx, bookings), total, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*model.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, model.ErrBookingNotFound
	}
	return s.decorate(ctx, booking, true), nil
}

// =====================================================
// ADMIN
// =====================================================

func (s *bookingService) ListAll(ctx context.Context, q *model.ListBookingsQuery) ([]*model.BookingResponse, int, error) {
	q.Normalize()
	bookings, total, err := s.repo.ListAll(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return s.decorateAll(ctx, bookings), total, nil
}

func (s *bookingService) Reschedule(ctx context.Context, bookingID uuid.UUID, req *model.RescheduleRequest) (*model.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case model.StatusCancelled:
		return nil, model.ErrBookingCancelled
	case model.StatusCompleted:
		return nil, model.ErrBookingCompleted
	}

	newDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil || newDate.Before(time.Now().Truncate(24*time.Hour)) {
		return nil, model.ErrPastBookingDate
	}

	booking.BookingDate = newDate
	booking.BookingTime = req.BookingTime
	if err := s.repo.UpdateSchedule(ctx, booking); err != nil {
		return nil, err
	}

	reason := req.Reason
	if reason == "" {
		reason = "rescheduled"
	}
	if err := s.repo.UpdateStatus(ctx, bookingID, booking.Status, booking.Status, reason); err != nil {
		logger.Warn("Failed to record reschedule history", map[string]interface{}{
			"booking_id": bookingID.String(), "error": err.Error(),
		})
	}

	return s.decorate(ctx, booking, true), nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID uuid.UUID, reason string) (*model.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case model.StatusCancelled:
		return nil, model.ErrBookingCancelled
	case model.StatusCompleted:
		return nil, model.ErrBookingCompleted
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, booking.Status, model.StatusCancelled, reason); err != nil {
		return nil, err
	}
	booking.Status = model.StatusCancelled

	return s.decorate(ctx, booking, true), nil
}

// =====================================================
// DECORATION
// =====================================================

func (s *bookingService) decorate(ctx context.Context, booking *model.Booking, withHistory bool) *model.BookingResponse {
	resp := &model.BookingResponse{Booking: booking}

	if svc, err := s.catalogRepo.GetServiceByID(ctx, booking.ServiceID); err == nil {
		resp.ServiceName = svc.Name
	}
	if pkg, err := s.catalogRepo.GetPackageByID(ctx, booking.PackageID); err == nil {
		resp.PackageName = pkg.Name
	}
	if withHistory {
		if history, err := s.repo.ListHistory(ctx, booking.ID); err == nil {
			resp.History = history
		}
	}
	return resp
}

func (s *bookingService) decorateAll(ctx context.Context, bookings []*model.Booking) []*model.BookingResponse {
	out := make([]*model.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, s.decorate(ctx, b, false))
	}
	return out
}
