package service

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pujaseva-backend/internal/config"
	addressmodel "pujaseva-backend/internal/domains/address/model"
	addressrepo "pujaseva-backend/internal/domains/address/repository"
	cartmodel "pujaseva-backend/internal/domains/cart/model"
	cartrepo "pujaseva-backend/internal/domains/cart/repository"
	cartsvc "pujaseva-backend/internal/domains/cart/service"
	"pujaseva-backend/internal/domains/payment/gateway"
	"pujaseva-backend/internal/domains/payment/gateway/phonepe"
	"pujaseva-backend/internal/domains/payment/model"
	"pujaseva-backend/internal/domains/payment/repository"
	"pujaseva-backend/pkg/logger"
)

const (
	// pending orders older than this are re-verified and expired
	pendingExpiry = 30 * time.Minute

	// batch size per expiry sweep run
	expirySweepLimit = 100
)

type paymentService struct {
	repo        repository.PaymentRepository
	webhookLogs repository.WebhookLogRepository
	cartRepo    cartrepo.CartRepository
	carts       cartsvc.CartService
	addressRepo addressrepo.AddressRepository
	gateway     gateway.Gateway
	bookings    BookingCreator
	cfg         config.PhonePeConfig
}

func NewPaymentService(
	repo repository.PaymentRepository,
	webhookLogs repository.WebhookLogRepository,
	cartRepo cartrepo.CartRepository,
	carts cartsvc.CartService,
	addressRepo addressrepo.AddressRepository,
	gw gateway.Gateway,
	bookings BookingCreator,
	cfg config.PhonePeConfig,
) PaymentService {
	return &paymentService{
		repo:        repo,
		webhookLogs: webhookLogs,
		cartRepo:    cartRepo,
		carts:       carts,
		addressRepo: addressRepo,
		gateway:     gw,
		bookings:    bookings,
		cfg:         cfg,
	}
}

// =====================================================
// INITIATION
// =====================================================

func (s *paymentService) InitiatePayment(ctx context.Context, userID uuid.UUID, req *model.InitiatePaymentRequest) (*model.InitiatePaymentResponse, error) {
	cart, err := s.resolveCart(ctx, userID, req.CartID)
	if err != nil {
		return nil, err
	}
	if !cart.Total.IsPositive() {
		return nil, model.ErrCartNotPayable
	}
	if err := s.resolveAddress(ctx, userID, cart, req.AddressID); err != nil {
		return nil, err
	}

	// One in-flight attempt per cart. The client polls status on the
	// existing attempt instead of stacking new gateway sessions.
	pending, err := s.repo.HasPendingForCart(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, model.ErrPendingExists
	}

	order := &model.PaymentOrder{
		ID:            uuid.New(),
		CartID:        cart.ID,
		UserID:        userID,
		MerchantTxnID: newMerchantTxnID(),
		Amount:        cart.Total,
		Currency:      model.CurrencyINR,
		Status:        model.StatusPending,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	result, err := s.gateway.InitiatePayment(ctx, &gateway.InitiationRequest{
		MerchantTxnID: order.MerchantTxnID,
		UserID:        userID.String(),
		Amount:        order.Amount,
		RedirectURL:   s.cfg.RedirectURL,
		CallbackURL:   s.cfg.CallbackURL,
		Method:        req.Method,
	})
	if err != nil {
		// The gateway never saw this transaction. Fail it so the cart
		// is immediately retryable.
		if _, markErr := s.repo.MarkTerminal(ctx, order.MerchantTxnID, &repository.TerminalUpdate{
			Status:       model.StatusFailed,
			ResponseCode: "INIT_FAILED",
		}); markErr != nil {
			logger.Error("Failed to fail payment after init error", markErr)
		}
		return nil, err
	}

	logger.Info("Payment initiated", map[string]interface{}{
		"merchant_txn_id": order.MerchantTxnID,
		"cart_id":         cart.ID.String(),
		"amount":          order.Amount.String(),
	})

	return &model.InitiatePaymentResponse{
		PaymentID:     order.ID.String(),
		MerchantTxnID: order.MerchantTxnID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        order.Status,
		RedirectURL:   result.RedirectURL,
	}, nil
}

// resolveCart loads the cart named in the request, or the caller's
// active cart when the request names none. A cart id belonging to
// someone else reads as not found.
func (s *paymentService) resolveCart(ctx context.Context, userID uuid.UUID, cartID string) (*cartmodel.Cart, error) {
	if cartID == "" {
		return s.cartRepo.GetActiveByUser(ctx, userID)
	}

	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, cartmodel.ErrCartNotFound
	}
	cart, err := s.cartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, cartmodel.ErrCartNotFound
	}
	if cart.Status != cartmodel.StatusActive {
		return nil, cartmodel.ErrCartNotActive
	}
	return cart, nil
}

// resolveAddress pins the delivery address before any gateway call. An
// address id in the request overrides whatever is on the cart; with
// neither, initiation is rejected.
func (s *paymentService) resolveAddress(ctx context.Context, userID uuid.UUID, cart *cartmodel.Cart, addressID string) error {
	if addressID == "" {
		if cart.AddressID == nil {
			return model.ErrAddressRequired
		}
		return nil
	}

	id, err := uuid.Parse(addressID)
	if err != nil {
		return addressmodel.ErrAddressNotFound
	}
	address, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if address.UserID != userID {
		return addressmodel.ErrAddressNotFound
	}

	if cart.AddressID == nil || *cart.AddressID != id {
		cart.AddressID = &id
		if err := s.cartRepo.Update(ctx, cart); err != nil {
			return err
		}
		s.carts.InvalidateCache(ctx, userID)
	}
	return nil
}

func newMerchantTxnID() string {
	return fmt.Sprintf("TXN%d%s", time.Now().Unix(),
		strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]))
}

// =====================================================
// WEBHOOK PATH
// =====================================================

func (s *paymentService) ProcessWebhook(ctx context.Context, contentType, authHeader string, body []byte) error {
	if !s.webhookAuthorized(authHeader) {
		return model.ErrWebhookAuth
	}

	// Log the raw delivery first. Replays and junk bodies stay auditable
	// even when normalization fails.
	logEntry := &model.WebhookLog{
		ID:      uuid.New(),
		RawBody: string(body),
	}

	event, normErr := model.NormalizeWebhookBody(contentType, body)
	if normErr == nil {
		logEntry.MerchantTxnID = event.MerchantTxnID
		logEntry.EventType = event.EventType
	}
	if err := s.webhookLogs.Create(ctx, logEntry); err != nil {
		logger.Error("Failed to persist webhook log", err)
	}
	if normErr != nil {
		_ = s.webhookLogs.MarkProcessed(ctx, logEntry.ID, normErr.Error())
		return normErr
	}

	err := s.reconcile(ctx, event.MerchantTxnID, &gateway.StatusResult{
		Outcome:      event.Outcome,
		GatewayTxnID: event.GatewayTxnID,
		Instrument:   event.Instrument,
		ResponseCode: event.ResponseCode,
	})

	processErr := ""
	if err != nil {
		processErr = err.Error()
	}
	if markErr := s.webhookLogs.MarkProcessed(ctx, logEntry.ID, processErr); markErr != nil {
		logger.Error("Failed to mark webhook log processed", markErr)
	}
	return err
}

// webhookAuthorized accepts the gateway's SHA256(user:pass) digest in
// the Authorization header, with plain HTTP Basic as a fallback for
// older dashboard configurations.
func (s *paymentService) webhookAuthorized(authHeader string) bool {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return false
	}

	expected := phonepe.WebhookAuthDigest(s.cfg.WebhookUsername, s.cfg.WebhookPassword)

	candidate := authHeader
	if strings.HasPrefix(strings.ToUpper(authHeader), "SHA256 ") {
		candidate = strings.TrimSpace(authHeader[len("SHA256 "):])
	}
	if subtle.ConstantTimeCompare([]byte(strings.ToLower(candidate)), []byte(expected)) == 1 {
		return true
	}

	if strings.HasPrefix(authHeader, "Basic ") {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authHeader, "Basic "))
		if err != nil {
			return false
		}
		expectedPair := s.cfg.WebhookUsername + ":" + s.cfg.WebhookPassword
		return subtle.ConstantTimeCompare(decoded, []byte(expectedPair)) == 1
	}

	return false
}

// =====================================================
// VERIFIER PATH
// =====================================================

func (s *paymentService) VerifyStatus(ctx context.Context, userID uuid.UUID, merchantTxnID string) (*model.PaymentStatusResponse, error) {
	order, err := s.repo.GetByMerchantTxnID(ctx, merchantTxnID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, model.ErrPaymentNotFound
	}

	if order.Status == model.StatusPending {
		result, gwErr := s.gateway.VerifyStatus(ctx, merchantTxnID)
		if gwErr != nil {
			// Gateway down: report our current state rather than fail
			// the poll.
			logger.Warn("Status verification unavailable", map[string]interface{}{
				"merchant_txn_id": merchantTxnID,
				"error":           gwErr.Error(),
			})
		} else if err := s.reconcile(ctx, merchantTxnID, result); err != nil {
			return nil, err
		}

		// Re-read: reconcile may have landed a terminal state, or the
		// webhook may have beaten us to it.
		order, err = s.repo.GetByMerchantTxnID(ctx, merchantTxnID)
		if err != nil {
			return nil, err
		}
	}

	resp := &model.PaymentStatusResponse{
		MerchantTxnID: order.MerchantTxnID,
		Status:        order.Status,
		Amount:        order.Amount,
		ResponseCode:  order.ResponseCode,
	}

	if order.Status == model.StatusSuccess {
		s.attachBookingRef(ctx, order, resp)
	}

	return resp, nil
}

// attachBookingRef puts the booking reference on a settled order's
// response. A success with no booking on record means an earlier
// creation attempt failed after the terminal write (the webhook acks
// those); creation is idempotent per cart, so retry it here.
func (s *paymentService) attachBookingRef(ctx context.Context, order *model.PaymentOrder, resp *model.PaymentStatusResponse) {
	bookingID, bookingNumber, err := s.bookings.RefByCartID(ctx, order.CartID)
	if err != nil {
		if createErr := s.bookings.CreateFromPayment(ctx, order); createErr != nil {
			logger.Error("Booking creation retry on status poll failed", createErr)
			return
		}
		bookingID, bookingNumber, err = s.bookings.RefByCartID(ctx, order.CartID)
		if err != nil {
			logger.Error("Booking lookup after creation retry failed", err)
			return
		}
	}
	resp.BookingID = bookingID.String()
	resp.BookingNumber = bookingNumber
}

// VerifyStatusByCart runs the verifier against the newest attempt for
// a cart. Older failed attempts for the same cart are never revisited.
func (s *paymentService) VerifyStatusByCart(ctx context.Context, userID, cartID uuid.UUID) (*model.PaymentStatusResponse, error) {
	order, err := s.repo.GetLatestByCartID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, model.ErrPaymentNotFound
	}
	return s.VerifyStatus(ctx, userID, order.MerchantTxnID)
}

// =====================================================
// RECONCILIATION
// =====================================================

// reconcile applies a gateway-reported outcome to an order. The first
// writer to land a terminal status wins; every later report of the
// same transaction is a no-op. A PENDING outcome never writes.
func (s *paymentService) reconcile(ctx context.Context, merchantTxnID string, result *gateway.StatusResult) error {
	var status string
	switch result.Outcome {
	case model.OutcomeSuccess:
		status = model.StatusSuccess
	case model.OutcomeFailed:
		status = model.StatusFailed
	default:
		return nil
	}

	order, err := s.repo.MarkTerminal(ctx, merchantTxnID, &repository.TerminalUpdate{
		Status:       status,
		GatewayTxnID: result.GatewayTxnID,
		Instrument:   result.Instrument,
		ResponseCode: result.ResponseCode,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyTerminal) {
			// Lost the race or duplicate delivery. The earlier writer
			// already handled booking creation.
			return nil
		}
		return err
	}

	logger.Info("Payment reconciled", map[string]interface{}{
		"merchant_txn_id": merchantTxnID,
		"status":          status,
		"gateway_txn_id":  result.GatewayTxnID,
	})

	if status == model.StatusSuccess {
		if err := s.bookings.CreateFromPayment(ctx, order); err != nil {
			// The payment stays success; the booking creator is
			// idempotent and the next status poll retries it.
			logger.Error("Booking creation after successful payment failed", err)
			return fmt.Errorf("create booking: %w", err)
		}
	}

	return nil
}

// =====================================================
// EXPIRY SWEEP
// =====================================================

func (s *paymentService) ExpirePendingPayments(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-pendingExpiry)
	orders, err := s.repo.ListPendingOlderThan(ctx, cutoff, expirySweepLimit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, order := range orders {
		// Ask the gateway first; a delayed success must convert, not
		// expire.
		result, gwErr := s.gateway.VerifyStatus(ctx, order.MerchantTxnID)
		if gwErr == nil && result.Outcome != model.OutcomePending {
			if err := s.reconcile(ctx, order.MerchantTxnID, result); err != nil {
				logger.Error("Failed to reconcile stale payment", err)
			}
			continue
		}

		_, err := s.repo.MarkTerminal(ctx, order.MerchantTxnID, &repository.TerminalUpdate{
			Status:       model.StatusFailed,
			ResponseCode: model.ResponseCodeExpired,
		})
		if err != nil {
			if errors.Is(err, model.ErrAlreadyTerminal) {
				continue
			}
			logger.Error("Failed to expire pending payment", err)
			continue
		}
		expired++
	}

	if expired > 0 {
		logger.Info("Expired stale pending payments", map[string]interface{}{
			"count": expired,
		})
	}
	return expired, nil
}
