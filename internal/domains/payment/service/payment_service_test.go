package service

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pujaseva-backend/internal/config"
	addressmodel "pujaseva-backend/internal/domains/address/model"
	cartmodel "pujaseva-backend/internal/domains/cart/model"
	"pujaseva-backend/internal/domains/payment/gateway"
	"pujaseva-backend/internal/domains/payment/gateway/phonepe"
	"pujaseva-backend/internal/domains/payment/model"
	"pujaseva-backend/internal/domains/payment/repository"
)

// ===== FAKES =====

type fakePaymentRepo struct {
	mu     sync.Mutex
	orders map[string]*model.PaymentOrder
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{orders: make(map[string]*model.PaymentOrder)}
}

func (r *fakePaymentRepo) Create(_ context.Context, order *model.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.CreatedAt = time.Now()
	cp := *order
	r.orders[order.MerchantTxnID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByMerchantTxnID(_ context.Context, merchantTxnID string) (*model.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[merchantTxnID]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *fakePaymentRepo) GetLatestByCartID(_ context.Context, cartID uuid.UUID) (*model.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.PaymentOrder
	for _, order := range r.orders {
		if order.CartID == cartID && (latest == nil || order.CreatedAt.After(latest.CreatedAt)) {
			latest = order
		}
	}
	if latest == nil {
		return nil, model.ErrPaymentNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakePaymentRepo) HasPendingForCart(_ context.Context, cartID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.CartID == cartID && order.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) MarkTerminal(_ context.Context, merchantTxnID string, update *repository.TerminalUpdate) (*model.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[merchantTxnID]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	if order.Status != model.StatusPending {
		return nil, model.ErrAlreadyTerminal
	}
	order.Status = update.Status
	if update.GatewayTxnID != "" {
		order.GatewayTxnID = update.GatewayTxnID
	}
	if update.Instrument != "" {
		order.Instrument = update.Instrument
	}
	if update.ResponseCode != "" {
		order.ResponseCode = update.ResponseCode
	}
	now := time.Now()
	order.CompletedAt = &now
	cp := *order
	return &cp, nil
}

func (r *fakePaymentRepo) ListPendingOlderThan(_ context.Context, cutoff time.Time, limit int) ([]*model.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.PaymentOrder, 0)
	for _, order := range r.orders {
		if order.Status == model.StatusPending && order.CreatedAt.Before(cutoff) && len(out) < limit {
			cp := *order
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeWebhookLogs struct {
	mu   sync.Mutex
	logs []*model.WebhookLog
}

func (r *fakeWebhookLogs) Create(_ context.Context, log *model.WebhookLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ReceivedAt = time.Now()
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeWebhookLogs) MarkProcessed(_ context.Context, id uuid.UUID, processErr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			l.Processed = true
			l.ProcessError = processErr
		}
	}
	return nil
}

type fakeCartRepo struct {
	cart *cartmodel.Cart
}

func (r *fakeCartRepo) Create(context.Context, *cartmodel.Cart) error            { return nil }
func (r *fakeCartRepo) MarkConvertedTx(context.Context, pgx.Tx, uuid.UUID) error { return nil }
func (r *fakeCartRepo) AbandonStale(context.Context, time.Time) (int64, error)   { return 0, nil }

func (r *fakeCartRepo) GetByID(_ context.Context, id uuid.UUID) (*cartmodel.Cart, error) {
	if r.cart == nil || r.cart.ID != id {
		return nil, cartmodel.ErrCartNotFound
	}
	return r.cart, nil
}

func (r *fakeCartRepo) GetActiveByUser(_ context.Context, userID uuid.UUID) (*cartmodel.Cart, error) {
	if r.cart == nil || r.cart.UserID != userID || r.cart.Status != cartmodel.StatusActive {
		return nil, cartmodel.ErrCartNotFound
	}
	return r.cart, nil
}

func (r *fakeCartRepo) Update(_ context.Context, cart *cartmodel.Cart) error {
	if r.cart == nil || r.cart.ID != cart.ID || r.cart.Status != cartmodel.StatusActive {
		return cartmodel.ErrCartNotActive
	}
	cp := *cart
	r.cart = &cp
	return nil
}

type noopCartService struct{}

func (noopCartService) GetActiveCart(context.Context, uuid.UUID) (*cartmodel.CartResponse, error) {
	return nil, cartmodel.ErrCartNotFound
}

func (noopCartService) SetItem(context.Context, uuid.UUID, *cartmodel.SetItemRequest) (*cartmodel.CartResponse, error) {
	return nil, nil
}

func (noopCartService) SetAddress(context.Context, uuid.UUID, uuid.UUID) (*cartmodel.CartResponse, error) {
	return nil, nil
}

func (noopCartService) ApplyPromo(context.Context, uuid.UUID, string) (*cartmodel.CartResponse, error) {
	return nil, nil
}

func (noopCartService) RemovePromo(context.Context, uuid.UUID) (*cartmodel.CartResponse, error) {
	return nil, nil
}

func (noopCartService) InvalidateCache(context.Context, uuid.UUID) {}

type fakeAddressRepo struct {
	addresses map[uuid.UUID]*addressmodel.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[uuid.UUID]*addressmodel.Address)}
}

func (r *fakeAddressRepo) Create(_ context.Context, address *addressmodel.Address) error {
	r.addresses[address.ID] = address
	return nil
}

func (r *fakeAddressRepo) GetByID(_ context.Context, id uuid.UUID) (*addressmodel.Address, error) {
	address, ok := r.addresses[id]
	if !ok {
		return nil, addressmodel.ErrAddressNotFound
	}
	return address, nil
}

func (r *fakeAddressRepo) ListByUser(context.Context, uuid.UUID) ([]*addressmodel.Address, error) {
	return nil, nil
}

func (r *fakeAddressRepo) Update(context.Context, *addressmodel.Address) error { return nil }
func (r *fakeAddressRepo) Delete(context.Context, uuid.UUID) error             { return nil }

func (r *fakeAddressRepo) SetDefault(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

type fakeGateway struct {
	initResult *gateway.InitiationResult
	initErr    error

	mu          sync.Mutex
	initCalls   int
	statusByTxn map[string]*gateway.StatusResult
	statusErr   error
	verifyCalls int
}

func (g *fakeGateway) InitiatePayment(context.Context, *gateway.InitiationRequest) (*gateway.InitiationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls++
	return g.initResult, g.initErr
}

func (g *fakeGateway) VerifyStatus(_ context.Context, merchantTxnID string) (*gateway.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	if result, ok := g.statusByTxn[merchantTxnID]; ok {
		return result, nil
	}
	return &gateway.StatusResult{Outcome: model.OutcomePending}, nil
}

type fakeBookings struct {
	mu       sync.Mutex
	created  map[uuid.UUID]int
	failNext int
	ref      string
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{created: make(map[uuid.UUID]int), ref: "BK20260828-ABC123"}
}

func (b *fakeBookings) CreateFromPayment(_ context.Context, order *model.PaymentOrder) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failNext > 0 {
		b.failNext--
		return errors.New("booking insert failed")
	}
	b.created[order.CartID]++
	return nil
}

func (b *fakeBookings) RefByCartID(_ context.Context, cartID uuid.UUID) (uuid.UUID, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.created[cartID] == 0 {
		return uuid.Nil, "", errors.New("no booking")
	}
	return uuid.New(), b.ref, nil
}

func (b *fakeBookings) createdCount(cartID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created[cartID]
}

// ===== HARNESS =====

type harness struct {
	service   PaymentService
	repo      *fakePaymentRepo
	logs      *fakeWebhookLogs
	carts     *fakeCartRepo
	addresses *fakeAddressRepo
	gateway   *fakeGateway
	bookings  *fakeBookings
	cfg       config.PhonePeConfig
}

func newHarness() *harness {
	cfg := config.PhonePeConfig{
		MerchantID:      "PUJASEVAUAT",
		WebhookUsername: "hookuser",
		WebhookPassword: "hookpass",
		RedirectURL:     "http://localhost:3000/payment/return",
		CallbackURL:     "http://localhost:8080/api/v1/payments/webhook",
	}

	h := &harness{
		repo:      newFakePaymentRepo(),
		logs:      &fakeWebhookLogs{},
		carts:     &fakeCartRepo{},
		addresses: newFakeAddressRepo(),
		gateway:   &fakeGateway{statusByTxn: make(map[string]*gateway.StatusResult)},
		bookings:  newFakeBookings(),
		cfg:       cfg,
	}
	h.service = NewPaymentService(h.repo, h.logs, h.carts, noopCartService{}, h.addresses, h.gateway, h.bookings, cfg)
	return h
}

// seedActiveCart gives the user a payable cart with an address already
// pinned on it.
func (h *harness) seedActiveCart(userID uuid.UUID, total int64) *cartmodel.Cart {
	addressID := uuid.New()
	h.carts.cart = &cartmodel.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Total:     decimal.NewFromInt(total),
		Status:    cartmodel.StatusActive,
		AddressID: &addressID,
	}
	return h.carts.cart
}

func (h *harness) seedPendingOrder(t *testing.T, merchantTxnID string) *model.PaymentOrder {
	t.Helper()
	order := &model.PaymentOrder{
		ID:            uuid.New(),
		CartID:        uuid.New(),
		UserID:        uuid.New(),
		MerchantTxnID: merchantTxnID,
		Amount:        decimal.NewFromInt(2100),
		Status:        model.StatusPending,
	}
	require.NoError(t, h.repo.Create(context.Background(), order))
	return order
}

func (h *harness) authHeader() string {
	return phonepe.WebhookAuthDigest(h.cfg.WebhookUsername, h.cfg.WebhookPassword)
}

func successWebhookBody(merchantTxnID string) []byte {
	return []byte(`{
		"event": "pg.order.completed",
		"payload": {
			"merchantTransactionId": "` + merchantTxnID + `",
			"transactionId": "GW-1",
			"state": "COMPLETED",
			"responseCode": "SUCCESS",
			"paymentInstrument": {"type": "UPI"}
		}
	}`)
}

func failureWebhookBody(merchantTxnID string) []byte {
	return []byte(`{
		"event": "pg.order.failed",
		"payload": {
			"merchantTransactionId": "` + merchantTxnID + `",
			"transactionId": "GW-2",
			"state": "FAILED",
			"responseCode": "ZU"
		}
	}`)
}

// ===== WEBHOOK PATH =====

func TestProcessWebhook_SuccessCreatesBooking(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-1")

	err := h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), successWebhookBody("TXN-1"))
	require.NoError(t, err)

	stored, err := h.repo.GetByMerchantTxnID(context.Background(), "TXN-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, stored.Status)
	assert.Equal(t, "GW-1", stored.GatewayTxnID)
	assert.Equal(t, "UPI", stored.Instrument)
	assert.NotNil(t, stored.CompletedAt)

	assert.Equal(t, 1, h.bookings.createdCount(order.CartID))
}

func TestProcessWebhook_DuplicateDeliveryIsNoOp(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-2")

	for i := 0; i < 3; i++ {
		err := h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), successWebhookBody("TXN-2"))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, h.bookings.createdCount(order.CartID), "duplicate deliveries must not create more bookings")
}

func TestProcessWebhook_FailureNeverOverwritesSuccess(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-3")

	require.NoError(t, h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), successWebhookBody("TXN-3")))
	require.NoError(t, h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), failureWebhookBody("TXN-3")))

	stored, err := h.repo.GetByMerchantTxnID(context.Background(), "TXN-3")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, stored.Status)
	assert.Equal(t, 1, h.bookings.createdCount(order.CartID))
}

func TestProcessWebhook_PendingOutcomeDoesNotWrite(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-4")

	body := []byte(`{
		"event": "pg.order.updated",
		"payload": {"merchantTransactionId": "TXN-4", "state": "PENDING"}
	}`)
	require.NoError(t, h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), body))

	stored, err := h.repo.GetByMerchantTxnID(context.Background(), "TXN-4")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Equal(t, 0, h.bookings.createdCount(order.CartID))
}

func TestProcessWebhook_RejectsBadAuth(t *testing.T) {
	h := newHarness()
	h.seedPendingOrder(t, "TXN-5")

	err := h.service.ProcessWebhook(context.Background(), "application/json", "wrong-digest", successWebhookBody("TXN-5"))
	assert.ErrorIs(t, err, model.ErrWebhookAuth)

	err = h.service.ProcessWebhook(context.Background(), "application/json", "", successWebhookBody("TXN-5"))
	assert.ErrorIs(t, err, model.ErrWebhookAuth)

	stored, err := h.repo.GetByMerchantTxnID(context.Background(), "TXN-5")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestProcessWebhook_AcceptsBasicAuthFallback(t *testing.T) {
	h := newHarness()
	h.seedPendingOrder(t, "TXN-6")

	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte("hookuser:hookpass"))
	err := h.service.ProcessWebhook(context.Background(), "application/json", basic, successWebhookBody("TXN-6"))
	require.NoError(t, err)

	stored, err := h.repo.GetByMerchantTxnID(context.Background(), "TXN-6")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, stored.Status)
}

func TestProcessWebhook_LogsMalformedBody(t *testing.T) {
	h := newHarness()

	err := h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), []byte("not json"))
	assert.ErrorIs(t, err, model.ErrInvalidWebhook)

	require.Len(t, h.logs.logs, 1)
	assert.True(t, h.logs.logs[0].Processed)
	assert.NotEmpty(t, h.logs.logs[0].ProcessError)
}

// ===== VERIFIER PATH =====

func TestVerifyStatus_ReconcilesPendingViaGateway(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-7")
	h.gateway.statusByTxn["TXN-7"] = &gateway.StatusResult{
		Outcome:      model.OutcomeSuccess,
		GatewayTxnID: "GW-7",
	}

	resp, err := h.service.VerifyStatus(context.Background(), order.UserID, "TXN-7")
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, resp.Status)
	assert.Equal(t, "BK20260828-ABC123", resp.BookingNumber)
	assert.Equal(t, 1, h.bookings.createdCount(order.CartID))
}

func TestVerifyStatus_GatewayDownReturnsCurrentState(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-8")
	h.gateway.statusErr = model.ErrGatewayUnavailable

	resp, err := h.service.VerifyStatus(context.Background(), order.UserID, "TXN-8")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, resp.Status)
}

func TestVerifyStatus_TerminalOrderSkipsGateway(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-9")
	require.NoError(t, h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), failureWebhookBody("TXN-9")))

	before := h.gateway.verifyCalls
	resp, err := h.service.VerifyStatus(context.Background(), order.UserID, "TXN-9")
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, resp.Status)
	assert.Equal(t, before, h.gateway.verifyCalls, "terminal orders must not hit the gateway")
}

func TestVerifyStatus_RetriesBookingAfterFailedCreation(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-12")
	h.bookings.failNext = 1

	// The success lands terminal, but booking creation fails. The
	// webhook handler acks such deliveries, so the gateway will not
	// redeliver; the poll path has to repair this.
	err := h.service.ProcessWebhook(context.Background(), "application/json", h.authHeader(), successWebhookBody("TXN-12"))
	require.Error(t, err)

	stored, err := h.repo.GetByMerchantTxnID(context.Background(), "TXN-12")
	require.NoError(t, err)
	require.Equal(t, model.StatusSuccess, stored.Status)
	require.Equal(t, 0, h.bookings.createdCount(order.CartID))

	resp, err := h.service.VerifyStatus(context.Background(), order.UserID, "TXN-12")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, resp.Status)
	assert.Equal(t, "BK20260828-ABC123", resp.BookingNumber)
	assert.Equal(t, 1, h.bookings.createdCount(order.CartID))

	// Further polls reuse the booking instead of creating another.
	_, err = h.service.VerifyStatus(context.Background(), order.UserID, "TXN-12")
	require.NoError(t, err)
	assert.Equal(t, 1, h.bookings.createdCount(order.CartID))
}

func TestVerifyStatus_OtherUsersOrderIsHidden(t *testing.T) {
	h := newHarness()
	h.seedPendingOrder(t, "TXN-10")

	_, err := h.service.VerifyStatus(context.Background(), uuid.New(), "TXN-10")
	assert.ErrorIs(t, err, model.ErrPaymentNotFound)
}

// ===== INITIATION =====

func TestInitiatePayment_HappyPath(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	h.seedActiveCart(userID, 2100)
	h.gateway.initResult = &gateway.InitiationResult{RedirectURL: "https://pay.example/session"}

	resp, err := h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{})
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example/session", resp.RedirectURL)
	assert.NotEmpty(t, resp.MerchantTxnID)
	assert.Equal(t, model.StatusPending, resp.Status)
	assert.Equal(t, model.CurrencyINR, resp.Currency)

	stored, err := h.repo.GetByMerchantTxnID(context.Background(), resp.MerchantTxnID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestInitiatePayment_RejectsZeroTotal(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	h.seedActiveCart(userID, 0)

	_, err := h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{})
	assert.ErrorIs(t, err, model.ErrCartNotPayable)
	assert.Equal(t, 0, h.gateway.initCalls, "an unpayable cart must never open a gateway session")
}

func TestInitiatePayment_RequiresAddress(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	cart := h.seedActiveCart(userID, 2100)
	cart.AddressID = nil

	_, err := h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{})
	assert.ErrorIs(t, err, model.ErrAddressRequired)
}

func TestInitiatePayment_PinsRequestAddressOnCart(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	cart := h.seedActiveCart(userID, 2100)
	cart.AddressID = nil
	h.gateway.initResult = &gateway.InitiationResult{RedirectURL: "https://pay.example/session"}

	address := &addressmodel.Address{ID: uuid.New(), UserID: userID}
	require.NoError(t, h.addresses.Create(context.Background(), address))

	_, err := h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{
		AddressID: address.ID.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, h.carts.cart.AddressID)
	assert.Equal(t, address.ID, *h.carts.cart.AddressID)
}

func TestInitiatePayment_RejectsForeignAddress(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	h.seedActiveCart(userID, 2100)

	foreign := &addressmodel.Address{ID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, h.addresses.Create(context.Background(), foreign))

	_, err := h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{
		AddressID: foreign.ID.String(),
	})
	assert.ErrorIs(t, err, addressmodel.ErrAddressNotFound)
}

func TestInitiatePayment_RejectsSecondPendingAttempt(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	h.seedActiveCart(userID, 500)
	h.gateway.initResult = &gateway.InitiationResult{RedirectURL: "https://pay.example/session"}

	_, err := h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{})
	require.NoError(t, err)

	_, err = h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{})
	assert.ErrorIs(t, err, model.ErrPendingExists)
}

func TestInitiatePayment_GatewayFailureFailsOrder(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	cart := h.seedActiveCart(userID, 500)
	h.gateway.initErr = model.ErrGatewayUnavailable

	_, err := h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{})
	assert.ErrorIs(t, err, model.ErrGatewayUnavailable)

	// The failed attempt must not block a retry.
	order, err := h.repo.GetLatestByCartID(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, order.Status)
	assert.Equal(t, "INIT_FAILED", order.ResponseCode)

	h.gateway.initErr = nil
	h.gateway.initResult = &gateway.InitiationResult{RedirectURL: "https://pay.example/retry"}
	_, err = h.service.InitiatePayment(context.Background(), userID, &model.InitiatePaymentRequest{})
	assert.NoError(t, err)
}

func TestVerifyStatusByCart(t *testing.T) {
	h := newHarness()
	order := h.seedPendingOrder(t, "TXN-11")
	h.gateway.statusByTxn["TXN-11"] = &gateway.StatusResult{Outcome: model.OutcomeSuccess}

	resp, err := h.service.VerifyStatusByCart(context.Background(), order.UserID, order.CartID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, resp.Status)

	_, err = h.service.VerifyStatusByCart(context.Background(), uuid.New(), order.CartID)
	assert.ErrorIs(t, err, model.ErrPaymentNotFound)
}

// ===== EXPIRY SWEEP =====

func TestExpirePendingPayments(t *testing.T) {
	h := newHarness()

	// Stale and still unsettled at the gateway: expires.
	stale := h.seedPendingOrder(t, "TXN-OLD")
	h.repo.mu.Lock()
	h.repo.orders["TXN-OLD"].CreatedAt = time.Now().Add(-time.Hour)
	h.repo.mu.Unlock()

	// Stale but the gateway settled it meanwhile: converts.
	settled := h.seedPendingOrder(t, "TXN-SETTLED")
	h.repo.mu.Lock()
	h.repo.orders["TXN-SETTLED"].CreatedAt = time.Now().Add(-time.Hour)
	h.repo.mu.Unlock()
	h.gateway.statusByTxn["TXN-SETTLED"] = &gateway.StatusResult{Outcome: model.OutcomeSuccess}

	// Fresh pending: untouched.
	fresh := h.seedPendingOrder(t, "TXN-FRESH")

	expired, err := h.service.ExpirePendingPayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	staleStored, _ := h.repo.GetByMerchantTxnID(context.Background(), stale.MerchantTxnID)
	assert.Equal(t, model.StatusFailed, staleStored.Status)
	assert.Equal(t, model.ResponseCodeExpired, staleStored.ResponseCode)

	settledStored, _ := h.repo.GetByMerchantTxnID(context.Background(), settled.MerchantTxnID)
	assert.Equal(t, model.StatusSuccess, settledStored.Status)
	assert.Equal(t, 1, h.bookings.createdCount(settled.CartID))

	freshStored, _ := h.repo.GetByMerchantTxnID(context.Background(), fresh.MerchantTxnID)
	assert.Equal(t, model.StatusPending, freshStored.Status)
}
