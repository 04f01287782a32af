package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodel "pujaseva-backend/internal/domains/catalog/model"
	"pujaseva-backend/internal/domains/cart/model"
	promomodel "pujaseva-backend/internal/domains/promotion/model"
)

// ===== FAKES =====

type fakeCartStore struct {
	carts map[uuid.UUID]*model.Cart // by user
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[uuid.UUID]*model.Cart)}
}

func (s *fakeCartStore) Create(_ context.Context, cart *model.Cart) error {
	cp := *cart
	s.carts[cart.UserID] = &cp
	return nil
}

func (s *fakeCartStore) GetByID(_ context.Context, id uuid.UUID) (*model.Cart, error) {
	for _, cart := range s.carts {
		if cart.ID == id {
			cp := *cart
			return &cp, nil
		}
	}
	return nil, model.ErrCartNotFound
}

func (s *fakeCartStore) GetActiveByUser(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok || cart.Status != model.StatusActive {
		return nil, model.ErrCartNotFound
	}
	cp := *cart
	return &cp, nil
}

func (s *fakeCartStore) Update(_ context.Context, cart *model.Cart) error {
	stored, ok := s.carts[cart.UserID]
	if !ok || stored.Status != model.StatusActive {
		return model.ErrCartNotActive
	}
	cp := *cart
	s.carts[cart.UserID] = &cp
	return nil
}

func (s *fakeCartStore) MarkConvertedTx(context.Context, pgx.Tx, uuid.UUID) error { return nil }
func (s *fakeCartStore) AbandonStale(context.Context, time.Time) (int64, error)  { return 0, nil }

type fakeCatalog struct {
	services map[uuid.UUID]*catalogmodel.Service
	packages map[uuid.UUID]*catalogmodel.Package
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: make(map[uuid.UUID]*catalogmodel.Service),
		packages: make(map[uuid.UUID]*catalogmodel.Package),
	}
}

func (c *fakeCatalog) CreateService(_ context.Context, svc *catalogmodel.Service) error {
	c.services[svc.ID] = svc
	return nil
}

func (c *fakeCatalog) GetServiceByID(_ context.Context, id uuid.UUID) (*catalogmodel.Service, error) {
	svc, ok := c.services[id]
	if !ok {
		return nil, catalogmodel.ErrServiceNotFound
	}
	return svc, nil
}

func (c *fakeCatalog) GetServiceBySlug(context.Context, string) (*catalogmodel.Service, error) {
	return nil, catalogmodel.ErrServiceNotFound
}

func (c *fakeCatalog) ListServices(context.Context, *catalogmodel.ListServicesQuery) ([]*catalogmodel.Service, int, error) {
	return nil, 0, nil
}

func (c *fakeCatalog) UpdateService(context.Context, *catalogmodel.Service) error { return nil }

func (c *fakeCatalog) CreatePackage(_ context.Context, pkg *catalogmodel.Package) error {
	c.packages[pkg.ID] = pkg
	return nil
}

func (c *fakeCatalog) GetPackageByID(_ context.Context, id uuid.UUID) (*catalogmodel.Package, error) {
	pkg, ok := c.packages[id]
	if !ok {
		return nil, catalogmodel.ErrPackageNotFound
	}
	return pkg, nil
}

func (c *fakeCatalog) ListPackagesByService(context.Context, uuid.UUID, bool) ([]*catalogmodel.Package, error) {
	return nil, nil
}

func (c *fakeCatalog) UpdatePackage(context.Context, *catalogmodel.Package) error { return nil }

type fakePromos struct {
	promo    *promomodel.Promotion
	discount decimal.Decimal
	err      error
}

func (p *fakePromos) Create(context.Context, *promomodel.SavePromotionRequest) (*promomodel.Promotion, error) {
	return nil, nil
}
func (p *fakePromos) List(context.Context) ([]*promomodel.Promotion, error) { return nil, nil }
func (p *fakePromos) Update(context.Context, uuid.UUID, *promomodel.SavePromotionRequest) (*promomodel.Promotion, error) {
	return nil, nil
}
func (p *fakePromos) ConsumeUsage(context.Context, uuid.UUID) error { return nil }

func (p *fakePromos) ValidateForOrder(context.Context, string, decimal.Decimal) (*promomodel.Promotion, decimal.Decimal, error) {
	if p.err != nil {
		return nil, decimal.Zero, p.err
	}
	return p.promo, p.discount, nil
}

type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache { return &memCache{entries: make(map[string][]byte)} }

func (m *memCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (m *memCache) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	m.entries[key] = nil
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memCache) DeletePattern(context.Context, string) error { return nil }
func (m *memCache) Ping(context.Context) error                  { return nil }

// ===== HARNESS =====

type cartHarness struct {
	service CartService
	store   *fakeCartStore
	catalog *fakeCatalog
	promos  *fakePromos

	userID    uuid.UUID
	serviceID uuid.UUID
	packageID uuid.UUID
}

func newCartHarness(t *testing.T) *cartHarness {
	t.Helper()

	h := &cartHarness{
		store:     newFakeCartStore(),
		catalog:   newFakeCatalog(),
		promos:    &fakePromos{},
		userID:    uuid.New(),
		serviceID: uuid.New(),
		packageID: uuid.New(),
	}

	h.catalog.services[h.serviceID] = &catalogmodel.Service{
		ID:       h.serviceID,
		Name:     "Satyanarayan Puja",
		IsActive: true,
	}
	h.catalog.packages[h.packageID] = &catalogmodel.Package{
		ID:        h.packageID,
		ServiceID: h.serviceID,
		Name:      "Family",
		Price:     decimal.NewFromInt(2100),
		IsActive:  true,
	}

	h.service = NewCartService(h.store, h.catalog, h.promos, newMemCache())
	return h
}

func (h *cartHarness) setItemRequest() *model.SetItemRequest {
	return &model.SetItemRequest{
		ServiceID:   h.serviceID.String(),
		PackageID:   h.packageID.String(),
		BookingDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		BookingTime: "08:30",
	}
}

// ===== TESTS =====

func TestSetItem_CreatesCartWithPackagePrice(t *testing.T) {
	h := newCartHarness(t)

	resp, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	require.NoError(t, err)

	assert.Equal(t, h.serviceID, resp.ServiceID)
	assert.Equal(t, h.packageID, resp.PackageID)
	assert.True(t, decimal.NewFromInt(2100).Equal(resp.Subtotal))
	assert.True(t, decimal.NewFromInt(2100).Equal(resp.Total))
	assert.Equal(t, "Satyanarayan Puja", resp.ServiceName)
	assert.Equal(t, "Family", resp.PackageName)
}

func TestSetItem_RejectsPastBookingDate(t *testing.T) {
	h := newCartHarness(t)

	req := h.setItemRequest()
	req.BookingDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := h.service.SetItem(context.Background(), h.userID, req)
	assert.ErrorIs(t, err, model.ErrPastBookingDate)
}

func TestSetItem_RejectsInactivePackage(t *testing.T) {
	h := newCartHarness(t)
	h.catalog.packages[h.packageID].IsActive = false

	_, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	assert.ErrorIs(t, err, catalogmodel.ErrInactivePackage)
}

func TestSetItem_RejectsPackageFromOtherService(t *testing.T) {
	h := newCartHarness(t)
	h.catalog.packages[h.packageID].ServiceID = uuid.New()

	_, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	assert.ErrorIs(t, err, catalogmodel.ErrPackageNotFound)
}

func TestSetItem_ReplacingSelectionDropsPromo(t *testing.T) {
	h := newCartHarness(t)

	_, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	require.NoError(t, err)

	h.promos.promo = &promomodel.Promotion{ID: uuid.New(), Code: "WELCOME10"}
	h.promos.discount = decimal.NewFromInt(210)
	_, err = h.service.ApplyPromo(context.Background(), h.userID, "WELCOME10")
	require.NoError(t, err)

	resp, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	require.NoError(t, err)

	assert.Nil(t, resp.PromotionID)
	assert.Empty(t, resp.PromoCode)
	assert.True(t, resp.Discount.IsZero())
	assert.True(t, decimal.NewFromInt(2100).Equal(resp.Total))
}

func TestApplyPromo_RecalculatesTotal(t *testing.T) {
	h := newCartHarness(t)

	_, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	require.NoError(t, err)

	h.promos.promo = &promomodel.Promotion{ID: uuid.New(), Code: "WELCOME10"}
	h.promos.discount = decimal.NewFromInt(210)

	resp, err := h.service.ApplyPromo(context.Background(), h.userID, "welcome10")
	require.NoError(t, err)

	assert.Equal(t, "WELCOME10", resp.PromoCode)
	assert.True(t, decimal.NewFromInt(210).Equal(resp.Discount))
	assert.True(t, decimal.NewFromInt(1890).Equal(resp.Total))
}

func TestApplyPromo_PropagatesValidationError(t *testing.T) {
	h := newCartHarness(t)

	_, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	require.NoError(t, err)

	h.promos.err = promomodel.ErrPromotionExpired
	_, err = h.service.ApplyPromo(context.Background(), h.userID, "OLD")
	assert.ErrorIs(t, err, promomodel.ErrPromotionExpired)
}

func TestRemovePromo(t *testing.T) {
	h := newCartHarness(t)

	_, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	require.NoError(t, err)

	h.promos.promo = &promomodel.Promotion{ID: uuid.New(), Code: "WELCOME10"}
	h.promos.discount = decimal.NewFromInt(210)
	_, err = h.service.ApplyPromo(context.Background(), h.userID, "WELCOME10")
	require.NoError(t, err)

	resp, err := h.service.RemovePromo(context.Background(), h.userID)
	require.NoError(t, err)

	assert.Nil(t, resp.PromotionID)
	assert.True(t, decimal.NewFromInt(2100).Equal(resp.Total))
}

func TestRemovePromo_WithoutPromoApplied(t *testing.T) {
	h := newCartHarness(t)

	_, err := h.service.SetItem(context.Background(), h.userID, h.setItemRequest())
	require.NoError(t, err)

	_, err = h.service.RemovePromo(context.Background(), h.userID)
	assert.ErrorIs(t, err, model.ErrNoPromotionOnCart)
}

func TestGetActiveCart_NoCart(t *testing.T) {
	h := newCartHarness(t)

	_, err := h.service.GetActiveCart(context.Background(), h.userID)
	assert.ErrorIs(t, err, model.ErrCartNotFound)
}
