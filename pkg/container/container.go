package container

import (
	"context"
	"fmt"

	"pujaseva-backend/internal/config"
	addresshandler "pujaseva-backend/internal/domains/address/handler"
	addressrepo "pujaseva-backend/internal/domains/address/repository"
	addresssvc "pujaseva-backend/internal/domains/address/service"
	bookinghandler "pujaseva-backend/internal/domains/booking/handler"
	bookingrepo "pujaseva-backend/internal/domains/booking/repository"
	bookingsvc "pujaseva-backend/internal/domains/booking/service"
	carthandler "pujaseva-backend/internal/domains/cart/handler"
	cartrepo "pujaseva-backend/internal/domains/cart/repository"
	cartsvc "pujaseva-backend/internal/domains/cart/service"
	cataloghandler "pujaseva-backend/internal/domains/catalog/handler"
	catalogrepo "pujaseva-backend/internal/domains/catalog/repository"
	catalogsvc "pujaseva-backend/internal/domains/catalog/service"
	"pujaseva-backend/internal/domains/payment/gateway/phonepe"
	paymenthandler "pujaseva-backend/internal/domains/payment/handler"
	paymentrepo "pujaseva-backend/internal/domains/payment/repository"
	paymentsvc "pujaseva-backend/internal/domains/payment/service"
	promohandler "pujaseva-backend/internal/domains/promotion/handler"
	promorepo "pujaseva-backend/internal/domains/promotion/repository"
	promosvc "pujaseva-backend/internal/domains/promotion/service"
	userhandler "pujaseva-backend/internal/domains/user/handler"
	userrepo "pujaseva-backend/internal/domains/user/repository"
	usersvc "pujaseva-backend/internal/domains/user/service"
	infracache "pujaseva-backend/internal/infrastructure/cache"
	infradb "pujaseva-backend/internal/infrastructure/database"
	"pujaseva-backend/internal/infrastructure/queue"
	"pujaseva-backend/internal/infrastructure/storage"
	"pujaseva-backend/pkg/jwt"
	"pujaseva-backend/pkg/logger"
)

// Container wires configuration, infrastructure, repositories,
// services and handlers for the API process.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *infradb.PostgresDB
	Cache      *infracache.RedisCache
	Storage    *storage.MinIOStorage
	Queue      *queue.Client
	JWTManager *jwt.Manager

	// Handlers
	UserHandler      *userhandler.UserHandler
	AddressHandler   *addresshandler.AddressHandler
	CatalogHandler   *cataloghandler.CatalogHandler
	PromotionHandler *promohandler.PromotionHandler
	CartHandler      *carthandler.CartHandler
	PaymentHandler   *paymenthandler.PaymentHandler
	BookingHandler   *bookinghandler.BookingHandler

	// Services shared with background jobs
	PaymentService paymentsvc.PaymentService
	CartRepository cartrepo.CartRepository
}

// New builds the full dependency graph: config -> infrastructure ->
// repositories -> services -> handlers.
func New(ctx context.Context) (*Container, error) {
	// ===== 1. CONFIGURATION =====
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	// ===== 2. INFRASTRUCTURE =====
	db := infradb.NewPostgresDB(dbCfg)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisCache := infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	queueClient := queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// ===== 3. REPOSITORIES =====
	userRepository := userrepo.NewPostgresUserRepository(db.Pool)
	addressRepository := addressrepo.NewPostgresAddressRepository(db.Pool)
	catalogRepository := catalogrepo.NewPostgresCatalogRepository(db.Pool)
	promotionRepository := promorepo.NewPostgresPromotionRepository(db.Pool)
	cartRepository := cartrepo.NewPostgresCartRepository(db.Pool)
	paymentRepository := paymentrepo.NewPostgresPaymentRepository(db.Pool)
	webhookLogRepository := paymentrepo.NewPostgresWebhookLogRepository(db.Pool)
	bookingRepository := bookingrepo.NewPostgresBookingRepository(db.Pool)

	// ===== 4. SERVICES =====
	userService := usersvc.NewUserService(userRepository, jwtManager)
	addressService := addresssvc.NewAddressService(addressRepository)
	catalogService := catalogsvc.NewCatalogService(catalogRepository, redisCache, minioStorage)
	promotionService := promosvc.NewPromotionService(promotionRepository, promosvc.NewDiscountCalculator())
	cartService := cartsvc.NewCartService(cartRepository, catalogRepository, promotionService, redisCache)

	bookingService := bookingsvc.NewBookingService(
		db.Pool,
		bookingRepository,
		cartRepository,
		cartService,
		catalogRepository,
		userRepository,
		paymentRepository,
		promotionService,
		queueClient,
	)

	phonePeClient := phonepe.NewClient(cfg.PhonePe)
	paymentService := paymentsvc.NewPaymentService(
		paymentRepository,
		webhookLogRepository,
		cartRepository,
		cartService,
		addressRepository,
		phonePeClient,
		bookingService,
		cfg.PhonePe,
	)

	// ===== 5. HANDLERS =====
	c := &Container{
		Config:     cfg,
		DB:         db,
		Cache:      redisCache,
		Storage:    minioStorage,
		Queue:      queueClient,
		JWTManager: jwtManager,

		UserHandler:      userhandler.NewUserHandler(userService),
		AddressHandler:   addresshandler.NewAddressHandler(addressService),
		CatalogHandler:   cataloghandler.NewCatalogHandler(catalogService),
		PromotionHandler: promohandler.NewPromotionHandler(promotionService),
		CartHandler:      carthandler.NewCartHandler(cartService),
		PaymentHandler:   paymenthandler.NewPaymentHandler(paymentService),
		BookingHandler:   bookinghandler.NewBookingHandler(bookingService),

		PaymentService: paymentService,
		CartRepository: cartRepository,
	}

	return c, nil
}

// Cleanup releases infrastructure resources in reverse dependency order.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("Failed to close queue client", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("Failed to close redis client", err)
		}
	}
	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}
}
