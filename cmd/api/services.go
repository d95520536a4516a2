package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/autocenter-backend/api/routes"
	"github.com/angelmondragon/autocenter-backend/internal/auth"
	"github.com/angelmondragon/autocenter-backend/internal/cms"
	"github.com/angelmondragon/autocenter-backend/internal/coupons"
	"github.com/angelmondragon/autocenter-backend/internal/customers"
	"github.com/angelmondragon/autocenter-backend/internal/loyalty"
	"github.com/angelmondragon/autocenter-backend/internal/orders"
	"github.com/angelmondragon/autocenter-backend/internal/products"
	"github.com/angelmondragon/autocenter-backend/internal/promotions"
	"github.com/angelmondragon/autocenter-backend/internal/revisions"
	"github.com/angelmondragon/autocenter-backend/internal/shipping"
	"github.com/angelmondragon/autocenter-backend/internal/support"
	"github.com/angelmondragon/autocenter-backend/internal/uploads"
	"github.com/angelmondragon/autocenter-backend/internal/vehicles"
	"github.com/angelmondragon/autocenter-backend/internal/workshop"
	"github.com/angelmondragon/autocenter-backend/pkg/auth/session"
	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/metrics"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox"
	"github.com/angelmondragon/autocenter-backend/pkg/redis"
	"github.com/angelmondragon/autocenter-backend/pkg/storage"
	"github.com/angelmondragon/autocenter-backend/pkg/storage/gcs"
	"github.com/angelmondragon/autocenter-backend/pkg/storage/local"
)

// buildDeps constructs every repository and service behind the router.
// HTTP metrics and the gatherer are attached by main.
func buildDeps(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg prometheus.Registerer) (routes.Deps, error) {
	conn := dbClient.DB()
	outboxSvc := outbox.NewService(outbox.NewRepository(conn), logg)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("session manager: %w", err)
	}

	customersRepo := customers.NewRepository(conn)
	customersSvc, err := customers.NewService(customersRepo, cfg.Password)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("customers service: %w", err)
	}

	loyaltySvc, err := loyalty.NewService(loyalty.ServiceParams{
		DB:     dbClient,
		Repo:   loyalty.NewRepository(conn),
		Outbox: outboxSvc,
		Config: cfg.Loyalty,
	})
	if err != nil {
		return routes.Deps{}, fmt.Errorf("loyalty service: %w", err)
	}

	authSvc, err := auth.NewService(auth.ServiceParams{
		AccountRepo:    customersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Deps{}, fmt.Errorf("auth service: %w", err)
	}
	registerSvc, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		Customers:      customersRepo,
		Loyalty:        loyaltySvc,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Deps{}, fmt.Errorf("register service: %w", err)
	}

	productsRepo := products.NewRepository(conn)
	productsSvc, err := products.NewService(productsRepo, dbClient)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("products service: %w", err)
	}
	workshopRepo := workshop.NewRepository(conn)
	workshopSvc, err := workshop.NewService(workshopRepo, dbClient)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("workshop service: %w", err)
	}
	shippingRepo := shipping.NewRepository(conn)
	shippingSvc, err := shipping.NewService(shippingRepo)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("shipping service: %w", err)
	}
	couponsSvc, err := coupons.NewService(coupons.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("coupons service: %w", err)
	}
	rules, err := promotions.NewRuleEngine()
	if err != nil {
		return routes.Deps{}, fmt.Errorf("promotion rules: %w", err)
	}
	promotionsSvc, err := promotions.NewService(promotions.NewRepository(conn), dbClient, rules, logg)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("promotions service: %w", err)
	}

	ordersRepo := orders.NewRepository(conn)
	ordersSvc, err := orders.NewService(orders.ServiceParams{
		DB:         dbClient,
		Repo:       ordersRepo,
		Products:   productsRepo,
		Services:   workshopRepo,
		Shipping:   shippingRepo,
		Coupons:    couponsSvc,
		Promotions: promotionsSvc,
		Loyalty:    loyaltySvc,
		Outbox:     outboxSvc,
		Logger:     logg,
	})
	if err != nil {
		return routes.Deps{}, fmt.Errorf("orders service: %w", err)
	}

	vehiclesRepo := vehicles.NewRepository(conn)
	vehiclesSvc, err := vehicles.NewService(vehiclesRepo)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("vehicles service: %w", err)
	}
	lookupParams := vehicles.LookupParams{
		Providers: vehicles.NewProviders(cfg.VehicleLookup, logg),
		CacheTTL:  cfg.VehicleLookup.CacheTTL,
		Metrics:   metrics.NewVehicleLookupMetrics(reg),
		Logger:    logg,
	}
	if cfg.VehicleLookup.SharedCache {
		lookupParams.Shared = redisClient
	}
	lookupSvc, err := vehicles.NewLookupService(lookupParams)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("vehicle lookup: %w", err)
	}

	revisionsSvc, err := revisions.NewService(revisions.ServiceParams{
		DB:       dbClient,
		Repo:     revisions.NewRepository(conn),
		Vehicles: vehiclesRepo,
		Outbox:   outboxSvc,
		Logger:   logg,
	})
	if err != nil {
		return routes.Deps{}, fmt.Errorf("revisions service: %w", err)
	}

	supportRepo := support.NewRepository(conn)
	supportSvc, err := support.NewService(support.ServiceParams{
		DB:     dbClient,
		Repo:   supportRepo,
		Orders: ordersRepo,
		Outbox: outboxSvc,
		Logger: logg,
	})
	if err != nil {
		return routes.Deps{}, fmt.Errorf("support service: %w", err)
	}
	faqSvc, err := support.NewFAQService(supportRepo)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("faq service: %w", err)
	}

	cmsSvc, err := cms.NewService(cms.NewRepository(conn))
	if err != nil {
		return routes.Deps{}, fmt.Errorf("cms service: %w", err)
	}

	deps := routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Idempotency: redisClient,
		RateLimits:  redisClient,
	}

	var store storage.Storage
	switch strings.ToLower(cfg.Storage.Driver) {
	case config.StorageDriverGCS:
		client, err := gcs.NewClient(ctx, cfg.Storage, cfg.GCP, logg)
		if err != nil {
			return routes.Deps{}, fmt.Errorf("gcs storage: %w", err)
		}
		store = client
		deps.Storage = client
	default:
		localStore, err := local.New(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			return routes.Deps{}, fmt.Errorf("local storage: %w", err)
		}
		store = localStore
		deps.LocalUploadsDir = localStore.Root()
	}
	uploadsSvc, err := uploads.NewService(uploads.ServiceParams{
		Repo:     uploads.NewRepository(conn),
		Storage:  store,
		MaxBytes: cfg.Storage.MaxUploadBytes,
		Logger:   logg,
	})
	if err != nil {
		return routes.Deps{}, fmt.Errorf("uploads service: %w", err)
	}

	deps.Sessions = sessionManager
	deps.Auth = authSvc
	deps.Register = registerSvc
	deps.Customers = customersSvc
	deps.Products = productsSvc
	deps.Workshop = workshopSvc
	deps.Shipping = shippingSvc
	deps.Coupons = couponsSvc
	deps.Promotions = promotionsSvc
	deps.Orders = ordersSvc
	deps.Loyalty = loyaltySvc
	deps.Vehicles = vehiclesSvc
	deps.VehicleLookup = lookupSvc
	deps.Revisions = revisionsSvc
	deps.Support = supportSvc
	deps.FAQ = faqSvc
	deps.CMS = cmsSvc
	deps.Uploads = uploadsSvc
	return deps, nil
}
