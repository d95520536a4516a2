package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/autocenter-backend/api/controllers"
	"github.com/angelmondragon/autocenter-backend/api/middleware"
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
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/autocenter-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Nil services answer 500
// from their handlers so partial wiring still boots.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB          controllers.Pinger
	Redis       controllers.Pinger
	Storage     controllers.Pinger
	Sessions    session.AccessSessionChecker
	Idempotency pkgredis.IdempotencyStore
	RateLimits  middleware.RateLimitStore
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	// LocalUploadsDir is served under /uploads when the local storage
	// driver is active.
	LocalUploadsDir string

	Auth          auth.Service
	Register      auth.RegisterService
	Customers     customers.Service
	Products      products.Service
	Workshop      workshop.Service
	Shipping      shipping.Service
	Coupons       coupons.Service
	Promotions    promotions.Service
	Orders        orders.Service
	Loyalty       loyalty.Service
	Vehicles      vehicles.Service
	VehicleLookup vehicles.LookupService
	Revisions     revisions.Service
	Support       support.Service
	FAQ           support.FAQService
	CMS           cms.Service
	Uploads       uploads.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Metrics(d.HTTPMetrics),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	lookupPolicy := middleware.NewRateLimitPolicy(
		"plate_lookup",
		cfg.AuthRateLimit.LookupWindow,
		cfg.AuthRateLimit.LookupIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, map[string]controllers.Pinger{
			"postgres": d.DB,
			"redis":    d.Redis,
			"storage":  d.Storage,
		}, logg))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	if d.LocalUploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads", http.FileServer(http.Dir(d.LocalUploadsDir))))
	}

	authenticate := middleware.Auth(cfg.JWT, d.Sessions, logg)
	idempotent := middleware.Idempotency(d.Idempotency, logg)
	maxUpload := cfg.Storage.MaxUploadBytes

	r.Route("/api", func(r chi.Router) {
		r.Route("/public", func(r chi.Router) {
			r.Get("/home", controllers.CMSHome(d.CMS, logg))
			r.Get("/products", controllers.ProductList(d.Products, false, logg))
			r.Get("/products/{productId}", controllers.ProductGet(d.Products, false, logg))
			r.Get("/services", controllers.WorkshopServiceList(d.Workshop, false, logg))
			r.Get("/services/{serviceId}", controllers.WorkshopServiceGet(d.Workshop, false, logg))
			r.Get("/shipping-methods", controllers.ShippingMethodList(d.Shipping, false, logg))
			r.Get("/shipping-methods/quote", controllers.ShippingQuote(d.Shipping, logg))
			r.Post("/coupons/validate", controllers.CouponValidate(d.Coupons, logg))
			r.Get("/promotions", controllers.PromotionListCurrent(d.Promotions, logg))
			r.Get("/loyalty/rewards", controllers.LoyaltyRewards(d.Loyalty, false, logg))
			r.Get("/checklist", controllers.ChecklistList(d.Revisions, false, logg))
			r.Get("/faq", controllers.FAQList(d.FAQ, false, logg))
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/makes", controllers.VehicleMakeList(d.Vehicles, logg))
				r.Get("/makes/{makeId}/models", controllers.VehicleModelList(d.Vehicles, logg))
				r.Get("/models/{modelId}/variants", controllers.VehicleVariantList(d.Vehicles, logg))
				r.With(middleware.RateLimit(lookupPolicy, d.RateLimits, logg)).
					Get("/lookup/{plate}", controllers.VehicleLookup(d.VehicleLookup, logg))
			})
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.With(middleware.RateLimit(registerPolicy, d.RateLimits, logg), idempotent).
					Post("/register", controllers.AuthRegister(d.Register, logg))
				r.With(middleware.RateLimit(loginPolicy, d.RateLimits, logg)).
					Post("/login", controllers.AuthLogin(d.Auth, logg))
				r.With(middleware.RateLimit(loginPolicy, d.RateLimits, logg)).
					Post("/admin/login", controllers.AdminAuthLogin(d.Auth, logg))
				r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
				r.With(authenticate).Post("/logout", controllers.AuthLogout(d.Auth, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(middleware.RequireRole(logg, enums.ActorRoleCustomer))
				r.Use(idempotent)

				r.Get("/me", controllers.MeGet(d.Customers, logg))
				r.Patch("/me", controllers.MeUpdate(d.Customers, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Post("/", controllers.OrderCreate(d.Orders, logg))
					r.Get("/", controllers.OrderListMine(d.Orders, logg))
					r.Get("/{orderId}", controllers.OrderGetMine(d.Orders, logg))
					r.Post("/{orderId}/cancel", controllers.OrderCancelMine(d.Orders, logg))
				})

				r.Route("/loyalty", func(r chi.Router) {
					r.Get("/", controllers.LoyaltyAccount(d.Loyalty, logg))
					r.Get("/transactions", controllers.LoyaltyTransactions(d.Loyalty, logg))
					r.Get("/rewards", controllers.LoyaltyRewards(d.Loyalty, false, logg))
					r.Post("/redeem", controllers.LoyaltyRedeem(d.Loyalty, logg))
				})

				r.Route("/vehicles", func(r chi.Router) {
					r.Get("/", controllers.GarageList(d.Vehicles, logg))
					r.Post("/", controllers.GarageAdd(d.Vehicles, logg))
					r.Patch("/{vehicleId}", controllers.GarageUpdate(d.Vehicles, logg))
					r.Delete("/{vehicleId}", controllers.GarageDelete(d.Vehicles, logg))
				})

				r.Get("/revisions", controllers.RevisionListMine(d.Revisions, logg))
				r.Get("/revisions/{revisionId}", controllers.RevisionGetMine(d.Revisions, logg))

				r.Route("/support/tickets", func(r chi.Router) {
					r.Post("/", controllers.TicketCreate(d.Support, logg))
					r.Get("/", controllers.TicketListMine(d.Support, logg))
					r.Get("/{ticketId}", controllers.TicketGetMine(d.Support, logg))
					r.Post("/{ticketId}/messages", controllers.TicketReplyMine(d.Support, logg))
				})

				r.Post("/uploads", controllers.UploadCreate(d.Uploads, maxUpload, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(logg, enums.ActorRoleAdmin, enums.ActorRoleSuperadmin))
			r.Use(idempotent)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.AdminCustomerList(d.Customers, logg))
				r.Get("/{customerId}", controllers.AdminCustomerGet(d.Customers, logg))
				r.Patch("/{customerId}/status", controllers.AdminCustomerStatus(d.Customers, logg))
				r.Get("/{customerId}/loyalty", controllers.AdminLoyaltyAccount(d.Loyalty, logg))
				r.Post("/{customerId}/loyalty/adjust", controllers.AdminLoyaltyAdjust(d.Loyalty, logg))
			})

			r.Route("/admins", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.ActorRoleSuperadmin))
				r.Get("/", controllers.AdminAdminList(d.Customers, logg))
				r.Post("/", controllers.AdminAdminCreate(d.Customers, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(d.Products, true, logg))
				r.Post("/", controllers.AdminProductCreate(d.Products, logg))
				r.Get("/{productId}", controllers.ProductGet(d.Products, true, logg))
				r.Patch("/{productId}", controllers.AdminProductUpdate(d.Products, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(d.Products, logg))
				r.Post("/{productId}/stock", controllers.AdminProductStock(d.Products, logg))
			})

			r.Route("/services", func(r chi.Router) {
				r.Get("/", controllers.WorkshopServiceList(d.Workshop, true, logg))
				r.Post("/", controllers.AdminWorkshopServiceCreate(d.Workshop, logg))
				r.Get("/{serviceId}", controllers.WorkshopServiceGet(d.Workshop, true, logg))
				r.Patch("/{serviceId}", controllers.AdminWorkshopServiceUpdate(d.Workshop, logg))
				r.Delete("/{serviceId}", controllers.AdminWorkshopServiceDelete(d.Workshop, logg))
			})

			r.Route("/shipping-methods", func(r chi.Router) {
				r.Get("/", controllers.ShippingMethodList(d.Shipping, true, logg))
				r.Post("/", controllers.AdminShippingMethodCreate(d.Shipping, logg))
				r.Get("/{methodId}", controllers.AdminShippingMethodGet(d.Shipping, logg))
				r.Patch("/{methodId}", controllers.AdminShippingMethodUpdate(d.Shipping, logg))
				r.Delete("/{methodId}", controllers.AdminShippingMethodDelete(d.Shipping, logg))
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.AdminCouponList(d.Coupons, logg))
				r.Post("/", controllers.AdminCouponCreate(d.Coupons, logg))
				r.Get("/{couponId}", controllers.AdminCouponGet(d.Coupons, logg))
				r.Patch("/{couponId}", controllers.AdminCouponUpdate(d.Coupons, logg))
				r.Delete("/{couponId}", controllers.AdminCouponDelete(d.Coupons, logg))
			})

			r.Route("/promotions", func(r chi.Router) {
				r.Get("/", controllers.AdminPromotionList(d.Promotions, logg))
				r.Post("/", controllers.AdminPromotionCreate(d.Promotions, logg))
				r.Get("/{promotionId}", controllers.AdminPromotionGet(d.Promotions, logg))
				r.Patch("/{promotionId}", controllers.AdminPromotionUpdate(d.Promotions, logg))
				r.Delete("/{promotionId}", controllers.AdminPromotionDelete(d.Promotions, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(d.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderGet(d.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminOrderStatus(d.Orders, logg))
			})

			r.Route("/loyalty", func(r chi.Router) {
				r.Get("/settings", controllers.AdminLoyaltySettingsGet(d.Loyalty, logg))
				r.Put("/settings", controllers.AdminLoyaltySettingsUpdate(d.Loyalty, logg))
				r.Get("/rewards", controllers.LoyaltyRewards(d.Loyalty, true, logg))
				r.Post("/rewards", controllers.AdminRewardCreate(d.Loyalty, logg))
				r.Patch("/rewards/{rewardId}", controllers.AdminRewardUpdate(d.Loyalty, logg))
				r.Delete("/rewards/{rewardId}", controllers.AdminRewardDelete(d.Loyalty, logg))
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/makes", controllers.VehicleMakeList(d.Vehicles, logg))
				r.Post("/makes", controllers.AdminVehicleMakeCreate(d.Vehicles, logg))
				r.Patch("/makes/{makeId}", controllers.AdminVehicleMakeUpdate(d.Vehicles, logg))
				r.Delete("/makes/{makeId}", controllers.AdminVehicleMakeDelete(d.Vehicles, logg))
				r.Get("/makes/{makeId}/models", controllers.VehicleModelList(d.Vehicles, logg))
				r.Post("/makes/{makeId}/models", controllers.AdminVehicleModelCreate(d.Vehicles, logg))
				r.Patch("/models/{modelId}", controllers.AdminVehicleModelUpdate(d.Vehicles, logg))
				r.Delete("/models/{modelId}", controllers.AdminVehicleModelDelete(d.Vehicles, logg))
				r.Get("/models/{modelId}/variants", controllers.VehicleVariantList(d.Vehicles, logg))
				r.Post("/models/{modelId}/variants", controllers.AdminVehicleVariantCreate(d.Vehicles, logg))
				r.Patch("/variants/{variantId}", controllers.AdminVehicleVariantUpdate(d.Vehicles, logg))
				r.Delete("/variants/{variantId}", controllers.AdminVehicleVariantDelete(d.Vehicles, logg))
			})

			r.Route("/checklist", func(r chi.Router) {
				r.Get("/", controllers.ChecklistList(d.Revisions, true, logg))
				r.Post("/categories", controllers.AdminChecklistCategoryCreate(d.Revisions, logg))
				r.Patch("/categories/{categoryId}", controllers.AdminChecklistCategoryUpdate(d.Revisions, logg))
				r.Delete("/categories/{categoryId}", controllers.AdminChecklistCategoryDelete(d.Revisions, logg))
				r.Post("/categories/{categoryId}/items", controllers.AdminChecklistItemCreate(d.Revisions, logg))
				r.Patch("/items/{itemId}", controllers.AdminChecklistItemUpdate(d.Revisions, logg))
				r.Delete("/items/{itemId}", controllers.AdminChecklistItemDelete(d.Revisions, logg))
			})

			r.Route("/revisions", func(r chi.Router) {
				r.Get("/", controllers.AdminRevisionList(d.Revisions, logg))
				r.Post("/", controllers.AdminRevisionCreate(d.Revisions, logg))
				r.Get("/{revisionId}", controllers.AdminRevisionGet(d.Revisions, logg))
				r.Patch("/{revisionId}", controllers.AdminRevisionUpdate(d.Revisions, logg))
				r.Patch("/{revisionId}/entries/{entryId}", controllers.AdminRevisionEntryUpdate(d.Revisions, logg))
				r.Post("/{revisionId}/status", controllers.AdminRevisionTransition(d.Revisions, logg))
			})

			r.Route("/support/tickets", func(r chi.Router) {
				r.Get("/", controllers.AdminTicketList(d.Support, logg))
				r.Get("/{ticketId}", controllers.AdminTicketGet(d.Support, logg))
				r.Patch("/{ticketId}", controllers.AdminTicketUpdate(d.Support, logg))
				r.Post("/{ticketId}/messages", controllers.AdminTicketReply(d.Support, logg))
			})

			r.Route("/faq", func(r chi.Router) {
				r.Get("/", controllers.FAQList(d.FAQ, true, logg))
				r.Post("/", controllers.AdminFAQCreate(d.FAQ, logg))
				r.Patch("/{faqId}", controllers.AdminFAQUpdate(d.FAQ, logg))
				r.Delete("/{faqId}", controllers.AdminFAQDelete(d.FAQ, logg))
			})

			r.Route("/cms", func(r chi.Router) {
				r.Get("/heroes", controllers.AdminHeroList(d.CMS, logg))
				r.Post("/heroes", controllers.AdminHeroCreate(d.CMS, logg))
				r.Patch("/heroes/{heroId}", controllers.AdminHeroUpdate(d.CMS, logg))
				r.Delete("/heroes/{heroId}", controllers.AdminHeroDelete(d.CMS, logg))
				r.Get("/marquee", controllers.AdminMarqueeList(d.CMS, logg))
				r.Post("/marquee", controllers.AdminMarqueeCreate(d.CMS, logg))
				r.Patch("/marquee/{messageId}", controllers.AdminMarqueeUpdate(d.CMS, logg))
				r.Delete("/marquee/{messageId}", controllers.AdminMarqueeDelete(d.CMS, logg))
				r.Get("/footer", controllers.AdminFooterGet(d.CMS, logg))
				r.Put("/footer", controllers.AdminFooterPut(d.CMS, logg))
			})

			r.Post("/uploads", controllers.UploadCreate(d.Uploads, maxUpload, logg))
			r.Delete("/uploads/{uploadId}", controllers.AdminUploadDelete(d.Uploads, logg))
		})
	})

	return r
}
