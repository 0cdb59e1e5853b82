package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/health"
	"github.com/KartikVerma96/paregrose/pkg/middleware"
)

// Services bundles the application services the router dispatches to.
type Services struct {
	Catalog   *service.CatalogService
	Products  *service.ProductService
	Variants  *service.VariantService
	Images    *service.ImageService
	Export    *service.ExportService
	Category  *service.CategoryService
	Cart      *service.CartService
	Auth      *service.AuthService
	Users     *service.UserService
	Wishlist  *service.WishlistService
	Settings  *service.SettingsService
	Analytics *service.AnalyticsService
}

// RouterConfig carries the HTTP-level settings of the router.
type RouterConfig struct {
	ServiceName    string
	TokenValidator middleware.TokenValidator
	CookieSecure   bool
	CORSOrigins    []string
	AuthRateRPS    float64
	AuthRateBurst  int
	PprofCIDRs     []string
	// TrustedProxies are the CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
	RequestTimeout time.Duration
	// Media serves locally stored uploads under /media. Nil when objects
	// live in S3.
	Media http.Handler
}

// NewRouter creates a chi router with every storefront and admin route.
func NewRouter(cfg RouterConfig, svc Services, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "paregrose"
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	// Health and ops endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	if cfg.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media", cfg.Media))
	}

	proxies := middleware.ParseTrustedProxies(cfg.TrustedProxies, logger)
	authenticate := middleware.Authenticate(cfg.TokenValidator)
	optionalAuth := middleware.OptionalAuth(cfg.TokenValidator)

	catalog := NewCatalogHandler(svc.Catalog, svc.Settings, logger)
	cart := NewCartHandler(svc.Cart, logger)
	auth := NewAuthHandler(svc.Auth, cfg.CookieSecure, logger)
	wishlist := NewWishlistHandler(svc.Wishlist, logger)
	products := NewAdminProductHandler(svc.Products, svc.Variants, svc.Images, svc.Export, logger)
	categories := NewAdminCategoryHandler(svc.Category, logger)
	users := NewAdminUserHandler(svc.Users, logger)
	store := NewAdminStoreHandler(svc.Settings, svc.Analytics, logger)

	r.Route("/api", func(r chi.Router) {
		// Storefront catalog
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(60))

			r.Get("/products", catalog.ListProducts)
			r.Get("/products/{slug}", catalog.GetProduct)
			r.Get("/categories", catalog.ListCategories)
			r.Get("/categories/{slug}", catalog.GetCategory)
			r.Get("/subcategories", catalog.ListSubcategories)
			r.Get("/settings/public", catalog.PublicSettings)
		})

		// Cart and checkout, for guests and signed-in users
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(optionalAuth)
			r.Use(ResolveOwner)

			r.Get("/cart", cart.GetCart)
			r.Post("/cart", cart.AddItem)
			r.Delete("/cart", cart.ClearCart)
			r.Put("/cart/{itemID}", cart.UpdateItem)
			r.Delete("/cart/{itemID}", cart.RemoveItem)
			r.Post("/checkout/summary", cart.CheckoutSummary)
		})
		r.With(middleware.NoStore, authenticate).Post("/cart/merge", cart.MergeCart)

		// Authentication
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst, proxies, logger))

			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Post("/google", auth.Google)
			r.Post("/logout", auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", auth.Me)
				r.Put("/me", auth.UpdateMe)
				r.Put("/me/password", auth.ChangePassword)
			})
		})

		// Wishlist
		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(authenticate)

			r.Get("/", wishlist.List)
			r.Post("/", wishlist.Add)
			r.Delete("/{productID}", wishlist.Remove)
			r.Post("/{productID}/move-to-cart", wishlist.MoveToCart)
		})

		// Back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(authenticate)
			r.Use(RequireMinRole(domain.RoleStaff))

			r.Get("/analytics", store.Analytics)
			r.Post("/variants/preview", products.PreviewVariants)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", products.ListProducts)
				r.Post("/", products.CreateProduct)
				r.With(RequireMinRole(domain.RoleManager)).Get("/export", products.ExportProducts)
				r.With(RequireMinRole(domain.RoleManager)).Post("/bulk", products.BulkProducts)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", products.GetProduct)
					r.Put("/", products.UpdateProduct)
					r.With(RequireMinRole(domain.RoleManager)).Delete("/", products.DeleteProduct)

					r.Get("/variants", products.ListVariants)
					r.Put("/variants", products.SaveVariants)
					r.Patch("/variants/{variantID}", products.PatchVariant)

					r.Get("/images", products.ListImages)
					r.Post("/images", products.AddImage)
					r.Put("/images", products.ReorderImages)
					r.Put("/images/{imageID}/primary", products.SetPrimaryImage)
					r.Delete("/images/{imageID}", products.DeleteImage)
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categories.ListCategories)
				r.Post("/", categories.CreateCategory)
				r.With(RequireMinRole(domain.RoleManager)).Post("/bulk", categories.BulkCategories)
				r.Get("/{id}", categories.GetCategory)
				r.Put("/{id}", categories.UpdateCategory)
				r.With(RequireMinRole(domain.RoleManager)).Delete("/{id}", categories.DeleteCategory)
			})

			r.Route("/subcategories", func(r chi.Router) {
				r.Get("/", categories.ListSubcategories)
				r.Post("/", categories.CreateSubcategory)
				r.Get("/{id}", categories.GetSubcategory)
				r.Put("/{id}", categories.UpdateSubcategory)
				r.With(RequireMinRole(domain.RoleManager)).Delete("/{id}", categories.DeleteSubcategory)
			})

			r.With(RequireMinRole(domain.RoleManager)).Get("/settings", store.GetSettings)
			r.With(RequireMinRole(domain.RoleAdmin)).Put("/settings", store.UpdateSettings)

			r.Route("/users", func(r chi.Router) {
				r.Use(RequireMinRole(domain.RoleAdmin))

				r.Get("/", users.ListUsers)
				r.Get("/{id}", users.GetUser)
				r.Put("/{id}/role", users.ChangeRole)
				r.Put("/{id}/status", users.SetActive)
				r.Delete("/{id}", users.DeleteUser)
			})
		})
	})

	return r
}

// RequireMinRole admits authenticated callers whose role ranks at or above lowest.
func RequireMinRole(lowest domain.Role) func(http.Handler) http.Handler {
	return middleware.RequireRole(lowest.Allows)
}
