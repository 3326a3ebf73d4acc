package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/biowe-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/biowe-backend/api/controllers/orders"
	"github.com/angelmondragon/biowe-backend/api/middleware"
	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/identity"
	"github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/internal/promo"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/angelmondragon/biowe-backend/pkg/metrics"
	"github.com/angelmondragon/biowe-backend/pkg/redis"
)

// Services carries everything the HTTP surface dispatches to. Redis, Uploader,
// Directory, Metrics and Gatherer are optional.
type Services struct {
	Verifier  identity.Verifier
	Catalog   catalog.Service
	Promo     promo.Validator
	Orders    orders.Service
	Directory identity.Directory
	Uploader  controllers.ObjectUploader
	Redis     *redis.Client
	Metrics   *metrics.HTTPMetrics
	Gatherer  prometheus.Gatherer
	Readiness map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(svc.Metrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	var idempotencyStore redis.IdempotencyStore
	promoLimit := func(next http.Handler) http.Handler { return next }
	if svc.Redis != nil {
		idempotencyStore = svc.Redis
		promoPolicy := middleware.NewRateLimitPolicy("promo", cfg.RateLimit.PromoWindow, cfg.RateLimit.PromoIPLimit).
			WithTrustedProxies(cfg.RateLimit.TrustedProxies)
		promoLimit = middleware.RateLimit(promoPolicy, svc.Redis, logg)
	}

	authenticated := middleware.Auth(svc.Verifier, logg)
	optionalAuth := middleware.OptionalAuth(svc.Verifier, logg)
	admin := middleware.RequireAdmin(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, svc.Readiness, logg))
	})

	if svc.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(svc.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svc.Catalog, logg))
			r.Post("/recommendations", controllers.RecommendProducts(svc.Catalog, logg))
			r.Get("/{id}", controllers.GetProduct(svc.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticated, admin)
				r.Post("/", controllers.CreateProduct(svc.Catalog, logg))
				r.Post("/upload", controllers.UploadProductImage(svc.Uploader, controllers.UploadSettings{
					MaxBytes:     cfg.Upload.MaxBytes(),
					ObjectPrefix: cfg.Upload.ObjectPrefix,
				}, logg))
				r.Put("/{id}", controllers.UpdateProduct(svc.Catalog, logg))
				r.Delete("/{id}", controllers.DeleteProduct(svc.Catalog, logg))
			})
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", controllers.ListPosts(svc.Catalog, logg))
			r.Get("/slug/{slug}", controllers.GetPostBySlug(svc.Catalog, logg))
			r.Get("/{id}", controllers.GetPost(svc.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticated, admin)
				r.Post("/", controllers.CreatePost(svc.Catalog, logg))
				r.Put("/{id}", controllers.UpdatePost(svc.Catalog, logg))
				r.Delete("/{id}", controllers.DeletePost(svc.Catalog, logg))
			})
		})

		r.With(optionalAuth, promoLimit).Post("/promo", controllers.ValidatePromo(svc.Promo, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticated)
			r.With(admin).Get("/", ordercontrollers.List(svc.Orders, logg))
			r.With(middleware.Idempotency(idempotencyStore, cfg.Idempotency.OrdersTTL, logg)).
				Post("/", ordercontrollers.Create(svc.Orders, logg))
			r.Get("/user/{userId}", ordercontrollers.History(svc.Orders, logg))
			r.Get("/{id}", ordercontrollers.Detail(svc.Orders, logg))
			r.With(admin).Put("/{id}", ordercontrollers.UpdateStatus(svc.Orders, logg))
			r.Delete("/{id}", ordercontrollers.Remove(svc.Orders, logg))
		})

		r.With(authenticated, admin).Get("/admin/users", controllers.ListUsers(svc.Directory, logg))
	})

	return r
}
