package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmarceau/privastore-backend/api/controllers"
	webhookcontrollers "github.com/lmarceau/privastore-backend/api/controllers/webhooks"
	"github.com/lmarceau/privastore-backend/api/middleware"
	"github.com/lmarceau/privastore-backend/internal/cart"
	"github.com/lmarceau/privastore-backend/internal/catalog"
	"github.com/lmarceau/privastore-backend/internal/orderlog"
	"github.com/lmarceau/privastore-backend/internal/orders"
	"github.com/lmarceau/privastore-backend/internal/payments"
	"github.com/lmarceau/privastore-backend/pkg/config"
	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/lmarceau/privastore-backend/pkg/metrics"
)

// Deps carries everything the HTTP surface needs. Health pingers are optional;
// a nil entry reports as unconfigured instead of panicking.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	CartStore      *cart.Store
	CatalogService catalog.Service
	OrdersService  orders.Service
	PaymentsSvc    payments.Service
	OrderLog       orderlog.Repository

	WebhookService webhookcontrollers.WooWebhookService
	WebhookSecrets interface{ WebhookSecret() string }

	HealthDeps map[string]controllers.Pinger

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(deps.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.HealthDeps))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.CatalogService, deps.Logger))
		r.Get("/products/{id}", controllers.GetProduct(deps.CatalogService, deps.Logger))
		r.Get("/payment-methods", controllers.ListPaymentMethods(deps.PaymentsSvc, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(deps.Logger))
			r.Get("/", controllers.GetCart(deps.CartStore, deps.Logger))
			r.Post("/items", controllers.AddCartItem(deps.CartStore, deps.CatalogService, deps.Logger))
			r.Put("/items/{identity}", controllers.UpdateCartItem(deps.CartStore, deps.Logger))
			r.Delete("/items/{identity}", controllers.RemoveCartItem(deps.CartStore, deps.Logger))
			r.Post("/clear", controllers.ClearCart(deps.CartStore, deps.Logger))
		})

		r.With(middleware.CartSession(deps.Logger)).
			Get("/orders", controllers.ListOrders(deps.OrderLog, deps.Logger))

		r.With(middleware.CartSession(deps.Logger)).
			Post("/checkout", controllers.Checkout(
				deps.CartStore,
				deps.OrdersService,
				deps.PaymentsSvc,
				deps.OrderLog,
				deps.Config.Flags.StrictProductIDs,
				deps.Logger,
			))

		r.Post("/webhooks/woocommerce", webhookcontrollers.WooCommerceWebhook(deps.WebhookService, deps.WebhookSecrets, deps.Logger))
	})

	return r
}
