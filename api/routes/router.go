package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pickpackz-backend/api/controllers"
	"github.com/angelmondragon/pickpackz-backend/api/middleware"
	"github.com/angelmondragon/pickpackz-backend/internal/inventory"
	"github.com/angelmondragon/pickpackz-backend/internal/orders"
	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	"github.com/angelmondragon/pickpackz-backend/pkg/db"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/pickpackz-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	ordersSvc orders.Service,
	inventorySvc inventory.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.Origins()),
	)

	// A nil *Client must not reach the middlewares as a non-nil interface.
	var redisP pkgredis.Pinger
	var idemStore pkgredis.IdempotencyStore
	scanLimit := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		redisP = redisClient
		idemStore = redisClient
		scanLimit = middleware.ScanRateLimit(cfg.ScanRateLimit, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	if !cfg.App.IsProd() {
		r.Post("/api/dev/token", controllers.DevToken(cfg.JWT, logg))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(ordersSvc, logg))
			r.With(middleware.RequireRole(logg, enums.ActorRoleAdmin)).Post("/", controllers.CreateOrder(ordersSvc, logg))
			r.Get("/{orderRef}", controllers.OrderDetail(ordersSvc, logg))
			r.Put("/{orderRef}/status", controllers.UpdateOrderStatus(ordersSvc, logg))

			r.With(middleware.RequireRole(logg, enums.ActorRolePicker), scanLimit).
				Post("/{orderRef}/pick", controllers.PickItem(ordersSvc, logg))
			r.With(middleware.RequireRole(logg, enums.ActorRolePicker)).
				Post("/{orderRef}/confirm-picked", controllers.ConfirmPicked(ordersSvc, logg))
			r.With(middleware.RequireRole(logg, enums.ActorRolePacker), scanLimit).
				Post("/{orderRef}/pack", controllers.PackItem(ordersSvc, logg))
			r.With(middleware.RequireRole(logg, enums.ActorRolePacker)).
				Post("/{orderRef}/confirm-packed", controllers.ConfirmPacked(ordersSvc, logg))
			r.With(middleware.RequireRole(logg, enums.ActorRolePacker)).
				Post("/{orderRef}/ship", controllers.ShipOrder(ordersSvc, logg))
			r.With(middleware.RequireRole(logg, enums.ActorRoleAdmin)).
				Post("/{orderRef}/cancel", controllers.CancelOrder(ordersSvc, logg))
		})

		r.Route("/queues", func(r chi.Router) {
			r.Get("/picking", controllers.PickQueue(ordersSvc, logg))
			r.Get("/packing", controllers.PackQueue(ordersSvc, logg))
			r.Get("/packed", controllers.PackedQueue(ordersSvc, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/receive", controllers.ReceiveStock(inventorySvc, logg))
			r.With(middleware.RequireRole(logg, enums.ActorRoleAdmin)).
				Post("/adjust", controllers.AdjustStock(inventorySvc, logg))
			r.Get("/records", controllers.InventoryRecord(inventorySvc, logg))
			r.Get("/adjustments", controllers.ListAdjustments(inventorySvc, logg))
		})

		r.Get("/bins", controllers.ListBins(inventorySvc, logg))
	})

	return r
}
