package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"droneDispatch/internal/auth"
	"droneDispatch/internal/logx"
)

// RouterConfig carries what the router needs besides the handlers.
type RouterConfig struct {
	JWTSecret      string
	Users          auth.UserLookup
	Logger         logx.Logger
	RequestTimeout time.Duration
}

// NewRouter constructs the chi router: public health and metrics endpoints plus the
// authenticated /api/v1 tree. Fleet writes and manual dispatch passes require an admin.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logx.Nop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Observability(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.NotFound(h.NotFound)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.JWTSecret))
		admin := auth.AdminOnly(cfg.Users)

		r.Route("/drones", func(r chi.Router) {
			r.Get("/", h.ListDrones)
			r.Get("/{id}", h.GetDrone)
			r.Get("/code/{code}", h.GetDroneByCode)
			r.With(admin).Post("/", h.CreateDrone)
			r.With(admin).Delete("/{id}", h.DecommissionDrone)
			r.With(admin).Patch("/{id}/status", h.SetDroneStatus)
			r.Patch("/{id}/telemetry", h.ReportTelemetry)
		})
		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", h.ListRestaurants)
			r.Get("/{id}", h.GetRestaurant)
			r.With(admin).Post("/", h.CreateRestaurant)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/queue", h.Queue)
			r.Get("/{id}", h.GetOrder)
			r.Get("/{id}/recommendation", h.Recommend)
			r.Post("/{id}/dispatch", h.Dispatch)
			r.Post("/{id}/complete", h.Complete)
			r.Post("/{id}/cancel", h.Cancel)
		})
		r.With(admin).Post("/dispatch/run", h.RunDispatch)
	})
	return r
}
