package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"droneDispatch/internal/logx"
)

const metricsNamespace = "dispatch"

// Route groups used as the "group" metric label.
const (
	groupFleet    = "fleet"
	groupOrders   = "orders"
	groupDispatch = "dispatch"
	groupSystem   = "system"
	groupOther    = "other"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route group.",
		},
		[]string{"method", "group", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route group.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "group", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration)
}

// Observability records request metrics and logs one line per request.
// Health and scrape requests log at debug; 5xx responses log at warn.
func Observability(logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			// Route patterns keep label cardinality bounded.
			path := pathPattern(r)
			group := routeGroup(path)
			elapsed := time.Since(start)
			status := strconv.Itoa(ww.Status())

			httpRequestsTotal.WithLabelValues(r.Method, group, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, group, path, status).Observe(elapsed.Seconds())

			fields := []logx.Field{
				logx.String("req_id", reqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("group", group),
				logx.String("path", path),
				logx.Int("status", ww.Status()),
				logx.Duration("duration", elapsed),
			}
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				logger.Warn("http request failed", fields...)
			case group == groupSystem:
				logger.Debug("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
		})
	}
}

// routeGroup classifies a route pattern. Recommendation and dispatch routes
// under /orders count as dispatch traffic.
func routeGroup(path string) string {
	switch {
	case path == "/healthz" || path == "/metrics":
		return groupSystem
	case strings.HasPrefix(path, "/api/v1/dispatch"),
		strings.HasPrefix(path, "/api/v1/orders/") &&
			(strings.HasSuffix(path, "/dispatch") || strings.HasSuffix(path, "/recommendation")):
		return groupDispatch
	case strings.HasPrefix(path, "/api/v1/orders"):
		return groupOrders
	case strings.HasPrefix(path, "/api/v1/drones"), strings.HasPrefix(path, "/api/v1/restaurants"):
		return groupFleet
	default:
		return groupOther
	}
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
