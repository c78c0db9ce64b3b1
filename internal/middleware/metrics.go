package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InitMetrics creates the Prometheus HTTP middleware for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the Prometheus middleware to a fiber.Handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

// RedisErrors counts Redis command failures by command name. The cache layer
// increments it from a client hook so degraded caching shows up on dashboards.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "commune_redis_errors_total",
		Help: "Total number of Redis command errors by command.",
	},
	[]string{"command"},
)
