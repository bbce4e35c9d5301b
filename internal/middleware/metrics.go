package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_cache_lookups_total",
		Help: "Total number of cache-aside lookups by result",
	}, []string{"result"})

	// ContentWrites counts successful content mutations by entity and operation.
	ContentWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_content_writes_total",
		Help: "Total number of post and comment mutations",
	}, []string{"entity", "operation"})
)

var (
	httpMetricsMu sync.Mutex
	httpMetrics   = map[string]*fiberprometheus.FiberPrometheus{}
)

// InitMetrics returns the HTTP metrics collector for the given service name.
// Collectors register with the default registry once per name, so servers
// built repeatedly in one process share them.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	httpMetricsMu.Lock()
	defer httpMetricsMu.Unlock()

	if prom, ok := httpMetrics[serviceName]; ok {
		return prom
	}
	prom := fiberprometheus.New(serviceName)
	httpMetrics[serviceName] = prom
	return prom
}

// MetricsMiddleware records request count, latency and in-flight gauges.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
