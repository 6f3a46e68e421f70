package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMisses counts cache-aside misses per key prefix.
var CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "echowall_cache_misses_total",
	Help: "Number of cache-aside misses, labeled by key prefix.",
}, []string{"prefix"})

// RedisErrors counts failed Redis commands by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "echowall_redis_errors_total",
	Help: "Number of failed Redis commands.",
}, []string{"command"})

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The underlying collectors register globally, so the middleware is built
// once and reused by later callers.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}
