package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trailhead",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trailhead",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Overpass query metrics
	OverpassQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "overpass",
		Name:      "queries_total",
		Help:      "Total Overpass queries by kind and outcome",
	}, []string{"kind", "outcome"})

	OverpassRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "overpass",
		Name:      "retries_total",
		Help:      "Total Overpass retry attempts after a failure",
	})

	OverpassRateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "overpass",
		Name:      "rate_limited_total",
		Help:      "Total HTTP 429 responses per endpoint",
	}, []string{"endpoint"})

	OverpassQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trailhead",
		Subsystem: "overpass",
		Name:      "query_duration_seconds",
		Help:      "Duration of Overpass queries including retries and backoff",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"kind"})

	// Course pipeline metrics
	CoursesBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "courses",
		Name:      "built_total",
		Help:      "Total course candidates that survived assembly",
	})

	CoursesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "courses",
		Name:      "discarded_total",
		Help:      "Total relations discarded during course assembly",
	})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailhead",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
