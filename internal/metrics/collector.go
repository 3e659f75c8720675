package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vyra"

// Collector owns the service's Prometheus registry and instruments.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationsTotal   *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec
	optimizerFallbacks *prometheus.CounterVec
	ledgerRetries      prometheus.Counter
}

// creates a collector with its own registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"method", "path"},
		),

		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Generation requests by outcome",
			},
			[]string{"outcome"},
		),

		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_stage_duration_seconds",
				Help:      "Time spent in each generation stage",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"stage", "status"},
		),

		optimizerFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "optimizer_fallbacks_total",
				Help:      "Times the original prompt was used because refinement failed",
			},
			[]string{"reason"},
		),

		ledgerRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_retries_total",
				Help:      "Ledger transactions retried after serialization failures",
			},
		),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// records the terminal outcome of a generation request
func (c *Collector) RecordOutcome(outcome string) {
	c.generationsTotal.WithLabelValues(outcome).Inc()
}

// records how long a pipeline stage took
func (c *Collector) RecordStage(stage string, ok bool, d time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}

	c.stageDuration.WithLabelValues(stage, status).Observe(d.Seconds())
}

func (c *Collector) RecordOptimizerFallback(reason string) {
	c.optimizerFallbacks.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordLedgerRetry() {
	c.ledgerRetries.Inc()
}

// serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// records request counts and latencies keyed by route template
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, path, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
