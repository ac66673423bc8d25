package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce    sync.Once
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "customidp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"})

		requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "customidp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(requestTotal, requestLatency)
	})
}

// Metrics records a counter and latency histogram per method/route/status.
func Metrics() gin.HandlerFunc {
	initMetrics()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		requestTotal.With(labels).Inc()
		requestLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}
