package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cafirm"

var (
	submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Records created through the public and admin forms, by resource.",
	}, []string{"resource"})
	uploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Stored upload files, by form field.",
	}, []string{"field"})
	loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_login_attempts_total",
		Help:      "Admin login attempts, by outcome.",
	}, []string{"outcome"})
	archivesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visibility_changes_total",
		Help:      "Archive and visibility toggles, by resource and new state.",
	}, []string{"resource", "active"})
	visitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "site_visits_total",
		Help:      "Tracked page views.",
	})
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})
)

// Register registers the application collectors plus the Go and process
// collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		submissionsTotal,
		uploadsTotal,
		loginAttemptsTotal,
		archivesTotal,
		visitsTotal,
		httpRequestsTotal,
		httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler exposes registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by route template, so ids in paths do not
// explode label cardinality. Unmatched routes share one label.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// IncSubmission counts a created record of resource.
func IncSubmission(resource string) { submissionsTotal.WithLabelValues(resource).Inc() }

// IncUpload counts a stored file of field.
func IncUpload(field string) { uploadsTotal.WithLabelValues(field).Inc() }

// IncLogin counts a login attempt; outcome is "success", "failure" or "error".
func IncLogin(outcome string) { loginAttemptsTotal.WithLabelValues(outcome).Inc() }

// IncVisibilityChange counts an archive or visibility toggle.
func IncVisibilityChange(resource string, active bool) {
	archivesTotal.WithLabelValues(resource, strconv.FormatBool(active)).Inc()
}

// IncVisit counts a tracked page view.
func IncVisit() { visitsTotal.Inc() }
