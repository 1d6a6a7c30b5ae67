// Package metrics defines the Prometheus instruments of the backend.
//
// Instruments are registered on the Registerer passed to New, so tests can use
// an isolated prometheus.NewRegistry() while the server uses the default one.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aurachat"

// Metrics holds every instrument.
type Metrics struct {
	// ActiveRooms tracks rooms with at least one registered session.
	ActiveRooms prometheus.Gauge

	// SessionsTotal counts chat session admissions.
	// Labels: result (admitted, rejected)
	SessionsTotal *prometheus.CounterVec

	// ChatEventsTotal counts processed chat frames and emitted events.
	// Labels: type (chat_message, message_read, user_presence, error, dropped_client)
	ChatEventsTotal *prometheus.CounterVec

	// AuraRecalculationsTotal counts aura snapshot recalculations.
	// Labels: status (success, error)
	AuraRecalculationsTotal *prometheus.CounterVec

	// HTTPRequestsTotal counts HTTP requests by route template and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration measures request latency by route template.
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all instruments on reg.
// It panics if called twice with the same registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ActiveRooms: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "active_rooms",
			Help:      "Number of chat rooms with at least one connected session",
		}),
		SessionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "sessions_total",
			Help:      "Chat session admission decisions by result",
		}, []string{"result"}),
		ChatEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "events_total",
			Help:      "Chat events processed by type",
		}, []string{"type"}),
		AuraRecalculationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aura",
			Name:      "recalculations_total",
			Help:      "Aura snapshot recalculations by status",
		}, []string{"status"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// NewNop returns instruments registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// GinMiddleware records HTTP request counts and latency per route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
