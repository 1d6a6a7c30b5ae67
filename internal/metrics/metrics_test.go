package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aurachat/backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ActiveRooms.Inc()
	m.SessionsTotal.WithLabelValues("admitted").Inc()
	m.ChatEventsTotal.WithLabelValues("chat_message").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveRooms))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChatEventsTotal.WithLabelValues("chat_message")))

	count, err := testutil.GatherAndCount(reg, "aurachat_chat_sessions_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_TwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewNop()

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/users/:id/aura", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/42/aura", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/users/:id/aura", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("unmatched", "404")))
}
