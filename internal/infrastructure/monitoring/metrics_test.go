package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/recipes/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/recipes/{id}", "404")))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetricsCollector(zap.NewNop())
	e := gin.New()
	e.Use(m.GinMiddleware())
	e.GET("/ready", func(c *gin.Context) { c.Status(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/ready", "200")))
}

func TestBusinessCounters(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.EventPublished("meal.scheduled")
	m.EventPublished("meal.scheduled")
	m.AIRequest("generate_recipe", "ok", 120*time.Millisecond)
	m.AIQuotaRejected()
	m.ObserveQuery("select", "recipes", time.Millisecond, errors.New("boom"))
	m.CacheOperation("get", "hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues("meal.scheduled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aiRequestsTotal.WithLabelValues("generate_recipe", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aiQuotaRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("select", "recipes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheOperations.WithLabelValues("get", "hit")))
}

func TestCollectorsDoNotShareRegistry(t *testing.T) {
	a := NewMetricsCollector(zap.NewNop())
	b := NewMetricsCollector(zap.NewNop())
	a.AIQuotaRejected()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.aiQuotaRejected))

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "sousa_ai_quota_rejections_total")
}
