package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitDisabled(t *testing.T) {
	tel, err := Init(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, tel)

	ctx, span := StartSpan(context.Background(), "test.span")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.Empty(t, GetTraceID(context.Background()))
	assert.NoError(t, Shutdown(context.Background()))
}

func TestInstrumentsOnNoopProvider(t *testing.T) {
	counter, err := NewCounter(MetricOpts{Name: "test_total", Unit: "1"})
	require.NoError(t, err)
	counter.Inc(context.Background(), attribute.String("k", "v"))

	gauge, err := NewUpDownCounter(MetricOpts{Name: "test_gauge"})
	require.NoError(t, err)
	gauge.Inc(context.Background())
	gauge.Dec(context.Background())

	hist, err := NewHistogram(MetricOpts{Name: "test_seconds", Unit: "s"})
	require.NoError(t, err)
	hist.Record(context.Background(), 0.25)
}

func TestTracingMiddlewareSkipsPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TracingMiddleware("/health"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/workshops", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/api/workshops"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
