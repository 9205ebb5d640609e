package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-planner/internal/service"
)

func TestMetricsRecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/planner/sessions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/planner/sessions/abc", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)
}

func TestMetricsGroupsUnmatchedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var labels []string
	router.Use(func(c *gin.Context) {
		c.Next()
		labels = append(labels, routeLabel(c))
	})
	router.Use(Metrics(service.NewMetricsService()))
	router.GET("/planner/downloads/:token", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/planner/downloads/abc", "/nope/1", "/nope/2"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, []string{"/planner/downloads/:token", unmatchedRoute, unmatchedRoute}, labels)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetMeta(c, "candidates", 4)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cached"])
	assert.Equal(t, 4, meta["candidates"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))
	assert.Nil(t, ExtractMeta(nil))
}
