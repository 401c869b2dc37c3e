package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"taskapp/pkg/tracing"
)

func newTestCache() *ResponseCache {
	logger := zap.NewNop()
	metrics := tracing.NewAppMetrics(prometheus.NewRegistry())

	return NewResponseCache(logger, metrics)
}

// authenticatedAs mirrors the deployed chain, where the auth middleware
// resolves the user before the cache runs.
func authenticatedAs(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("x-user-id", userID)
		c.Next()
	}
}

func TestNewResponseCache(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	Expect(rc).ToNot(BeNil())
	Expect(rc.cache).ToNot(BeNil())
	Expect(rc.config).ToNot(BeNil())

	Expect(rc.config).To(HaveKey("/tasks"))
	Expect(rc.config).To(HaveKey("default"))

	tasksConfig := rc.config["/tasks"]
	Expect(tasksConfig.TTL).To(Equal(3 * time.Second))
	Expect(tasksConfig.Enabled).To(BeTrue())
}

func TestResponseCacheMiddleware_CacheDisabled(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()
	rc.SetConfig("/test", ResponseCacheConfig{
		TTL:     1 * time.Second,
		Enabled: false,
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/test", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "test", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w1, req1)

	Expect(w1.Code).To(Equal(200))
	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(BeEmpty())

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w2, req2)

	Expect(w2.Code).To(Equal(200))
	Expect(callCount).To(Equal(2))
	Expect(w2.Header().Get("X-Cache")).To(BeEmpty())
}

func TestResponseCacheMiddleware_CacheMiss(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "test", "count": callCount})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(200))
	Expect(callCount).To(Equal(1))
	Expect(w.Header().Get("X-Cache")).To(Equal("MISS"))

	var body map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	Expect(err).ToNot(HaveOccurred())
	Expect(body).To(HaveKeyWithValue("message", "test"))
	Expect(body).To(HaveKeyWithValue("count", float64(1)))
}

func TestResponseCacheMiddleware_CacheHit(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "test", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w1, req1)

	Expect(w1.Code).To(Equal(200))
	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(Equal("MISS"))

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w2, req2)

	Expect(w2.Code).To(Equal(200))
	Expect(callCount).To(Equal(1))
	Expect(w2.Header().Get("X-Cache")).To(Equal("HIT"))

	Expect(w1.Body.String()).To(Equal(w2.Body.String()))
}

func TestResponseCacheMiddleware_AnonymousRequestsBypass(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"count": callCount})
	})

	// without a resolved user nothing is cached or served from cache
	for i := 1; i <= 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/tasks", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(callCount).To(Equal(i))
		Expect(w.Header().Get("X-Cache")).To(BeEmpty())
	}

	stats := rc.GetStats()
	Expect(stats).To(HaveKeyWithValue("active_entries", 0))
}

func TestResponseCacheMiddleware_CacheExpiration(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()
	rc.SetConfig("/test", ResponseCacheConfig{
		TTL:     10 * time.Millisecond,
		Enabled: true,
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/test", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "test", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w1, req1)

	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(Equal("MISS"))

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w2, req2)

	Expect(callCount).To(Equal(1))
	Expect(w2.Header().Get("X-Cache")).To(Equal("HIT"))

	time.Sleep(20 * time.Millisecond)

	w3 := httptest.NewRecorder()
	req3, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w3, req3)

	Expect(callCount).To(Equal(2))
	Expect(w3.Header().Get("X-Cache")).To(Equal("MISS"))
}

func TestResponseCacheMiddleware_DifferentQueryParams(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"completed": c.Query("completed"), "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w1, req1)

	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(Equal("MISS"))

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/tasks?completed=true", nil)
	router.ServeHTTP(w2, req2)

	Expect(callCount).To(Equal(2))
	Expect(w2.Header().Get("X-Cache")).To(Equal("MISS"))

	w3 := httptest.NewRecorder()
	req3, _ := http.NewRequest("GET", "/tasks?completed=true", nil)
	router.ServeHTTP(w3, req3)

	Expect(callCount).To(Equal(2))
	Expect(w3.Header().Get("X-Cache")).To(Equal("HIT"))
}

func TestResponseCacheMiddleware_DifferentUsers(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)

	callCount := 0
	newRouter := func(userID int) *gin.Engine {
		router := gin.New()
		router.Use(authenticatedAs(userID))
		router.Use(rc.CacheMiddleware())
		router.GET("/tasks", func(c *gin.Context) {
			callCount++
			c.JSON(200, gin.H{"count": callCount})
		})

		return router
	}

	first := newRouter(1)
	second := newRouter(2)

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/tasks", nil)
	first.ServeHTTP(w1, req1)
	Expect(w1.Header().Get("X-Cache")).To(Equal("MISS"))

	// same path, other user: entries never cross
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/tasks", nil)
	second.ServeHTTP(w2, req2)
	Expect(w2.Header().Get("X-Cache")).To(Equal("MISS"))

	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_NonGETRequests(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.POST("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(201, gin.H{"message": "created", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer([]byte(`{"description":"test"}`)))
	req1.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w1, req1)

	Expect(w1.Code).To(Equal(201))
	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(BeEmpty())

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer([]byte(`{"description":"test2"}`)))
	req2.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w2, req2)

	Expect(w2.Code).To(Equal(201))
	Expect(callCount).To(Equal(2))
	Expect(w2.Header().Get("X-Cache")).To(BeEmpty())
}

func TestResponseCacheMiddleware_ErrorResponses(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(500, gin.H{"error": "internal server error", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w1, req1)

	Expect(w1.Code).To(Equal(500))
	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(BeEmpty())

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w2, req2)

	Expect(w2.Code).To(Equal(500))
	Expect(callCount).To(Equal(2))
	Expect(w2.Header().Get("X-Cache")).To(BeEmpty())
}

func TestInvalidateCache(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(123))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "test", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w1, req1)

	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(Equal("MISS"))

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w2, req2)

	Expect(callCount).To(Equal(1))
	Expect(w2.Header().Get("X-Cache")).To(Equal("HIT"))

	rc.InvalidateCache(123, "/tasks")

	w3 := httptest.NewRecorder()
	req3, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w3, req3)

	Expect(callCount).To(Equal(2))
	Expect(w3.Header().Get("X-Cache")).To(Equal("MISS"))
}

func TestInvalidateAllCache(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "test", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w1, req1)

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/tasks?completed=true", nil)
	router.ServeHTTP(w2, req2)

	Expect(callCount).To(Equal(2))

	rc.InvalidateAllCache()

	stats := rc.GetStats()
	Expect(stats).To(HaveKeyWithValue("active_entries", 0))
}

func TestResponseCacheGetStats(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()

	stats := rc.GetStats()
	Expect(stats).To(HaveKey("active_entries"))
	Expect(stats).To(HaveKey("configs"))
	Expect(stats).To(HaveKeyWithValue("active_entries", 0))
	Expect(stats).To(HaveKeyWithValue("configs", 2))
}

func TestResponseCacheSetConfig(t *testing.T) {
	RegisterTestingT(t)

	rc := newTestCache()
	rc.SetConfig("/custom", ResponseCacheConfig{
		TTL:     5 * time.Second,
		Enabled: true,
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authenticatedAs(1))
	router.Use(rc.CacheMiddleware())

	callCount := 0
	router.GET("/custom", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "custom", "count": callCount})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/custom", nil)
	router.ServeHTTP(w1, req1)

	Expect(w1.Code).To(Equal(200))
	Expect(callCount).To(Equal(1))
	Expect(w1.Header().Get("X-Cache")).To(Equal("MISS"))

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/custom", nil)
	router.ServeHTTP(w2, req2)

	Expect(w2.Code).To(Equal(200))
	Expect(callCount).To(Equal(1))
	Expect(w2.Header().Get("X-Cache")).To(Equal("HIT"))
}
