package config

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"taskapp/pkg"
	"taskapp/pkg/tracing"
)

func newTestLimiter() *RateLimiter {
	logger := zap.NewNop()
	metrics := tracing.NewAppMetrics(prometheus.NewRegistry())

	return NewRateLimiter(logger, metrics)
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	Expect(rl).ToNot(BeNil())
	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).ToNot(BeNil())
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/anything", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/anything", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).ToNot(BeEmpty())
		Expect(w.Header().Get("X-RateLimit-Remaining")).ToNot(BeEmpty())
	}
}

func TestRateLimitMiddleware_SignupLimitExceeded(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.POST("/users", func(c *gin.Context) {
		c.JSON(201, gin.H{"status": "created"})
	})

	// signup allows 5 per minute per client
	for i := 0; i < 7; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/users", nil)
		router.ServeHTTP(w, req)

		if i < 5 {
			Expect(w.Code).To(Equal(201))
		} else {
			Expect(w.Code).To(Equal(429))
		}
	}
}

func TestRateLimitMiddleware_UserBasedLimiting(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("x-user-id", 123)
		c.Next()
	})
	router.Use(rl.RateLimitMiddleware())

	callCount := 0
	router.POST("/tasks", func(c *gin.Context) {
		callCount++
		c.JSON(201, gin.H{"count": callCount})
	})

	// POST /tasks allows 20 per minute per user
	expectedRemaining := []int{19, 18, 17, 16, 15}

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/tasks", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(201))
		Expect(callCount).To(Equal(i + 1))

		remaining := w.Header().Get("X-RateLimit-Remaining")
		Expect(remaining).To(Equal(strconv.Itoa(expectedRemaining[i])))
	}
}

func TestRateLimitMiddleware_SeparateUsersSeparateBudgets(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	gin.SetMode(gin.TestMode)

	newRouter := func(userID int) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("x-user-id", userID)
			c.Next()
		})
		router.Use(rl.RateLimitMiddleware())
		router.DELETE("/tasks/:id", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		return router
	}

	first := newRouter(1)
	second := newRouter(2)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/tasks/abc", nil)
	first.ServeHTTP(w, req)
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("9"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/tasks/abc", nil)
	second.ServeHTTP(w, req)
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("9"))
}

func TestRateLimitMiddleware_TokenKeyedBeforeAuth(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	// no auth middleware in front, same as the deployed chain
	router.Use(rl.RateLimitMiddleware())
	router.POST("/tasks", func(c *gin.Context) {
		c.JSON(201, gin.H{"status": "created"})
	})

	send := func(token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		return w
	}

	// two sessions from the same client IP get independent budgets
	w := send("first-token")
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("19"))

	w = send("second-token")
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("19"))

	w = send("first-token")
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("18"))
}

func TestRateLimiterSetConfig(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	config := RateLimitEndpointConfig{
		Requests: 5,
		Window:   time.Minute,
		KeyFunc:  pkg.GetClientIP,
	}

	rl.SetConfig("/custom", config)

	Expect(rl.config["/custom"].Requests).To(Equal(config.Requests))
	Expect(rl.config["/custom"].Window).To(Equal(config.Window))
	Expect(rl.config["/custom"].KeyFunc).ToNot(BeNil())
}

func TestRateLimiterSetConfigWithoutKeyFunc(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	rl.SetConfig("GET /anything", RateLimitEndpointConfig{
		Requests: 3,
		Window:   time.Minute,
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.GET("/anything", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/anything", nil)
		router.ServeHTTP(w, req)

		if i < 3 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
		}
	}
}

func TestRateLimiterGetStats(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestLimiter()

	stats := rl.GetStats()
	Expect(stats).ToNot(BeNil())
	Expect(stats["active_entries"]).ToNot(BeNil())
	Expect(stats["configs"]).ToNot(BeNil())
}
