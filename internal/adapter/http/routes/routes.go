package routes

import (
	"taskapp/internal/adapter/http/handler"
	. "taskapp/pkg/config"
	. "taskapp/pkg/middlewares"
	rcache "taskapp/pkg/response"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	TaskHandler *handler.TaskHandler

	// AuthMiddleware guards the protected group. Required whenever any
	// protected handler is set.
	AuthMiddleware gin.HandlerFunc
}

func SetupRouter(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, GetDefaultConfig(), nil)
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger, config *AppConfig, cache *rcache.ResponseCache) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	SetupGinMiddlewareWithConfig(router, "taskapp", metrics, logger, config)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if !config.CacheEnabled {
		cache = nil
	}

	setupPublicRoutes(router, handlers)
	setupProtectedRoutes(router, handlers, cache)

	return router
}

func setupPublicRoutes(router *gin.Engine, handlers HandlersConfig) {
	public := router.Group("/")
	{
		if handlers.AuthHandler != nil {
			public.POST("/users", handlers.AuthHandler.Signup)
			public.POST("/users/login", handlers.AuthHandler.Login)
		}

		if handlers.UserHandler != nil {
			public.GET("/users/:id/avatar", handlers.UserHandler.Avatar)
		}
	}
}

func setupProtectedRoutes(router *gin.Engine, handlers HandlersConfig, cache *rcache.ResponseCache) {
	if handlers.AuthMiddleware == nil {
		return
	}

	protected := router.Group("/")
	protected.Use(handlers.AuthMiddleware)
	// The cache keys entries by user id, so it must sit behind the
	// auth middleware where the user is already resolved.
	if cache != nil {
		protected.Use(cache.CacheMiddleware())
	}
	{
		if handlers.AuthHandler != nil {
			protected.POST("/users/logout", handlers.AuthHandler.Logout)
			protected.POST("/users/logoutAll", handlers.AuthHandler.LogoutAll)
		}

		if handlers.UserHandler != nil {
			protected.GET("/users/me", handlers.UserHandler.Me)
			protected.PATCH("/users/me", handlers.UserHandler.UpdateMe)
			protected.DELETE("/users/me", handlers.UserHandler.DeleteMe)
			protected.POST("/users/me/avatar", handlers.UserHandler.UploadAvatar)
			protected.DELETE("/users/me/avatar", handlers.UserHandler.DeleteAvatar)
		}

		if handlers.TaskHandler != nil {
			protected.GET("/tasks", handlers.TaskHandler.List)
			protected.POST("/tasks", handlers.TaskHandler.Create)
			protected.GET("/tasks/:id", handlers.TaskHandler.Get)
			protected.PATCH("/tasks/:id", handlers.TaskHandler.Update)
			protected.DELETE("/tasks/:id", handlers.TaskHandler.Delete)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests wires the same routes without telemetry,
// caching or rate limiting.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupPublicRoutes(router, handlers)
	setupProtectedRoutes(router, handlers, nil)

	return router
}
