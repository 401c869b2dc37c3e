package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	pgdatabase "taskapp/internal/adapter/database/postgres"
	pgrepository "taskapp/internal/adapter/database/postgres/repository"
	database "taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/http/routes"
	"taskapp/internal/adapter/mailer"
	"taskapp/internal/core/port"
	"taskapp/pkg"
	"taskapp/pkg/config"
	rcache "taskapp/pkg/response"
	"taskapp/pkg/tracing"
)

func StartServer(metrics *tracing.AppMetrics, logger *config.LokiLogger) {
	StartServerWithConfig(metrics, logger, config.GetDefaultConfig())
}

// StartServerWithConfig picks postgres when DATABASE_URL is set and
// falls back to the embedded sqlite database otherwise.
func StartServerWithConfig(metrics *tracing.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) {
	var (
		userRepo port.UserRepository
		taskRepo port.TaskRepository
		closeDB  func()
	)

	if os.Getenv("DATABASE_URL") != "" {
		db, err := pgdatabase.NewDB()

		if err != nil {
			slog.Error("Failed to connect to postgres", "error", err)
			return
		}

		userRepo = pgrepository.NewUserRepository(db)
		taskRepo = pgrepository.NewTaskRepository(db)
		closeDB = db.Close
	} else {
		db, _ := database.NewDB()

		userRepo = repository.NewUserRepository(db)
		taskRepo = repository.NewTaskRepository(db)
		closeDB = func() { db.Close() }
	}

	defer closeDB()

	var cache *rcache.ResponseCache

	if cfg.CacheEnabled {
		cache = rcache.NewResponseCache(logger.Logger.Logger, metrics)
	}

	mail := mailer.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom, metrics)

	container := NewContainer(userRepo, taskRepo, mail, cfg, logger, cache, metrics)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler:    container.AuthHandler,
		UserHandler:    container.UserHandler,
		TaskHandler:    container.TaskHandler,
		AuthMiddleware: container.AuthMiddleware,
	}, metrics, logger, cfg, cache)

	serverPort := pkg.GetServerPort()

	slog.Info("Server starting",
		"port", serverPort,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"https_enforced", cfg.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}
