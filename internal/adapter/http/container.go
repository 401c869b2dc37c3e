package http

import (
	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/pkg/auth"
	"taskapp/pkg/config"
	rcache "taskapp/pkg/response"
	"taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type Container struct {
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository

	AuthUseCase port.AuthService
	UserUseCase port.UserService
	TaskUseCase port.TaskService

	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	TaskHandler *handler.TaskHandler

	AuthMiddleware gin.HandlerFunc
}

func NewContainer(userRepo port.UserRepository, taskRepo port.TaskRepository, mailer port.Mailer, cfg *config.AppConfig, logger *config.LokiLogger, cache *rcache.ResponseCache, metrics *tracing.AppMetrics) *Container {
	jwt := auth.NewJWT(cfg.JWTSecret)

	authSvc := service.NewAuthService(userRepo, jwt, mailer)
	userSvc := service.NewUserService(userRepo, taskRepo, mailer)
	taskSvc := service.NewTaskService(taskRepo)

	return &Container{
		UserRepo: userRepo,
		TaskRepo: taskRepo,

		AuthUseCase: authSvc,
		UserUseCase: userSvc,
		TaskUseCase: taskSvc,

		AuthHandler: handler.NewAuthHandler(authSvc, metrics),
		UserHandler: handler.NewUserHandler(userSvc, metrics),
		TaskHandler: handler.NewTaskHandler(taskSvc, logger, cache, metrics),

		AuthMiddleware: middleware.Authenticated(authSvc),
	}
}
