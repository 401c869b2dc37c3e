package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	. "taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/internal/core/util"
	"taskapp/pkg/tracing"
)

type AuthHandler struct {
	svc     port.AuthService
	metrics *tracing.AppMetrics
}

// NewAuthHandler builds the session endpoints. metrics may be nil when
// telemetry is disabled.
func NewAuthHandler(svc port.AuthService, metrics *tracing.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		metrics: metrics,
	}
}

func (a *AuthHandler) recordUser(c *gin.Context, operation string) {
	if a.metrics != nil {
		a.metrics.RecordUserOperation(c.Request.Context(), operation)
	}
}

func (a *AuthHandler) Signup(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	params.Name = strings.TrimSpace(params.Name)

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, token, err := a.svc.Signup(ctx, &params)

	if err != nil {
		if errors.Is(err, port.ErrEmailTaken) {
			SendBadRequestError(c, "email", "Email already in use")
			return
		}

		slog.Error("Auth#Signup", "error", err)
		SendInternalError(c, "Error creating user")
		return
	}

	a.recordUser(c, "signup")

	c.JSON(http.StatusCreated, response.SessionResponse{
		User:  response.NewUserResponse(user),
		Token: token,
	})
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, token, err := a.svc.Login(ctx, &params)

	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			SendBadRequestError(c, "login", "Unable to login")
			return
		}

		slog.Error("Auth#Login", "error", err)
		SendInternalError(c, "Error logging in")
		return
	}

	a.recordUser(c, "login")

	c.JSON(http.StatusOK, response.SessionResponse{
		User:  response.NewUserResponse(user),
		Token: token,
	})
}

// Logout revokes only the session token that authenticated this request.
func (a *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	if err := a.svc.Logout(ctx, user.ID, middleware.CurrentToken(c)); err != nil {
		slog.Error("Auth#Logout", "error", err)
		SendInternalError(c, "Error logging out")
		return
	}

	a.recordUser(c, "logout")

	SendSuccess(c, http.StatusOK, nil, "Logged out")
}

func (a *AuthHandler) LogoutAll(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	if err := a.svc.LogoutAll(ctx, user.ID); err != nil {
		slog.Error("Auth#LogoutAll", "error", err)
		SendInternalError(c, "Error logging out")
		return
	}

	a.recordUser(c, "logout_all")

	SendSuccess(c, http.StatusOK, nil, "Logged out of all sessions")
}
