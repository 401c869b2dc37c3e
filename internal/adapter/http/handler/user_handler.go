package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	. "taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
	"taskapp/pkg/tracing"
)

type UserHandler struct {
	svc     port.UserService
	metrics *tracing.AppMetrics
}

// NewUserHandler builds the profile endpoints. metrics may be nil when
// telemetry is disabled.
func NewUserHandler(svc port.UserService, metrics *tracing.AppMetrics) *UserHandler {
	return &UserHandler{
		svc:     svc,
		metrics: metrics,
	}
}

func (h *UserHandler) recordUser(c *gin.Context, operation string) {
	if h.metrics != nil {
		h.metrics.RecordUserOperation(c.Request.Context(), operation)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)

	c.JSON(http.StatusOK, response.NewUserResponse(user))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	params, err := util.BindAllowed[request.UpdateUserRequest](c, domain.UserMutableFields)

	if err != nil {
		if errors.Is(err, util.ErrUnknownField) {
			SendBadRequestError(c, "request", err.Error())
			return
		}

		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		SendBadRequestError(c, "name", "Name must not be empty")
		return
	}

	if params.Email != nil && strings.TrimSpace(*params.Email) == "" {
		SendBadRequestError(c, "email", "Email must not be empty")
		return
	}

	if params.Password != nil && *params.Password == "" {
		SendBadRequestError(c, "password", "Password must not be empty")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	updated, err := h.svc.UpdateProfile(ctx, user.ID, &params)

	if err != nil {
		if errors.Is(err, port.ErrEmailTaken) {
			SendBadRequestError(c, "email", "Email already in use")
			return
		}

		slog.Error("User#UpdateMe", "error", err)
		SendInternalError(c, "Error updating profile")
		return
	}

	h.recordUser(c, "update_profile")

	c.JSON(http.StatusOK, response.NewUserResponse(&updated))
}

// DeleteMe removes the account and everything it owns, answering with
// the removed document.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	removed, err := h.svc.DeleteAccount(ctx, user.ID)

	if err != nil {
		slog.Error("User#DeleteMe", "error", err)
		SendInternalError(c, "Error deleting account")
		return
	}

	h.recordUser(c, "delete_account")

	c.JSON(http.StatusOK, response.NewUserResponse(&removed))
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	file, header, err := c.Request.FormFile("avatar")

	if err != nil {
		SendBadRequestError(c, "avatar", "An avatar file is required")
		return
	}

	defer file.Close()

	if header.Size > util.AvatarMaxBytes {
		SendBadRequestError(c, "avatar", "Avatar must be 1MB or smaller")
		return
	}

	if !util.AllowedAvatarFile(header.Filename) {
		SendBadRequestError(c, "avatar", "Avatar must be a jpg, jpeg or png file")
		return
	}

	upload, err := io.ReadAll(file)

	if err != nil {
		slog.Error("User#UploadAvatar", "read", err)
		SendInternalError(c, "Error reading avatar upload")
		return
	}

	if err := h.svc.SetAvatar(ctx, user.ID, upload); err != nil {
		if errors.Is(err, util.ErrInvalidImage) {
			SendBadRequestError(c, "avatar", "Avatar must be a valid image")
			return
		}

		slog.Error("User#UploadAvatar", "error", err)
		SendInternalError(c, "Error storing avatar")
		return
	}

	h.recordUser(c, "avatar_upload")

	SendSuccess(c, http.StatusOK, nil, "Avatar uploaded")
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	if err := h.svc.ClearAvatar(ctx, user.ID); err != nil {
		slog.Error("User#DeleteAvatar", "error", err)
		SendInternalError(c, "Error removing avatar")
		return
	}

	h.recordUser(c, "avatar_delete")

	SendSuccess(c, http.StatusOK, nil, "Avatar removed")
}

// Avatar serves a user's avatar publicly, 404 when there is none.
func (h *UserHandler) Avatar(c *gin.Context) {
	ctx := c.Request.Context()

	data, contentType, err := h.svc.AvatarByUUID(ctx, c.Param("id"))

	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			SendNotFoundError(c, "Avatar not found")
			return
		}

		slog.Error("User#Avatar", "error", err)
		SendInternalError(c, "Error reading avatar")
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
