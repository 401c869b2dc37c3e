package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	. "taskapp/internal/adapter/http/helper"
	. "taskapp/internal/adapter/http/middleware"
	. "taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
	"taskapp/pkg/config"
	rcache "taskapp/pkg/response"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TaskHandler struct {
	svc     port.TaskService
	Logger  *config.LokiLogger
	cache   *rcache.ResponseCache
	metrics *AppMetrics
}

// NewTaskHandler builds the task endpoints. cache and metrics may be
// nil when response caching or telemetry is disabled.
func NewTaskHandler(svc port.TaskService, logger *config.LokiLogger, cache *rcache.ResponseCache, metrics *AppMetrics) *TaskHandler {
	return &TaskHandler{
		svc:     svc,
		Logger:  logger,
		cache:   cache,
		metrics: metrics,
	}
}

func (t *TaskHandler) recordTask(c *gin.Context, operation string) {
	if t.metrics != nil {
		t.metrics.RecordTaskOperation(c.Request.Context(), operation)
	}
}

func (t *TaskHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	user := CurrentUser(c)

	params, err := util.ParamsToMap[request.TaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	params.Description = strings.TrimSpace(params.Description)

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, err := t.svc.Create(ctx, user.ID, &params)

	if err != nil {
		t.Logger.Logger.Ctx(ctx).Error("Failed to create task",
			zap.Error(err),
			zap.Int("user_id", user.ID),
		)

		SendInternalError(c, "Error creating task")
		return
	}

	t.invalidateListCache(user.ID)
	t.recordTask(c, "create")

	c.JSON(http.StatusCreated, response.NewTaskResponse(task))
}

func (t *TaskHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user := CurrentUser(c)

	task, err := t.svc.GetByUUID(ctx, user.ID, c.Param("id"))

	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			SendNotFoundError(c, "Task not found")
			return
		}

		SendInternalError(c, "Error getting task")
		return
	}

	c.JSON(http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) List(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.List", []attribute.KeyValue{
		attribute.String("handler.operation", "List"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	user := CurrentUser(c)

	query, err := parseTaskQuery(c)

	if err != nil {
		SendBadRequestError(c, "query", err.Error())
		return
	}

	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Int("task.limit", query.Limit),
		attribute.Int("task.skip", query.Skip),
	)

	tasks, err := t.svc.List(ctx, user.ID, query)

	if err != nil {
		AddSpanError(span, err)

		t.Logger.Logger.Ctx(ctx).Error("Failed to list tasks",
			zap.Error(err),
			zap.Int("user_id", user.ID),
		)

		SendInternalError(c, "Error getting tasks")
		return
	}

	span.SetAttributes(
		attribute.Int("http.status_code", http.StatusOK),
		attribute.Int("task.count", len(tasks)),
	)

	t.recordTask(c, "list")

	c.JSON(http.StatusOK, response.NewTaskListResponse(tasks))
}

func (t *TaskHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	user := CurrentUser(c)

	params, err := util.BindAllowed[request.UpdateTaskRequest](c, domain.TaskMutableFields)

	if err != nil {
		if errors.Is(err, util.ErrUnknownField) {
			SendBadRequestError(c, "request", "Invalid updates")
			return
		}

		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	// omitempty skips empty strings, so a blank description has to be
	// rejected by hand.
	if params.Description != nil && strings.TrimSpace(*params.Description) == "" {
		SendBadRequestError(c, "description", "Description cannot be empty")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, err := t.svc.Update(ctx, user.ID, c.Param("id"), &params)

	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			SendNotFoundError(c, "Task not found")
			return
		}

		SendInternalError(c, "Error updating task")
		return
	}

	t.invalidateListCache(user.ID)
	t.recordTask(c, "update")

	c.JSON(http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := CurrentUser(c)

	task, err := t.svc.Delete(ctx, user.ID, c.Param("id"))

	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			SendNotFoundError(c, "Task not found")
			return
		}

		SendInternalError(c, "Error deleting task")
		return
	}

	t.invalidateListCache(user.ID)
	t.recordTask(c, "delete")

	c.JSON(http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) invalidateListCache(userID int) {
	if t.cache != nil {
		t.cache.InvalidateCache(userID, "/tasks")
	}
}

// parseTaskQuery reads completed, sortBy, limit and skip. completed
// compares against the literal "true"; sortBy takes field:direction
// and rejects fields outside the sortable set.
func parseTaskQuery(c *gin.Context) (port.TaskQuery, error) {
	var query port.TaskQuery

	if raw := c.Query("completed"); raw != "" {
		completed := raw == "true"
		query.Completed = &completed
	}

	if raw := c.Query("sortBy"); raw != "" {
		field, direction, _ := strings.Cut(raw, ":")

		column, ok := domain.TaskSortFields[field]

		if !ok {
			return query, errors.New("Invalid sort field: " + field)
		}

		switch direction {
		case "asc", "":
			query.SortAsc = true
		case "desc":
			query.SortAsc = false
		default:
			return query, errors.New("Invalid sort direction: " + direction)
		}

		query.SortColumn = column
	}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			query.Limit = limit
		}
	}

	if raw := c.Query("skip"); raw != "" {
		if skip, err := strconv.Atoi(raw); err == nil && skip > 0 {
			query.Skip = skip
		}
	}

	return query, nil
}
