package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/dto"
	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/mapper"
	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/middleware"
	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/validation"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/core/ports"
	"github.com/gagovictor/task-manager-sub000/pkg/apierrors"
)

const defaultPageLimit = 20

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	input, err := validation.BuildCreateTaskInput(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		zap.L().Error("failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailCreateTask, lang))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	page, err := parsePositiveInt(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidPagination, lang))
		return
	}
	limit, err := parsePositiveInt(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidPagination, lang))
		return
	}

	filter, err := validation.BuildListFilter(c.Query("archived"), c.Query("status"), c.Query("due_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	result, err := h.taskService.GetTasksByUser(c.Request.Context(), userID, page, limit, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidPagination, lang))
			return
		}
		zap.L().Error("failed to list tasks", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTasks, lang))
		return
	}

	c.JSON(http.StatusOK, mapper.ToPaginatedTasks(result))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	taskID, ok := taskIDParam(c, lang)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}
	var req dto.UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	updates, err := validation.BuildUpdateTaskInput(userID, req, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, updates)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang))
			return
		}
		zap.L().Error("failed to update task", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailUpdateTask, lang))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	h.lifecycle(c, h.taskService.DeleteTask, apierrors.MsgFailDeleteTask, "failed to delete task")
}

func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	h.lifecycle(c, h.taskService.ArchiveTask, apierrors.MsgFailArchiveTask, "failed to archive task")
}

func (h *TaskHandler) UnarchiveTask(c *gin.Context) {
	h.lifecycle(c, h.taskService.UnarchiveTask, apierrors.MsgFailArchiveTask, "failed to unarchive task")
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	taskID, ok := taskIDParam(c, lang)
	if !ok {
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	task, err := h.taskService.UpdateTaskStatus(c.Request.Context(), taskID, req.Status, userID)
	if err != nil {
		zap.L().Error("failed to update task status", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailStatusTask, lang))
		return
	}
	// The repository reports a miss as a nil task, not an error.
	if task == nil {
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(*task))
}

func (h *TaskHandler) BulkCreateTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	// The payload must be a JSON array; anything else is rejected before any
	// storage call.
	var reqs []dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return
	}

	inputs := make([]domain.CreateTaskInput, 0, len(reqs))
	for _, req := range reqs {
		input, err := validation.BuildCreateTaskInput(userID, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
			return
		}
		inputs = append(inputs, input)
	}

	created, err := h.taskService.BulkCreateTasks(c.Request.Context(), inputs)
	if err != nil {
		zap.L().Error("failed to bulk create tasks", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailBulkCreate, lang))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItems(created))
}

// lifecycle serves delete/archive/unarchive, which share the same shape: a
// user-scoped mutation that either succeeds silently or misses.
func (h *TaskHandler) lifecycle(c *gin.Context, op func(ctx context.Context, id, userID string) error, failKey, logMsg string) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	taskID, ok := taskIDParam(c, lang)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), taskID, userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang))
			return
		}
		zap.L().Error(logMsg, zap.String("task_id", taskID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, failKey, lang))
		return
	}

	c.Status(http.StatusNoContent)
}

// taskIDParam rejects a blank :id path segment before any storage call.
func taskIDParam(c *gin.Context, lang string) (string, bool) {
	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang))
		return "", false
	}
	return taskID, true
}

func parsePositiveInt(value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 0, validation.ErrInvalidTaskPayload
	}
	return parsed, nil
}
