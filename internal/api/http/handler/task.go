package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
)

// TaskService defines task lifecycle and query operations.
type TaskService interface {
	CreateTask(ctx context.Context, params model.CreateTaskParams) (model.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, ownerID, id uuid.UUID, permanent bool) (model.DeleteResult, error)
}

// Task handles HTTP endpoints for tasks.
type Task struct {
	taskService    TaskService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTask creates a new Task handler.
func NewTask(taskService TaskService, contextManager model.ContextManager, logger *logger.Logger) *Task {
	return &Task{
		taskService:    taskService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// updateTaskRequest keeps dueDate raw so an explicit null (clear) is
// distinguishable from an absent key.
type updateTaskRequest struct {
	Completed  *bool           `json:"completed"`
	Priority   *string         `json:"priority"`
	IsArchived *bool           `json:"isArchived"`
	DueDate    json.RawMessage `json:"dueDate"`
}

type taskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	IsArchived  bool       `json:"isArchived"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toTaskResponse(task model.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Completed:   task.Completed,
		CompletedAt: task.CompletedAt,
		IsArchived:  task.IsArchived,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
	}
}

func (h *Task) ownerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

// List returns the caller's tasks for one view in display order.
func (h *Task) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	filter := model.TaskFilter{
		View:      model.View(c.Query("view")),
		Priority:  c.Query("priority"),
		Completed: c.Query("completed"),
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), ownerID, filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	c.JSON(http.StatusOK, response)
}

// Create adds a new task for the caller.
func (h *Task) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewValidationError("invalid json body"))
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), model.CreateTaskParams{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update applies a partial update to one of the caller's tasks.
func (h *Task) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, model.NewValidationError("invalid task id"))
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewValidationError("invalid json body"))
		return
	}

	patch, err := buildPatch(req)
	if err != nil {
		handleError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), ownerID, taskID, patch)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete archives a live task or permanently removes an archived one. The
// permanent query flag forces removal either way.
func (h *Task) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, model.NewValidationError("invalid task id"))
		return
	}

	permanent := c.Query("permanent") == "true"

	result, err := h.taskService.DeleteTask(c.Request.Context(), ownerID, taskID, permanent)
	if err != nil {
		handleError(c, err)
		return
	}

	if result.PermanentlyDeleted {
		c.JSON(http.StatusOK, gin.H{"permanentlyDeleted": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": true})
}

func buildPatch(req updateTaskRequest) (model.TaskPatch, error) {
	patch := model.TaskPatch{
		Completed:  req.Completed,
		IsArchived: req.IsArchived,
	}

	// An empty priority string means "leave it alone".
	if req.Priority != nil && *req.Priority != "" {
		priority := model.Priority(*req.Priority)
		patch.Priority = &priority
	}

	if len(req.DueDate) > 0 {
		patch.DueDateSet = true
		if string(req.DueDate) != "null" {
			var dueDate time.Time
			if err := json.Unmarshal(req.DueDate, &dueDate); err != nil {
				return model.TaskPatch{}, model.NewValidationError("invalid dueDate")
			}
			patch.DueDate = &dueDate
		}
	}

	return patch, nil
}
