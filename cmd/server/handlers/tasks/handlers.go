package tasks

import (
	"context"

	"notedeck/cmd/server/handlers/handlerutil"
	"notedeck/internal/services/tasks"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const resourceKind = "Task"

// Service defines the interface for the tasks service.
type Service interface {
	Create(ctx context.Context, ownerID bson.ObjectID, req tasks.CreateTaskRequest) (*tasks.Task, error)
	List(ctx context.Context, ownerID bson.ObjectID, req tasks.ListTasksRequest) ([]*tasks.Task, error)
	Get(ctx context.Context, ownerID, taskID bson.ObjectID) (*tasks.Task, error)
	Toggle(ctx context.Context, ownerID, taskID bson.ObjectID) (*tasks.Task, error)
	ToggleSubTask(ctx context.Context, ownerID, taskID, subTaskID bson.ObjectID) (*tasks.Task, error)
	Delete(ctx context.Context, ownerID, taskID bson.ObjectID) error
}

// Handlers contains the tasks HTTP handlers.
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new tasks handlers.
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Create handles task creation
// @Summary Create a new task with at least one sub-task
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body tasks.CreateTaskRequest true "Create task request"
// @Success 201 {object} handlerutil.Envelope
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /tasks [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req tasks.CreateTaskRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	task, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return handlerutil.Respond(c, 201, "Task created successfully", task)
}

// List handles task listing with optional filters
// @Summary List tasks sorted by due date, then priority
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param isCompleted query string false "Filter on completion state" Enums(true, false)
// @Param priority query string false "Filter on priority" Enums(Low, Medium, High)
// @Success 200 {object} handlerutil.Envelope
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /tasks [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req tasks.ListTasksRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	found, err := h.service.List(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return handlerutil.Respond(c, 200, "Tasks retrieved successfully", found)
}

// Get handles single-task retrieval
// @Summary Fetch one task by ID
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Context(), userID, taskID)
	if err != nil {
		return err
	}

	return handlerutil.Respond(c, 200, "Task retrieved successfully", task)
}

// Toggle handles the whole-task completion toggle
// @Summary Toggle a task's completion, cascading to every sub-task
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id}/toggle [patch]
func (h *Handlers) Toggle(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	task, err := h.service.Toggle(c.Context(), userID, taskID)
	if err != nil {
		return err
	}

	message := "Task status updated"
	if task.IsCompleted {
		message = "Task and all subtasks completed"
	}

	return handlerutil.Respond(c, 200, message, task)
}

// ToggleSubTask handles a single sub-task completion toggle
// @Summary Toggle one sub-task; the task completes when every sub-task is done
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Param subTaskId path string true "Sub-task ID"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id}/subtasks/{subTaskId}/toggle [patch]
func (h *Handlers) ToggleSubTask(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	subTaskID, err := handlerutil.ExtractResourceID(c, "subTaskId", "Subtask")
	if err != nil {
		return err
	}

	task, err := h.service.ToggleSubTask(c.Context(), userID, taskID, subTaskID)
	if err != nil {
		return err
	}

	message := "Subtask status updated"
	if task.IsCompleted {
		message = "All subtasks and task completed"
	}

	return handlerutil.Respond(c, 200, message, task)
}

// Delete handles permanent task deletion
// @Summary Delete a task permanently
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, taskID); err != nil {
		return err
	}

	return handlerutil.Respond(c, 200, "Task deleted successfully", nil)
}
