package controller

import (
	"net/http"

	"taskify-api/internal/middleware"
	"taskify-api/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskController serves /v1/tasks.
type TaskController struct {
	tasks *service.TaskService
}

func NewTaskController(tasks *service.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// Index (auth): lists the caller's tasks, newest first.
func (h *TaskController) Index(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Store (auth): creates a task owned by the caller.
func (h *TaskController) Store(c *gin.Context) {
	var in service.TaskInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Show (auth): returns one of the caller's tasks.
func (h *TaskController) Show(c *gin.Context) {
	task, err := h.tasks.Show(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update (auth): replaces title and description.
func (h *TaskController) Update(c *gin.Context) {
	var in service.TaskInput
	bindOrZero(c, &in)
	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Destroy (auth): deletes the task and returns a confirmation body.
func (h *TaskController) Destroy(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
