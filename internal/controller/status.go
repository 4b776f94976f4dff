package controller

import (
	"net/http"

	"taskify-api/internal/middleware"
	"taskify-api/internal/service"

	"github.com/gin-gonic/gin"
)

// StatusController serves PUT /v1/tasks/:id/status.
type StatusController struct {
	status *service.StatusService
}

func NewStatusController(status *service.StatusService) *StatusController {
	return &StatusController{status: status}
}

// Update (auth): sets the task status.
func (h *StatusController) Update(c *gin.Context) {
	var in service.StatusInput
	bindOrZero(c, &in)
	task, err := h.status.UpdateStatus(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task status updated successfully", "task": task})
}
