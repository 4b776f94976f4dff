package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any dependency that can report reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthController serves liveness and readiness probes.
type HealthController struct {
	deps map[string]Pinger
}

// NewHealthController checks every named dependency on readiness.
func NewHealthController(deps map[string]Pinger) *HealthController {
	return &HealthController{deps: deps}
}

// Health returns 200 if the process is alive. Used by load balancers.
func (h *HealthController) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if every dependency answers. Used by K8s readiness probes.
func (h *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	for name, dep := range h.deps {
		if dep == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": name + " unavailable"})
			return
		}
		if err := dep.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": name + " ping failed"})
			return
		}
	}
	c.String(http.StatusOK, "OK")
}
