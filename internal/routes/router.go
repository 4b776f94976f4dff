package routes

import (
	"taskify-api/internal/controller"
	"taskify-api/internal/middleware"
	"taskify-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer is built from.
type Dependencies struct {
	Auth   *service.AuthService
	Tasks  *service.TaskService
	Status *service.StatusService
	Probes map[string]controller.Pinger
}

func Router(deps Dependencies) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	authCtl := controller.NewAuthController(deps.Auth)
	taskCtl := controller.NewTaskController(deps.Tasks)
	statusCtl := controller.NewStatusController(deps.Status)
	health := controller.NewHealthController(deps.Probes)

	// Health for load balancers and K8s probes
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)

	// Public: no auth
	router.POST("/register", authCtl.Register)
	router.POST("/login", authCtl.Login)

	// Protected: bearer token required
	api := router.Group("")
	api.Use(middleware.AuthMiddleware(deps.Auth))
	{
		api.POST("/logout", authCtl.Logout)
		api.GET("/user", authCtl.User)

		v1 := api.Group("/v1")
		v1.GET("/tasks", taskCtl.Index)
		v1.POST("/tasks", taskCtl.Store)
		v1.GET("/tasks/:id", taskCtl.Show)
		v1.PUT("/tasks/:id", taskCtl.Update)
		v1.DELETE("/tasks/:id", taskCtl.Destroy)
		v1.PUT("/tasks/:id/status", statusCtl.Update)
	}

	return router
}
