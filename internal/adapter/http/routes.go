package http

import (
	"github.com/gin-gonic/gin"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/handlers"
	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)
	}

	tasks := api.Group("/tasks")
	tasks.Use(middleware.UserMiddleware())
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("/bulk", taskHandler.BulkCreateTasks)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
		tasks.POST("/:id/archive", taskHandler.ArchiveTask)
		tasks.POST("/:id/unarchive", taskHandler.UnarchiveTask)
		tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
	}
}
