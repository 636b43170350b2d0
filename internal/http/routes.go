package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "labelforge.com/labelforge/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RequestID())
	e.Use(middleware.ResolveIdentity())
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/projects", h.ListProjects)
	e.POST("/projects", h.CreateProject)
	e.GET("/projects/:id", h.GetProject)
	e.POST("/projects/:id/datasets", h.CreateDataset)

	e.GET("/datasets/:id", h.GetDataset)
	e.GET("/datasets/:id/tasks", h.ListDatasetTasks)
	e.POST("/datasets/:id/tasks/bulk", h.BulkCreateTasks)

	e.POST("/tasks/:id/claim", h.ClaimTask)
	e.POST("/tasks/:id/submit", h.SubmitTask)
	e.POST("/tasks/:id/approve", h.ApproveTask)
	e.POST("/tasks/:id/reject", h.RejectTask)

	e.GET("/tasks/queue", h.TaskQueue)
	e.GET("/tasks/review-queue", h.ReviewQueue)

	e.GET("/metrics", h.Metrics)
}
