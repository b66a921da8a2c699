package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/voyagehq/tripdocs/api/handlers"
	"github.com/voyagehq/tripdocs/api/middleware"
)

// SetupRoutes wires all HTTP routes.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	batches := v1.Group("/batches")
	{
		batches.POST("/process", h.Batch.ProcessBatch)
		batches.GET("/status/:batchId", h.Batch.GetStatus)
	}
}
