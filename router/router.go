package router

import (
	"net/http"

	"github.com/passai/material-service/handler"
	"github.com/passai/material-service/middleware"
	"github.com/passai/material-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func Setup(materialHandler *handler.MaterialHandler, auth *middleware.AuthValidator) *gin.Engine {
	r := gin.Default()
	r.Use(metrics.PrometheusMiddleware("material-service"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", auth.JWTAuth())
	{
		api.POST("/upload", materialHandler.Upload)
		api.POST("/batch-upload", materialHandler.BatchUpload)
		api.POST("/process-material", materialHandler.ProcessMaterial)
		api.POST("/batch-process", materialHandler.BatchProcess)
		api.GET("/storage-usage", materialHandler.StorageUsage)
		api.GET("/materials", materialHandler.ListMaterials)
		api.GET("/materials/:id/status", materialHandler.MaterialStatus)
		api.DELETE("/materials/:id", materialHandler.DeleteMaterial)
	}
	return r
}
