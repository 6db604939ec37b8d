package file

import "github.com/gin-gonic/gin"

// RegisterRoutes registers file routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	folders := r.Group("/folders/:id")
	{
		folders.POST("/files", h.Upload)
		folders.GET("/files", h.List)
		folders.GET("/files/:fileId", h.Get)
		folders.DELETE("/files/:fileId", h.Delete)
		folders.GET("/events", h.Events)
	}

	files := r.Group("/files/:fileId")
	{
		files.GET("/download", h.Download)
		files.GET("/view", h.View)
	}
}
