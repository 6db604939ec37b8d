package folder

import "github.com/gin-gonic/gin"

// RegisterRoutes registers folder CRUD under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	folders := r.Group("/folders")
	{
		folders.POST("", h.Create)
		folders.GET("", h.List)
		folders.GET("/:id", h.Get)
		folders.PUT("/:id", h.Update)
		folders.DELETE("/:id", h.Delete)
	}
}
