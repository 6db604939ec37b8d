package note

import "github.com/gin-gonic/gin"

// RegisterRoutes registers note routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	notes := r.Group("/folders/:id/notes")
	{
		notes.POST("", h.Create)
		notes.GET("", h.List)
		notes.GET("/:noteId", h.Get)
		notes.PUT("/:noteId", h.Update)
		notes.DELETE("/:noteId", h.Delete)
	}
}
