// Package response renders the JSON envelope shared by every Rehearse
// endpoint and parsed back by the uploader client:
// {"success":true,"data":...} on the happy path,
// {"success":false,"error":{"code","message"}} otherwise.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error carries a machine-readable code alongside the human message so
// clients branch on the code, never on message text.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails adds a details slot, used for per-field validation
// failures.
func ErrorWithDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
