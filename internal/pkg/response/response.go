package response

import (
	"github.com/gin-gonic/gin"

	"blogapp/internal/pkg/validator"
)

// Success writes {"success": true} merged with fields.
func Success(c *gin.Context, statusCode int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func Message(c *gin.Context, statusCode int, message string) {
	Success(c, statusCode, gin.H{"message": message})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"error":   message,
	})
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

func ValidationError(c *gin.Context, statusCode int, errs []validator.FieldError) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    "VALIDATION_ERROR",
		"error":   "Validation failed",
		"errors":  errs,
	})
}
