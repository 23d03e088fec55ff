// Package response writes the flat JSON shapes the original API
// exposes: entity bodies on success, {"error": "..."} on failure.
package response

import (
	"github.com/gin-gonic/gin"
)

// JSON writes a success body as-is.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Error writes {"error": message}.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ErrorWithDetails writes {"error": message, "details": ...} for
// validation failures.
func ErrorWithDetails(c *gin.Context, status int, message string, details any) {
	c.JSON(status, gin.H{"error": message, "details": details})
}
