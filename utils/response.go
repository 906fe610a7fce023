// utils/response.go
package utils

import "github.com/gin-gonic/gin"

// RespondWithError sends a consistent JSON error payload
func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
