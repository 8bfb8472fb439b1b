package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidID      = "invalid id"
	msgInvalidPayload = "invalid payload"
)

func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// parseID accepts positive base-10 integers only.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
