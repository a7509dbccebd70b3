package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetUserEmail extracts the signed-in admin email from the Gin context
func GetUserEmail(c *gin.Context) string {
	return c.GetString("user_email")
}

// parseReceiptID reads the :id path parameter. Only positive integers are ids.
func parseReceiptID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
