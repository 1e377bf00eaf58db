package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts panics into the uniform JSON error envelope so a
// bad build request can never take the daemon down with it.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "an unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		default:
			if v != nil {
				msg = fmt.Sprint(v)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": msg,
			},
		})
		c.Abort()
	})
}
