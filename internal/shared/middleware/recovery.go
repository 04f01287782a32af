package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"pujaseva-backend/internal/shared/response"
	"pujaseva-backend/pkg/logger"
)

// Recovery turns a handler panic into a SYS_001 envelope instead of a
// dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(
					fmt.Sprintf("Panic recovered on %s %s", c.Request.Method, c.Request.URL.Path),
					fmt.Errorf("%v (request_id=%s)", r, c.GetString("request_id")),
				)
				response.InternalServerError(c, "SYS_001", "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
