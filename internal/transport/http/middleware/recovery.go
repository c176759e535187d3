package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-gin-ecommerce/internal/transport/http/response"
)

// Recovery turns a panic into the 409 envelope used for unexpected errors.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					resp.Abort(c, resp.CodeConflict, "")
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
