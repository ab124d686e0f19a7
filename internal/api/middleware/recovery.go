package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery converts a panic in any handler into the generic 500 body. The
// request scoped entry already carries the request id; route, sanitized path
// and client are added so the failing form or upload can be traced. Verbose
// mode adds redacted headers and the stack.
func Recovery(verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			fields := logrus.Fields{
				"method": c.Request.Method,
				"route":  c.FullPath(),
				"path":   SanitizePath(c.Request.URL.Path),
				"client": c.ClientIP(),
			}
			msg := fmt.Sprintf("PANIC: %v", r)
			if verbose {
				fields["headers"] = SanitizeHeaders(c.Request.Header)
				msg += "\nStacktrace:\n" + string(debug.Stack())
			}
			GetRequestLogger(c).WithFields(fields).Error(msg)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}()
		c.Next()
	}
}
