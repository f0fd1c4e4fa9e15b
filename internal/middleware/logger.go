package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapp/internal/pkg/response"
)

// ErrorLogger logs handler errors and recovers from panics with a generic 500.
func ErrorLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestFields(log, c, start).
					WithField("stack", string(debug.Stack())).
					Error(fmt.Sprintf("panic: %v", recovered))

				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				return
			}

			for _, err := range c.Errors {
				entry := requestFields(log, c, start).WithError(err.Err)
				if err.Meta != nil {
					entry = entry.WithField("meta", err.Meta)
				}
				entry.Error("request error")
			}
		}()

		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := requestFields(log, c, start)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func requestFields(log logrus.FieldLogger, c *gin.Context, start time.Time) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetString("user_id"),
		"role":       c.GetString("role"),
		"request_id": requestID(c),
		"latency":    time.Since(start).String(),
	})
}
