package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
)

// EnvelopePrefix marks routes answering with the data/error envelope; the
// other routes keep the relay's success/message shape.
const EnvelopePrefix = "/api/v1"

// Recovery middleware catches panics, logs them with stack traces, and returns a 500
// in the response shape of the route. Panic details are exposed only in development.
func Recovery(logger *slog.Logger, env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"correlation_id", GetCorrelationID(c),
				)

				if !strings.HasPrefix(c.Request.URL.Path, EnvelopePrefix) {
					detail := "Something went wrong"
					if env == "development" {
						detail = panicMessage(r)
					}
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"success": false,
						"message": "Internal server error",
						"error":   detail,
					})
					return
				}

				response := gin.H{
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "An internal server error occurred",
					},
				}
				if correlationID := GetCorrelationID(c); correlationID != "" {
					response["correlation_id"] = correlationID
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, response)
			}
		}()

		c.Next()
	}
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	}
	return "panic"
}
