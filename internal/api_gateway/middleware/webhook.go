package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-tracker/internal/platform/mesomb"
)

const maxWebhookBody = 1 << 20

// WebhookSignature rejects provider notifications whose body is not signed
// with secret. The body is restored for the handler.
func WebhookSignature(secret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid webhook payload"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !mesomb.VerifyWebhook(secret, body, c.GetHeader(mesomb.WebhookSignatureHeader)) {
			logger.Warn("Webhook signature rejected",
				"client_ip", c.ClientIP(),
				"signed", c.GetHeader(mesomb.WebhookSignatureHeader) != "",
				"correlation_id", GetCorrelationID(c),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid webhook signature"})
			return
		}
		c.Next()
	}
}
