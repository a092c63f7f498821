package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// OwnerIDHeader carries the identity resolved by the upstream identity provider
	OwnerIDHeader = "X-Owner-ID"

	// OwnerIDKey is the key used to store the owner in the context
	OwnerIDKey = "owner_id"
)

// RequireOwner rejects requests without an owner identity
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := strings.TrimSpace(c.GetHeader(OwnerIDHeader))
		if ownerID == "" {
			response := gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing " + OwnerIDHeader + " header",
				},
			}
			if correlationID := GetCorrelationID(c); correlationID != "" {
				response["correlation_id"] = correlationID
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response)
			return
		}
		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// GetOwnerID retrieves the authenticated owner, empty when none
func GetOwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDKey)
}
