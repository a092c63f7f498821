package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	current := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(15*time.Minute, 2)
	limiter.now = func() time.Time { return current }

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/api/payments/status/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(ip string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/payments/status/x", nil)
		req.RemoteAddr = ip + ":1234"
		router.ServeHTTP(rr, req)
		return rr
	}

	first := call("10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)

	blocked := call("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), rateLimitMessage)
	assert.Equal(t, "450", blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code, "other clients keep their own allowance")

	current = current.Add(15 * time.Minute)
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code, "allowance refills over the window")
}
