package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-tracker/internal/api_gateway/middleware"
	"github.com/spendwise-tracker/internal/api_gateway/service"
	"github.com/spendwise-tracker/internal/domain/payment"
)

// RelayHandler serves the payment relay routes. They keep the
// success/message response shape that payment clients decode.
type RelayHandler struct {
	relayService  service.RelayService
	healthService service.HealthService
	environment   string
	now           func() time.Time
	logger        *slog.Logger
}

func NewRelayHandler(logger *slog.Logger, relayService service.RelayService, healthService service.HealthService, environment string) *RelayHandler {
	return &RelayHandler{
		relayService:  relayService,
		healthService: healthService,
		environment:   environment,
		now:           time.Now,
		logger:        logger,
	}
}

func (h *RelayHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

// Collect forwards a collection request to the provider
func (h *RelayHandler) Collect(c *gin.Context) {
	var req CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON payload"})
		return
	}

	out, err := h.relayService.Collect(c.Request.Context(), service.CollectInput{
		Amount:      req.Amount,
		Service:     req.Service,
		Payer:       req.Payer,
		TrxID:       req.TrxID,
		Description: req.Description,
	})
	if err != nil {
		var verr service.ValidationError
		var dup payment.ErrDuplicateAttempt
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": verr.Error()})
		case errors.As(err, &dup):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Duplicate transaction ID"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"message":   "Payment processing failed",
				"error":     err.Error(),
				"timestamp": h.timestamp(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, out)
}

// Status reports the recorded state of a collection
func (h *RelayHandler) Status(c *gin.Context) {
	transactionID := c.Param("transactionId")
	attempt, err := h.relayService.Status(c.Request.Context(), transactionID)
	if err != nil {
		var verr service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": verr.Error()})
		case errors.Is(err, payment.ErrAttemptNotFound{}):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Transaction not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"message":   "Failed to check payment status",
				"error":     err.Error(),
				"timestamp": h.timestamp(),
			})
		}
		return
	}

	response := gin.H{
		"success":       true,
		"transactionId": transactionID,
		"status":        attempt.Status,
		"timestamp":     h.timestamp(),
	}
	if attempt.GatewayReference != "" {
		response["reference"] = attempt.GatewayReference
	}
	c.JSON(http.StatusOK, response)
}

// Webhook records a provider status notification
func (h *RelayHandler) Webhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid webhook payload"})
		return
	}

	err := h.relayService.HandleWebhook(c.Request.Context(), service.WebhookInput{
		Reference:     req.reference(),
		Status:        req.status(),
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		var verr service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Webhook received"})
}

// Health is a liveness probe; dependency states are informational
func (h *RelayHandler) Health(c *gin.Context) {
	response := gin.H{
		"status":           "OK",
		"timestamp":        h.timestamp(),
		"environment":      h.environment,
		"mesombConfigured": h.relayService.MesombConfigured(),
	}
	if h.healthService != nil {
		response["dependencies"] = h.healthService.Check(c.Request.Context())
	}
	c.JSON(http.StatusOK, response)
}

// NotFound answers every unmatched route
func (h *RelayHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Endpoint not found"})
}
