package api_gateway

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-tracker/internal/api_gateway/handler"
	"github.com/spendwise-tracker/internal/api_gateway/middleware"
	"github.com/spendwise-tracker/internal/config"
)

type handlers struct {
	transactions *handler.TransactionHandler
	reports      *handler.ReportHandler
	savings      *handler.SavingsHandler
	relay        *handler.RelayHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, cfg *config.Config, r *gin.Engine, h handlers) {
	r.Use(middleware.Recovery(logger, cfg.Application.Env))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.HTTP.CORSOrigin))

	// Tracker endpoints, scoped to the calling owner
	v1 := r.Group(middleware.EnvelopePrefix, middleware.RequireOwner())
	{
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", h.transactions.Create)
			transactions.GET("", h.transactions.List)
			transactions.PATCH("/:id", h.transactions.Update)
			transactions.DELETE("/:id", h.transactions.Delete)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/dashboard", h.reports.Dashboard)
			reports.GET("/yearly", h.reports.Yearly)
			reports.GET("/stream", h.reports.Stream)
		}

		savings := v1.Group("/savings")
		{
			savings.POST("/deposits", h.savings.Deposit)
			savings.GET("/transactions", h.savings.ListTransactions)
			savings.GET("/summary", h.savings.Summary)
			savings.GET("/stream", h.savings.Stream)
			savings.POST("/goals", h.savings.CreateGoal)
			savings.GET("/goals", h.savings.ListGoals)
			savings.PATCH("/goals/:id", h.savings.UpdateGoal)
			savings.DELETE("/goals/:id", h.savings.DeleteGoal)
			savings.POST("/goals/:id/contributions", h.savings.Contribute)
		}
	}

	// Payment relay; rate limited per client IP
	limiter := middleware.NewIPRateLimiter(cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitMax)
	payments := r.Group("/api/payments", limiter.Middleware())
	{
		payments.POST("/collect", h.relay.Collect)
		payments.GET("/status/:transactionId", h.relay.Status)
	}

	r.POST("/api/webhooks/mesomb", middleware.WebhookSignature(cfg.Mesomb.WebhookSigningKey(), logger), h.relay.Webhook)
	r.GET("/api/health", h.relay.Health)
	r.NoRoute(h.relay.NotFound)
}
