package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/spendwise-tracker/internal/api_gateway"
	"github.com/spendwise-tracker/internal/api_gateway/service"
	"github.com/spendwise-tracker/internal/config"
	"github.com/spendwise-tracker/internal/data/mongo"
	"github.com/spendwise-tracker/internal/data/postgres"
	"github.com/spendwise-tracker/internal/gateway"
	"github.com/spendwise-tracker/internal/logger"
	"github.com/spendwise-tracker/internal/mobilemoney"
	"github.com/spendwise-tracker/internal/platform/mesomb"
	"github.com/spendwise-tracker/internal/platform/persistence"
)

func main() {
	// A local .env is optional
	_ = godotenv.Load()

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	loc := cfg.Application.Location()

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}
	if err := mongo.EnsureIndexes(appCtx, mongoDB.Database()); err != nil {
		log.Error("Failed to ensure MongoDB indexes", "error", err)
		os.Exit(1)
	}

	validator, err := mobilemoney.FromConfig(cfg.Payer)
	if err != nil {
		log.Error("Invalid payer number patterns", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := mongo.NewTransactionRepository(log, mongoDB.Database())
	savingsRepo := mongo.NewSavingsRepository(log, mongoDB.Database())
	goalRepo := mongo.NewGoalRepository(log, mongoDB.Database())
	attemptRepo := postgres.NewPaymentAttemptRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

	paymentClient := gateway.NewClient(cfg.Gateway, log)
	mesombClient := mesomb.NewClient(cfg.Mesomb, log)
	if !mesombClient.Configured() {
		log.Warn("MeSomb credentials missing, relay collections will fail")
	}
	if cfg.Mesomb.WebhookSigningKey() == "" {
		log.Warn("No webhook signing key configured, provider notifications will be rejected")
	}

	// Initialize services
	server := api_gateway.NewServer(log, cfg, api_gateway.Services{
		Transactions: service.NewTransactionService(log, transactionRepo, loc),
		Reports:      service.NewReportService(log, transactionRepo, loc),
		Savings:      service.NewSavingsService(log, savingsRepo, goalRepo, paymentClient, validator, loc),
		Relay:        service.NewRelayService(log, mesombClient, attemptRepo, outboxRepo, postgresDB),
		Health: service.NewHealthService(log, map[string]service.Pinger{
			"postgres": postgresDB,
			"mongo":    mongoDB,
		}),
	})

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-appCtx.Done():
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}
	stop()

	log.Info("Starting graceful shutdown...")

	if err := server.Stop(context.Background()); err != nil {
		log.Error("Error during server shutdown", "error", err)
		serverErr = err
	}

	postgresDB.Close()

	closeCtx, cancelClose := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelClose()
	if err := mongoDB.Close(closeCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serverErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
