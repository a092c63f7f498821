package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/spendwise-tracker/internal/config"
	"github.com/spendwise-tracker/internal/data/mongo"
	"github.com/spendwise-tracker/internal/data/postgres"
	"github.com/spendwise-tracker/internal/logger"
	"github.com/spendwise-tracker/internal/platform/persistence"
	"github.com/spendwise-tracker/internal/status_processor/components"
	"github.com/spendwise-tracker/internal/status_processor/consumer"
	"github.com/spendwise-tracker/internal/status_processor/outbox_poller"
	"github.com/spendwise-tracker/internal/status_processor/service"
)

func main() {
	// A local .env is optional
	_ = godotenv.Load()

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.LoadConfig("status_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Status Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"broker", cfg.Events.Broker,
	)

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

	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	savingsRepo := mongo.NewSavingsRepository(log, mongoDB.Database())

	brk, err := newBroker(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize event broker", "error", err)
		os.Exit(1)
	}

	reconcileService := components.CreateReconcileService(savingsRepo, log, cfg)
	statusEventHandler := consumer.NewStatusEventHandler(log, reconcileService, brk.dlq)

	statusPublisher := outbox_poller.NewStatusPublisher(outboxRepo, brk.publisher, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, statusPublisher, log)

	g, gctx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		log.Info("Starting status consumer", "topic", brk.topic, "group", brk.group)
		if err := brk.consumer.Subscribe(gctx, brk.topic, brk.group, statusEventHandler.HandleMessage); err != nil {
			return fmt.Errorf("consumer error: %w", err)
		}
		<-gctx.Done()
		return nil
	})

	g.Go(func() error {
		poller.Start(gctx)
		return nil
	})

	serviceErr := g.Wait()
	if serviceErr != nil {
		log.Error("Service error occurred", "error", serviceErr)
	}
	log.Info("Starting graceful shutdown...")

	if wpService, ok := reconcileService.(*service.WorkerPoolReconcileService); ok {
		wpService.Shutdown()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	brk.Close(log)

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Status Processor shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Status Processor shutdown completed successfully")
}
