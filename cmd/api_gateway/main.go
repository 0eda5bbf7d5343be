package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/banking-records-ledger/internal/api_gateway"
	"github.com/banking-records-ledger/internal/api_gateway/service"
	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/config"
	"github.com/banking-records-ledger/internal/data"
	"github.com/banking-records-ledger/internal/logger"
	"github.com/banking-records-ledger/internal/platform/messaging/producers"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	store, closeStore, err := data.OpenStore(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to open record store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	repos := data.NewRepositories(log, store)
	bank := banking.New(log, repos.Banking(), banking.OptionsFromConfig(cfg.Bank))

	// Commands are published to the processor's intake topic
	commandProducer, err := producers.NewCommandProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize command producer", "error", err)
		os.Exit(1)
	}

	server := api_gateway.NewServer(log, cfg, api_gateway.Services{
		Accounts:     bank.Accounts,
		Customers:    bank.Customers,
		Transactions: bank.Transactions,
		Transfers:    bank.Transfers,
		Interest:     bank.Interest,
		Commands:     service.NewCommandService(log, repos.Commands, commandProducer),
	})
	log.Info("REST server initialized", "backend", cfg.Storage.Backend)

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop taking requests before the store goes away
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = commandProducer.Close(); err != nil {
		log.Error("Error closing command producer", "error", err)
	}

	if err = closeStore(shutdownCtx); err != nil {
		log.Error("Error closing record store", "error", err)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
