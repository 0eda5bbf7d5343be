package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/config"
	"github.com/banking-records-ledger/internal/data"
	"github.com/banking-records-ledger/internal/logger"
	"github.com/banking-records-ledger/internal/platform/messaging/consumers"
	"github.com/banking-records-ledger/internal/platform/messaging/producers"
	"github.com/banking-records-ledger/internal/transaction_processor/components"
	"github.com/banking-records-ledger/internal/transaction_processor/consumer"
	"github.com/banking-records-ledger/internal/transaction_processor/outbox_poller"
	"github.com/banking-records-ledger/internal/transaction_processor/scheduler"
	"github.com/banking-records-ledger/internal/transaction_processor/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("transaction_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Transaction Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"backend", cfg.Storage.Backend,
	)

	store, closeStore, err := data.OpenStore(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to open record store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	repos := data.NewRepositories(log, store)
	bank := banking.New(log, repos.Banking(), banking.OptionsFromConfig(cfg.Bank))

	processingService := components.CreateProcessingService(bank, repos.Commands, log, cfg)

	// dlqProducer is nil when KAFKA_DLQ_TOPIC is empty; PublishToDLQ then reports ErrDLQDisabled
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	eventProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize event producer", "error", err)
		os.Exit(1)
	}

	commandHandler := consumer.NewCommandHandler(log, processingService, dlqProducer)
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka, cfg.Kafka.CommandTopic)

	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		repos.Transactions,
		repos.Cursor,
		outbox_poller.NewEventPublisher(eventProducer, log),
		dlqProducer,
		log,
	)
	interestScheduler := scheduler.NewInterestScheduler(bank.Interest, cfg.Bank.InterestCheckInterval, log)

	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	log.Info("Starting Kafka consumer",
		"topic", cfg.Kafka.CommandTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, commandHandler.HandleMessage); err != nil {
		errChan <- fmt.Errorf("kafka consumer error: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		interestScheduler.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		<-kafkaConsumer.Done()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// In-flight commands finish on their workers before the store is closed
	if wpService, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		log.Info("Shutting down worker pool", "running_workers", wpService.Running())
		wpService.Shutdown()
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing event producer", "error", err)
	}

	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	if err = closeStore(shutdownCtx); err != nil {
		log.Error("Error closing record store", "error", err)
	}

	if serviceErr != nil {
		log.Error("Transaction Processor shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Transaction Processor shutdown completed with errors")
	} else {
		log.Info("Transaction Processor shutdown completed successfully")
	}
}
