package cli

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"centavo.dev/internal/application/usecase"
	"centavo.dev/internal/domain/port"
	"centavo.dev/internal/infrastructure/config"
	"centavo.dev/internal/infrastructure/events"
	kafkaevents "centavo.dev/internal/infrastructure/events/kafka"
	httphandler "centavo.dev/internal/infrastructure/http"
	"centavo.dev/internal/infrastructure/logger"
	"centavo.dev/internal/infrastructure/rates"
	"centavo.dev/internal/infrastructure/repository"

	_ "github.com/lib/pq"
)

const serverDir = "server"

var apiServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Run API Server.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logger
		appLogger := logger.NewLogger()

		// Get config directory (relative to where the binary is run from)
		configDir := filepath.Join("cmd", "config", serverDir)
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			// Try absolute path from project root
			configDir = filepath.Join(".", "cmd", "config", serverDir)
		}

		// Load configuration
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			appLogger.LogError(context.TODO(), "Failed to load config", err)
			return fmt.Errorf("failed to load config: %w", err)
		}

		appLogger.LogInfo(context.TODO(), "Configuration loaded",
			"port", cfg.Server.Port,
			"rates_endpoint", cfg.Rates.Endpoint,
			"rates_timeout", cfg.Rates.Timeout.String())

		// Select ledger store: Postgres when a database URL is configured,
		// in-memory otherwise.
		var ledgerRepo port.LedgerRepository
		if cfg.Database.URL != "" {
			db, err := sql.Open("postgres", cfg.Database.URL)
			if err != nil {
				appLogger.LogError(context.TODO(), "Failed to open database", err)
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			pgLedger := repository.NewPostgresLedger(db, appLogger.WithComponent("ledger"))
			if err := pgLedger.Migrate(cmd.Context()); err != nil {
				appLogger.LogError(context.TODO(), "Failed to migrate ledger schema", err)
				return err
			}
			ledgerRepo = pgLedger
		} else {
			ledgerRepo = repository.NewInMemoryLedger(appLogger.WithComponent("ledger"))
		}

		// Select event publisher: Kafka when brokers are configured.
		var publisher port.EventPublisher
		if len(cfg.Kafka.Brokers) > 0 {
			kafkaPublisher := kafkaevents.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLogger.WithComponent("events"))
			defer kafkaPublisher.Close()
			publisher = kafkaPublisher
		} else {
			publisher = events.NewMemoryPublisher(appLogger.WithComponent("events"))
		}

		rateSource := rates.NewClient(cfg.Rates.Endpoint, cfg.Rates.Timeout, appLogger.WithComponent("rates"))

		// Initialize use cases
		getBalanceUseCase := usecase.NewGetBalanceUseCase(ledgerRepo)
		processTransactionUseCase := usecase.NewProcessTransactionUseCase(
			getBalanceUseCase,
			ledgerRepo,
			publisher,
			appLogger,
		)
		getHistoryUseCase := usecase.NewGetHistoryUseCase(ledgerRepo)
		convertCurrencyUseCase := usecase.NewConvertCurrencyUseCase(rateSource)

		// Initialize HTTP handler
		handler := httphandler.NewHandler(
			processTransactionUseCase,
			getBalanceUseCase,
			getHistoryUseCase,
			convertCurrencyUseCase,
			appLogger,
		)

		// Setup routes
		mux := handler.SetupRoutes()

		// Create HTTP server
		addr := ":" + cfg.Server.Port
		server := &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Channel to capture termination signals
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		// Error channel to capture errors from server
		errChan := make(chan error, 1)

		// Start server in a goroutine
		go func() {
			appLogger.LogInfo(context.TODO(), "Starting server", "address", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Graceful shutdown
		select {
		case <-signalChan:
			appLogger.LogInfo(context.TODO(), "Received termination signal. Initiating graceful shutdown...")

			// Create shutdown context with timeout
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(context.TODO(), "Server forced to shutdown", err)
				return err
			}

			appLogger.LogInfo(context.TODO(), "Server stopped gracefully")
		case err := <-errChan:
			appLogger.LogError(context.TODO(), "Server error", err)
			return err
		}

		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(apiServerCmd)
}
