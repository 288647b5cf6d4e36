package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	delivery "golang-stock-advisor/internal/advisor/delivery/http"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock advisor web service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger, err := loadConfigAndLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Stock Advisor Service", logger.Field("name", cfg.App.Name), logger.StringField("ai_provider", cfg.AI.Provider))

	// Record store; a failed bootstrap leaves save/retrieve disabled but the service up.
	recordSvc := service.NewRecordService(newRecordRepository(cfg, appLogger), appLogger)
	if err := recordSvc.Bootstrap(ctx); err != nil {
		appLogger.Error("Record store unavailable, continuing in degraded mode", logger.ErrorField(err), logger.StringField("path", cfg.Database.Path))
	}

	marketCache, closeCache := newMarketCache(cfg, appLogger)
	defer closeCache()

	aiRepo, err := newAIRepository(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI repository", logger.ErrorField(err))
	}

	// Initialize repositories and services
	marketRepo := repository.NewYahooFinanceRepository(cfg, appLogger, marketCache)
	newsRepo := repository.NewNewsRepository(cfg, appLogger)
	marketSvc := service.NewMarketService(marketRepo, newsRepo, appLogger)
	crew := service.NewCrew(aiRepo, appLogger)
	advisorSvc := service.NewAdvisorService(marketSvc, crew, recordSvc, newNotifier(cfg, appLogger), appLogger)

	e, err := delivery.NewServer(advisorSvc, marketSvc, recordSvc, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize HTTP server", logger.ErrorField(err))
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "advisor-service",
		Short: "Stock market analysis and investment advisor",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-advisor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, newRecordsCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing advisor-service CLI: %s\n", err)
		os.Exit(1)
	}
}
