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

	"golang-stock-advisor/internal/advisor/bootstrap"
	"golang-stock-advisor/internal/advisor/config"
	delivery "golang-stock-advisor/internal/advisor/delivery/http"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the advisor HTTP service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Advisor Service", logger.Field("name", cfg.App.Name), logger.Field("version", cfg.App.Version))

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize advisor", logger.ErrorField(err))
	}

	// Start watchlist scheduler
	if cfg.Watchlist.Enabled {
		utils.GoSafe(func() {
			if err := app.Watchlist.Start(ctx); err != nil {
				appLogger.Error("Watchlist scheduler stopped", logger.ErrorField(err))
			}
		}, func(recovered interface{}, stack []byte) {
			appLogger.Error("Watchlist scheduler panicked", logger.ErrorField(utils.PanicError(recovered)), logger.Field("stack", string(stack)))
		})
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Validator = delivery.NewRequestValidator()
	e.Use(middleware.Recover())

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")
	delivery.NewAnalysisHandler(app.Analysis, appLogger).RegisterRoutes(apiV1.Group("/analysis"))
	delivery.NewSimulationHandler(app.Simulation, cfg.Simulation, app.Notifier, appLogger).RegisterRoutes(apiV1.Group("/simulations"))
	delivery.NewTickerHandler(app.Resolver, appLogger).RegisterRoutes(apiV1.Group("/tickers"))
	delivery.NewHealthHandler(cfg.App.Name, cfg.App.Version, app.Metrics).RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "advisor-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-advisor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing advisor-service CLI: %s\n", err)
		os.Exit(1)
	}
}
