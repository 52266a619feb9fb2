package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang-stock-advisor/internal/advisor/bootstrap"
	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	notify     bool
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Evidence based stock analysis and historical simulation",
	Long: `advisor gathers recent news and price history for a ticker, asks a
language model for a structured trading signal and can replay that
pipeline day by day over a historical window against a paper portfolio.`,
	SilenceUsage: true,
}

// newApp loads configuration and wires the advisor. Logs go to stderr so
// rendered output stays readable.
func newApp(ctx context.Context) (*bootstrap.App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		_ = appLogger.Sync()
		return nil, nil, err
	}
	return app, func() { _ = appLogger.Sync() }, nil
}

func main() {
	log.SetFlags(0)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-advisor.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&notify, "notify", false, "Send the result to the configured Telegram chat")

	rootCmd.AddCommand(analyzeCmd, simulateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing advisor CLI: %s\n", err)
		os.Exit(1)
	}
}
