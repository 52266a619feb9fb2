package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"

	"github.com/spf13/cobra"
)

var analysisMode string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <TICKER>",
	Short: "Run a one-shot analysis of a ticker",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analysisMode, "mode", "m", "", "Pipeline mode: basic or extended (defaults to pipeline.mode)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	req := entity.AnalysisRequest{
		Ticker: strings.ToUpper(strings.TrimSpace(args[0])),
		Mode:   entity.PipelineMode(strings.ToLower(analysisMode)),
	}
	result, err := app.Analysis.Analyze(ctx, req)
	renderAnalysis(cmd.OutOrStdout(), result)

	if notify {
		if sendErr := app.Notifier.SendMessage(telegram.FormatAnalysisForTelegram(result)); sendErr != nil {
			app.Logger.Warn("Failed to send analysis to Telegram", logger.ErrorField(sendErr))
		}
	}
	return err
}
