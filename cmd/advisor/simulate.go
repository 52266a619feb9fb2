package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	simStart     string
	simEnd       string
	simCash      float64
	simShares    int64
	simTradeSize int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <TICKER>",
	Short: "Replay the pipeline over a historical window against a paper portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simStart, "start", "", "First simulated day (YYYY-MM-DD)")
	simulateCmd.Flags().StringVar(&simEnd, "end", "", "Last simulated day (YYYY-MM-DD)")
	simulateCmd.Flags().Float64Var(&simCash, "cash", 0, "Initial cash (defaults to simulation.initial_cash)")
	simulateCmd.Flags().Int64Var(&simShares, "shares", 0, "Initial shares (defaults to simulation.initial_shares)")
	simulateCmd.Flags().Int64Var(&simTradeSize, "trade-size", 0, "Shares per buy or sell (defaults to simulation.trade_size)")
	_ = simulateCmd.MarkFlagRequired("start")
	_ = simulateCmd.MarkFlagRequired("end")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start, err := time.Parse(utils.DateLayout, simStart)
	if err != nil {
		return fmt.Errorf("invalid --start %q, expected YYYY-MM-DD", simStart)
	}
	end, err := time.Parse(utils.DateLayout, simEnd)
	if err != nil {
		return fmt.Errorf("invalid --end %q, expected YYYY-MM-DD", simEnd)
	}

	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	defaults := app.Config.Simulation
	params := entity.SimulationParams{
		Ticker:        strings.ToUpper(strings.TrimSpace(args[0])),
		StartDate:     start,
		EndDate:       end,
		InitialCash:   defaults.InitialCash,
		InitialShares: defaults.InitialShares,
		TradeSize:     defaults.TradeSize,
	}
	flags := cmd.Flags()
	if flags.Changed("cash") {
		params.InitialCash = simCash
	}
	if flags.Changed("shares") {
		params.InitialShares = simShares
	}
	if flags.Changed("trade-size") {
		params.TradeSize = simTradeSize
	}

	out := cmd.OutOrStdout()
	started := time.Now()
	result, err := app.Simulation.Run(ctx, params, func(entry entity.SimulationDayEntry, day, total int) {
		renderProgress(out, entry, day, total)
	})
	renderSimulation(out, result, time.Since(started))

	if notify && result != nil {
		if sendErr := telegram.SendAll(app.Notifier, telegram.FormatSimulationForTelegram(result)); sendErr != nil {
			app.Logger.Warn("Failed to send simulation to Telegram", logger.ErrorField(sendErr))
		}
	}
	return err
}

func renderProgress(w io.Writer, entry entity.SimulationDayEntry, day, total int) {
	fmt.Fprintf(w, "%s %s\n", mutedStyle.Render(fmt.Sprintf("[%d/%d]", day+1, total)), formatEntry(entry))
}
