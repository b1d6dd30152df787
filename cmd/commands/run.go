package commands

// Command to run the boost monitor.
// Loads configuration, wires the scanner and Telegram notifier, and drives
// the scan loop with graceful shutdown on interrupt.

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/algoclient/dexscreener-boost-scrapper/bots_monitor"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/clients_api/dexscreener"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/config"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/infra/log"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/scanner"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the boost monitor",
	Long:  `Run the DexScreener boost monitor loop until interrupted.`,
	RunE:  runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log.LogInfo("Starting Boost Monitor...",
		zap.String("chain", cfg.Scan.TargetChain),
		zap.Ints("amounts", cfg.Scan.BoostAmounts))

	client := dexscreener.NewClient(cfg.Dexscreener.BaseURL,
		dexscreener.WithTimeouts(
			time.Duration(cfg.Dexscreener.BoostTimeout)*time.Second,
			time.Duration(cfg.Dexscreener.TokenTimeout)*time.Second,
		),
		dexscreener.WithMaxResponseSize(cfg.Dexscreener.MaxResponseSize),
	)

	notifier, err := bots_monitor.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return err
	}

	sc := scanner.New(client, cfg.Scan.TargetChain)
	monitor := bots_monitor.NewBoostMonitor(sc, notifier, cfg.Scan)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		monitor.Run(ctx)
	}()

	log.LogSuccess("Boost monitor is running", zap.String("status", "active"))

	select {
	case <-monitorDone:
		// Loop ended without a signal: unrecoverable failure inside a cycle.
		log.LogWarn("Monitor stopped on its own, exiting")
		return nil
	case <-ctx.Done():
		log.LogInfo("Shutdown signal received, gracefully stopping...")
	}

	select {
	case <-monitorDone:
		log.LogSuccess("Boost monitor stopped gracefully")
	case <-time.After(10 * time.Second):
		log.LogWarn("Timeout waiting for monitor to stop")
	}

	return nil
}
