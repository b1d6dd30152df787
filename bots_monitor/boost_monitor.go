package bots_monitor

// DexScreener boost monitor: the long-lived scan/filter/alert loop.

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/clients_api/dexscreener"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/config"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/infra/log"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/scanner"

	"go.uber.org/zap"
)

// State of the monitor lifecycle.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateStopping
	StateStopped
)

// BoostMonitor drives the scan cadence: fetch new boosts, filter by target
// amounts, enrich, alert, and keep running statistics. Single instance,
// single goroutine; nothing here is safe for concurrent use.
type BoostMonitor struct {
	scanner  *scanner.Scanner
	notifier Notifier
	cfg      config.ScanConfig

	state       State
	scanCount   int
	totalAlerts int
	boostStats  map[int]int // target amount -> alerts delivered
}

// NewBoostMonitor wires a monitor from its collaborators.
func NewBoostMonitor(sc *scanner.Scanner, notifier Notifier, cfg config.ScanConfig) *BoostMonitor {
	stats := make(map[int]int, len(cfg.BoostAmounts))
	for _, amount := range cfg.BoostAmounts {
		stats[amount] = 0
	}

	log.LogInfo("Boost monitor initialized",
		zap.Ints("amounts", cfg.BoostAmounts),
		zap.String("chain", cfg.TargetChain),
		zap.Int("scanInterval", cfg.Interval))

	return &BoostMonitor{
		scanner:    sc,
		notifier:   notifier,
		cfg:        cfg,
		state:      StateStarting,
		boostStats: stats,
	}
}

// State reports the current lifecycle state.
func (m *BoostMonitor) State() State {
	return m.state
}

// Stats returns a copy of the per-amount alert counters.
func (m *BoostMonitor) Stats() map[int]int {
	out := make(map[int]int, len(m.boostStats))
	for amount, count := range m.boostStats {
		out[amount] = count
	}
	return out
}

// matchesCriteria reports whether the boost amount is one of the targets.
func (m *BoostMonitor) matchesCriteria(boost dexscreener.Boost) bool {
	for _, amount := range m.cfg.BoostAmounts {
		if boost.Amount == amount {
			return true
		}
	}
	return false
}

// processBoost handles a single boost event: enrich, render, deliver.
// Returns true only when the alert was actually delivered. Failures are
// logged and contained so one bad record never aborts the cycle.
func (m *BoostMonitor) processBoost(ctx context.Context, boost dexscreener.Boost) bool {
	log.LogInfo("Processing boost",
		zap.Int("amount", boost.Amount),
		zap.String("token", boost.TokenAddress))

	pair := m.scanner.TokenDetails(ctx, boost.TokenAddress)

	message, err := FormatBoostMessage(m.cfg.TargetChain, boost, pair)
	if err != nil {
		log.LogWarn("Could not format message",
			zap.String("token", boost.TokenAddress),
			zap.Error(err))
		return false
	}

	if err := m.notifier.Send(ctx, message, true); err != nil {
		log.LogError("Failed to send alert",
			zap.String("token", boost.TokenAddress),
			zap.Error(err))
		return false
	}

	m.boostStats[boost.Amount]++
	log.LogSuccess(fmt.Sprintf("Alert sent for %d⚡ boost", boost.Amount))
	return true
}

// scanAndProcess runs one scan cycle and returns the number of alerts sent.
func (m *BoostMonitor) scanAndProcess(ctx context.Context) int {
	log.LogInfo("Scanning for new boosts...")

	boosts := m.scanner.FetchNewBoosts(ctx)
	if len(boosts) == 0 {
		log.LogInfo("No new boosts found")
		return 0
	}

	var targetBoosts []dexscreener.Boost
	for _, boost := range boosts {
		if m.matchesCriteria(boost) {
			targetBoosts = append(targetBoosts, boost)
		}
	}
	if len(targetBoosts) == 0 {
		log.LogInfo("No boosts matching target amounts")
		return 0
	}

	log.LogInfo("Found matching boosts", zap.Int("count", len(targetBoosts)))

	sent := 0
	for _, boost := range targetBoosts {
		if ctx.Err() != nil {
			break
		}
		if m.processBoost(ctx, boost) {
			sent++
			// Pace consecutive messages to stay under chat rate limits
			sleepCtx(ctx, time.Duration(m.cfg.MessagePacingMs)*time.Millisecond)
		}
	}

	return sent
}

// Run executes the scan loop until ctx is cancelled or the loop body fails
// unrecoverably. Startup and shutdown notifications are best-effort; the
// shutdown one carries the final statistics.
func (m *BoostMonitor) Run(ctx context.Context) {
	log.LogInfo("Starting DexScreener Boost Bot...")

	// Lifecycle notifications are not tied to the loop context: the shutdown
	// one has to go out after ctx is already cancelled.
	if err := m.notifier.Send(context.Background(), m.startupMessage(), false); err != nil {
		log.LogError("Failed to send startup message", zap.Error(err))
	} else {
		log.LogSuccess("Startup message sent")
	}

	m.state = StateRunning
	m.runLoop(ctx)
	m.state = StateStopping

	if err := m.notifier.Send(context.Background(), m.shutdownMessage(), false); err != nil {
		log.LogError("Failed to send shutdown message", zap.Error(err))
	} else {
		log.LogSuccess("Shutdown message sent")
	}

	m.state = StateStopped
	log.LogInfo("Bot stopped gracefully")
}

// runLoop is the scan cycle loop proper. A panic anywhere in a cycle is
// recovered here, logged with its stack, and ends the loop so Run can still
// deliver the shutdown notification.
func (m *BoostMonitor) runLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.LogError("Unexpected error in main loop",
				zap.Any("panic", r),
				zap.String("stacktrace", string(debug.Stack())))
		}
	}()

	for ctx.Err() == nil {
		m.scanCount++

		alertsSent := m.scanAndProcess(ctx)
		m.totalAlerts += alertsSent

		if alertsSent > 0 {
			log.LogInfo("Scan cycle finished",
				zap.Int("scan", m.scanCount),
				zap.Int("alertsSent", alertsSent),
				zap.Int("totalAlerts", m.totalAlerts),
				zap.String("stats", m.statsLine()))
		}

		if m.cfg.CacheCleanupInterval > 0 && m.scanCount%m.cfg.CacheCleanupInterval == 0 {
			m.scanner.EvictOldEntries(m.cfg.MaxCachedBoosts)
		}

		if !sleepCtx(ctx, time.Duration(m.cfg.Interval)*time.Second) {
			return
		}
	}
}

func (m *BoostMonitor) startupMessage() string {
	amounts := make([]string, 0, len(m.cfg.BoostAmounts))
	for _, amount := range m.cfg.BoostAmounts {
		amounts = append(amounts, fmt.Sprintf("%d⚡", amount))
	}

	return fmt.Sprintf(
		"🤖 **DexScreener Boost Bot Started!**\n\n"+
			"**Monitoring:** %s\n"+
			"**Scan Interval:** %d seconds\n\n"+
			"Standing by for boost purchases... ⚡",
		strings.Join(amounts, ", "), m.cfg.Interval)
}

func (m *BoostMonitor) shutdownMessage() string {
	return fmt.Sprintf(
		"🤖 **DexScreener Boost Bot Stopped**\n\n"+
			"**Final Statistics:**\n"+
			"• Total scans: %d\n"+
			"• Total alerts: %d\n"+
			"• Boost breakdown: %s\n\n"+
			"Bot has been shut down. 👋",
		m.scanCount, m.totalAlerts, m.statsLine())
}

// statsLine renders the per-amount counters in configured amount order.
func (m *BoostMonitor) statsLine() string {
	parts := make([]string, 0, len(m.cfg.BoostAmounts))
	for _, amount := range m.cfg.BoostAmounts {
		parts = append(parts, fmt.Sprintf("%d⚡: %d", amount, m.boostStats[amount]))
	}
	return strings.Join(parts, ", ")
}

// sleepCtx sleeps for d unless ctx is cancelled first.
// Returns false when the sleep was interrupted by cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
