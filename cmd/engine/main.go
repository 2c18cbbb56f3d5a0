// File: cmd/engine/main.go
// ============================================
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatiella/alpha-core/internal/execution"
	"github.com/gatiella/alpha-core/internal/notify"
	"github.com/gatiella/alpha-core/internal/orderflow"
	"github.com/gatiella/alpha-core/internal/orchestrator"
	"github.com/gatiella/alpha-core/internal/risk"
	"github.com/gatiella/alpha-core/internal/signal"
	"github.com/gatiella/alpha-core/internal/store"
	"github.com/gatiella/alpha-core/internal/structure"
	"github.com/gatiella/alpha-core/pkg/types"
)

// Engine is the process entrypoint's wiring record: config → store →
// analyzers → composer → risk → orchestrator → execution/notify,
// generalized from the teacher's Bot struct.
type Engine struct {
	cfg     *types.Config
	broker  *execution.BinanceBroker
	notify  *notify.Notifier
	orch    *orchestrator.Orchestrator
	symbols []string

	lastPrice map[string]float64
	startTime time.Time
}

// NewEngine reads config, wires every component, and queries an
// initial balance to seed C6's risk state, matching the teacher's
// NewBot sequence.
func NewEngine(configPath string, symbols []string) (*Engine, error) {
	cfg, err := types.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	broker := execution.NewBinanceBroker(cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.Testnet)
	notifier := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Enabled, log)

	account, err := broker.AccountStatus(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("could not read initial account balance, defaulting to zero")
	}

	bars := store.New(500)
	structAnalyzer := structure.New(cfg.Structure)
	flowAnalyzer := orderflow.New(cfg.Numerics, cfg.OrderFlow)
	composer := signal.New(cfg.Signal)
	riskEval := risk.New(cfg.Risk, account.Balance)

	accountProvider := &liveAccount{broker: broker}
	orch := orchestrator.New(bars, structAnalyzer, flowAnalyzer, composer, riskEval, accountProvider, nil, log)

	return &Engine{
		cfg:       cfg,
		broker:    broker,
		notify:    notifier,
		orch:      orch,
		symbols:   symbols,
		lastPrice: make(map[string]float64),
		startTime: time.Now(),
	}, nil
}

// liveAccount adapts the broker's AccountStatus query into the
// orchestrator's AccountProvider capability.
type liveAccount struct {
	broker *execution.BinanceBroker
}

func (a *liveAccount) AccountStatus() risk.AccountStatus {
	status, err := a.broker.AccountStatus(context.Background())
	if err != nil {
		return risk.AccountStatus{}
	}
	return status
}

// Run polls each configured symbol on a fixed interval, synthesizes a
// bar from the last two observed prices, and routes it through the
// orchestrator — the live-trading analogue of the teacher's ticker-
// driven mainLoop.
func (e *Engine) Run(ctx context.Context) {
	e.notify.NotifyStart()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.pollOnce(ctx)
		}
	}
}

func (e *Engine) pollOnce(ctx context.Context) {
	for _, symbol := range e.symbols {
		price, err := e.broker.GetCurrentPrice(ctx, symbol)
		if err != nil {
			e.notify.NotifyError(fmt.Sprintf("price fetch failed for %s: %v", symbol, err))
			continue
		}

		prev, seen := e.lastPrice[symbol]
		if !seen {
			prev = price
		}
		bar := types.Bar{
			Symbol: symbol, Timeframe: types.TF5Min, Timestamp: time.Now().UTC(),
			Open: prev, High: maxF(prev, price), Low: minF(prev, price), Close: price, Volume: 0,
		}
		tick := types.TickSnapshot{Symbol: symbol, Timestamp: bar.Timestamp, LastPrice: price, Bid: price, Ask: price}
		e.lastPrice[symbol] = price

		outcome := e.orch.OnBar(symbol, types.TF5Min, bar, tick, bar.Timestamp)
		if outcome.Suppressed {
			continue
		}

		trade := *outcome.Trade
		e.notify.NotifyTrade(trade)

		order := execution.OrderRequest{
			Symbol: symbol, Side: trade.Action, Quantity: trade.Quantity, Type: execution.OrderMarket,
		}
		if _, err := e.broker.Submit(ctx, order); err != nil {
			e.notify.NotifyError(fmt.Sprintf("order submission failed for %s: %v", symbol, err))
		}
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func main() {
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*types.CorruptionError); ok {
				fmt.Fprintf(os.Stderr, "corruption detected: %v\nsnapshot: %+v\n", ce, ce.Snapshot)
				os.Exit(1)
			}
			panic(r)
		}
	}()

	engine, err := NewEngine(configPath, []string{"BTCUSDT", "ETHUSDT"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	engine.Run(context.Background())
}
