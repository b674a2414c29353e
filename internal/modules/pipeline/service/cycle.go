package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
	alert "strategy_orchestrator/internal/modules/alert/service"
	"strategy_orchestrator/internal/modules/config"
	execution "strategy_orchestrator/internal/modules/execution/service"
	indicator "strategy_orchestrator/internal/modules/indicator/service"
	marketdata "strategy_orchestrator/internal/modules/market_data/service"
	"strategy_orchestrator/pkg/metrics"
)

type CandleSource interface {
	Candles(ctx context.Context, symbol string, timeframe, count int) (marketdata.CandleSet, error)
}

type SnapshotEngine interface {
	Snapshots(candles []models.Candle, periods []int, lookback int) ([]models.IndicatorSnapshot, error)
}

// Cycle один цикл стратегии: свечи -> индикаторы -> правило -> сделка -> алерт.
type Cycle struct {
	log      *zap.Logger
	source   CandleSource
	engine   SnapshotEngine
	executor execution.Executor
	notifier alert.Notifier
	lookback int
}

func NewCycle(
	cfg *config.Config,
	log *zap.Logger,
	source *marketdata.Adapter,
	engine *indicator.Engine,
	executor execution.Executor,
	notifier alert.Notifier,
) *Cycle {
	return NewCycleWith(log, source, engine, executor, notifier, cfg.Pipeline.Lookback)
}

func NewCycleWith(
	log *zap.Logger,
	source CandleSource,
	engine SnapshotEngine,
	executor execution.Executor,
	notifier alert.Notifier,
	lookback int,
) *Cycle {
	if lookback < 1 {
		lookback = 1
	}
	return &Cycle{
		log:      log,
		source:   source,
		engine:   engine,
		executor: executor,
		notifier: notifier,
		lookback: lookback,
	}
}

// Check отклоняет стратегию, окно которой не помещается в один запрос свечей.
func (c *Cycle) Check(cfg models.StrategyConfig) error {
	need := indicator.RequiredCandles(cfg.MaxPeriod(), c.lookback)
	if need > marketdata.MaxCandles {
		return fmt.Errorf("%w: strategy %s needs %d candles, provider limit is %d",
			models.ErrConfig, cfg.Name, need, marketdata.MaxCandles)
	}
	return nil
}

func (c *Cycle) Run(ctx context.Context, cfg models.StrategyConfig, rule Rule) (models.Details, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.cycle")
	defer span.Finish()

	need := indicator.RequiredCandles(cfg.MaxPeriod(), c.lookback)
	set, err := c.source.Candles(ctx, cfg.Trading.Symbol, cfg.Trading.Timeframe, need)
	if err != nil {
		return nil, err
	}

	snaps, err := c.engine.Snapshots(set.Candles, cfg.Indicators.EMA, c.lookback)
	if err != nil {
		return nil, err
	}
	latest := snaps[len(snaps)-1]

	c.executor.Mark(cfg.Name, latest.Price)
	var pos *models.Position
	if p, ok := c.executor.Position(cfg.Name); ok {
		pos = &p
	}

	decision := rule.Evaluate(snaps, cfg, pos)

	details := models.Details{
		"symbol":     cfg.Trading.Symbol,
		"provider":   string(set.Kind),
		"resolution": set.Resolution.Token,
		"price":      latest.Price,
		"timestamp":  latest.Timestamp,
		"ema":        emaDetails(latest),
		"candles":    len(set.Candles),
		"decision":   string(decision.Side),
		"reason":     decision.Reason,
		"position":   pos != nil,
	}
	if set.Substituted {
		details["resolution_substituted"] = true
	}
	c.log.Debug("rule evaluated",
		zap.String("strategy", cfg.Name),
		zap.Float64("price", latest.Price),
		zap.String("decision", string(decision.Side)),
		zap.String("reason", decision.Reason),
	)
	if decision.Side == models.SideNone {
		return details, nil
	}

	metrics.TradeDecisions.WithLabelValues(cfg.Name, string(decision.Side)).Inc()
	fill, err := c.executor.Execute(ctx, models.Order{
		Strategy: cfg.Name,
		Symbol:   set.Symbol,
		Side:     decision.Side,
		Size:     cfg.Trading.PositionSize,
		Price:    latest.Price,
		Reason:   decision.Reason,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute %s %s: %v", models.ErrExecution, decision.Side, cfg.Trading.Symbol, err)
	}
	details["fill"] = fill
	details["realized_pnl"] = c.executor.Realized(cfg.Name).String()

	c.notifier.Notifyf(ctx, "%s: %s %s size=%.6f @ %.6f (%s)",
		cfg.Name, decision.Side, cfg.Trading.Symbol, fill.Size, fill.Price, decision.Reason)
	return details, nil
}

func emaDetails(s models.IndicatorSnapshot) map[string]float64 {
	out := make(map[string]float64, len(s.EMA))
	for p, v := range s.EMA {
		out["ema_"+strconv.Itoa(p)] = v
	}
	return out
}
