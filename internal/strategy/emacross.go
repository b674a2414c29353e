package strategy

import (
	"context"
	"fmt"

	"strategy_orchestrator/internal/models"
	pipeline "strategy_orchestrator/internal/modules/pipeline/service"
)

// EMACross пересечение быстрой (минимальный период) и медленной (максимальный) EMA.
// Если период один, сравнивается цена с EMA.
type EMACross struct {
	cycle Cycle
	cfg   models.StrategyConfig
	fast  int
	slow  int
}

var _ models.Strategy = (*EMACross)(nil)

func NewEMACross(cycle Cycle) *EMACross {
	return &EMACross{cycle: cycle}
}

func (s *EMACross) Initialize(_ context.Context, cfg models.StrategyConfig) error {
	if len(cfg.Indicators.EMA) == 0 {
		return fmt.Errorf("%w: ema_cross needs at least one ema period", models.ErrConfig)
	}
	if cfg.Trading.PositionSize <= 0 {
		return fmt.Errorf("%w: ema_cross needs positive position_size", models.ErrConfig)
	}
	if s.cycle != nil {
		if err := s.cycle.Check(cfg); err != nil {
			return err
		}
	}
	s.cfg = cfg
	s.fast = cfg.MinPeriod()
	s.slow = cfg.MaxPeriod()
	return nil
}

func (s *EMACross) Run(ctx context.Context) (models.Details, error) {
	if s.cycle == nil {
		return nil, fmt.Errorf("%w: ema_cross is not initialized", models.ErrExecution)
	}
	return s.cycle.Run(ctx, s.cfg, s)
}

func (s *EMACross) Evaluate(snaps []models.IndicatorSnapshot, cfg models.StrategyConfig, pos *models.Position) pipeline.Decision {
	if len(snaps) == 0 {
		return pipeline.Decision{Reason: "no snapshots"}
	}
	cur := snaps[len(snaps)-1]

	// риск проверяем раньше сигнала
	if d, ok := pipeline.CheckRisk(cfg.Risk, pos, cur.Price); ok {
		return d
	}
	if len(snaps) < 2 {
		return pipeline.Decision{Reason: "need two snapshots to detect a cross"}
	}
	prev := snaps[len(snaps)-2]

	pf, ps := s.lines(prev)
	cf, cs := s.lines(cur)

	switch {
	case pf <= ps && cf > cs:
		if pos != nil {
			return pipeline.Decision{Reason: "bullish cross, position already open"}
		}
		return pipeline.Decision{Side: models.SideBuy, Reason: fmt.Sprintf("bullish cross %s: %.6f > %.6f", s.label(), cf, cs)}
	case pf >= ps && cf < cs:
		if pos == nil {
			return pipeline.Decision{Reason: "bearish cross, no position"}
		}
		return pipeline.Decision{Side: models.SideSell, Reason: fmt.Sprintf("bearish cross %s: %.6f < %.6f", s.label(), cf, cs)}
	}
	return pipeline.Decision{Reason: "no cross"}
}

func (s *EMACross) lines(snap models.IndicatorSnapshot) (fast, slow float64) {
	slow = snap.EMA[s.slow]
	if s.fast == s.slow {
		return snap.Price, slow
	}
	return snap.EMA[s.fast], slow
}

func (s *EMACross) label() string {
	if s.fast == s.slow {
		return fmt.Sprintf("price/ema%d", s.slow)
	}
	return fmt.Sprintf("ema%d/ema%d", s.fast, s.slow)
}
