package strategy

import (
	"context"

	"strategy_orchestrator/internal/models"
	pipeline "strategy_orchestrator/internal/modules/pipeline/service"
)

const EntryEMACross = "ema_cross"

// Cycle общий цикл пайплайна, правило подставляет стратегия.
type Cycle interface {
	Run(ctx context.Context, cfg models.StrategyConfig, rule pipeline.Rule) (models.Details, error)
	Check(cfg models.StrategyConfig) error
}

// Builtin точки входа, которые можно указать в поле entry дескриптора.
func Builtin(cycle Cycle) map[string]func() models.Strategy {
	return map[string]func() models.Strategy{
		EntryEMACross: func() models.Strategy { return NewEMACross(cycle) },
	}
}
