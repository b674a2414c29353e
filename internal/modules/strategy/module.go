package strategy

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/modules/config"
	pipeline "strategy_orchestrator/internal/modules/pipeline/service"
	status "strategy_orchestrator/internal/modules/status/service"
	"strategy_orchestrator/internal/modules/strategy/service"
	"strategy_orchestrator/internal/strategy"
)

func newRegistry(cycle *pipeline.Cycle) *service.Registry {
	r := service.NewRegistry()
	for entry, f := range strategy.Builtin(cycle) {
		r.Register(entry, service.Factory(f))
	}
	return r
}

// Module загружает стратегии на старте: прогрев идёт синхронно внутри OnStart,
// поэтому readiness выставляется только после него.
func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			newRegistry,
			service.NewLoader,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, loader *service.Loader, state *status.State) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					rep, err := loader.Load(ctx, cfg.StrategiesDir)
					if err != nil {
						return err
					}
					if len(rep.Loaded) == 0 {
						log.Warn("[LOAD] no strategies loaded", zap.String("dir", cfg.StrategiesDir))
					}
					state.MarkLoaded(time.Now())
					state.SetReady(true)
					return nil
				},
			})
		}),
	)
}
