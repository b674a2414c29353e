package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("logger",
		fx.Provide(
			func(cfg *config.Config) (*zap.Logger, error) {
				SetServiceName(cfg.Service.Name)
				return New(Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, z *zap.Logger) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					_ = z.Sync()
					return nil
				},
			})
		}),
	)
}
