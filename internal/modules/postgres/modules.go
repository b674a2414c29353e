package postgres

import (
	"context"

	"go.uber.org/fx"

	"strategy_orchestrator/internal/modules/config"
	"strategy_orchestrator/pkg/db"
)

// Module пул создаётся лениво, при первой записи; здесь только конфиг и закрытие.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config) *db.LazyPool {
				pool := db.NewLazyPool(db.PoolConfig{
					DSN: cfg.DB,
				})
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						pool.Close()
						return nil
					},
				})
				return pool
			},
		),
	)
}
