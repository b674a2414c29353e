package storage

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/modules/config"
	"strategy_orchestrator/internal/modules/storage/service"
	"strategy_orchestrator/pkg/db"
)

func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(
			func(cfg *config.Config, pool *db.LazyPool, log *zap.Logger) service.RunStore {
				if cfg.DB == "" {
					log.Info("db_dsn is empty, run results are kept in memory")
					return service.NewMemoryRunStore()
				}
				return service.NewPgRunStore(pool)
			},
		),
	)
}
