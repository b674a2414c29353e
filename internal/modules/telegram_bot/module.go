package telegram

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/modules/config"
	scheduler "strategy_orchestrator/internal/modules/scheduler/service"
	status "strategy_orchestrator/internal/modules/status/service"
	"strategy_orchestrator/internal/modules/telegram_bot/service"
)

// Module команды в telegram поднимаются только при заданных TELEGRAM_*.
func Module() fx.Option {
	return fx.Module("telegram",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, reporter *status.Reporter, sched *scheduler.Scheduler) {
			cmds, err := service.NewCommands(cfg, log, reporter, sched)
			if errors.Is(err, service.ErrDisabled) {
				log.Info("[TG] commands disabled, no token or chat id")
				return
			}
			if err != nil {
				log.Warn("[TG] commands unavailable", zap.Error(err))
				return
			}
			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					cmds.Start(ctx)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					cmds.Stop()
					return nil
				},
			})
		}),
	)
}
